package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings configures the front ends. The detector itself takes no
// configuration.
type Settings struct {
	LogLevel         string       `yaml:"log_level"`
	MaxSnapshotBytes int          `yaml:"max_snapshot_bytes"`
	SSH              SSHSettings  `yaml:"ssh"`
	Web              WebSettings  `yaml:"web"`
	NATS             NATSSettings `yaml:"nats"`
}

type SSHSettings struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	HostKeyPath string `yaml:"host_key"`
}

type WebSettings struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type NATSSettings struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
	Queue   string `yaml:"queue"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		LogLevel:         "info",
		MaxSnapshotBytes: DefaultMaxSnapshotBytes,
		SSH: SSHSettings{
			Host:        "::",
			Port:        "2222",
			HostKeyPath: "/app/keys/host_key",
		},
		Web: WebSettings{
			Host: "0.0.0.0",
			Port: "8080",
		},
		NATS: NATSSettings{
			URL:     "nats://127.0.0.1:4222",
			Subject: DefaultNATSSubject,
			Queue:   DefaultNATSQueue,
		},
	}
}

// Load reads settings from the YAML file at path on top of Default, then
// applies environment overrides. An empty path skips the file.
func Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := s.applyEnv(); err != nil {
		return Settings{}, err
	}
	if s.MaxSnapshotBytes <= 0 {
		return Settings{}, fmt.Errorf("max_snapshot_bytes must be positive, got %d", s.MaxSnapshotBytes)
	}
	return s, nil
}

// LoadFromEnv loads the file named by COLLISIONS_CONFIG, if any.
func LoadFromEnv() (Settings, error) {
	return Load(GetEnv("COLLISIONS_CONFIG", ""))
}

func (s *Settings) applyEnv() error {
	s.LogLevel = GetEnv("LOG_LEVEL", s.LogLevel)
	s.SSH.Host = GetEnv("SSH_HOST", s.SSH.Host)
	s.SSH.Port = GetEnv("SSH_PORT", s.SSH.Port)
	s.SSH.HostKeyPath = GetEnv("SSH_HOST_KEY", s.SSH.HostKeyPath)
	s.Web.Host = GetEnv("WEB_HOST", s.Web.Host)
	s.Web.Port = GetEnv("WEB_PORT", s.Web.Port)
	s.NATS.URL = GetEnv("NATS_URL", s.NATS.URL)
	s.NATS.Subject = GetEnv("NATS_SUBJECT", s.NATS.Subject)
	s.NATS.Queue = GetEnv("NATS_QUEUE", s.NATS.Queue)

	n, err := GetEnvInt("MAX_SNAPSHOT_BYTES", s.MaxSnapshotBytes)
	if err != nil {
		return err
	}
	s.MaxSnapshotBytes = n
	return nil
}
