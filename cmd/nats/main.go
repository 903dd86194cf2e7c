package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"
	"github.com/tomz197/collisions/internal/bus"
	"github.com/tomz197/collisions/internal/config"
	applog "github.com/tomz197/collisions/internal/logging"
	"github.com/tomz197/collisions/internal/server"
)

func main() {
	settings, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	logger, err := applog.New("nats", settings.LogLevel)
	if err != nil {
		log.Fatal("failed to create logger", "err", err)
	}

	nc, err := nats.Connect(settings.NATS.URL,
		nats.Name("collisions"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		logger.Fatal("failed to connect", "url", settings.NATS.URL, "err", err)
	}
	defer nc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, nc, settings, logger); err != nil {
		logger.Error("server error", "err", err)
	}
}

// serve answers collision requests on nc until ctx is cancelled. Shutdown
// drains the responder before stopping the frame server.
func serve(ctx context.Context, nc *nats.Conn, settings config.Settings, logger *log.Logger) error {
	frameServer := server.NewServer(server.Options{
		Logger:           logger.WithPrefix("frames"),
		MaxSnapshotBytes: settings.MaxSnapshotBytes,
	})
	runCtx, cancelServer := context.WithCancel(context.Background())
	defer cancelServer()
	go frameServer.Run(runCtx)

	responder, err := bus.Listen(nc, settings.NATS.Subject, settings.NATS.Queue, frameServer, config.RequestTimeout, logger)
	if err != nil {
		return err
	}
	logger.Info("Answering collision requests", "subject", settings.NATS.Subject, "queue", settings.NATS.Queue)

	<-ctx.Done()
	logger.Info("Shutting down...")

	err = responder.Close()
	frameServer.Shutdown(config.ShutdownTimeout)
	return err
}
