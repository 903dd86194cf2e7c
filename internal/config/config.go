package config

import "time"

// Frame server
const (
	DefaultMaxSnapshotBytes = 1 << 20 // Largest accepted snapshot, in bytes
	FrameQueueSize          = 64      // Pending frames across all clients
	ClientEventBuffer       = 4
)

// Shutdown
const (
	ShutdownTimeout       = 15 * time.Second // Time given to clients to disconnect
	ListenerShutdownGrace = 5 * time.Second
)

// NATS
const (
	DefaultNATSSubject = "collisions.detect"
	DefaultNATSQueue   = "collisions"
	RequestTimeout     = 2 * time.Second
)
