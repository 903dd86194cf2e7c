// Package server runs collision detection for many clients, one frame at a time.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/collisions/internal/collision"
	"github.com/tomz197/collisions/internal/config"
	"github.com/tomz197/collisions/internal/wire"
)

var (
	ErrServerClosed     = errors.New("server closed")
	ErrUnknownClient    = errors.New("unknown client")
	ErrSnapshotTooLarge = wire.ErrSnapshotTooLarge
)

// FrameServer is the interface front ends use to submit frames.
// Decouples the transports from the concrete Server implementation.
type FrameServer interface {
	RegisterClient(name string) *ClientHandle
	UnregisterClient(clientID int)
	Detect(ctx context.Context, clientID int, payload []byte) ([]byte, error)
	GetStats() *Stats
}

// Compile-time check that Server implements FrameServer.
var _ FrameServer = (*Server)(nil)

// Options configures a Server.
type Options struct {
	Logger           *log.Logger
	MaxSnapshotBytes int // <= 0 means config.DefaultMaxSnapshotBytes
}

// Server owns the frame queue. Frames from all clients are processed
// sequentially by Run.
type Server struct {
	logger           *log.Logger
	maxSnapshotBytes int

	frameCh chan frameRequest
	done    chan struct{}
	closed  atomic.Bool

	clients      map[int]*ClientHandle
	nextClientID int
	mu           sync.RWMutex

	tally tally // Only touched by the Run goroutine
	stats atomic.Pointer[Stats]
}

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Name     string
	EventsCh chan ClientEvent // Events sent to client (shutdown)

	frames uint64
	events uint64
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

type frameRequest struct {
	clientID int
	payload  []byte
	reply    chan frameResult
}

type frameResult struct {
	payload []byte
	err     error
}

// NewServer creates a new frame server. Call Run to start processing.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	maxBytes := opts.MaxSnapshotBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxSnapshotBytes
	}

	s := &Server{
		logger:           logger,
		maxSnapshotBytes: maxBytes,
		frameCh:          make(chan frameRequest, config.FrameQueueSize),
		done:             make(chan struct{}),
		clients:          make(map[int]*ClientHandle),
		nextClientID:     1,
	}
	s.stats.Store(&Stats{})
	return s
}

// Run processes frames until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case req := <-s.frameCh:
			req.reply <- s.processFrame(req)
		}
	}
}

// Shutdown stops accepting frames, notifies all connected clients and waits
// for them to disconnect (up to the given timeout).
// The caller should cancel the Run context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.closed.Store(true)

	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		s.mu.RLock()
		remaining := len(s.clients)
		s.mu.RUnlock()
		if remaining == 0 {
			return
		}

		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "clients", remaining)
			return
		case <-ticker.C:
		}
	}
}

// RegisterClient registers a new client with the given name and returns its handle.
func (s *Server) RegisterClient(name string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &ClientHandle{
		ID:       s.nextClientID,
		Name:     name,
		EventsCh: make(chan ClientEvent, config.ClientEventBuffer),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle

	s.logger.Debug("client registered", "id", handle.ID, "name", name)
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(s.clients, clientID)

	s.logger.Debug("client unregistered", "id", clientID, "name", handle.Name,
		"frames", handle.frames, "events", handle.events)
}

// Detect queues a JSON snapshot for the client and waits for the encoded
// collision events. Snapshot errors match wire.ErrDecode.
func (s *Server) Detect(ctx context.Context, clientID int, payload []byte) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrServerClosed
	}
	if len(payload) > s.maxSnapshotBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrSnapshotTooLarge, len(payload), s.maxSnapshotBytes)
	}

	req := frameRequest{
		clientID: clientID,
		payload:  payload,
		reply:    make(chan frameResult, 1),
	}

	select {
	case s.frameCh <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrServerClosed
	}

	select {
	case res := <-req.reply:
		return res.payload, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrServerClosed
	}
}

// GetStats returns the latest statistics snapshot.
func (s *Server) GetStats() *Stats {
	return s.stats.Load()
}

// processFrame runs one frame through decode, detection and encode.
func (s *Server) processFrame(req frameRequest) frameResult {
	s.mu.RLock()
	handle, ok := s.clients[req.clientID]
	s.mu.RUnlock()
	if !ok {
		return frameResult{err: fmt.Errorf("%w: %d", ErrUnknownClient, req.clientID)}
	}

	state, err := wire.Decode(req.payload)
	if err != nil {
		s.tally.Rejected++
		s.publishStats()
		s.logger.Debug("rejected snapshot", "client", req.clientID, "err", err)
		return frameResult{err: err}
	}

	events := collision.Detect(state)
	out, err := wire.Encode(events)
	if err != nil {
		s.tally.Rejected++
		s.publishStats()
		s.logger.Error("encode failed", "client", req.clientID, "err", err)
		return frameResult{err: err}
	}

	if n := collision.Dispatch(events, &s.tally); n > 0 {
		s.logger.Warn("unexpected category pairs", "count", n)
	}
	s.tally.Frames++

	s.mu.Lock()
	handle.frames++
	handle.events += uint64(len(events))
	s.mu.Unlock()

	s.publishStats()
	return frameResult{payload: out}
}

func (s *Server) publishStats() {
	s.mu.RLock()
	clients := len(s.clients)
	s.mu.RUnlock()

	stats := s.tally.Stats
	stats.Clients = clients
	s.stats.Store(&stats)
}
