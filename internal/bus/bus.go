// Package bus answers collision requests over NATS request/reply.
package bus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"
	"github.com/tomz197/collisions/internal/server"
)

// ErrorHeader carries the failure message on an error reply.
const ErrorHeader = "Collisions-Error"

// ErrRemote wraps failures reported by the responder.
var ErrRemote = errors.New("collision request failed")

// Responder serves frame requests from a NATS subject.
type Responder struct {
	srv      server.FrameServer
	clientID int
	sub      *nats.Subscription
	timeout  time.Duration
	logger   *log.Logger
}

// Listen queue-subscribes to subject and answers each request with the
// encoded collision events of its snapshot. Responders sharing a queue
// group split the load.
func Listen(nc *nats.Conn, subject, queue string, srv server.FrameServer, timeout time.Duration, logger *log.Logger) (*Responder, error) {
	r := &Responder{
		srv:      srv,
		clientID: srv.RegisterClient("nats:" + subject).ID,
		timeout:  timeout,
		logger:   logger,
	}

	sub, err := nc.QueueSubscribe(subject, queue, r.handle)
	if err != nil {
		srv.UnregisterClient(r.clientID)
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	r.sub = sub
	return r, nil
}

// Close drains the subscription and unregisters from the server.
func (r *Responder) Close() error {
	err := r.sub.Drain()
	r.srv.UnregisterClient(r.clientID)
	return err
}

func (r *Responder) handle(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	reply := nats.NewMsg(msg.Reply)
	out, err := r.srv.Detect(ctx, r.clientID, msg.Data)
	if err != nil {
		reply.Header.Set(ErrorHeader, err.Error())
	} else {
		reply.Data = out
	}

	if err := msg.RespondMsg(reply); err != nil {
		r.logger.Warn("reply failed", "subject", msg.Subject, "err", err)
	}
}

// Request sends a snapshot to a responder and returns the encoded events.
func Request(nc *nats.Conn, subject string, snapshot []byte, timeout time.Duration) ([]byte, error) {
	msg, err := nc.Request(subject, snapshot, timeout)
	if err != nil {
		return nil, err
	}
	if reason := msg.Header.Get(ErrorHeader); reason != "" {
		return nil, fmt.Errorf("%w: %s", ErrRemote, reason)
	}
	return msg.Data, nil
}
