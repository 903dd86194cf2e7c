package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/logging"
	"github.com/tidwall/sjson"
	"github.com/tomz197/collisions/internal/config"
	applog "github.com/tomz197/collisions/internal/logging"
	"github.com/tomz197/collisions/internal/server"
	"github.com/tomz197/collisions/internal/wire"
)

func main() {
	settings, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	logger, err := applog.New("ssh", settings.LogLevel)
	if err != nil {
		log.Fatal("failed to create logger", "err", err)
	}
	logger.Info("SSH config", "host", settings.SSH.Host, "port", settings.SSH.Port,
		"hostKeyPath", settings.SSH.HostKeyPath, "maxSnapshotBytes", settings.MaxSnapshotBytes)

	// Shared frame server for all sessions
	frameServer := server.NewServer(server.Options{
		Logger:           logger.WithPrefix("frames"),
		MaxSnapshotBytes: settings.MaxSnapshotBytes,
	})
	ctx, cancelServer := context.WithCancel(context.Background())
	go frameServer.Run(ctx)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(settings.SSH.Host, settings.SSH.Port)),
		wish.WithMiddleware(
			frameMiddleware(frameServer, settings.MaxSnapshotBytes, logger),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY; every frame is a small request/response round trip
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if settings.SSH.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(settings.SSH.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", s.Addr)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	frameServer.Shutdown(config.ShutdownTimeout)
	cancelServer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ListenerShutdownGrace)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// frameMiddleware streams newline-delimited snapshots from the session and
// writes one line of events (or an error object) per snapshot.
func frameMiddleware(srv server.FrameServer, maxBytes int, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			handle := srv.RegisterClient(sess.User())
			defer srv.UnregisterClient(handle.ID)

			if serveFrames(sess.Context(), sess, sess, srv, handle, maxBytes, logger) {
				_ = sess.Exit(0)
				return
			}
			next(sess)
		}
	}
}

// serveFrames answers each snapshot read from r until EOF. It reports
// whether it stopped because the server is shutting down.
func serveFrames(ctx context.Context, r io.Reader, w io.Writer, srv server.FrameServer, handle *server.ClientHandle, maxBytes int, logger *log.Logger) (shutdown bool) {
	frames := make(chan frame)
	go readFrames(ctx, r, maxBytes, frames)

	bw := bufio.NewWriter(w)
	for {
		select {
		case ev, ok := <-handle.EventsCh:
			if !ok {
				return false
			}
			if ev.Type == server.EventServerShutdown {
				_ = writeLine(bw, errorLine("server shutting down"))
				return true
			}
		case f, ok := <-frames:
			if !ok {
				return false
			}
			out, err := f.data, f.err
			if err == nil {
				out, err = srv.Detect(ctx, handle.ID, f.data)
			}
			if err != nil {
				out = errorLine(err.Error())
			}
			if err := writeLine(bw, out); err != nil {
				logger.Debug("write failed", "client", handle.Name, "err", err)
				return false
			}
		case <-ctx.Done():
			return false
		}
	}
}

// frame is one snapshot line, or the reason it could not be read.
type frame struct {
	data []byte
	err  error
}

// readFrames sends every snapshot line to frames. Oversize lines are sent
// as errors and reading continues; any other read error is sent last.
func readFrames(ctx context.Context, r io.Reader, maxBytes int, frames chan<- frame) {
	defer close(frames)

	fr := wire.NewFrameReader(r, maxBytes)
	for {
		line, err := fr.Next()
		if errors.Is(err, io.EOF) {
			return
		}

		select {
		case frames <- frame{data: line, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil && !errors.Is(err, wire.ErrSnapshotTooLarge) {
			return
		}
	}
}

func errorLine(msg string) []byte {
	out, _ := sjson.SetBytes([]byte("{}"), "error", msg)
	return out
}

func writeLine(w *bufio.Writer, line []byte) error {
	w.Write(line)
	w.WriteByte('\n')
	return w.Flush()
}
