package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/tomz197/collisions/internal/config"
	"github.com/tomz197/collisions/internal/httpapi"
	applog "github.com/tomz197/collisions/internal/logging"
	"github.com/tomz197/collisions/internal/server"
)

func main() {
	settings, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}
	logger, err := applog.New("web", settings.LogLevel)
	if err != nil {
		log.Fatal("failed to create logger", "err", err)
	}

	addr := net.JoinHostPort(settings.Web.Host, settings.Web.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal("failed to listen", "addr", addr, "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting web server", "addr", "http://"+ln.Addr().String())
	if err := serve(ctx, ln, settings, logger); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// serve runs the HTTP front end on ln until ctx is cancelled. Shutdown
// stops the listener first, then the handler's client, then the frame server.
func serve(ctx context.Context, ln net.Listener, settings config.Settings, logger *log.Logger) error {
	frameServer := server.NewServer(server.Options{
		Logger:           logger.WithPrefix("frames"),
		MaxSnapshotBytes: settings.MaxSnapshotBytes,
	})
	runCtx, cancelServer := context.WithCancel(context.Background())
	defer cancelServer()
	go frameServer.Run(runCtx)

	handler := httpapi.NewHandler(frameServer, settings.MaxSnapshotBytes, logger)
	srv := &http.Server{Handler: handler}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		handler.Close()
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ListenerShutdownGrace)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)

	handler.Close()
	frameServer.Shutdown(config.ShutdownTimeout)
	return err
}
