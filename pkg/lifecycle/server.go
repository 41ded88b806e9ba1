// Package lifecycle pkg/lifecycle/server.go runs a long-lived service with
// signal handling and an optional HTTP listener.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	ShutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

var (
	ErrServiceRequired = errors.New("service is required")
	ErrListen          = errors.New("failed to listen")
)

// Service defines the interface that all services must implement. Start
// blocks until its context is cancelled.
type Service interface {
	Start(context.Context) error
	Stop(context.Context) error
}

// ServiceOptions holds configuration for running a service.
type ServiceOptions struct {
	ServiceName string
	Service     Service

	// ListenAddr and Handler enable an HTTP server; both must be set.
	ListenAddr string
	Handler    http.Handler

	ShutdownTimeout time.Duration
	Logger          *zap.Logger

	// Signals defaults to SIGINT and SIGTERM.
	Signals []os.Signal
}

// RunService starts the service and the optional HTTP server and waits for a
// signal, parent context cancellation or a service error. An interrupt is a
// clean shutdown and returns nil.
func RunService(ctx context.Context, opts *ServiceOptions) error {
	if opts.Service == nil {
		return ErrServiceRequired
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Info("Starting service", zap.String("service", opts.ServiceName))

	signals := opts.Signals
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	// Setup signal handling before anything runs
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, signals...)

	defer signal.Stop(sigChan)

	var httpServer *http.Server

	errChan := make(chan error, 2)

	if opts.ListenAddr != "" && opts.Handler != nil {
		listener, err := net.Listen("tcp", opts.ListenAddr)
		if err != nil {
			logger.Error("Failed to listen", zap.String("addr", opts.ListenAddr), zap.Error(err))

			return fmt.Errorf("%w on %s: %w", ErrListen, opts.ListenAddr, err)
		}

		httpServer = &http.Server{
			Handler:           opts.Handler,
			ReadHeaderTimeout: readHeaderTimeout,
		}

		go func() {
			logger.Info("Starting HTTP server", zap.String("addr", listener.Addr().String()))

			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("http server: %w", err)
			}
		}()
	}

	serviceDone := make(chan struct{})

	go func() {
		defer close(serviceDone)

		if err := opts.Service.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	return handleShutdown(ctx, cancel, opts, logger, httpServer, sigChan, serviceDone, errChan)
}

func handleShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	opts *ServiceOptions,
	logger *zap.Logger,
	httpServer *http.Server,
	sigChan <-chan os.Signal,
	serviceDone <-chan struct{},
	errChan <-chan error) error {
	var runErr error

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		logger.Info("Received signal, initiating shutdown", zap.Stringer("signal", sig))
	case err := <-errChan:
		logger.Error("Received error, initiating shutdown", zap.Error(err))
		runErr = fmt.Errorf("service error: %w", err)
	case <-ctx.Done():
		logger.Info("Context canceled, initiating shutdown")
	case <-serviceDone:
		select {
		case err := <-errChan:
			logger.Error("Service failed, initiating shutdown", zap.Error(err))
			runErr = fmt.Errorf("service error: %w", err)
		default:
			logger.Info("Service exited, initiating shutdown")
		}
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = ShutdownTimeout
	}

	// Create timeout context for shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	// Cancel main context
	cancel()

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP server shutdown incomplete", zap.Error(err))
		}
	}

	// Let the current cycle save its partial state before releasing resources.
	select {
	case <-serviceDone:
	case <-shutdownCtx.Done():
		logger.Warn("Service did not stop before shutdown timeout")
	}

	if err := opts.Service.Stop(shutdownCtx); err != nil {
		logger.Error("Error during service shutdown", zap.Error(err))

		return errors.Join(runErr, fmt.Errorf("shutdown error: %w", err))
	}

	logger.Info("Service stopped", zap.String("service", opts.ServiceName))

	return runErr
}
