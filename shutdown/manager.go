// Package shutdown coordinates graceful process shutdown: OS signals cancel a
// context, registered cleanup functions then run in priority order, and a
// repeated signal forces the process to exit.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"reportmailer/core"
	"reportmailer/logging"
)

// Manager composes a Registry and a SignalCounter around a cancellable
// context.
//
// Usage:
//
//	manager := NewManager(ctx, logger, WithTimeout(30*time.Second))
//	manager.Register("http server", PriorityServer, server.Shutdown)
//	manager.Start()
//
//	<-manager.Context().Done()
//	err := manager.Shutdown()
type Manager struct {
	logger  *logging.Logger
	timeout time.Duration
	onForce func()

	mu       sync.Mutex
	started  bool
	shutdown bool

	ctx    context.Context
	cancel context.CancelFunc

	registry *Registry
	signals  *SignalCounter
	sigChan  chan os.Signal
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTimeout sets the budget for all cleanup functions together.
// Default is 30 seconds.
func WithTimeout(timeout time.Duration) ManagerOption {
	return func(m *Manager) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

// WithForceFunc replaces the action taken on the second signal. The default
// exits with core.ExitCodeError.
func WithForceFunc(fn func()) ManagerOption {
	return func(m *Manager) {
		m.onForce = fn
	}
}

// NewManager creates a Manager whose context is cancelled by a signal (after
// Start) or when parent is done.
func NewManager(parent context.Context, logger *logging.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)

	m := &Manager{
		logger:   logger.Named("shutdown"),
		timeout:  30 * time.Second,
		ctx:      ctx,
		cancel:   cancel,
		registry: NewRegistry(),
		sigChan:  make(chan os.Signal, 1),
	}
	m.onForce = func() {
		m.logger.Warn("Received second signal, forcing immediate shutdown")
		m.logger.Sync()
		os.Exit(core.ExitCodeError)
	}

	for _, opt := range opts {
		opt(m)
	}

	m.signals = NewSignalCounter(2, func() { m.onForce() })
	return m
}

// Context is cancelled when shutdown begins.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// Register adds a cleanup function. Lower priority values run first.
func (m *Manager) Register(name string, priority int, fn core.ShutdownFunc) {
	m.registry.Register(name, priority, fn)
	m.logger.Debug("Registered shutdown handler",
		zap.String("name", name),
		zap.Int("priority", priority),
	)
}

// Start begins handling SIGINT and SIGTERM. The first signal cancels the
// context; the second calls the force function. Subsequent calls are no-ops.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return
	}
	m.started = true

	signal.Notify(m.sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		for sig := range m.sigChan {
			m.handleSignal(sig)
		}
	}()
}

func (m *Manager) handleSignal(sig os.Signal) {
	if m.signals.Increment() == 1 {
		m.logger.Info("Received shutdown signal, initiating graceful shutdown",
			zap.String("signal", sig.String()),
		)
		m.cancel()
	}
}

// Shutdown cancels the context and runs the registered cleanup functions
// within the timeout. It is idempotent; later calls return nil.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return nil
	}
	m.shutdown = true
	started := m.started
	m.mu.Unlock()

	m.cancel()
	start := time.Now()
	m.logger.Info("Executing cleanup functions",
		zap.Strings("handlers", m.registry.Names()),
		zap.Duration("timeout", m.timeout),
	)

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	err := m.registry.Run(ctx)

	if started {
		signal.Stop(m.sigChan)
		close(m.sigChan)
	}

	if err != nil {
		m.logger.Error("Shutdown completed with errors",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
	m.logger.Info("Graceful shutdown completed", zap.Duration("duration", time.Since(start)))
	return nil
}
