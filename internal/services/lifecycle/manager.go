package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// ShutdownFunc describes a graceful shutdown callback.
type ShutdownFunc func(ctx context.Context) error

// RunFunc is a long-running component such as the HTTP listener. It should
// return when ctx is cancelled; any other return ends the process.
type RunFunc func(ctx context.Context) error

type hook struct {
	name string
	fn   ShutdownFunc
}

// Manager owns the process lifetime: it starts background components,
// listens for OS signals and runs shutdown hooks in reverse order.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	hooks    []hook
	runErr   error
	wg       sync.WaitGroup
	shutOnce sync.Once
	shutErr  error
}

// New creates a lifecycle manager with the desired shutdown timeout.
func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		timeout: timeout,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Context is cancelled when the process should stop.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// Stop requests shutdown without a signal.
func (m *Manager) Stop() {
	m.cancel()
}

// Register adds a shutdown hook. Hooks are executed in reverse order.
func (m *Manager) Register(name string, fn ShutdownFunc) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook{name: name, fn: fn})
}

// Go runs fn in the background. A failure cancels the manager context so the
// rest of the process winds down too.
func (m *Manager) Go(name string, fn RunFunc) {
	if fn == nil {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		err := fn(m.ctx)
		if err == nil || errors.Is(err, context.Canceled) {
			return
		}
		m.logger.Error("component failed", zap.String("component", name), zap.Error(err))
		m.mu.Lock()
		m.runErr = errors.Join(m.runErr, err)
		m.mu.Unlock()
		m.cancel()
	}()
}

// Wait blocks until the manager context ends, then shuts down. The returned
// error joins component failures with hook failures.
func (m *Manager) Wait() error {
	<-m.ctx.Done()
	err := m.Shutdown(context.Background())

	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.runErr, err)
}

// Shutdown executes all registered hooks once, respecting the configured
// timeout, and waits for components started with Go.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.shutOnce.Do(func() {
		m.shutErr = m.shutdown(ctx)
	})
	return m.shutErr
}

func (m *Manager) shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.cancel()

	m.mu.Lock()
	hooks := append([]hook(nil), m.hooks...)
	m.mu.Unlock()

	var result error
	for i := len(hooks) - 1; i >= 0; i-- {
		h := hooks[i]
		if err := h.fn(ctx); err != nil {
			m.logger.Error("shutdown hook failed", zap.String("component", h.name), zap.Error(err))
			result = errors.Join(result, err)
			continue
		}
		m.logger.Info("component stopped", zap.String("component", h.name))
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		result = errors.Join(result, ctx.Err())
	}
	return result
}

// Listen cancels the manager context on SIGTERM or SIGINT.
func (m *Manager) Listen() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
			m.cancel()
		case <-m.ctx.Done():
		}
	}()
}
