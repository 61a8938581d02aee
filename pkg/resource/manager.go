// pkg/resource/manager.go
package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-spacebarge/pkg/logging"
)

// Options configures a Manager.
type Options struct {
	MaxGoroutines   int
	ShutdownTimeout time.Duration
	Logger          *logging.Logger
}

// Manager runs the long-lived goroutines of a process, such as the
// simulation loop and the probe server. The first goroutine to fail cancels
// the others.
type Manager struct {
	maxGoroutines   int64
	shutdownTimeout time.Duration
	logger          *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	running int64

	mu  sync.Mutex
	err error
}

// NewManager creates a manager whose goroutines stop when parent is done.
func NewManager(parent context.Context, opts Options) *Manager {
	if opts.MaxGoroutines <= 0 {
		opts.MaxGoroutines = 16
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	ctx, cancel := context.WithCancel(parent)
	return &Manager{
		maxGoroutines:   int64(opts.MaxGoroutines),
		shutdownTimeout: opts.ShutdownTimeout,
		logger:          opts.Logger,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Go starts fn on its own goroutine. A returned error or a panic, other than
// cancellation, is recorded and stops every other goroutine.
func (m *Manager) Go(name string, fn func(ctx context.Context) error) error {
	if current := atomic.LoadInt64(&m.running); current >= m.maxGoroutines {
		m.logger.Warn(m.ctx, "Goroutine limit exceeded", "current", current, "limit", m.maxGoroutines, "name", name)
		return fmt.Errorf("goroutine limit exceeded: %d/%d", current, m.maxGoroutines)
	}

	atomic.AddInt64(&m.running, 1)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer atomic.AddInt64(&m.running, -1)

		err := m.run(name, fn)
		if err == nil || errors.Is(err, context.Canceled) {
			m.logger.Debug(m.ctx, "Goroutine finished", "name", name)
			return
		}
		m.logger.Error(m.ctx, "Goroutine failed", err, "name", name)
		m.fail(fmt.Errorf("%s: %w", name, err))
	}()
	return nil
}

func (m *Manager) run(name string, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(m.ctx)
}

func (m *Manager) fail(err error) {
	m.mu.Lock()
	if m.err == nil {
		m.err = err
	}
	m.mu.Unlock()
	m.cancel()
}

// Done is closed once the parent context ends or a goroutine fails.
func (m *Manager) Done() <-chan struct{} {
	return m.ctx.Done()
}

// Err returns the first goroutine failure, if any.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Running returns the number of goroutines still running.
func (m *Manager) Running() int64 {
	return atomic.LoadInt64(&m.running)
}

// Limit returns the goroutine limit.
func (m *Manager) Limit() int64 {
	return m.maxGoroutines
}

// Shutdown cancels every goroutine and waits for them up to the shutdown
// timeout.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	timeout, cancel := context.WithTimeout(ctx, m.shutdownTimeout)
	defer cancel()

	select {
	case <-done:
		m.logger.Info(ctx, "All goroutines finished")
		return m.Err()
	case <-timeout.Done():
		remaining := m.Running()
		m.logger.Warn(ctx, "Shutdown timeout exceeded with goroutines still running", "remaining", remaining)
		return fmt.Errorf("shutdown timeout: %d goroutines still running", remaining)
	}
}
