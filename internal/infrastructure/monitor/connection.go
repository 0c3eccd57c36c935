package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger is satisfied by every repository.DocumentStore.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Monitor struct {
	store  Pinger
	driver string

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(store Pinger, driver string, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		store:    store,
		driver:   driver,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	m.refresh()
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Storage
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	status := Status{Driver: m.driver, LastCheck: time.Now()}
	if err := m.checkStorage(); err != nil {
		status.LastError = err.Error()
	} else {
		status.Storage = true
	}

	m.mu.Lock()
	wasOnline := m.status.Storage
	checked := !m.status.LastCheck.IsZero()
	m.status = status
	m.mu.Unlock()

	if checked && wasOnline != status.Storage {
		m.logger.Warn("storage availability changed",
			zap.String("driver", m.driver),
			zap.Bool("online", status.Storage),
			zap.String("error", status.LastError))
	}
}

func (m *Monitor) checkStorage() error {
	if m.store == nil {
		return errNoStore
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return m.store.Ping(ctx)
}
