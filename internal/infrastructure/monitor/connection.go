package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger is anything that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor periodically pings the task backend and the credential store.
type Monitor struct {
	backend       Pinger
	storage       Pinger
	storageDriver string

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(backend, storage Pinger, storageDriver string, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		backend:       backend,
		storage:       storage,
		storageDriver: storageDriver,
		interval:      interval,
		timeout:       3 * time.Second,
		stopCh:        make(chan struct{}),
		logger:        logger.Named("monitor"),
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Backend && m.status.Storage
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Check pings both dependencies now and records the result.
func (m *Monitor) Check(ctx context.Context) Status {
	status := Status{
		Backend:       m.ping(ctx, "backend", m.backend),
		Storage:       m.ping(ctx, "storage", m.storage),
		StorageDriver: m.storageDriver,
		LastCheck:     time.Now(),
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
	return status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(context.Background())
	for {
		select {
		case <-ticker.C:
			m.Check(context.Background())
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) ping(ctx context.Context, name string, p Pinger) bool {
	if p == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		m.logger.Warn("dependency unreachable", zap.String("dependency", name), zap.Error(err))
		return false
	}
	return true
}
