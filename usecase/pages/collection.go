// Package pages derives the dashboard, calendar, task list and roster views
// from data fetched through the task and user repositories.
package pages

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	appLogger "github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/repository"
)

// TaskSource is the read side of the task repository.
type TaskSource interface {
	GetTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error)
}

// Collection is the client's cache of the task list. Refreshes may overlap;
// each is numbered when issued and a response is applied only if nothing
// issued later has been applied already.
type Collection struct {
	source TaskSource
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	tasks     []domain.Task
	issued    uint64
	applied   uint64
	updatedAt time.Time
}

func NewCollection(source TaskSource, logger *zap.Logger) *Collection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection{
		source: source,
		logger: logger.Named("tasks"),
		now:    time.Now,
	}
}

// Refresh refetches the full list. On failure the current contents are
// kept and the error is logged and returned.
func (c *Collection) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	gen := c.issued
	c.mu.Unlock()

	tasks, err := c.source.GetTasks(ctx, repository.TaskFilter{})
	if err != nil {
		appLogger.WithRequestID(ctx, c.logger).Warn("refresh tasks", zap.Uint64("generation", gen), zap.Error(err))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen <= c.applied {
		c.logger.Debug("discarding stale task list", zap.Uint64("generation", gen), zap.Uint64("applied", c.applied))
		return nil
	}
	c.tasks = tasks
	c.applied = gen
	c.updatedAt = c.now()
	return nil
}

// Tasks returns a copy of the cached list in backend order.
func (c *Collection) Tasks() []domain.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Task(nil), c.tasks...)
}

// Find looks a task up by id in the cached list.
func (c *Collection) Find(id string) (domain.Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

// UpdatedAt is the time of the last applied refresh, zero before the first.
func (c *Collection) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

// Reset drops the cached list, e.g. after logout.
func (c *Collection) Reset() {
	c.mu.Lock()
	c.tasks = nil
	c.applied = c.issued
	c.updatedAt = time.Time{}
	c.mu.Unlock()
}
