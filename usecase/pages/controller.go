package pages

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	appLogger "github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/usecase/calendar"
	"github.com/fastygo/taskboard/usecase/taskform"
)

// SessionReader exposes the current session without allowing changes.
type SessionReader interface {
	Snapshot() domain.Session
}

type Options struct {
	Session SessionReader
	Tasks   repository.TaskRepository
	Users   repository.UserRepository
	// MaxAge is how long a fetched task list serves views before being
	// refetched. Zero refetches on every view.
	MaxAge time.Duration

	Now      func() time.Time
	Notifier taskform.Notifier
	Logger   *zap.Logger
}

// Controller serves every page from one shared task collection.
type Controller struct {
	session  SessionReader
	tasks    repository.TaskRepository
	users    repository.UserRepository
	notifier taskform.Notifier
	logger   *zap.Logger
	now      func() time.Time
	maxAge   time.Duration

	collection *Collection
	builder    *calendar.Builder

	ownerMu sync.Mutex
	owner   owner
}

// owner identifies whose tasks the collection holds.
type owner struct {
	userID string
	token  string
}

func ownerOf(state domain.Session) owner {
	if !state.IsAuthenticated || state.User == nil {
		return owner{}
	}
	return owner{userID: state.User.ID, token: state.Token}
}

func NewController(opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	collection := NewCollection(opts.Tasks, opts.Logger)
	collection.now = opts.Now

	return &Controller{
		session:    opts.Session,
		tasks:      opts.Tasks,
		users:      opts.Users,
		notifier:   opts.Notifier,
		logger:     opts.Logger.Named("pages"),
		now:        opts.Now,
		maxAge:     opts.MaxAge,
		collection: collection,
		builder:    calendar.NewBuilder(opts.Now),
	}
}

// Collection exposes the shared task cache to background refreshers.
func (c *Controller) Collection() *Collection {
	return c.collection
}

// Refresh refetches tasks if the session is authenticated.
func (c *Controller) Refresh(ctx context.Context) error {
	if _, err := c.authenticated(); err != nil {
		return err
	}
	return c.collection.Refresh(ctx)
}

// SessionChanged drops the cached tasks when the logged-in user or their
// credential changes. It can be registered as a session listener.
func (c *Controller) SessionChanged(state domain.Session) {
	next := ownerOf(state)

	c.ownerMu.Lock()
	changed := next != c.owner
	c.owner = next
	c.ownerMu.Unlock()

	if changed {
		c.logger.Debug("session changed, dropping cached tasks")
		c.collection.Reset()
	}
}

func (c *Controller) Dashboard(ctx context.Context) (Dashboard, error) {
	state, err := c.authenticated()
	if err != nil {
		return Dashboard{}, err
	}
	c.ensureFresh(ctx)
	return BuildDashboard(state.User, c.collection.Tasks(), c.now()), nil
}

type CalendarView struct {
	Month     string                `json:"month"`
	Prev      string                `json:"prev"`
	Next      string                `json:"next"`
	Today     string                `json:"today"`
	Days      []calendar.DayPreview `json:"days"`
	CanCreate bool                  `json:"canCreate"`
}

// Calendar builds the month containing ref with per-day previews.
func (c *Controller) Calendar(ctx context.Context, ref time.Time) (CalendarView, error) {
	state, err := c.authenticated()
	if err != nil {
		return CalendarView{}, err
	}
	c.ensureFresh(ctx)

	now := c.now()
	days := c.builder.Build(ref, c.collection.Tasks())
	return CalendarView{
		Month:     ref.Format(calendar.MonthLayout),
		Prev:      calendar.PrevMonth(ref).Format(calendar.MonthLayout),
		Next:      calendar.NextMonth(ref).Format(calendar.MonthLayout),
		Today:     now.Format(calendar.MonthLayout),
		Days:      calendar.Preview(days, calendar.DefaultPreviewLimit, state.Role(), now),
		CanCreate: state.IsManager(),
	}, nil
}

type DayView struct {
	Day        domain.CalendarDay `json:"day"`
	CanAddTask bool               `json:"canAddTask"`
}

// Day lists every task on date without truncation.
func (c *Controller) Day(ctx context.Context, date time.Time) (DayView, error) {
	state, err := c.authenticated()
	if err != nil {
		return DayView{}, err
	}
	c.ensureFresh(ctx)
	return DayView{
		Day:        c.builder.Day(date, c.collection.Tasks()),
		CanAddTask: calendar.CanAddTask(state.Role(), date, c.now()),
	}, nil
}

func (c *Controller) Tasks(ctx context.Context, filter Filter) (TasksView, error) {
	state, err := c.authenticated()
	if err != nil {
		return TasksView{}, err
	}
	c.ensureFresh(ctx)
	return TasksView{
		Filter:    filter,
		Tasks:     filter.Apply(c.collection.Tasks()),
		CanCreate: state.IsManager(),
	}, nil
}

// Employees is the manager roster. Employees and tasks are fetched
// concurrently; a failed fetch leaves that side empty.
func (c *Controller) Employees(ctx context.Context) ([]EmployeeSummary, error) {
	state, err := c.authenticated()
	if err != nil {
		return nil, err
	}
	if !state.IsManager() {
		return nil, domain.ErrForbidden
	}

	var (
		wg        sync.WaitGroup
		employees []domain.User
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		list, err := c.users.GetEmployees(ctx, repository.UserFilter{})
		if err != nil {
			appLogger.WithRequestID(ctx, c.logger).Warn("load employees", zap.Error(err))
			return
		}
		employees = list
	}()
	go func() {
		defer wg.Done()
		_ = c.collection.Refresh(ctx)
	}()
	wg.Wait()

	return BuildRoster(employees, c.collection.Tasks()), nil
}

// Managers lists managers for the registration form; it needs no session.
func (c *Controller) Managers(ctx context.Context) []domain.User {
	managers, err := c.users.GetManagers(ctx)
	if err != nil {
		appLogger.WithRequestID(ctx, c.logger).Warn("load managers", zap.Error(err))
		return []domain.User{}
	}
	return managers
}

// NewTaskForm opens a create form seeded with date.
func (c *Controller) NewTaskForm(date time.Time) (*taskform.Form, error) {
	state, err := c.authenticated()
	if err != nil {
		return nil, err
	}
	return taskform.New(c.formOptions(state, nil, date)), nil
}

// EditTaskForm opens an edit form for a task in the current list.
func (c *Controller) EditTaskForm(ctx context.Context, id string) (*taskform.Form, error) {
	state, err := c.authenticated()
	if err != nil {
		return nil, err
	}
	task, ok := c.collection.Find(id)
	if !ok {
		c.ensureFresh(ctx)
		if task, ok = c.collection.Find(id); !ok {
			return nil, domain.NewError(domain.ErrCodeNotFound, "task not found")
		}
	}
	return taskform.New(c.formOptions(state, &task, time.Time{})), nil
}

// UpdateStatus changes only the status of a task, then refreshes.
func (c *Controller) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error) {
	if _, err := c.authenticated(); err != nil {
		return nil, err
	}
	task, err := c.tasks.UpdateStatus(ctx, id, status)
	if err != nil {
		appLogger.WithRequestID(ctx, c.logger).Error("update status", zap.String("task_id", id), zap.Error(err))
		c.notify(false, "Failed to update status")
		return nil, domain.WrapError(domain.CodeOf(err), "Failed to update status", err)
	}
	c.notify(true, "Status updated successfully")
	_ = c.collection.Refresh(ctx)
	return task, nil
}

// Settle applies a form outcome: the collection is refetched when asked.
func (c *Controller) Settle(ctx context.Context, outcome taskform.Outcome) {
	if outcome.Refresh {
		_ = c.collection.Refresh(ctx)
	}
}

func (c *Controller) authenticated() (domain.Session, error) {
	state := c.session.Snapshot()
	c.SessionChanged(state)
	if !state.IsAuthenticated {
		return state, domain.ErrNotAuthenticated
	}
	return state, nil
}

func (c *Controller) ensureFresh(ctx context.Context) {
	updated := c.collection.UpdatedAt()
	if c.maxAge > 0 && !updated.IsZero() && c.now().Sub(updated) < c.maxAge {
		return
	}
	_ = c.collection.Refresh(ctx)
}

func (c *Controller) formOptions(state domain.Session, existing *domain.Task, date time.Time) taskform.Options {
	return taskform.Options{
		Role:       state.Role(),
		Existing:   existing,
		TargetDate: date,
		Now:        c.now,
		Writer:     c.tasks,
		Directory:  c.users,
		Notifier:   c.notifier,
		Logger:     c.logger,
	}
}

func (c *Controller) notify(ok bool, message string) {
	if c.notifier == nil {
		return
	}
	if ok {
		c.notifier.Success(message)
		return
	}
	c.notifier.Failure(message)
}
