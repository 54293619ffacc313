// Package taskform drives the create/edit/delete flow for a single task.
//
// Role gating here is a display hint. The backend is the authority on who
// may change what; nothing in this package should be read as enforcement.
package taskform

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	appLogger "github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/repository"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Field names match the backend payload keys.
type Field string

const (
	FieldTaskName    Field = "taskName"
	FieldDescription Field = "description"
	FieldAssignedTo  Field = "assignedTo"
	FieldDate        Field = "date"
	FieldStatus      Field = "status"
	FieldPriority    Field = "priority"
)

// Fields lists every recognised field in display order.
var Fields = []Field{FieldTaskName, FieldDescription, FieldAssignedTo, FieldDate, FieldStatus, FieldPriority}

const (
	MsgTaskNameEmpty    = "Taskname cannot be empty!"
	MsgDescriptionEmpty = "Description cannot be empty!"
	MsgAssigneeEmpty    = "Please select an employee"
	MsgDateInvalid      = "Date must be a valid YYYY-MM-DD date"
	MsgDateInPast       = "Date cannot be in the past"
	MsgCreated          = "Task created successfully"
	MsgUpdated          = "Task updated successfully"
	MsgSaveFailed       = "Failed to save task"
	MsgDeleted          = "Task deleted successfully"
	MsgDeleteFailed     = "Failed to delete task"
	DeletePrompt        = "Are you sure you want to delete this task?"
)

// Values is the raw form state as the user sees it.
type Values struct {
	TaskName    string          `json:"taskName"`
	Description string          `json:"description"`
	AssignedTo  string          `json:"assignedTo"`
	Date        string          `json:"date"`
	Status      domain.Status   `json:"status"`
	Priority    domain.Priority `json:"priority"`
}

// Writer is the subset of the task repository the form writes through.
type Writer interface {
	CreateTask(ctx context.Context, input domain.TaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, input domain.TaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Directory lists assignable employees for managers.
type Directory interface {
	GetEmployees(ctx context.Context, filter repository.UserFilter) ([]domain.User, error)
}

// Notifier surfaces user-visible outcome messages.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Outcome tells the caller what to do after a write.
type Outcome struct {
	Close   bool
	Refresh bool
	Task    *domain.Task
	Message string
}

type Options struct {
	Role     domain.Role
	Existing *domain.Task
	// TargetDate seeds the date field in create mode.
	TargetDate time.Time

	Now       func() time.Time
	Writer    Writer
	Directory Directory
	Notifier  Notifier
	Logger    *zap.Logger
}

// Form is a single open task form. It is safe for concurrent use; a second
// Submit or Delete while one is in flight is rejected.
type Form struct {
	mode     Mode
	role     domain.Role
	existing *domain.Task
	now      func() time.Time

	writer    Writer
	directory Directory
	notifier  Notifier
	logger    *zap.Logger

	mu       sync.Mutex
	values   Values
	inFlight bool
}

func New(opts Options) *Form {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	f := &Form{
		mode:      ModeCreate,
		role:      opts.Role,
		now:       opts.Now,
		writer:    opts.Writer,
		directory: opts.Directory,
		notifier:  opts.Notifier,
		logger:    opts.Logger.Named("taskform"),
	}

	if opts.Existing != nil {
		existing := *opts.Existing
		f.mode = ModeEdit
		f.existing = &existing
		f.values = Values{
			TaskName:    existing.TaskName,
			Description: existing.Description,
			AssignedTo:  existing.AssignedTo.ID,
			Date:        existing.Date.Format(domain.DateLayout),
			Status:      existing.Status,
			Priority:    existing.Priority,
		}
		return f
	}

	target := opts.TargetDate
	if target.IsZero() {
		target = f.now()
	}
	f.values = Values{
		Date:     target.Format(domain.DateLayout),
		Status:   domain.StatusPending,
		Priority: domain.PriorityMedium,
	}
	return f
}

func (f *Form) Mode() Mode { return f.mode }

func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// Editable reports whether the acting role may change field. Employees may
// only change status.
func (f *Form) Editable(field Field) bool {
	if f.role == domain.RoleManager {
		return true
	}
	return field == FieldStatus
}

func (f *Form) ReadOnlyFields() []Field {
	var out []Field
	for _, field := range Fields {
		if !f.Editable(field) {
			out = append(out, field)
		}
	}
	return out
}

// CanDelete is true for managers editing an existing task.
func (f *Form) CanDelete() bool {
	return f.mode == ModeEdit && f.role == domain.RoleManager
}

// MinDate is the earliest date a manager may pick: today.
func (f *Form) MinDate() time.Time {
	return domain.StartOfDay(f.now())
}

// Set updates one field as the user types. Leading whitespace is dropped
// from taskName and description immediately; trailing whitespace stays
// until submission.
func (f *Form) Set(field Field, value string) error {
	if !f.Editable(field) {
		return domain.ErrFieldReadOnly
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldTaskName:
		f.values.TaskName = strings.TrimLeft(value, " \t\r\n")
	case FieldDescription:
		f.values.Description = strings.TrimLeft(value, " \t\r\n")
	case FieldAssignedTo:
		f.values.AssignedTo = strings.TrimSpace(value)
	case FieldDate:
		f.values.Date = strings.TrimSpace(value)
	case FieldStatus:
		status, err := domain.ParseStatus(value)
		if err != nil {
			return &domain.ValidationError{Field: string(field), Message: err.Error()}
		}
		f.values.Status = status
	case FieldPriority:
		priority, err := domain.ParsePriority(value)
		if err != nil {
			return &domain.ValidationError{Field: string(field), Message: err.Error()}
		}
		f.values.Priority = priority
	default:
		return &domain.ValidationError{Field: string(field), Message: "unknown field"}
	}
	return nil
}

// Validate returns the trimmed payload, or the first local validation error.
func (f *Form) Validate() (domain.TaskInput, error) {
	values := f.Values()

	input := domain.TaskInput{
		TaskName:    strings.TrimSpace(values.TaskName),
		Description: strings.TrimSpace(values.Description),
		AssignedTo:  values.AssignedTo,
		Date:        values.Date,
		Status:      values.Status,
		Priority:    values.Priority,
	}

	if input.TaskName == "" {
		return input, &domain.ValidationError{Field: string(FieldTaskName), Message: MsgTaskNameEmpty}
	}
	if input.Description == "" {
		return input, &domain.ValidationError{Field: string(FieldDescription), Message: MsgDescriptionEmpty}
	}
	if f.role != domain.RoleManager {
		return input, nil
	}

	if input.AssignedTo == "" {
		return input, &domain.ValidationError{Field: string(FieldAssignedTo), Message: MsgAssigneeEmpty}
	}
	date, err := time.ParseInLocation(domain.DateLayout, input.Date, f.now().Location())
	if err != nil {
		return input, &domain.ValidationError{Field: string(FieldDate), Message: MsgDateInvalid}
	}
	// An existing task keeps its date even if that day has passed.
	unchanged := f.existing != nil && input.Date == f.existing.Date.Format(domain.DateLayout)
	if !unchanged && date.Before(f.MinDate()) {
		return input, &domain.ValidationError{Field: string(FieldDate), Message: MsgDateInPast}
	}
	return input, nil
}

// Submit validates and writes the task. Validation failures are reported
// through the notifier and returned without any request being issued.
func (f *Form) Submit(ctx context.Context) (Outcome, error) {
	if !f.begin() {
		return Outcome{}, domain.ErrSubmitInProgress
	}
	defer f.end()

	input, err := f.Validate()
	if err != nil {
		f.notifier.Failure(err.Error())
		return Outcome{}, err
	}

	log := appLogger.WithRequestID(ctx, f.logger).With(zap.String("mode", f.mode.String()))

	var (
		task    *domain.Task
		message string
	)
	if f.mode == ModeEdit {
		task, err = f.writer.UpdateTask(ctx, f.existing.ID, input)
		message = MsgUpdated
	} else {
		task, err = f.writer.CreateTask(ctx, input)
		message = MsgCreated
	}
	if err != nil {
		log.Error("save task", zap.Error(err))
		f.notifier.Failure(MsgSaveFailed)
		return Outcome{}, domain.WrapError(domain.CodeOf(err), MsgSaveFailed, err)
	}

	f.notifier.Success(message)
	return Outcome{Close: true, Refresh: true, Task: task, Message: message}, nil
}

// Delete removes the existing task after confirm agrees. A declined or
// missing confirmation is not an error and issues no request.
func (f *Form) Delete(ctx context.Context, confirm Confirmer) (Outcome, error) {
	if f.mode != ModeEdit {
		return Outcome{}, domain.ErrNotEditMode
	}
	if confirm == nil || !confirm.Confirm(ctx, DeletePrompt) {
		return Outcome{}, nil
	}
	if !f.begin() {
		return Outcome{}, domain.ErrSubmitInProgress
	}
	defer f.end()

	if err := f.writer.DeleteTask(ctx, f.existing.ID); err != nil {
		appLogger.WithRequestID(ctx, f.logger).Error("delete task",
			zap.String("task_id", f.existing.ID), zap.Error(err))
		f.notifier.Failure(MsgDeleteFailed)
		return Outcome{}, domain.WrapError(domain.CodeOf(err), MsgDeleteFailed, err)
	}

	f.notifier.Success(MsgDeleted)
	return Outcome{Close: true, Refresh: true, Message: MsgDeleted}, nil
}

// Assignees lists employees a manager can assign to. Failures are logged
// and yield an empty list.
func (f *Form) Assignees(ctx context.Context) []domain.User {
	if f.role != domain.RoleManager || f.directory == nil {
		return nil
	}
	users, err := f.directory.GetEmployees(ctx, repository.UserFilter{})
	if err != nil {
		appLogger.WithRequestID(ctx, f.logger).Warn("load assignees", zap.Error(err))
		return nil
	}
	return users
}

func (f *Form) begin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight {
		return false
	}
	f.inFlight = true
	return true
}

func (f *Form) end() {
	f.mu.Lock()
	f.inFlight = false
	f.mu.Unlock()
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Failure(string) {}
