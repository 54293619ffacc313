package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/infrastructure/monitor"
	"github.com/fastygo/taskboard/usecase"
	"github.com/fastygo/taskboard/usecase/calendar"
	"github.com/fastygo/taskboard/usecase/export"
	"github.com/fastygo/taskboard/usecase/pages"
	"github.com/fastygo/taskboard/usecase/session"
	"github.com/fastygo/taskboard/usecase/taskform"
)

// reportedError marks a failure whose message was already shown to the user.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func newDispatcher(a *app) *usecase.Dispatcher {
	d := usecase.NewDispatcher()
	for _, cmd := range []usecase.Command{
		{Name: "login", Usage: "login -email E [-password P] [-role Employee|Manager]", Summary: "log in and remember the session", Handler: a.login},
		{Name: "register", Usage: "register -name N -email E -role R [-manager ID]", Summary: "create an account and log in", Handler: a.register},
		{Name: "logout", Usage: "logout", Summary: "forget the stored session", Handler: a.logout},
		{Name: "whoami", Usage: "whoami [-output F]", Summary: "show the logged-in user", Handler: a.whoami},
		{Name: "dashboard", Usage: "dashboard [-output F]", Summary: "task counts, today and upcoming", Handler: a.dashboard},
		{Name: "calendar", Usage: "calendar [-month YYYY-MM] [-output F]", Summary: "month grid with task previews", Handler: a.calendar},
		{Name: "day", Usage: "day [-date YYYY-MM-DD] [-output F]", Summary: "every task on one day", Handler: a.day},
		{Name: "tasks", Usage: "tasks [-status S] [-priority P] [-output F]", Summary: "filtered task list", Handler: a.tasks},
		{Name: "tasks-export", Usage: "tasks-export -out FILE [-status S] [-priority P]", Summary: "write tasks to an XLSX workbook", Handler: a.tasksExport},
		{Name: "task-create", Usage: "task-create -name N -description D [-assignee ID] [-date D]", Summary: "create a task", Handler: a.taskCreate},
		{Name: "task-update", Usage: "task-update -id ID [field flags]", Summary: "edit a task", Handler: a.taskUpdate},
		{Name: "task-status", Usage: "task-status -id ID -status S", Summary: "change only the status of a task", Handler: a.taskStatus},
		{Name: "task-delete", Usage: "task-delete -id ID [-yes]", Summary: "delete a task after confirmation", Handler: a.taskDelete},
		{Name: "employees", Usage: "employees [-output F]", Summary: "roster of employees and their tasks", Handler: a.employees},
		{Name: "managers", Usage: "managers [-output F]", Summary: "managers selectable at registration", Handler: a.managers},
		{Name: "status", Usage: "status [-output F]", Summary: "check backend and storage reachability", Handler: a.status},
		{Name: "serve", Usage: "serve [-addr HOST:PORT]", Summary: "run the local view server", Handler: a.serve},
	} {
		d.Register(cmd)
	}
	return d
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) parseWithOutput(fs *flag.FlagSet, args []string) (outputFormat, error) {
	output := fs.String("output", string(formatTable), "table, json or yaml")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return parseFormat(*output)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password, prompted when empty")
	roleName := fs.String("role", string(domain.RoleEmployee), "Employee or Manager")
	if err := fs.Parse(args); err != nil {
		return err
	}
	role, err := domain.ParseRole(*roleName)
	if err != nil {
		return err
	}
	if *email == "" {
		*email = a.prompt("Email: ")
	}
	if *password == "" {
		*password = a.prompt("Password: ")
	}

	state := a.session.Login(ctx, *email, *password, role)
	if state.Error != "" {
		return errors.New(state.Error)
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", state.User.Name, state.User.Role)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := a.flags("register")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password, prompted when empty")
	confirm := fs.String("confirm", "", "password confirmation, prompted when empty")
	roleName := fs.String("role", string(domain.RoleEmployee), "Employee or Manager")
	managerID := fs.String("manager", "", "manager id for employees (see the managers command)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		*password = a.prompt("Password: ")
	}
	if *confirm == "" {
		*confirm = a.prompt("Confirm password: ")
	}

	role, _ := domain.ParseRole(*roleName)
	form := session.RegistrationForm{
		Name:            *name,
		Email:           *email,
		Password:        *password,
		ConfirmPassword: *confirm,
		Role:            role,
		ManagerID:       *managerID,
	}
	if err := form.Validate(); err != nil {
		return err
	}

	state := a.session.Register(ctx, form.Registration())
	if state.Error != "" {
		return errors.New(state.Error)
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s (%s)\n", state.User.Name, state.User.Role)
	return nil
}

func (a *app) logout(ctx context.Context, args []string) error {
	if err := a.flags("logout").Parse(args); err != nil {
		return err
	}
	if err := a.session.Logout(ctx); err != nil {
		return fmt.Errorf("clear stored session: %w", err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

type whoamiView struct {
	User      domain.User `json:"user"`
	ExpiresAt *time.Time  `json:"expiresAt,omitempty"`
}

func (a *app) whoami(_ context.Context, args []string) error {
	format, err := a.parseWithOutput(a.flags("whoami"), args)
	if err != nil {
		return err
	}
	state := a.session.Snapshot()
	if !state.IsAuthenticated {
		return domain.ErrNotAuthenticated
	}

	view := whoamiView{User: *state.User}
	if exp, ok := session.TokenExpiry(state.Token); ok {
		view.ExpiresAt = &exp
	}
	return a.render(format, view, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "ID\t%s\n", view.User.ID)
		fmt.Fprintf(w, "NAME\t%s\n", view.User.Name)
		fmt.Fprintf(w, "EMAIL\t%s\n", view.User.Email)
		fmt.Fprintf(w, "ROLE\t%s\n", view.User.Role)
		if view.User.ManagerID != "" {
			fmt.Fprintf(w, "MANAGER\t%s\n", view.User.ManagerID)
		}
		if view.ExpiresAt != nil {
			fmt.Fprintf(w, "EXPIRES\t%s\n", view.ExpiresAt.Local().Format(time.RFC1123))
		}
	})
}

func (a *app) dashboard(ctx context.Context, args []string) error {
	format, err := a.parseWithOutput(a.flags("dashboard"), args)
	if err != nil {
		return err
	}
	view, err := a.pages.Dashboard(ctx)
	if err != nil {
		return err
	}
	return a.render(format, view, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, view.Greeting)
		fmt.Fprintf(w, "TOTAL %d\tPENDING %d\tIN PROGRESS %d\tCOMPLETED %d\n",
			view.Counts.Total, view.Counts.Pending, view.Counts.InProgress, view.Counts.Completed)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Today")
		writeTaskRows(w, view.Today)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Upcoming")
		writeTaskRows(w, view.Upcoming)
	})
}

func (a *app) calendar(ctx context.Context, args []string) error {
	fs := a.flags("calendar")
	month := fs.String("month", "", "month to show as YYYY-MM, defaults to the current month")
	format, err := a.parseWithOutput(fs, args)
	if err != nil {
		return err
	}
	ref, err := calendar.ParseMonth(*month, time.Now(), time.Local)
	if err != nil {
		return &domain.ValidationError{Field: "month", Message: err.Error()}
	}
	view, err := a.pages.Calendar(ctx, ref)
	if err != nil {
		return err
	}

	return a.render(format, view, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "%s\t\t\t\t\t\t(prev %s, next %s)\n", ref.Format("January 2006"), view.Prev, view.Next)
		writeMonthGrid(w, ref, view.Days)
	})
}

func (a *app) day(ctx context.Context, args []string) error {
	fs := a.flags("day")
	value := fs.String("date", "", "day to show as YYYY-MM-DD, defaults to today")
	format, err := a.parseWithOutput(fs, args)
	if err != nil {
		return err
	}
	if *value == "" {
		*value = time.Now().Format(domain.DateLayout)
	}
	date, err := calendar.ParseDay(*value, time.Local)
	if err != nil {
		return &domain.ValidationError{Field: "date", Message: err.Error()}
	}
	view, err := a.pages.Day(ctx, date)
	if err != nil {
		return err
	}
	return a.render(format, view, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, date.Format("Monday, January 2, 2006"))
		writeTaskRows(w, view.Day.Tasks)
	})
}

func (a *app) tasks(ctx context.Context, args []string) error {
	fs := a.flags("tasks")
	status := fs.String("status", pages.FilterAll, "all, pending, in-progress or completed")
	priority := fs.String("priority", pages.FilterAll, "all, low, medium or high")
	format, err := a.parseWithOutput(fs, args)
	if err != nil {
		return err
	}
	view, err := a.filteredTasks(ctx, *status, *priority)
	if err != nil {
		return err
	}
	return a.render(format, view, func(w *tabwriter.Writer) {
		writeTaskRows(w, view.Tasks)
	})
}

func (a *app) tasksExport(ctx context.Context, args []string) error {
	fs := a.flags("tasks-export")
	out := fs.String("out", "", "destination .xlsx file")
	status := fs.String("status", pages.FilterAll, "all, pending, in-progress or completed")
	priority := fs.String("priority", pages.FilterAll, "all, low, medium or high")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return &domain.ValidationError{Field: "out", Message: "an output file is required"}
	}
	view, err := a.filteredTasks(ctx, *status, *priority)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := export.WriteTasks(f, view.Tasks); err != nil {
		f.Close()
		return fmt.Errorf("export tasks: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %d tasks to %s\n", len(view.Tasks), *out)
	return nil
}

func (a *app) filteredTasks(ctx context.Context, status, priority string) (pages.TasksView, error) {
	filter, err := pages.ParseFilter(status, priority)
	if err != nil {
		return pages.TasksView{}, err
	}
	return a.pages.Tasks(ctx, filter)
}

// taskFieldFlags maps command-line flags onto task form fields.
var taskFieldFlags = []struct {
	flag  string
	field taskform.Field
	usage string
}{
	{"name", taskform.FieldTaskName, "task name"},
	{"description", taskform.FieldDescription, "task description"},
	{"assignee", taskform.FieldAssignedTo, "employee id (managers only)"},
	{"date", taskform.FieldDate, "due date as YYYY-MM-DD"},
	{"status", taskform.FieldStatus, "pending, in-progress or completed"},
	{"priority", taskform.FieldPriority, "low, medium or high"},
}

func bindTaskFlags(fs *flag.FlagSet) {
	for _, f := range taskFieldFlags {
		fs.String(f.flag, "", f.usage)
	}
}

// applyTaskFlags sets only the fields given on the command line.
func applyTaskFlags(fs *flag.FlagSet, form *taskform.Form) error {
	fields := make(map[string]taskform.Field, len(taskFieldFlags))
	for _, f := range taskFieldFlags {
		fields[f.flag] = f.field
	}
	var err error
	fs.Visit(func(f *flag.Flag) {
		field, ok := fields[f.Name]
		if !ok || err != nil {
			return
		}
		err = form.Set(field, f.Value.String())
	})
	return err
}

func (a *app) taskCreate(ctx context.Context, args []string) error {
	fs := a.flags("task-create")
	bindTaskFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	date := time.Now()
	if value := fs.Lookup("date").Value.String(); value != "" {
		if parsed, err := calendar.ParseDay(value, time.Local); err == nil {
			date = parsed
		}
	}
	form, err := a.pages.NewTaskForm(date)
	if err != nil {
		return err
	}
	return a.submit(ctx, fs, form)
}

func (a *app) taskUpdate(ctx context.Context, args []string) error {
	fs := a.flags("task-update")
	id := fs.String("id", "", "task id")
	bindTaskFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	form, err := a.pages.EditTaskForm(ctx, *id)
	if err != nil {
		return err
	}
	return a.submit(ctx, fs, form)
}

func (a *app) submit(ctx context.Context, fs *flag.FlagSet, form *taskform.Form) error {
	if err := applyTaskFlags(fs, form); err != nil {
		return err
	}
	outcome, err := form.Submit(ctx)
	if err != nil {
		return &reportedError{err: err}
	}
	a.pages.Settle(ctx, outcome)
	if outcome.Task != nil && outcome.Task.ID != "" {
		fmt.Fprintf(a.out, "id: %s\n", outcome.Task.ID)
	}
	return nil
}

func (a *app) taskStatus(ctx context.Context, args []string) error {
	fs := a.flags("task-status")
	id := fs.String("id", "", "task id")
	value := fs.String("status", "", "pending, in-progress or completed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	status, err := domain.ParseStatus(*value)
	if err != nil {
		return err
	}
	if _, err := a.pages.UpdateStatus(ctx, *id, status); err != nil {
		return &reportedError{err: err}
	}
	return nil
}

func (a *app) taskDelete(ctx context.Context, args []string) error {
	fs := a.flags("task-delete")
	id := fs.String("id", "", "task id")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	form, err := a.pages.EditTaskForm(ctx, *id)
	if err != nil {
		return err
	}
	if !form.CanDelete() {
		return domain.ErrForbidden
	}

	confirmer := taskform.ConfirmFunc(a.confirm)
	if *yes {
		confirmer = func(context.Context, string) bool { return true }
	}
	outcome, err := form.Delete(ctx, confirmer)
	if err != nil {
		return &reportedError{err: err}
	}
	if !outcome.Close {
		fmt.Fprintln(a.out, "Deletion cancelled")
		return nil
	}
	a.pages.Settle(ctx, outcome)
	return nil
}

func (a *app) employees(ctx context.Context, args []string) error {
	format, err := a.parseWithOutput(a.flags("employees"), args)
	if err != nil {
		return err
	}
	roster, err := a.pages.Employees(ctx)
	if err != nil {
		return err
	}
	return a.render(format, roster, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tTOTAL\tPENDING\tIN PROGRESS\tCOMPLETED")
		for _, e := range roster {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n", e.Employee.ID, e.Employee.Name, e.Employee.Email,
				e.Counts.Total, e.Counts.Pending, e.Counts.InProgress, e.Counts.Completed)
		}
	})
}

func (a *app) managers(ctx context.Context, args []string) error {
	format, err := a.parseWithOutput(a.flags("managers"), args)
	if err != nil {
		return err
	}
	managers := a.pages.Managers(ctx)
	sort.SliceStable(managers, func(i, j int) bool {
		return strings.ToLower(managers[i].Name) < strings.ToLower(managers[j].Name)
	})
	return a.render(format, managers, func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "ID\tNAME\tEMAIL")
		for _, m := range managers {
			fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.Name, m.Email)
		}
	})
}

// statusView is the monitor status plus, for the bolt driver, how many
// keys the credential file holds.
type statusView struct {
	monitor.Status
	StoredKeys *int `json:"stored_keys,omitempty"`
}

func (a *app) status(ctx context.Context, args []string) error {
	format, err := a.parseWithOutput(a.flags("status"), args)
	if err != nil {
		return err
	}
	view := statusView{Status: a.newMonitor().Check(ctx), StoredKeys: a.storedKeys()}
	if err := a.render(format, view, func(w *tabwriter.Writer) {
		writeStatus(w, view, a.cfg.API.BaseURL)
	}); err != nil {
		return err
	}
	if !view.Backend || !view.Storage {
		return &reportedError{err: errors.New("dependencies unhealthy")}
	}
	return nil
}

// storedKeys counts entries in the local credential file; nil for redis or
// when the count cannot be read.
func (a *app) storedKeys() *int {
	if a.local == nil {
		return nil
	}
	n, err := a.local.Size()
	if err != nil {
		a.logger.Warn("count stored keys", zap.Error(err))
		return nil
	}
	return &n
}

func writeStatus(w *tabwriter.Writer, view statusView, baseURL string) {
	fmt.Fprintf(w, "backend\t%s\t%s\n", onlineLabel(view.Backend), baseURL)
	driver := view.StorageDriver
	if view.StoredKeys != nil {
		driver += fmt.Sprintf(" (%d keys)", *view.StoredKeys)
	}
	fmt.Fprintf(w, "storage\t%s\t%s\n", onlineLabel(view.Storage), driver)
}

func onlineLabel(ok bool) string {
	if ok {
		return "online"
	}
	return "offline"
}
