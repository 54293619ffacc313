package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/usecase/pages"
	"github.com/fastygo/taskboard/usecase/taskform"
)

// TaskHandler drives the task form over HTTP.
type TaskHandler struct {
	baseHandler
	pages *pages.Controller
}

func NewTaskHandler(controller *pages.Controller, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		pages:       controller,
	}
}

type formState struct {
	Mode           string           `json:"mode"`
	Values         taskform.Values  `json:"values"`
	ReadOnlyFields []taskform.Field `json:"readOnlyFields"`
	MinDate        string           `json:"minDate"`
	CanDelete      bool             `json:"canDelete"`
	Assignees      []domain.User    `json:"assignees,omitempty"`
}

type writeResult struct {
	Message string       `json:"message"`
	Task    *domain.Task `json:"task,omitempty"`
}

// @Summary Task form state
// @Tags tasks
// @Router /tasks/{id}/form [get]
func (h *TaskHandler) Form(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	form, err := h.pages.EditTaskForm(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, formState{
		Mode:           form.Mode().String(),
		Values:         form.Values(),
		ReadOnlyFields: form.ReadOnlyFields(),
		MinDate:        form.MinDate().Format(domain.DateLayout),
		CanDelete:      form.CanDelete(),
		Assignees:      form.Assignees(stdCtx),
	})
}

// @Summary Create task
// @Tags tasks
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.TaskFormRequest
	if !h.decode(ctx, stdCtx, &req) {
		return
	}
	form, err := h.pages.NewTaskForm(time.Now())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.submit(ctx, stdCtx, form, req, http.StatusCreated)
}

// @Summary Update task
// @Tags tasks
// @Router /tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.TaskFormRequest
	if !h.decode(ctx, stdCtx, &req) {
		return
	}
	form, err := h.pages.EditTaskForm(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.submit(ctx, stdCtx, form, req, http.StatusOK)
}

// @Summary Update task status
// @Tags tasks
// @Router /tasks/{id}/status [put]
func (h *TaskHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.StatusUpdateRequest
	if !h.decode(ctx, stdCtx, &req) {
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		h.respondError(ctx, stdCtx, &domain.ValidationError{Field: "status", Message: err.Error()})
		return
	}
	task, err := h.pages.UpdateStatus(stdCtx, pathParam(ctx, "id"), status)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, writeResult{Message: "Status updated successfully", Task: task})
}

// @Summary Delete task
// @Tags tasks
// @Param confirm query bool true "must be true"
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	form, err := h.pages.EditTaskForm(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if !form.CanDelete() {
		h.respondError(ctx, stdCtx, domain.ErrForbidden)
		return
	}

	confirmed := ctx.QueryArgs().GetBool("confirm")
	outcome, err := form.Delete(stdCtx, taskform.ConfirmFunc(func(_ context.Context, _ string) bool {
		return confirmed
	}))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if !outcome.Close {
		h.respondError(ctx, stdCtx, domain.ErrConfirmationRequired)
		return
	}
	h.pages.Settle(stdCtx, outcome)
	h.respondSuccess(ctx, http.StatusOK, writeResult{Message: outcome.Message})
}

func (h *TaskHandler) submit(ctx *fasthttp.RequestCtx, stdCtx context.Context, form *taskform.Form, req transport.TaskFormRequest, status int) {
	if err := applyRequest(form, req); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	outcome, err := form.Submit(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.pages.Settle(stdCtx, outcome)
	h.respondSuccess(ctx, status, writeResult{Message: outcome.Message, Task: outcome.Task})
}

// applyRequest sets every field present in req. Fields equal to the
// current value are skipped, so a client may echo read-only values back.
func applyRequest(form *taskform.Form, req transport.TaskFormRequest) error {
	current := form.Values()
	fields := []struct {
		field   taskform.Field
		value   *string
		current string
	}{
		{taskform.FieldTaskName, req.TaskName, current.TaskName},
		{taskform.FieldDescription, req.Description, current.Description},
		{taskform.FieldAssignedTo, req.AssignedTo, current.AssignedTo},
		{taskform.FieldDate, req.Date, current.Date},
		{taskform.FieldStatus, req.Status, string(current.Status)},
		{taskform.FieldPriority, req.Priority, string(current.Priority)},
	}
	for _, f := range fields {
		if f.value == nil || *f.value == f.current {
			continue
		}
		if err := form.Set(f.field, *f.value); err != nil {
			return err
		}
	}
	return nil
}
