package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/usecase/calendar"
	"github.com/fastygo/taskboard/usecase/pages"
)

// ViewsHandler serves the derived page view-models.
type ViewsHandler struct {
	baseHandler
	pages *pages.Controller
	now   func() time.Time
}

func NewViewsHandler(controller *pages.Controller, adapter *httpcontext.Adapter, logger *zap.Logger) *ViewsHandler {
	return &ViewsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		pages:       controller,
		now:         time.Now,
	}
}

// @Summary Dashboard
// @Tags views
// @Router /views/dashboard [get]
func (h *ViewsHandler) Dashboard(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	view, err := h.pages.Dashboard(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view)
}

// @Summary Month calendar
// @Tags views
// @Param month query string false "YYYY-MM"
// @Router /views/calendar [get]
func (h *ViewsHandler) Calendar(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	month, err := calendar.ParseMonth(queryString(ctx, "month"), h.now(), time.Local)
	if err != nil {
		h.respondError(ctx, stdCtx, &domain.ValidationError{Field: "month", Message: err.Error()})
		return
	}
	view, err := h.pages.Calendar(stdCtx, month)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view)
}

// @Summary Day detail
// @Tags views
// @Param date query string true "YYYY-MM-DD"
// @Router /views/day [get]
func (h *ViewsHandler) Day(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	date, err := calendar.ParseDay(queryString(ctx, "date"), time.Local)
	if err != nil {
		h.respondError(ctx, stdCtx, &domain.ValidationError{Field: "date", Message: err.Error()})
		return
	}
	view, err := h.pages.Day(stdCtx, date)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view)
}

// @Summary Filtered task list
// @Tags views
// @Param status query string false "all|pending|in-progress|completed"
// @Param priority query string false "all|low|medium|high"
// @Router /views/tasks [get]
func (h *ViewsHandler) Tasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	filter, err := pages.ParseFilter(queryString(ctx, "status"), queryString(ctx, "priority"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	view, err := h.pages.Tasks(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view)
}

// @Summary Employee roster
// @Tags views
// @Router /views/employees [get]
func (h *ViewsHandler) Employees(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	roster, err := h.pages.Employees(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, roster)
}
