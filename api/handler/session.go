package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/usecase/pages"
	"github.com/fastygo/taskboard/usecase/session"
)

type SessionHandler struct {
	baseHandler
	store *session.Store
	pages *pages.Controller
}

func NewSessionHandler(store *session.Store, controller *pages.Controller, adapter *httpcontext.Adapter, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
		pages:       controller,
	}
}

// @Summary Log in
// @Tags session
// @Router /session/login [post]
func (h *SessionHandler) Login(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.SessionLoginRequest
	if !h.decode(ctx, stdCtx, &req) {
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		h.respondError(ctx, stdCtx, &domain.ValidationError{Field: "role", Message: err.Error()})
		return
	}

	h.respondSession(ctx, h.store.Login(stdCtx, req.Email, req.Password, role))
}

// @Summary Register
// @Tags session
// @Router /session/register [post]
func (h *SessionHandler) Register(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.SessionRegisterRequest
	if !h.decode(ctx, stdCtx, &req) {
		return
	}
	role, _ := domain.ParseRole(req.Role)
	form := session.RegistrationForm{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            role,
		ManagerID:       req.ManagerID,
	}
	if err := form.Validate(); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	h.respondSession(ctx, h.store.Register(stdCtx, form.Registration()))
}

// @Summary Log out
// @Tags session
// @Router /session [delete]
func (h *SessionHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	err := h.store.Logout(stdCtx)
	h.pages.Collection().Reset()
	if err != nil {
		h.respondError(ctx, stdCtx, domain.WrapError(domain.ErrCodeInternal, "failed to clear stored credentials", err))
		return
	}
	h.respondSuccess(ctx, http.StatusOK, h.store.Snapshot())
}

// @Summary Current session
// @Tags session
// @Router /session [get]
func (h *SessionHandler) Snapshot(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.store.Snapshot())
}

// @Summary Clear the last session error
// @Tags session
// @Router /session/error [delete]
func (h *SessionHandler) ClearError(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.store.ClearError())
}

// @Summary Managers selectable at registration
// @Tags session
// @Router /session/managers [get]
func (h *SessionHandler) Managers(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()
	h.respondSuccess(ctx, http.StatusOK, h.pages.Managers(stdCtx))
}

func (h *SessionHandler) respondSession(ctx *fasthttp.RequestCtx, state domain.Session) {
	if state.Error != "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.Envelope{
			Status: "error",
			Code:   string(domain.ErrCodeUnauthorized),
			Data:   state,
			Error:  state.Error,
		})
		return
	}
	h.respondSuccess(ctx, http.StatusOK, state)
}
