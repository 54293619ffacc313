package middleware

import (
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/domain"
)

// SessionReader exposes the current session.
type SessionReader interface {
	Snapshot() domain.Session
}

// RequireSession rejects requests with 401 while no user is logged in.
func RequireSession(session SessionReader, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if !session.Snapshot().IsAuthenticated {
				logger.Debug("rejecting unauthenticated request", zap.ByteString("path", ctx.Path()))
				writeError(ctx, fasthttp.StatusUnauthorized, domain.ErrNotAuthenticated)
				return
			}
			next(ctx)
		}
	}
}

func writeError(ctx *fasthttp.RequestCtx, status int, err error) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBodyString(transport.NewErrorFrom(err).String())
}
