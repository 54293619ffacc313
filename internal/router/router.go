package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/taskboard/api/handler"
)

type Handlers struct {
	Session *apiHandler.SessionHandler
	Views   *apiHandler.ViewsHandler
	Task    *apiHandler.TaskHandler
	Health  *apiHandler.HealthHandler
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

func New(handlers Handlers, requireSession, rateLimit Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Session routes
	r.POST("/session/login", rateLimit(handlers.Session.Login))
	r.POST("/session/register", rateLimit(handlers.Session.Register))
	r.GET("/session", handlers.Session.Snapshot)
	r.DELETE("/session", handlers.Session.Logout)
	r.DELETE("/session/error", handlers.Session.ClearError)
	r.GET("/session/managers", handlers.Session.Managers)

	// Views
	r.GET("/views/dashboard", requireSession(handlers.Views.Dashboard))
	r.GET("/views/calendar", requireSession(handlers.Views.Calendar))
	r.GET("/views/day", requireSession(handlers.Views.Day))
	r.GET("/views/tasks", requireSession(handlers.Views.Tasks))
	r.GET("/views/employees", requireSession(handlers.Views.Employees))

	// Task form
	r.POST("/tasks", requireSession(handlers.Task.CreateTask))
	r.GET("/tasks/{id}/form", requireSession(handlers.Task.Form))
	r.PUT("/tasks/{id}", requireSession(handlers.Task.UpdateTask))
	r.PUT("/tasks/{id}/status", requireSession(handlers.Task.UpdateStatus))
	r.DELETE("/tasks/{id}", requireSession(handlers.Task.DeleteTask))

	return r
}
