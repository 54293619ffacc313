package main

import (
	"context"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskboard/api/handler"
	"github.com/fastygo/taskboard/internal/middleware"
	"github.com/fastygo/taskboard/internal/router"
	"github.com/fastygo/taskboard/internal/services"
	"github.com/fastygo/taskboard/pkg/httpcontext"
)

// serve runs the local view server until the process is interrupted.
func (a *app) serve(ctx context.Context, args []string) error {
	fs := a.flags("serve")
	addr := fs.String("addr", a.cfg.Address(), "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	controller := a.newController(a.cfg.Refresh.Interval)

	mon := a.newMonitor()
	mon.Start()
	a.lifecycle.Register("monitor", func(context.Context) error {
		mon.Stop()
		return nil
	})

	refresher, err := services.NewRefresher(controller, mon, a.cfg.Refresh.Interval, a.logger)
	if err != nil {
		return err
	}
	refresher.Start()
	a.lifecycle.Register("refresher", refresher.Stop)

	ctxAdapter := httpcontext.NewAdapter(a.cfg.API.Timeout)
	handlers := router.Handlers{
		Session: apiHandler.NewSessionHandler(a.session, controller, ctxAdapter, a.logger),
		Views:   apiHandler.NewViewsHandler(controller, ctxAdapter, a.logger),
		Task:    apiHandler.NewTaskHandler(controller, ctxAdapter, a.logger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, a.logger),
	}
	limiter := middleware.NewRateLimiter(a.cfg.Server.LoginRatePerSec, a.cfg.Server.LoginRateBurst)
	r := router.New(handlers, middleware.RequireSession(a.session, a.logger), middleware.RateLimit(limiter))

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
		Name:         a.cfg.AppName,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("view server started",
			zap.String("address", *addr),
			zap.Duration("refresh_interval", a.cfg.Refresh.Interval))
		errCh <- server.ListenAndServe(*addr)
	}()
	a.lifecycle.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
		return nil
	case err := <-errCh:
		return err
	}
}
