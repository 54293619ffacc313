package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/internal/config"
	"github.com/fastygo/taskboard/internal/services/lifecycle"
	"github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/usecase"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 2
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Output:   stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "logger error: %v\n", err)
		return 2
	}
	defer zapLogger.Sync()

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(stderr, newDispatcher(&app{}))
		return 2
	}

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	ctx, stop := manager.Context(context.Background())
	defer stop()

	a, err := newApp(ctx, cfg, zapLogger, manager, stdin, stdout, stderr)
	if err != nil {
		zapLogger.Error("startup failed", zap.Error(err))
		_ = manager.Shutdown(context.Background())
		return 1
	}

	dispatcher := newDispatcher(a)
	err = dispatcher.Execute(ctx, args[0], args[1:])

	if shutdownErr := manager.Shutdown(context.Background()); shutdownErr != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(shutdownErr))
	}

	var reported *reportedError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &reported):
		return 1
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, usecase.ErrUnknownCommand):
		fmt.Fprintf(stderr, "%v\n\n", err)
		printUsage(stderr, dispatcher)
		return 2
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
}

func printUsage(w io.Writer, d *usecase.Dispatcher) {
	fmt.Fprintln(w, "usage: taskboard <command> [flags]")
	fmt.Fprintln(w)
	for _, cmd := range d.Commands() {
		fmt.Fprintf(w, "  %-13s %s\n", cmd.Name, cmd.Summary)
	}
}
