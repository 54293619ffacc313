package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskboard/internal/config"
	"github.com/fastygo/taskboard/internal/infrastructure/monitor"
	redisInfra "github.com/fastygo/taskboard/internal/infrastructure/redis"
	"github.com/fastygo/taskboard/internal/infrastructure/storage"
	"github.com/fastygo/taskboard/internal/services/lifecycle"
	"github.com/fastygo/taskboard/repository"
	boltRepo "github.com/fastygo/taskboard/repository/bolt"
	"github.com/fastygo/taskboard/repository/httpapi"
	redisRepo "github.com/fastygo/taskboard/repository/redis"
	"github.com/fastygo/taskboard/usecase/pages"
	"github.com/fastygo/taskboard/usecase/session"
)

// app holds the components shared by every command.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	lifecycle *lifecycle.Manager

	client  *httpapi.Client
	creds   repository.CredentialStore
	local   *storage.Store
	session *session.Store
	pages   *pages.Controller

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, manager *lifecycle.Manager, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	creds, local, err := openCredentials(ctx, cfg, manager)
	if err != nil {
		return nil, err
	}

	client, err := httpapi.New(httpapi.Config{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.API.Timeout,
		MaxConnsPerHost: cfg.API.MaxConnsPerHost,
		UserAgent:       cfg.AppName,
	}, logger)
	if err != nil {
		return nil, err
	}

	store := session.New(client, creds, client, logger)
	if err := store.Rehydrate(ctx); err != nil {
		logger.Warn("session rehydration failed", zap.Error(err))
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		lifecycle: manager,
		client:    client,
		creds:     creds,
		local:     local,
		session:   store,
		in:        bufio.NewReader(stdin),
		out:       stdout,
		errOut:    stderr,
	}
	a.pages = a.newController(0)
	return a, nil
}

// openCredentials opens the configured credential store. The bolt file is
// also returned so status can report on it; it is nil for redis.
func openCredentials(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager) (repository.CredentialStore, *storage.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("redis connection failed: %w", err)
		}
		manager.Register("redis", func(context.Context) error {
			return client.Close()
		})
		return redisRepo.NewCredentialStore(client, cfg.Redis.Prefix, 0), nil, nil
	default:
		store, err := storage.Open(cfg.Storage.Path, "session")
		if err != nil {
			return nil, nil, fmt.Errorf("open credential store: %w", err)
		}
		manager.Register("storage", func(context.Context) error {
			return store.Close()
		})
		return boltRepo.NewCredentialStore(store), store, nil
	}
}

func (a *app) newController(maxAge time.Duration) *pages.Controller {
	controller := pages.NewController(pages.Options{
		Session:  a.session,
		Tasks:    a.client,
		Users:    a.client,
		MaxAge:   maxAge,
		Notifier: printNotifier{out: a.out, errOut: a.errOut},
		Logger:   a.logger,
	})
	controller.SessionChanged(a.session.Snapshot())
	a.session.Subscribe(controller.SessionChanged)
	return controller
}

func (a *app) newMonitor() *monitor.Monitor {
	storagePinger, _ := a.creds.(monitor.Pinger)
	return monitor.New(a.client, storagePinger, a.cfg.Storage.Driver, 30*time.Second, a.logger)
}

// printNotifier reports form outcomes on the terminal.
type printNotifier struct {
	out    io.Writer
	errOut io.Writer
}

func (n printNotifier) Success(message string) { fmt.Fprintln(n.out, message) }
func (n printNotifier) Failure(message string) { fmt.Fprintln(n.errOut, message) }

// prompt reads one trimmed line after printing label.
func (a *app) prompt(label string) string {
	fmt.Fprint(a.errOut, label)
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// confirm asks on the terminal; anything but y/yes declines.
func (a *app) confirm(_ context.Context, question string) bool {
	switch strings.ToLower(a.prompt(question + " [y/N] ")) {
	case "y", "yes":
		return true
	}
	return false
}
