package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	appLogger "github.com/fastygo/taskboard/pkg/logger"
	"github.com/fastygo/taskboard/repository"
)

// Config controls the outbound gateway.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	MaxConnsPerHost int
	UserAgent       string
	// Dial overrides connection setup; tests use an in-memory listener.
	Dial fasthttp.DialFunc
}

// Client is the single point of egress to the task backend. It attaches
// the default bearer credential to every call and returns decoded bodies;
// errors are propagated untouched, with no retry and no caching.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	adapter *httpcontext.Adapter
	logger  *zap.Logger

	mu    sync.RWMutex
	token string
}

var (
	_ repository.TaskRepository   = (*Client)(nil)
	_ repository.UserRepository   = (*Client)(nil)
	_ repository.AuthGateway      = (*Client)(nil)
	_ repository.CredentialHolder = (*Client)(nil)
)

func New(cfg Config, logger *zap.Logger) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("httpapi: invalid base url %q", cfg.BaseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxConnsPerHost <= 0 {
		cfg.MaxConnsPerHost = fasthttp.DefaultMaxConnsPerHost
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "taskboard"
	}

	return &Client{
		http: &fasthttp.Client{
			Name:            cfg.UserAgent,
			MaxConnsPerHost: cfg.MaxConnsPerHost,
			ReadTimeout:     cfg.Timeout,
			WriteTimeout:    cfg.Timeout,
			Dial:            cfg.Dial,
		},
		baseURL: base,
		adapter: httpcontext.NewAdapter(cfg.Timeout),
		logger:  logger.Named("httpapi"),
	}, nil
}

// SetToken replaces the default credential. Calls issued after it returns
// carry the new token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Login(ctx context.Context, email, password string, role domain.Role) (*repository.Credentials, error) {
	req := transport.LoginRequest{Email: email, Password: password, Role: string(role)}
	var resp transport.AuthResponse
	if err := c.do(ctx, fasthttp.MethodPost, "/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return credentialsFrom(resp)
}

func (c *Client) Signup(ctx context.Context, reg domain.Registration) (*repository.Credentials, error) {
	var resp transport.AuthResponse
	if err := c.do(ctx, fasthttp.MethodPost, "/signup", nil, transport.NewSignupRequest(reg), &resp); err != nil {
		return nil, err
	}
	return credentialsFrom(resp)
}

func (c *Client) GetTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := url.Values{}
	if filter.Date != "" {
		query.Set("date", filter.Date)
	}
	var dtos []transport.TaskDTO
	if err := c.do(ctx, fasthttp.MethodGet, "/tasks", query, nil, &dtos); err != nil {
		return nil, err
	}
	tasks, skipped := transport.TasksToDomain(dtos)
	for _, err := range skipped {
		appLogger.WithRequestID(ctx, c.logger).Warn("skipping malformed task", zap.Error(err))
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, input domain.TaskInput) (*domain.Task, error) {
	return c.writeTask(ctx, fasthttp.MethodPost, "/tasks", transport.NewTaskPayload(input))
}

func (c *Client) UpdateTask(ctx context.Context, id string, input domain.TaskInput) (*domain.Task, error) {
	return c.writeTask(ctx, fasthttp.MethodPut, "/tasks/"+url.PathEscape(id), transport.NewTaskPayload(input))
}

func (c *Client) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error) {
	return c.writeTask(ctx, fasthttp.MethodPut, "/updatestatus/"+url.PathEscape(id), transport.StatusPayload{Status: string(status)})
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	var ack transport.Ack
	if err := c.do(ctx, fasthttp.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, &ack); err != nil {
		return err
	}
	c.logger.Debug("task deleted", zap.String("task_id", id), zap.String("ack", ack.Message))
	return nil
}

func (c *Client) GetManagers(ctx context.Context) ([]domain.User, error) {
	var dtos []transport.UserDTO
	if err := c.do(ctx, fasthttp.MethodGet, "/tasks/managers", nil, nil, &dtos); err != nil {
		return nil, err
	}
	return transport.UsersToDomain(dtos), nil
}

func (c *Client) GetEmployees(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	query := url.Values{}
	if filter.ManagerID != "" {
		query.Set("managerId", filter.ManagerID)
	}
	var dtos []transport.UserDTO
	if err := c.do(ctx, fasthttp.MethodGet, "/tasks/employees", query, nil, &dtos); err != nil {
		return nil, err
	}
	return transport.UsersToDomain(dtos), nil
}

func (c *Client) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	var dto transport.UserDTO
	if err := c.do(ctx, fasthttp.MethodGet, "/users/me", nil, nil, &dto); err != nil {
		return nil, err
	}
	user := dto.ToDomain()
	return &user, nil
}

// Ping reports whether the backend answers at all; any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, fasthttp.MethodGet, "/", nil, nil, nil)
	var rErr *domain.RemoteError
	if errors.As(err, &rErr) {
		return nil
	}
	return err
}

func (c *Client) writeTask(ctx context.Context, method, path string, body interface{}) (*domain.Task, error) {
	var dto transport.TaskDTO
	if err := c.do(ctx, method, path, nil, body, &dto); err != nil {
		return nil, err
	}
	task, err := dto.ToDomain()
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	ctx, cancel := c.adapter.Outbound(ctx)
	defer cancel()

	log := appLogger.WithRequestID(ctx, c.logger).With(
		zap.String("method", method),
		zap.String("path", path),
	)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	if len(query) > 0 {
		req.URI().SetQueryString(query.Encode())
	}
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	req.Header.Set(httpcontext.HeaderRequestID, appLogger.RequestID(ctx))
	if token := c.Token(); token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(payload)
	}

	deadline, _ := ctx.Deadline()
	started := time.Now()
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		log.Debug("backend unreachable", zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	log.Debug("backend call",
		zap.Int("status", status),
		zap.Duration("elapsed", time.Since(started)))

	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return remoteError(status, resp.Body())
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func remoteError(status int, body []byte) error {
	var payload transport.ErrorResponse
	if len(body) > 0 {
		_ = json.Unmarshal(body, &payload)
	}
	return &domain.RemoteError{StatusCode: status, Message: payload.Message}
}

func credentialsFrom(resp transport.AuthResponse) (*repository.Credentials, error) {
	if resp.Token == "" {
		return nil, domain.NewError(domain.ErrCodeInternal, "auth response carried no token")
	}
	return &repository.Credentials{User: resp.User.ToDomain(), Token: resp.Token}, nil
}
