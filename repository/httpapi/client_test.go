package httpapi

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type recordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
	Body          []byte
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(ctx *fasthttp.RequestCtx)
}

func (b *fakeBackend) last() recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[len(b.requests)-1]
}

func newTestClient(t *testing.T, handler func(ctx *fasthttp.RequestCtx)) (*Client, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{handler: handler}
	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		backend.mu.Lock()
		backend.requests = append(backend.requests, recordedRequest{
			Method:        string(ctx.Method()),
			Path:          string(ctx.Path()),
			Query:         string(ctx.QueryArgs().QueryString()),
			Authorization: string(ctx.Request.Header.Peek("Authorization")),
			RequestID:     string(ctx.Request.Header.Peek("X-Request-ID")),
			Body:          append([]byte(nil), ctx.PostBody()...),
		})
		backend.mu.Unlock()
		ctx.SetContentType("application/json")
		backend.handler(ctx)
	}}
	go func() { _ = server.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	client, err := New(Config{
		BaseURL: "http://tasks.test",
		Timeout: 2 * time.Second,
		Dial:    func(string) (net.Conn, error) { return ln.Dial() },
	}, nil)
	require.NoError(t, err)
	return client, backend
}

func respond(body string) func(ctx *fasthttp.RequestCtx) {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(body)
	}
}

func TestBearerHeaderFollowsDefaultCredential(t *testing.T) {
	client, backend := newTestClient(t, respond(`[]`))
	ctx := context.Background()

	_, err := client.GetTasks(ctx, repository.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, backend.last().Authorization)

	client.SetToken("tok-1")
	_, err = client.GetTasks(ctx, repository.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", backend.last().Authorization)
	assert.NotEmpty(t, backend.last().RequestID)

	client.ClearToken()
	_, err = client.GetTasks(ctx, repository.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, backend.last().Authorization)
}

func TestOptionalQueryParametersAreOmitted(t *testing.T) {
	client, backend := newTestClient(t, respond(`[]`))
	ctx := context.Background()

	_, err := client.GetTasks(ctx, repository.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, "/tasks", backend.last().Path)
	assert.Empty(t, backend.last().Query)

	_, err = client.GetTasks(ctx, repository.TaskFilter{Date: "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, "date=2024-03-01", backend.last().Query)

	_, err = client.GetEmployees(ctx, repository.UserFilter{})
	require.NoError(t, err)
	assert.Equal(t, "/tasks/employees", backend.last().Path)
	assert.Empty(t, backend.last().Query)

	_, err = client.GetEmployees(ctx, repository.UserFilter{ManagerID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, "managerId=m1", backend.last().Query)
}

func TestGetTasksNormalisesReferences(t *testing.T) {
	client, _ := newTestClient(t, respond(`[
		{"_id":"t1","taskName":"A","description":"d","assignedTo":"u1","assignedBy":{"_id":"m1","name":"Maria"},"date":"2024-03-01T00:00:00.000Z","status":"pending","priority":"low"}
	]`))

	tasks, err := client.GetTasks(context.Background(), repository.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, domain.UserRef{ID: "u1"}, tasks[0].AssignedTo)
	assert.Equal(t, "Maria", tasks[0].AssignedBy.Name)
}

func TestGetTasksSkipsMalformedEntries(t *testing.T) {
	client, _ := newTestClient(t, respond(`[
		{"_id":"t1","taskName":"A","description":"d","assignedTo":"u1","date":"2024-03-01","status":"pending","priority":"low"},
		{"_id":"t2","taskName":"B","description":"d","assignedTo":"u1","date":"soon","status":"pending","priority":"low"}
	]`))

	tasks, err := client.GetTasks(context.Background(), repository.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].ID)
}

func TestWriteOperationsUseDocumentedRoutes(t *testing.T) {
	client, backend := newTestClient(t, respond(`{"_id":"t9","taskName":"A","description":"d","assignedTo":"u1","assignedBy":"m1","date":"2024-03-01","status":"completed","priority":"low"}`))
	ctx := context.Background()
	input := domain.TaskInput{TaskName: "A", Description: "d", AssignedTo: "u1", Date: "2024-03-01", Status: domain.StatusPending, Priority: domain.PriorityLow}

	created, err := client.CreateTask(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "t9", created.ID)
	assert.Equal(t, "POST", backend.last().Method)
	assert.Equal(t, "/tasks", backend.last().Path)
	assert.JSONEq(t, `{"taskName":"A","description":"d","assignedTo":"u1","date":"2024-03-01","status":"pending","priority":"low"}`, string(backend.last().Body))

	_, err = client.UpdateTask(ctx, "t9", input)
	require.NoError(t, err)
	assert.Equal(t, "PUT", backend.last().Method)
	assert.Equal(t, "/tasks/t9", backend.last().Path)

	updated, err := client.UpdateStatus(ctx, "t9", domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Equal(t, "/updatestatus/t9", backend.last().Path)
	assert.JSONEq(t, `{"status":"completed"}`, string(backend.last().Body))
}

func TestDeleteAndUserRoutes(t *testing.T) {
	client, backend := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/tasks/t1":
			ctx.SetBodyString(`{"message":"Task deleted"}`)
		case "/users/me":
			ctx.SetBodyString(`{"_id":"u1","name":"Ada","email":"ada@x.io","role":"Employee","managerId":"m1"}`)
		default:
			ctx.SetBodyString(`[{"_id":"m1","name":"Maria","email":"m@x.io","role":"Manager"}]`)
		}
	})
	ctx := context.Background()

	require.NoError(t, client.DeleteTask(ctx, "t1"))
	assert.Equal(t, "DELETE", backend.last().Method)

	managers, err := client.GetManagers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/tasks/managers", backend.last().Path)
	require.Len(t, managers, 1)
	assert.Equal(t, domain.RoleManager, managers[0].Role)

	me, err := client.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m1", me.ManagerID)
}

func TestServerErrorsPropagateWithMessage(t *testing.T) {
	client, _ := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusUnauthorized)
		ctx.SetBodyString(`{"message":"Invalid credentials"}`)
	})

	_, err := client.Login(context.Background(), "a@x.io", "bad", domain.RoleEmployee)
	require.Error(t, err)

	var rErr *domain.RemoteError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, 401, rErr.StatusCode)
	assert.Equal(t, "Invalid credentials", rErr.Message)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestLoginDecodesCredentials(t *testing.T) {
	client, backend := newTestClient(t, respond(`{"user":{"_id":"u1","name":"Ada","email":"ada@x.io","role":"Employee"},"token":"tok"}`))

	creds, err := client.Login(context.Background(), "ada@x.io", "pw", domain.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, "tok", creds.Token)
	assert.Equal(t, "u1", creds.User.ID)

	var sent map[string]string
	require.NoError(t, json.Unmarshal(backend.last().Body, &sent))
	assert.Equal(t, map[string]string{"email": "ada@x.io", "password": "pw", "role": "Employee"}, sent)
	// login does not set the credential by itself
	assert.Empty(t, client.Token())
}

func TestLoginWithoutTokenIsAnError(t *testing.T) {
	client, _ := newTestClient(t, respond(`{"user":{"_id":"u1"}}`))
	_, err := client.Login(context.Background(), "a", "b", domain.RoleEmployee)
	assert.Error(t, err)
}

func TestPingTreatsAnyStatusAsReachable(t *testing.T) {
	client, _ := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	})
	assert.NoError(t, client.Ping(context.Background()))
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New(Config{BaseURL: "/api"}, nil)
	assert.Error(t, err)
}
