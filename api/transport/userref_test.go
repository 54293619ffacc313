package transport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
)

func TestTaskDTODecodesBothReferenceShapes(t *testing.T) {
	body := `[
		{"_id":"t1","taskName":"Fix bug","description":"d","assignedTo":"u1","assignedBy":{"_id":"m1","name":"Maria","email":"m@x.io","role":"Manager"},"date":"2024-03-01T00:00:00.000Z","status":"pending","priority":"high"},
		{"_id":"t2","taskName":"Write docs","description":"d","assignedTo":{"_id":"u2","name":"Ada"},"assignedBy":"m1","date":"2024-03-15","status":"completed","priority":"low"},
		{"_id":"t3","taskName":"Orphan","description":"d","assignedTo":null,"date":"2024-03-20","status":"pending","priority":"medium"}
	]`

	var dtos []TaskDTO
	require.NoError(t, json.Unmarshal([]byte(body), &dtos))
	assert.Equal(t, RefID, dtos[0].AssignedTo.Kind)
	assert.Equal(t, RefUser, dtos[0].AssignedBy.Kind)
	assert.Equal(t, RefNone, dtos[2].AssignedTo.Kind)

	tasks, skipped := TasksToDomain(dtos)
	require.Empty(t, skipped)
	require.Len(t, tasks, 3)

	assert.Equal(t, domain.UserRef{ID: "u1"}, tasks[0].AssignedTo)
	assert.Equal(t, domain.UserRef{ID: "m1", Name: "Maria", Email: "m@x.io"}, tasks[0].AssignedBy)
	assert.Equal(t, "u2", tasks[1].AssignedTo.ID)
	assert.Equal(t, "Ada", tasks[1].AssignedTo.DisplayName())
	assert.Equal(t, "Unknown", tasks[0].AssignedTo.DisplayName())
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), tasks[1].Date)
	assert.Equal(t, domain.StatusCompleted, tasks[1].Status)
}

func TestTasksToDomainSkipsMalformedEntries(t *testing.T) {
	dtos := []TaskDTO{
		{ID: "t1", TaskName: "A", Date: "2024-03-01"},
		{ID: "t2", TaskName: "B", Date: "next tuesday"},
		{ID: "t3", TaskName: "C", Date: "2024-03-03"},
	}

	tasks, skipped := TasksToDomain(dtos)
	require.Len(t, tasks, 2)
	assert.Equal(t, "t1", tasks[0].ID)
	assert.Equal(t, "t3", tasks[1].ID)
	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0].Error(), "task t2")
}

func TestUserRefRejectsUnexpectedJSON(t *testing.T) {
	var ref UserRef
	assert.Error(t, json.Unmarshal([]byte(`42`), &ref))
}

func TestUserRefMarshalRoundsTripShape(t *testing.T) {
	out, err := json.Marshal(UserRef{Kind: RefID, ID: "u1"})
	require.NoError(t, err)
	assert.JSONEq(t, `"u1"`, string(out))
}

func TestNewSignupRequestOmitsManagerForManagers(t *testing.T) {
	req := NewSignupRequest(domain.Registration{Name: "M", Email: "m@x.io", Password: "p", Role: domain.RoleManager, ManagerID: "m0"})
	out, err := json.Marshal(req)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "managerId")

	req = NewSignupRequest(domain.Registration{Name: "E", Email: "e@x.io", Password: "p", Role: domain.RoleEmployee, ManagerID: "m1"})
	assert.Equal(t, "m1", req.ManagerID)
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2024-03-01T10:30:00+02:00")
	require.NoError(t, err)
	y, m, d := got.Date()
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.March, m)
	assert.Equal(t, 1, d)

	zero, err := ParseTime("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}
