package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fastygo/taskboard/domain"
)

func TestWriteTasks(t *testing.T) {
	tasks := []domain.Task{
		{
			ID:          "t1",
			TaskName:    "Write report",
			Description: "Quarterly numbers",
			AssignedTo:  domain.UserRef{ID: "u1", Name: "Ada"},
			AssignedBy:  domain.UserRef{ID: "m1"},
			Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Status:      domain.StatusPending,
			Priority:    domain.PriorityHigh,
		},
		{ID: "t2", TaskName: "Review", Status: domain.StatusCompleted, Priority: domain.PriorityLow},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTasks(&buf, tasks))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, []string{"t1", "Write report", "Quarterly numbers", "Ada", "Unknown", "2024-03-01", "pending", "high"}, rows[1])
	assert.Equal(t, "t2", rows[2][0])
	assert.Equal(t, "completed", rows[2][6])
}

func TestWriteTasksEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTasks(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
