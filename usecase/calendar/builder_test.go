package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
)

func task(id, date string) domain.Task {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return domain.Task{ID: id, Date: t}
}

func TestBuildCoversEveryMonthExactly(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	for year := 2023; year <= 2024; year++ {
		for month := time.January; month <= time.December; month++ {
			ref := time.Date(year, month, 17, 8, 30, 0, 0, time.UTC)
			days := Build(ref, nil, now)

			want := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
			require.Len(t, days, want, "%d-%02d", year, month)

			seen := map[string]bool{}
			for i, day := range days {
				assert.Equal(t, i+1, day.Date.Day())
				assert.Equal(t, month, day.Date.Month())
				assert.True(t, day.IsCurrentMonth)
				assert.NotNil(t, day.Tasks)
				key := day.Date.Format(domain.DateLayout)
				assert.False(t, seen[key], "duplicate %s", key)
				seen[key] = true
			}
		}
	}
}

func TestBuildMarch2024(t *testing.T) {
	tasks := []domain.Task{
		task("a", "2024-03-01"),
		task("b", "2024-03-01"),
		task("c", "2024-03-15"),
		task("d", "2024-04-01"),
	}
	ref := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	days := Build(ref, tasks, ref)

	require.Len(t, days, 31)
	for _, day := range days {
		switch day.Date.Day() {
		case 1:
			require.Len(t, day.Tasks, 2)
			assert.Equal(t, "a", day.Tasks[0].ID)
			assert.Equal(t, "b", day.Tasks[1].ID)
		case 15:
			require.Len(t, day.Tasks, 1)
			assert.Equal(t, "c", day.Tasks[0].ID)
		default:
			assert.Empty(t, day.Tasks)
		}
		assert.Equal(t, day.Date.Day() == 10, day.IsToday)
	}
}

func TestBuildIgnoresTimeOfDay(t *testing.T) {
	ref := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	tasks := []domain.Task{
		{ID: "early", Date: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{ID: "late", Date: time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)},
		{ID: "noon", Date: time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)},
	}

	days := Build(ref, tasks, ref)

	require.Len(t, days, 29)
	got := days[28].Tasks
	require.Len(t, got, 3)
	assert.Equal(t, []string{"early", "late", "noon"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestBuildIsIdempotent(t *testing.T) {
	ref := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	tasks := []domain.Task{task("a", "2024-03-01"), task("c", "2024-03-15")}

	first := Build(ref, tasks, ref)
	second := Build(ref, tasks, ref)
	assert.Equal(t, first, second)

	first[0].Tasks[0].ID = "mutated"
	assert.Equal(t, "a", tasks[0].ID)
}

func TestTodayOutsideMonthMarksNothing(t *testing.T) {
	ref := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	for _, day := range Build(ref, nil, now) {
		assert.False(t, day.IsToday)
	}
}

func TestBuilderDay(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	b := NewBuilder(func() time.Time { return now })

	day := b.Day(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), []domain.Task{task("c", "2024-03-15")})
	assert.True(t, day.IsToday)
	require.Len(t, day.Tasks, 1)
}

func TestNavigation(t *testing.T) {
	jan31 := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), NextMonth(jan31))
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), PrevMonth(jan31))

	m, err := ParseMonth("2024-02", jan31, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 29, DaysIn(m))

	m, err = ParseMonth("", jan31, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.January, m.Month())

	_, err = ParseMonth("2024/02", jan31, time.UTC)
	assert.Error(t, err)
}
