// ABOUTME: Tests for task ordering, status changes and due-date views
// ABOUTME: Also covers the due-soon window and the notifier loop lifecycle
package crm

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/amil/models"
)

func TestSortTasksOrder(t *testing.T) {
	now := testNow
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	tasks := []models.Task{
		{ID: "done", DueDate: yesterday, Status: models.TaskCompleted},
		{ID: "future", DueDate: tomorrow, Status: models.TaskPending},
		{ID: "overdue", DueDate: yesterday, Status: models.TaskInProgress},
	}
	sorted := SortTasks(tasks, now)

	ids := []string{sorted[0].ID, sorted[1].ID, sorted[2].ID}
	assert.Equal(t, []string{"overdue", "future", "done"}, ids)
	assert.Equal(t, "done", tasks[0].ID, "input must not be reordered")
}

func TestSortTasksTiesByDueDate(t *testing.T) {
	tasks := []models.Task{
		{ID: "b", DueDate: testNow.Add(2 * time.Hour), Status: models.TaskPending},
		{ID: "a", DueDate: testNow.Add(time.Hour), Status: models.TaskPending},
		{ID: "d2", DueDate: testNow.Add(-time.Hour), Status: models.TaskCompleted},
		{ID: "d1", DueDate: testNow.Add(-2 * time.Hour), Status: models.TaskCompleted},
	}
	sorted := SortTasks(tasks, testNow)
	assert.Equal(t, "a", sorted[0].ID)
	assert.Equal(t, "b", sorted[1].ID)
	assert.Equal(t, "d1", sorted[2].ID)
	assert.Equal(t, "d2", sorted[3].ID)
}

func TestServiceListsTasksSorted(t *testing.T) {
	s := newTestService(t)
	_, err := s.CreateTask(sampleTask("done", testNow.AddDate(0, 0, -1), models.TaskCompleted))
	require.NoError(t, err)
	_, err = s.CreateTask(sampleTask("future", testNow.AddDate(0, 0, 1), models.TaskPending))
	require.NoError(t, err)
	_, err = s.CreateTask(sampleTask("overdue", testNow.AddDate(0, 0, -1), models.TaskPending))
	require.NoError(t, err)

	tasks := s.Tasks(TaskFilter{})
	require.Len(t, tasks, 3)
	assert.Equal(t, "overdue", tasks[0].Title)
	assert.Equal(t, "future", tasks[1].Title)
	assert.Equal(t, "done", tasks[2].Title)
}

func TestStatusTransitionsAreUnconstrained(t *testing.T) {
	s := newTestService(t)
	task, err := s.CreateTask(sampleTask("t", testNow, models.TaskPending))
	require.NoError(t, err)

	for _, st := range []models.TaskStatus{models.TaskCompleted, models.TaskPending, models.TaskInProgress, models.TaskCompleted} {
		got, err := s.SetTaskStatus(task.ID, st)
		require.NoError(t, err)
		assert.Equal(t, st, got.Status)
	}

	_, err = s.SetTaskStatus(task.ID, models.TaskStatus("done"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompletedTasksInRange(t *testing.T) {
	s := newTestService(t)
	_, err := s.CreateTask(sampleTask("in", time.Date(2024, 5, 3, 15, 0, 0, 0, time.UTC), models.TaskCompleted))
	require.NoError(t, err)
	_, err = s.CreateTask(sampleTask("out", time.Date(2024, 4, 3, 15, 0, 0, 0, time.UTC), models.TaskCompleted))
	require.NoError(t, err)
	_, err = s.CreateTask(sampleTask("open", time.Date(2024, 5, 3, 15, 0, 0, 0, time.UTC), models.TaskPending))
	require.NoError(t, err)

	r := DayRange{From: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)}
	got := s.Tasks(TaskFilter{Completed: &r})
	require.Len(t, got, 1)
	assert.Equal(t, "in", got[0].Title)
}

func TestOverdueTodayAndCounts(t *testing.T) {
	tasks := []models.Task{
		{ID: "late", DueDate: testNow.Add(-3 * time.Hour), Status: models.TaskPending},
		{ID: "today", DueDate: testNow.Add(3 * time.Hour), Status: models.TaskInProgress},
		{ID: "done-today", DueDate: testNow.Add(time.Hour), Status: models.TaskCompleted},
		{ID: "later", DueDate: testNow.AddDate(0, 0, 3), Status: models.TaskPending},
	}

	overdue := Overdue(tasks, testNow)
	require.Len(t, overdue, 1)
	assert.Equal(t, "late", overdue[0].ID)

	today := DueToday(tasks, testNow)
	require.Len(t, today, 2)
	assert.Equal(t, "late", today[0].ID)
	assert.Equal(t, "today", today[1].ID)

	counts := StatusCounts(tasks)
	assert.Equal(t, 2, counts[models.TaskPending])
	assert.Equal(t, 1, counts[models.TaskInProgress])
	assert.Equal(t, 1, counts[models.TaskCompleted])
}

func TestDueSoonWindow(t *testing.T) {
	in30 := models.Task{ID: "30m", DueDate: testNow.Add(30 * time.Minute), Status: models.TaskPending}
	done := in30
	done.ID = "done"
	done.Status = models.TaskCompleted
	in90 := models.Task{ID: "90m", DueDate: testNow.Add(90 * time.Minute), Status: models.TaskPending}
	past := models.Task{ID: "past", DueDate: testNow.Add(-time.Minute), Status: models.TaskPending}
	edge := models.Task{ID: "edge", DueDate: testNow.Add(time.Hour), Status: models.TaskInProgress}
	exact := models.Task{ID: "now", DueDate: testNow, Status: models.TaskPending}

	got := DueSoon([]models.Task{in30, done, in90, past, edge, exact}, testNow, time.Hour)
	ids := make([]string, 0, len(got))
	for _, task := range got {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"30m", "edge"}, ids)
}

func TestNotifierChecksImmediatelyAndStops(t *testing.T) {
	var mu sync.Mutex
	var calls [][]models.Task
	first := make(chan struct{})

	tasks := []models.Task{{ID: "soon", DueDate: testNow.Add(10 * time.Minute), Status: models.TaskPending}}
	n := NewNotifier(func() []models.Task { return tasks }, func(due []models.Task) {
		mu.Lock()
		calls = append(calls, due)
		if len(calls) == 1 {
			close(first)
		}
		mu.Unlock()
	})
	n.now = func() time.Time { return testNow }
	n.Interval = time.Hour

	n.Start(context.Background())
	n.Start(context.Background())

	select {
	case <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier did not run its first check")
	}
	n.Stop()
	n.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 1)
	require.Len(t, calls[0], 1)
	assert.Equal(t, "soon", calls[0][0].ID)
}

func TestNotifierTicksReplaceSet(t *testing.T) {
	var mu sync.Mutex
	status := models.TaskPending
	results := make(chan int, 10)

	n := NewNotifier(func() []models.Task {
		mu.Lock()
		defer mu.Unlock()
		return []models.Task{{ID: "x", DueDate: testNow.Add(time.Minute), Status: status}}
	}, func(due []models.Task) {
		select {
		case results <- len(due):
		default:
		}
	})
	n.now = func() time.Time { return testNow }
	n.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.Run(ctx)
		close(done)
	}()

	assert.Equal(t, 1, <-results)
	mu.Lock()
	status = models.TaskCompleted
	mu.Unlock()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case got := <-results:
			if got == 0 {
				cancel()
				<-done
				return
			}
		case <-deadline:
			cancel()
			t.Fatal("completed task was never dropped from the notification set")
		}
	}
}

func TestNotifierForService(t *testing.T) {
	s := newTestService(t)
	_, err := s.CreateTask(sampleTask("soon", testNow.Add(20*time.Minute), models.TaskPending))
	require.NoError(t, err)

	n := ForService(s, func([]models.Task) {})
	due := n.Check()
	require.Len(t, due, 1)
	assert.Equal(t, "soon", due[0].Title)
}
