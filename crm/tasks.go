// ABOUTME: Task operations, ordering and due-date views
// ABOUTME: Incomplete before completed, overdue first, then by due date
package crm

import (
	"sort"
	"time"

	"github.com/harperreed/amil/models"
	"github.com/harperreed/amil/store"
)

// TaskFilter matches on status, priority, customer and, for completed
// tasks, a due-date day range.
type TaskFilter struct {
	Status     models.TaskStatus
	Priority   models.Priority
	CustomerID string
	// Completed restricts to completed tasks due within the range
	Completed *DayRange
}

func (f TaskFilter) Match(t *models.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.CustomerID != "" && t.CustomerID != f.CustomerID {
		return false
	}
	if f.Completed != nil {
		return t.Status == models.TaskCompleted && f.Completed.Contains(t.DueDate)
	}
	return true
}

// Tasks returns matching tasks in display order.
func (s *Service) Tasks(f TaskFilter) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SortTasks(s.tasks.List(f.Match), s.now())
}

func (s *Service) Task(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks.Get(id)
}

func (s *Service) CreateTask(draft models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t, err := s.tasks.Create(draft, s.ids.New(now), now)
	if err != nil {
		return t, err
	}
	s.log.Info("task created", "id", t.ID, "title", t.Title, "due", t.DueDate)
	return t, s.persist(store.KeyTasks)
}

func (s *Service) UpdateTask(id string, draft models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.tasks.Update(id, draft)
	if err != nil {
		return t, err
	}
	return t, s.persist(store.KeyTasks)
}

// SetTaskStatus moves a task to any status; transitions are unconstrained.
func (s *Service) SetTaskStatus(id string, status models.TaskStatus) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !status.Valid() {
		return models.Task{}, &ValidationError{Field: "status", Reason: "unknown task status " + string(status)}
	}
	if !s.tasks.Mutate(id, func(t *models.Task) { t.Status = status }) {
		return models.Task{}, ErrNotFound
	}
	t, _ := s.tasks.Get(id)
	return t, s.persist(store.KeyTasks)
}

func (s *Service) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks.Delete(id); !ok {
		return nil
	}
	return s.persist(store.KeyTasks)
}

// SortTasks returns a sorted copy; the input is left untouched.
func SortTasks(tasks []models.Task, now time.Time) []models.Task {
	out := append([]models.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		aDone, bDone := a.Status == models.TaskCompleted, b.Status == models.TaskCompleted
		if aDone != bDone {
			return !aDone
		}
		if !aDone {
			aOver, bOver := a.DueDate.Before(now), b.DueDate.Before(now)
			if aOver != bOver {
				return aOver
			}
		}
		return a.DueDate.Before(b.DueDate)
	})
	return out
}

// Overdue lists incomplete tasks already past due.
func Overdue(tasks []models.Task, now time.Time) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.IsOverdue(now) {
			out = append(out, t)
		}
	}
	return out
}

// DueToday lists incomplete tasks due on now's calendar day.
func DueToday(tasks []models.Task, now time.Time) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.Status != models.TaskCompleted && SameDay(t.DueDate.In(now.Location()), now) {
			out = append(out, t)
		}
	}
	return out
}

func StatusCounts(tasks []models.Task) map[models.TaskStatus]int {
	counts := make(map[models.TaskStatus]int, len(models.TaskStatuses))
	for _, st := range models.TaskStatuses {
		counts[st] = 0
	}
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}
