package db

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/balkashynov/taskgraph/internal/graph"
	"github.com/balkashynov/taskgraph/internal/models"
	"github.com/balkashynov/taskgraph/internal/scoring"
)

var (
	// ErrTaskNotFound is returned when an id names no task.
	ErrTaskNotFound = errors.New("task not found")

	// ErrEmptyTitle is returned when adding a task without a title.
	ErrEmptyTitle = errors.New("task title is required")

	// ErrSelfDependency is returned when a task would depend on itself.
	ErrSelfDependency = errors.New("a task cannot depend on itself")

	// ErrDuplicateDependency is returned when the edge already exists.
	ErrDuplicateDependency = errors.New("dependency already exists")

	// ErrCycle is returned when a new edge would close a dependency loop.
	ErrCycle = errors.New("dependency would create a cycle")

	// ErrNotDependent is returned when removing an edge that does not exist.
	ErrNotDependent = errors.New("dependency not found")

	// ErrAlreadyDone is returned when completing a task twice.
	ErrAlreadyDone = errors.New("task is already completed")
)

// TaskService implements the task commands on top of a Store. Each method
// loads the project, validates, mutates it in memory and saves it whole.
// Nothing is saved when validation fails.
type TaskService struct {
	store   Store
	now     func() time.Time
	weights scoring.Weights
	log     *log.Logger
}

// NewTaskService creates a service. now supplies the reference date for new
// tasks, completion stamps and urgency.
func NewTaskService(store Store, now func() time.Time, weights scoring.Weights, logger *log.Logger) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{store: store, now: now, weights: weights, log: discardIfNil(logger)}
}

// Project loads the current project snapshot.
func (s *TaskService) Project() (*models.Project, error) {
	return s.store.Load()
}

// Scorer returns a scorer over the snapshot p.
func (s *TaskService) Scorer(p *models.Project) *scoring.Scorer {
	return scoring.New(p.Tasks, s.now(), s.weights)
}

func (s *TaskService) today() models.Date {
	return models.DateOf(s.now())
}

func (s *TaskService) save(p *models.Project) error {
	if err := s.store.Save(p); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func findTask(p *models.Project, id int) (*models.Task, error) {
	t := p.Find(id)
	if t == nil {
		return nil, fmt.Errorf("%w: #%d", ErrTaskNotFound, id)
	}
	return t, nil
}

// CreateTaskRequest holds the data needed to create a new task
type CreateTaskRequest struct {
	Title        string
	Description  string
	Priority     models.Priority // empty means medium
	Dependencies []int
}

// CreateTask appends a pending task with the next free id.
func (s *TaskService) CreateTask(req CreateTaskRequest) (*models.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	p, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	deps := []int{}
	for _, depID := range req.Dependencies {
		if _, err := findTask(p, depID); err != nil {
			return nil, err
		}
		for _, seen := range deps {
			if seen == depID {
				return nil, fmt.Errorf("%w: #%d listed twice", ErrDuplicateDependency, depID)
			}
		}
		deps = append(deps, depID)
	}

	task := models.Task{
		ID:           p.NextID(),
		Title:        title,
		Description:  req.Description,
		Status:       models.StatusPending,
		Priority:     priority,
		Dependencies: deps,
		CreatedAt:    s.today(),
	}
	p.Tasks = append(p.Tasks, task)

	if err := s.save(p); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask returns a task together with the snapshot it was read from.
func (s *TaskService) GetTask(id int) (*models.Task, *models.Project, error) {
	p, err := s.store.Load()
	if err != nil {
		return nil, nil, err
	}
	t, err := findTask(p, id)
	if err != nil {
		return nil, nil, err
	}
	return t, p, nil
}

// DoneResult describes the effect of completing a task.
type DoneResult struct {
	Task      models.Task
	Unblocked []models.Task // dependents that became ready
	Next      *models.Task  // best ready task afterwards, if any
}

// MarkTaskDone completes a task and stamps its completion date.
func (s *TaskService) MarkTaskDone(id int) (*DoneResult, error) {
	p, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	t, err := findTask(p, id)
	if err != nil {
		return nil, err
	}
	if t.Status == models.StatusDone {
		return nil, fmt.Errorf("%w: #%d", ErrAlreadyDone, id)
	}

	today := s.today()
	t.Status = models.StatusDone
	t.CompletedAt = &today
	if err := s.save(p); err != nil {
		return nil, err
	}

	res := &DoneResult{Task: *t}
	for _, dep := range graph.BlockedBy(id, p.Tasks) {
		if dep.Status == models.StatusPending && graph.IsReady(dep, p.Tasks) {
			res.Unblocked = append(res.Unblocked, dep)
		}
	}

	ready := readyTasks(p.Tasks)
	if len(ready) > 0 {
		ranked, err := s.Scorer(p).Rank(ready)
		if err != nil {
			s.log.Printf("ranking ready tasks: %v", err)
			next := ready[0]
			res.Next = &next
		} else {
			next := ranked[0].Task
			res.Next = &next
		}
	}
	return res, nil
}

// NextResult describes the outcome of picking the next task.
type NextResult struct {
	// Active is the task in progress: either one that already was or the one
	// just started. Nil when nothing is ready.
	Active *scoring.Ranked
	// Started is true when Active was switched to in-progress by this call.
	Started bool
	// RunnersUp are up to three other ready tasks, best first.
	RunnersUp []scoring.Ranked
	// Blocked lists pending tasks when none of them is ready.
	Blocked []models.Task
	// Project is the snapshot the result was computed from.
	Project *models.Project
}

// AllDone reports whether no pending work remains.
func (r *NextResult) AllDone() bool {
	return r.Active == nil && len(r.Blocked) == 0
}

const maxRunnersUp = 3

// StartNext returns the task already in progress, or starts the ready
// pending task with the highest score.
func (s *TaskService) StartNext() (*NextResult, error) {
	p, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	res := &NextResult{Project: p}
	scorer := s.Scorer(p)

	for _, t := range p.Tasks {
		if t.Status != models.StatusInProgress {
			continue
		}
		sc, err := scorer.Score(t)
		if err != nil {
			return nil, err
		}
		res.Active = &scoring.Ranked{Task: t, Score: sc}
		return res, nil
	}

	ready := readyTasks(p.Tasks)
	if len(ready) == 0 {
		for _, t := range p.Tasks {
			if t.Status == models.StatusPending {
				res.Blocked = append(res.Blocked, t)
			}
		}
		return res, nil
	}

	ranked, err := scorer.Rank(ready)
	if err != nil {
		return nil, err
	}

	best := ranked[0]
	p.Find(best.Task.ID).Status = models.StatusInProgress
	if err := s.save(p); err != nil {
		return nil, err
	}
	best.Task.Status = models.StatusInProgress

	res.Active = &best
	res.Started = true
	for i := 1; i < len(ranked) && i <= maxRunnersUp; i++ {
		res.RunnersUp = append(res.RunnersUp, ranked[i])
	}
	return res, nil
}

// AddDependency records that task id depends on depID.
func (s *TaskService) AddDependency(id, depID int) (task, dep models.Task, err error) {
	p, err := s.store.Load()
	if err != nil {
		return task, dep, err
	}
	t, err := findTask(p, id)
	if err != nil {
		return task, dep, err
	}
	d, err := findTask(p, depID)
	if err != nil {
		return task, dep, err
	}
	if id == depID {
		return task, dep, fmt.Errorf("%w: #%d", ErrSelfDependency, id)
	}
	if t.DependsOn(depID) {
		return task, dep, fmt.Errorf("%w: #%d already depends on #%d", ErrDuplicateDependency, id, depID)
	}
	if graph.HasCycle(id, depID, p.Tasks) {
		return task, dep, fmt.Errorf("%w: #%d already depends (directly or indirectly) on #%d", ErrCycle, depID, id)
	}

	t.Dependencies = append(t.Dependencies, depID)
	if err := s.save(p); err != nil {
		return task, dep, err
	}
	return *t, *d, nil
}

// RemoveDependency deletes the edge id → depID.
func (s *TaskService) RemoveDependency(id, depID int) (*models.Task, error) {
	p, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	t, err := findTask(p, id)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, dep := range t.Dependencies {
		if dep == depID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%w: #%d does not depend on #%d", ErrNotDependent, id, depID)
	}

	t.Dependencies = append(t.Dependencies[:idx], t.Dependencies[idx+1:]...)
	if err := s.save(p); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateDescription replaces a task's description.
func (s *TaskService) UpdateDescription(id int, description string) (*models.Task, error) {
	p, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	t, err := findTask(p, id)
	if err != nil {
		return nil, err
	}
	t.Description = description
	if err := s.save(p); err != nil {
		return nil, err
	}
	return t, nil
}

// SetPriority replaces a task's priority tier.
func (s *TaskService) SetPriority(id int, priority models.Priority) (*models.Task, error) {
	p, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	t, err := findTask(p, id)
	if err != nil {
		return nil, err
	}
	t.Priority = priority
	if err := s.save(p); err != nil {
		return nil, err
	}
	return t, nil
}

// Scores ranks every task that is not done.
func (s *TaskService) Scores() ([]scoring.Ranked, *models.Project, error) {
	p, err := s.store.Load()
	if err != nil {
		return nil, nil, err
	}
	var open []models.Task
	for _, t := range p.Tasks {
		if t.Status != models.StatusDone {
			open = append(open, t)
		}
	}
	ranked, err := s.Scorer(p).Rank(open)
	if err != nil {
		return nil, p, err
	}
	return ranked, p, nil
}

func readyTasks(tasks []models.Task) []models.Task {
	var ready []models.Task
	for _, t := range tasks {
		if t.Status == models.StatusPending && graph.IsReady(t, tasks) {
			ready = append(ready, t)
		}
	}
	return ready
}
