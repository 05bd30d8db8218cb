package db

import (
	"errors"
	"reflect"
	"testing"

	"github.com/balkashynov/taskgraph/internal/graph"
	"github.com/balkashynov/taskgraph/internal/models"
	"github.com/balkashynov/taskgraph/internal/scoring"
)

func testWeights() scoring.Weights { return scoring.DefaultWeights() }

func newTestService(t *testing.T) (*TaskService, *JSONStore) {
	t.Helper()
	store, _ := newTestJSONStore(t)
	return NewTaskService(store, fixedClock, testWeights(), nil), store
}

// seed writes tasks directly, bypassing validation.
func seed(t *testing.T, store Store, tasks ...models.Task) {
	t.Helper()
	for i := range tasks {
		if tasks[i].Dependencies == nil {
			tasks[i].Dependencies = []int{}
		}
		if tasks[i].Status == "" {
			tasks[i].Status = models.StatusPending
		}
		if tasks[i].Priority == "" {
			tasks[i].Priority = models.PriorityMedium
		}
		if tasks[i].CreatedAt == "" {
			tasks[i].CreatedAt = "2026-10-15"
		}
	}
	p := &models.Project{Name: "demo", CreatedAt: "2026-10-01", Tasks: tasks}
	if err := store.Save(p); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func mustLoad(t *testing.T, store Store) *models.Project {
	t.Helper()
	p, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return p
}

func TestCreateTask(t *testing.T) {
	svc, store := newTestService(t)

	first, err := svc.CreateTask(CreateTaskRequest{Title: "  Set up DB  "})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if first.ID != 1 || first.Title != "Set up DB" {
		t.Errorf("unexpected task: %+v", first)
	}
	if first.Status != models.StatusPending || first.Priority != models.PriorityMedium {
		t.Errorf("defaults not applied: %+v", first)
	}
	if first.CreatedAt != "2026-10-15" || first.CompletedAt != nil {
		t.Errorf("unexpected dates: %+v", first)
	}

	second, err := svc.CreateTask(CreateTaskRequest{
		Title:        "API",
		Description:  "REST layer",
		Priority:     models.PriorityHigh,
		Dependencies: []int{1},
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if second.ID != 2 || !reflect.DeepEqual(second.Dependencies, []int{1}) {
		t.Errorf("unexpected task: %+v", second)
	}

	if n := len(mustLoad(t, store).Tasks); n != 2 {
		t.Errorf("expected 2 persisted tasks, got %d", n)
	}
}

func TestCreateTask_IDsNeverReused(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, store, models.Task{ID: 7, Title: "old"}, models.Task{ID: 3, Title: "older"})

	task, err := svc.CreateTask(CreateTaskRequest{Title: "new"})
	if err != nil {
		t.Fatal(err)
	}
	if task.ID != 8 {
		t.Errorf("expected id 8, got %d", task.ID)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  CreateTaskRequest
		want error
	}{
		{"empty title", CreateTaskRequest{Title: "   "}, ErrEmptyTitle},
		{"unknown dependency", CreateTaskRequest{Title: "x", Dependencies: []int{99}}, ErrTaskNotFound},
		{"repeated dependency", CreateTaskRequest{Title: "x", Dependencies: []int{1, 1}}, ErrDuplicateDependency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)
			seed(t, store, models.Task{ID: 1, Title: "A"})

			if _, err := svc.CreateTask(tt.req); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if n := len(mustLoad(t, store).Tasks); n != 1 {
				t.Errorf("rejected create must not persist, found %d tasks", n)
			}
		})
	}
}

// A linear chain picks the root first.
func TestStartNext_Chain(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, store,
		models.Task{ID: 1, Title: "DB"},
		models.Task{ID: 2, Title: "API", Dependencies: []int{1}},
		models.Task{ID: 3, Title: "Frontend", Dependencies: []int{2}},
	)

	res, err := svc.StartNext()
	if err != nil {
		t.Fatalf("StartNext failed: %v", err)
	}
	if !res.Started || res.Active == nil || res.Active.Task.ID != 1 {
		t.Fatalf("expected #1 to be started, got %+v", res.Active)
	}
	if res.Active.Task.Status != models.StatusInProgress {
		t.Errorf("returned task should be in progress, got %s", res.Active.Task.Status)
	}
	if len(res.RunnersUp) != 0 {
		t.Errorf("no other task is ready, got %d runners up", len(res.RunnersUp))
	}
	if got := mustLoad(t, store).Find(1).Status; got != models.StatusInProgress {
		t.Errorf("expected persisted status em-progresso, got %s", got)
	}

	again, err := svc.StartNext()
	if err != nil {
		t.Fatal(err)
	}
	if again.Started || again.Active == nil || again.Active.Task.ID != 1 {
		t.Errorf("second call should re-display #1 without starting anything, got %+v", again)
	}
}

func TestStartNext_RunnersUpCapped(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, store,
		models.Task{ID: 1, Title: "a", Priority: models.PriorityHigh},
		models.Task{ID: 2, Title: "b"},
		models.Task{ID: 3, Title: "c"},
		models.Task{ID: 4, Title: "d"},
		models.Task{ID: 5, Title: "e", Priority: models.PriorityLow},
	)

	res, err := svc.StartNext()
	if err != nil {
		t.Fatal(err)
	}
	if res.Active.Task.ID != 1 {
		t.Errorf("expected high priority #1, got #%d", res.Active.Task.ID)
	}
	var ids []int
	for _, r := range res.RunnersUp {
		ids = append(ids, r.Task.ID)
	}
	if !reflect.DeepEqual(ids, []int{2, 3, 4}) {
		t.Errorf("expected runners up [2 3 4], got %v", ids)
	}
}

func TestStartNext_BlockedAndAllDone(t *testing.T) {
	svc, store := newTestService(t)
	done := models.Date("2026-10-10")
	seed(t, store,
		models.Task{ID: 1, Title: "a", Dependencies: []int{2}},
		models.Task{ID: 2, Title: "b", Dependencies: []int{1}},
		models.Task{ID: 3, Title: "c", Status: models.StatusDone, CompletedAt: &done},
	)

	res, err := svc.StartNext()
	if err != nil {
		t.Fatal(err)
	}
	if res.Active != nil || len(res.Blocked) != 2 || res.AllDone() {
		t.Errorf("expected two blocked tasks, got %+v", res)
	}

	seed(t, store, models.Task{ID: 1, Title: "a", Status: models.StatusDone, CompletedAt: &done})
	res, err = svc.StartNext()
	if err != nil {
		t.Fatal(err)
	}
	if !res.AllDone() {
		t.Errorf("expected all done, got %+v", res)
	}
}

// Completing the shared root of a diamond unblocks both branches.
func TestMarkTaskDone_Unblocks(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, store,
		models.Task{ID: 1, Title: "A"},
		models.Task{ID: 2, Title: "B", Dependencies: []int{1}},
		models.Task{ID: 3, Title: "C", Dependencies: []int{1}},
		models.Task{ID: 4, Title: "D", Dependencies: []int{2, 3}},
	)

	res, err := svc.MarkTaskDone(1)
	if err != nil {
		t.Fatalf("MarkTaskDone failed: %v", err)
	}
	if res.Task.Status != models.StatusDone || res.Task.CompletedAt == nil || *res.Task.CompletedAt != "2026-10-15" {
		t.Errorf("task not completed properly: %+v", res.Task)
	}
	var unblocked []int
	for _, u := range res.Unblocked {
		unblocked = append(unblocked, u.ID)
	}
	if !reflect.DeepEqual(unblocked, []int{2, 3}) {
		t.Errorf("expected #2 and #3 unblocked, got %v", unblocked)
	}
	if res.Next == nil || res.Next.ID != 2 {
		t.Errorf("expected #2 suggested next, got %+v", res.Next)
	}

	p := mustLoad(t, store)
	if p.Find(1).Status != models.StatusDone {
		t.Error("completion was not persisted")
	}
	if graph.IsReady(*p.Find(4), p.Tasks) {
		t.Error("#4 still waits on #2 and #3")
	}
}

func TestMarkTaskDone_Errors(t *testing.T) {
	svc, store := newTestService(t)
	done := models.Date("2026-10-10")
	seed(t, store, models.Task{ID: 1, Title: "A", Status: models.StatusDone, CompletedAt: &done})

	if _, err := svc.MarkTaskDone(42); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := svc.MarkTaskDone(1); !errors.Is(err, ErrAlreadyDone) {
		t.Errorf("expected ErrAlreadyDone, got %v", err)
	}
	if got := *mustLoad(t, store).Find(1).CompletedAt; got != done {
		t.Errorf("completion date must not change, got %s", got)
	}
}

func TestAddDependency(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, store,
		models.Task{ID: 1, Title: "A"},
		models.Task{ID: 2, Title: "B"},
	)

	task, dep, err := svc.AddDependency(2, 1)
	if err != nil {
		t.Fatalf("AddDependency failed: %v", err)
	}
	if task.ID != 2 || dep.ID != 1 || !reflect.DeepEqual(task.Dependencies, []int{1}) {
		t.Errorf("unexpected result: %+v %+v", task, dep)
	}
	if !mustLoad(t, store).Find(2).DependsOn(1) {
		t.Error("edge was not persisted")
	}
}

// Rejected edges must leave the graph untouched.
func TestAddDependency_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		id    int
		depID int
		want  error
	}{
		{"unknown task", 9, 1, ErrTaskNotFound},
		{"unknown dependency", 1, 9, ErrTaskNotFound},
		{"self", 2, 2, ErrSelfDependency},
		{"duplicate", 2, 1, ErrDuplicateDependency},
		{"direct cycle", 1, 2, ErrCycle},
		{"transitive cycle", 1, 3, ErrCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)
			seed(t, store,
				models.Task{ID: 1, Title: "A"},
				models.Task{ID: 2, Title: "B", Dependencies: []int{1}},
				models.Task{ID: 3, Title: "C", Dependencies: []int{2}},
			)
			before := mustLoad(t, store)

			if _, _, err := svc.AddDependency(tt.id, tt.depID); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if after := mustLoad(t, store); !reflect.DeepEqual(before.Tasks, after.Tasks) {
				t.Errorf("graph changed after rejected edge:\nbefore %+v\nafter  %+v", before.Tasks, after.Tasks)
			}
		})
	}
}

func TestRemoveDependency(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, store,
		models.Task{ID: 1, Title: "A"},
		models.Task{ID: 2, Title: "B"},
		models.Task{ID: 3, Title: "C", Dependencies: []int{1, 2}},
	)

	task, err := svc.RemoveDependency(3, 1)
	if err != nil {
		t.Fatalf("RemoveDependency failed: %v", err)
	}
	if !reflect.DeepEqual(task.Dependencies, []int{2}) {
		t.Errorf("expected [2], got %v", task.Dependencies)
	}

	if _, err := svc.RemoveDependency(3, 1); !errors.Is(err, ErrNotDependent) {
		t.Errorf("expected ErrNotDependent, got %v", err)
	}
	if _, err := svc.RemoveDependency(8, 1); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if deps := mustLoad(t, store).Find(3).Dependencies; !reflect.DeepEqual(deps, []int{2}) {
		t.Errorf("expected persisted [2], got %v", deps)
	}
}

func TestUpdateDescriptionAndPriority(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, store, models.Task{ID: 1, Title: "A", Description: "old"})

	if _, err := svc.UpdateDescription(1, "new text"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetPriority(1, models.PriorityLow); err != nil {
		t.Fatal(err)
	}
	got := mustLoad(t, store).Find(1)
	if got.Description != "new text" || got.Priority != models.PriorityLow {
		t.Errorf("updates not persisted: %+v", got)
	}

	if _, err := svc.UpdateDescription(5, "x"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := svc.SetPriority(5, models.PriorityHigh); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

// Raising a task to high priority moves it to the top of the ranking.
func TestScores_PriorityRaise(t *testing.T) {
	svc, store := newTestService(t)
	done := models.Date("2026-10-10")
	seed(t, store,
		models.Task{ID: 1, Title: "A"},
		models.Task{ID: 2, Title: "B"},
		models.Task{ID: 3, Title: "C", Status: models.StatusDone, CompletedAt: &done},
	)

	ranked, _, err := svc.Scores()
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 2 || ranked[0].Task.ID != 1 {
		t.Fatalf("expected #1 first among two open tasks, got %+v", ranked)
	}
	before := ranked[1].Score.Total

	if _, err := svc.SetPriority(2, models.PriorityHigh); err != nil {
		t.Fatal(err)
	}
	ranked, _, err = svc.Scores()
	if err != nil {
		t.Fatal(err)
	}
	if ranked[0].Task.ID != 2 {
		t.Errorf("expected #2 on top after raise, got #%d", ranked[0].Task.ID)
	}
	if diff := ranked[0].Score.Total - before; diff != 15 {
		t.Errorf("expected +15 from medium to high, got %+d", diff)
	}
}

type failingStore struct {
	p   *models.Project
	err error
}

func (f *failingStore) Load() (*models.Project, error) {
	cp := *f.p
	cp.Tasks = append([]models.Task(nil), f.p.Tasks...)
	return &cp, nil
}

func (f *failingStore) Save(*models.Project) error { return f.err }

func TestSaveFailureIsReported(t *testing.T) {
	boom := errors.New("disk full")
	store := &failingStore{
		p:   &models.Project{Name: "demo", Tasks: []models.Task{{ID: 1, Title: "A", Status: models.StatusPending, Priority: models.PriorityMedium, Dependencies: []int{}}}},
		err: boom,
	}
	svc := NewTaskService(store, fixedClock, testWeights(), nil)

	if _, err := svc.CreateTask(CreateTaskRequest{Title: "B"}); !errors.Is(err, boom) {
		t.Errorf("expected save error, got %v", err)
	}
	if _, err := svc.MarkTaskDone(1); !errors.Is(err, boom) {
		t.Errorf("expected save error, got %v", err)
	}
	if _, err := svc.StartNext(); !errors.Is(err, boom) {
		t.Errorf("expected save error, got %v", err)
	}
}
