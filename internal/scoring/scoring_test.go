package scoring

import (
	"errors"
	"testing"
	"time"

	"github.com/balkashynov/taskgraph/internal/graph"
	"github.com/balkashynov/taskgraph/internal/models"
)

var today = time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)

func task(id int, prio models.Priority, created models.Date, deps ...int) models.Task {
	if deps == nil {
		deps = []int{}
	}
	return models.Task{
		ID:           id,
		Title:        "task",
		Status:       models.StatusPending,
		Priority:     prio,
		Dependencies: deps,
		CreatedAt:    created,
	}
}

func TestUrgency(t *testing.T) {
	tests := []struct {
		name    string
		created models.Date
		want    int
	}{
		{"today", "2026-10-15", 0},
		{"yesterday", "2026-10-14", 1},
		{"a week ago", "2026-10-08", 7},
		{"capped", "2026-01-01", 10},
		{"future", "2026-10-20", 0},
		{"placeholder", "{{DATE}}", 0},
		{"garbage", "not-a-date", 0},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Urgency(tt.created, today, 10); got != tt.want {
				t.Errorf("Urgency(%q) = %d, want %d", tt.created, got, tt.want)
			}
		})
	}
}

func TestPriorityWeight(t *testing.T) {
	tests := []struct {
		p    models.Priority
		want int
	}{
		{models.PriorityHigh, 10},
		{models.PriorityMedium, 5},
		{models.PriorityLow, 2},
		{"urgent", 5},
		{"", 5},
	}
	for _, tt := range tests {
		if got := PriorityWeight(tt.p); got != tt.want {
			t.Errorf("PriorityWeight(%q) = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestScore_Breakdown(t *testing.T) {
	tasks := []models.Task{
		task(1, models.PriorityHigh, "2026-10-12"),
		task(2, models.PriorityLow, "2026-10-15", 1),
		task(3, models.PriorityMedium, "2026-10-15", 1, 2),
	}
	s := New(tasks, today, DefaultWeights())

	got, err := s.Score(tasks[0])
	if err != nil {
		t.Fatal(err)
	}
	// urgency 3*2 + priority 10*3 + dependents 2*4 + depth 0*1
	if got.Total != 44 {
		t.Errorf("Total = %d, want 44", got.Total)
	}
	if got.Urgency != (Component{Value: 3, Weight: 2, Points: 6}) {
		t.Errorf("Urgency = %+v", got.Urgency)
	}
	if got.Priority != (Component{Value: 10, Weight: 3, Points: 30}) {
		t.Errorf("Priority = %+v", got.Priority)
	}
	if got.Dependents != (Component{Value: 2, Weight: 4, Points: 8}) {
		t.Errorf("Dependents = %+v", got.Dependents)
	}

	third, err := s.Score(tasks[2])
	if err != nil {
		t.Fatal(err)
	}
	if third.Depth.Value != 2 || third.Total != 5*3+2 {
		t.Errorf("task 3 score = %+v", third)
	}
}

func TestScore_Deterministic(t *testing.T) {
	tasks := []models.Task{
		task(1, models.PriorityHigh, "2026-10-01"),
		task(2, models.PriorityMedium, "2026-10-10", 1),
	}
	first, err := New(tasks, today, DefaultWeights()).Score(tasks[1])
	if err != nil {
		t.Fatal(err)
	}
	s := New(tasks, today, DefaultWeights())
	for i := 0; i < 3; i++ {
		again, err := s.Score(tasks[1])
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("score changed between calls: %+v vs %+v", first, again)
		}
	}
}

func TestScore_DeeperTaskScoresOneMore(t *testing.T) {
	tasks := []models.Task{
		task(1, models.PriorityMedium, "2026-10-15"),
		task(2, models.PriorityMedium, "2026-10-15", 1),
		task(3, models.PriorityMedium, "2026-10-15"),
	}
	// #2 and #3 both have no dependents; only #2 sits one level deep.
	s := New(tasks, today, DefaultWeights())
	ranked, err := s.Rank([]models.Task{tasks[2], tasks[1]})
	if err != nil {
		t.Fatal(err)
	}
	if ranked[0].Task.ID != 2 {
		t.Fatalf("expected deeper #2 first, got #%d", ranked[0].Task.ID)
	}
	if diff := ranked[0].Score.Total - ranked[1].Score.Total; diff != 1 {
		t.Errorf("score difference = %d, want 1", diff)
	}
}

func TestScore_PriorityChangeAddsFifteen(t *testing.T) {
	tasks := []models.Task{
		task(1, models.PriorityMedium, "2026-10-15"),
		task(2, models.PriorityMedium, "2026-10-15"),
	}
	before, err := New(tasks, today, DefaultWeights()).Score(tasks[1])
	if err != nil {
		t.Fatal(err)
	}

	tasks[1].Priority = models.PriorityHigh
	s := New(tasks, today, DefaultWeights())
	after, err := s.Score(tasks[1])
	if err != nil {
		t.Fatal(err)
	}
	if after.Total-before.Total != 15 {
		t.Errorf("priority change added %d points, want 15", after.Total-before.Total)
	}

	ranked, err := s.Rank(tasks)
	if err != nil {
		t.Fatal(err)
	}
	if ranked[0].Task.ID != 2 {
		t.Errorf("#2 should now outrank #1, got order #%d, #%d", ranked[0].Task.ID, ranked[1].Task.ID)
	}
}

func TestRank_TiesBrokenByID(t *testing.T) {
	tasks := []models.Task{
		task(3, models.PriorityMedium, "2026-10-15"),
		task(1, models.PriorityMedium, "2026-10-15"),
		task(2, models.PriorityMedium, "2026-10-15"),
	}
	ranked, err := New(tasks, today, DefaultWeights()).Rank(tasks)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []int{1, 2, 3} {
		if ranked[i].Task.ID != want {
			t.Errorf("position %d = #%d, want #%d", i, ranked[i].Task.ID, want)
		}
	}
}

func TestRank_CycleError(t *testing.T) {
	tasks := []models.Task{
		task(1, models.PriorityMedium, "2026-10-15", 2),
		task(2, models.PriorityMedium, "2026-10-15", 1),
	}
	_, err := New(tasks, today, DefaultWeights()).Rank(tasks)
	if !errors.Is(err, graph.ErrDepthCycle) {
		t.Errorf("expected ErrDepthCycle, got %v", err)
	}
}

func TestCustomWeights(t *testing.T) {
	tasks := []models.Task{task(1, models.PriorityLow, "2026-09-01")}
	w := Weights{Urgency: 1, Priority: 1, Dependents: 1, Depth: 1, UrgencyCap: 30}
	got, err := New(tasks, today, w).Score(tasks[0])
	if err != nil {
		t.Fatal(err)
	}
	if got.Urgency.Value != 30 || got.Total != 32 {
		t.Errorf("custom score = %+v", got)
	}
}
