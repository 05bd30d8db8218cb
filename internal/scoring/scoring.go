// Package scoring ranks tasks by a weighted composite of urgency, priority
// tier, direct dependents and graph depth. Higher scores come first.
package scoring

import (
	"sort"
	"time"

	"github.com/balkashynov/taskgraph/internal/graph"
	"github.com/balkashynov/taskgraph/internal/models"
)

// Weights configures the composite score.
type Weights struct {
	Urgency    int
	Priority   int
	Dependents int
	Depth      int

	// UrgencyCap bounds the number of days counted for urgency.
	UrgencyCap int
}

// DefaultWeights returns the production weights:
//
//	score = 2*urgency + 3*priority + 4*dependents + 1*depth
//
// with urgency capped at 10 days.
func DefaultWeights() Weights {
	return Weights{
		Urgency:    2,
		Priority:   3,
		Dependents: 4,
		Depth:      1,
		UrgencyCap: 10,
	}
}

// Component is one weighted term of a score.
type Component struct {
	Value  int
	Weight int
	Points int
}

func component(value, weight int) Component {
	return Component{Value: value, Weight: weight, Points: value * weight}
}

// Score is the breakdown of a task's composite score.
type Score struct {
	TaskID     int
	Total      int
	Urgency    Component
	Priority   Component
	Dependents Component
	Depth      Component
}

// Ranked pairs a task with its score.
type Ranked struct {
	Task  models.Task
	Score Score
}

// Scorer scores tasks against one snapshot of the project. Depths are
// memoized for the lifetime of the scorer.
type Scorer struct {
	tasks   []models.Task
	depths  *graph.DepthIndex
	today   time.Time
	weights Weights
}

// New creates a scorer over tasks, measuring urgency against today.
func New(tasks []models.Task, today time.Time, weights Weights) *Scorer {
	return &Scorer{
		tasks:   tasks,
		depths:  graph.NewDepthIndex(tasks),
		today:   today,
		weights: weights,
	}
}

// Score computes the breakdown for t. It fails only when t sits behind a
// dependency cycle (graph.ErrDepthCycle).
func (s *Scorer) Score(t models.Task) (Score, error) {
	depth, err := s.depths.Depth(t.ID)
	if err != nil {
		return Score{}, err
	}

	sc := Score{
		TaskID:     t.ID,
		Urgency:    component(Urgency(t.CreatedAt, s.today, s.weights.UrgencyCap), s.weights.Urgency),
		Priority:   component(PriorityWeight(t.Priority), s.weights.Priority),
		Dependents: component(graph.DependentCount(t.ID, s.tasks), s.weights.Dependents),
		Depth:      component(depth, s.weights.Depth),
	}
	sc.Total = sc.Urgency.Points + sc.Priority.Points + sc.Dependents.Points + sc.Depth.Points
	return sc, nil
}

// Rank scores candidates and sorts them by descending total. Equal totals
// keep ascending id order.
func (s *Scorer) Rank(candidates []models.Task) ([]Ranked, error) {
	ranked := make([]Ranked, 0, len(candidates))
	for _, t := range candidates {
		sc, err := s.Score(t)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, Ranked{Task: t, Score: sc})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score.Total != ranked[j].Score.Total {
			return ranked[i].Score.Total > ranked[j].Score.Total
		}
		return ranked[i].Task.ID < ranked[j].Task.ID
	})
	return ranked, nil
}

// Urgency returns whole days elapsed between created and today, clamped to
// [0, maxDays]. Invalid or placeholder dates count as 0.
func Urgency(created models.Date, today time.Time, maxDays int) int {
	start, ok := created.Time()
	if !ok {
		return 0
	}
	y, m, d := today.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	if days > maxDays {
		return maxDays
	}
	return days
}

// PriorityWeight maps a tier to its numeric value. Unknown tiers weigh as
// medium.
func PriorityWeight(p models.Priority) int {
	switch p {
	case models.PriorityHigh:
		return 10
	case models.PriorityMedium:
		return 5
	case models.PriorityLow:
		return 2
	default:
		return 5
	}
}
