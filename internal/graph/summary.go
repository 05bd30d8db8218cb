package graph

import (
	"math"

	"github.com/balkashynov/taskgraph/internal/models"
)

// Summary aggregates task counts for a project.
type Summary struct {
	Total            int
	Done             int
	InProgress       int
	Ready            int // pending with every dependency done
	Blocked          int // pending with at least one unmet dependency
	WithDependencies int
	PercentDone      int // rounded to the nearest integer
}

// Summarize counts tasks by status and readiness.
func Summarize(tasks []models.Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		if len(t.Dependencies) > 0 {
			s.WithDependencies++
		}
		switch t.Status {
		case models.StatusDone:
			s.Done++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusPending:
			if IsReady(t, tasks) {
				s.Ready++
			} else {
				s.Blocked++
			}
		}
	}
	if s.Total > 0 {
		s.PercentDone = int(math.Round(float64(s.Done) / float64(s.Total) * 100))
	}
	return s
}
