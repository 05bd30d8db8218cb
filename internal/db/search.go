package db

import (
	"sort"
	"strings"

	"github.com/balkashynov/taskgraph/internal/models"
)

// MatchKind ranks how well a task matched a search query.
type MatchKind int

const (
	MatchContains MatchKind = iota + 1
	MatchSuffix
	MatchPrefix
	MatchExact
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchPrefix:
		return "prefix"
	case MatchSuffix:
		return "suffix"
	case MatchContains:
		return "contains"
	default:
		return "none"
	}
}

// SearchHit is one task matching a query.
type SearchHit struct {
	Task  models.Task
	Match MatchKind
}

// SearchTasks matches query case-insensitively against titles and
// descriptions. Hits are ordered exact, prefix, suffix, contains; ties keep
// ascending id.
func (s *TaskService) SearchTasks(query string) ([]SearchHit, error) {
	p, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	var hits []SearchHit
	for _, t := range p.Tasks {
		best := matchField(strings.ToLower(t.Title), q)
		if m := matchField(strings.ToLower(t.Description), q); m > best {
			best = m
		}
		if best > 0 {
			hits = append(hits, SearchHit{Task: t, Match: best})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Match != hits[j].Match {
			return hits[i].Match > hits[j].Match
		}
		return hits[i].Task.ID < hits[j].Task.ID
	})
	return hits, nil
}

func matchField(field, q string) MatchKind {
	switch {
	case field == "":
		return 0
	case field == q:
		return MatchExact
	case strings.HasPrefix(field, q):
		return MatchPrefix
	case strings.HasSuffix(field, q):
		return MatchSuffix
	case strings.Contains(field, q):
		return MatchContains
	default:
		return 0
	}
}
