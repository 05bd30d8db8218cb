// Package graph analyzes the dependency relation between tasks. Every function
// works on an in-memory snapshot of the project's tasks and performs no I/O.
//
// Edges point from a task to its dependencies: if A depends on B, B must be
// done before A may start.
package graph

import (
	"errors"
	"fmt"

	"github.com/balkashynov/taskgraph/internal/models"
)

// ErrDepthCycle is returned when a depth computation reaches a task that is
// already on the recursion stack.
var ErrDepthCycle = errors.New("cycle detected during depth computation")

// IsReady reports whether every dependency of t resolves to a done task.
// A dependency id that names no task is never satisfied.
func IsReady(t models.Task, all []models.Task) bool {
	if len(t.Dependencies) == 0 {
		return true
	}
	byID := index(all)
	for _, depID := range t.Dependencies {
		dep, ok := byID[depID]
		if !ok || dep.Status != models.StatusDone {
			return false
		}
	}
	return true
}

// PendingDependencies returns the ids of t's dependencies that exist and
// are not done yet, in dependency order.
func PendingDependencies(t models.Task, all []models.Task) []int {
	byID := index(all)
	var pending []int
	for _, depID := range t.Dependencies {
		if dep, ok := byID[depID]; ok && dep.Status != models.StatusDone {
			pending = append(pending, depID)
		}
	}
	return pending
}

// BlockedBy returns the tasks whose dependencies include id, that is, the
// tasks that completing id helps unblock. Order follows all.
func BlockedBy(id int, all []models.Task) []models.Task {
	var blocked []models.Task
	for _, t := range all {
		if t.DependsOn(id) {
			blocked = append(blocked, t)
		}
	}
	return blocked
}

// DependentCount returns the number of direct dependents of id.
func DependentCount(id int, all []models.Task) int {
	n := 0
	for _, t := range all {
		if t.DependsOn(id) {
			n++
		}
	}
	return n
}

// HasCycle reports whether adding the edge from → candidate ("from depends on
// candidate") would close a loop, i.e. whether candidate already depends on
// from, directly or transitively.
func HasCycle(from, candidate int, all []models.Task) bool {
	byID := index(all)
	visited := make(map[int]bool)
	stack := []int{candidate}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur == from {
			return true
		}
		if visited[cur] {
			continue
		}
		visited[cur] = true

		if t, ok := byID[cur]; ok {
			stack = append(stack, t.Dependencies...)
		}
	}
	return false
}

// Order is the result of TopologicalOrder. Sorted holds the tasks that could
// be placed after all of their dependencies. Residual holds, in their
// original relative order, the tasks that could not be placed because they
// sit on or behind a dependency cycle.
type Order struct {
	Sorted   []models.Task
	Residual []models.Task
}

// Complete reports whether every task was placed.
func (o Order) Complete() bool {
	return len(o.Residual) == 0
}

// All returns the sorted tasks followed by the residual ones.
func (o Order) All() []models.Task {
	all := make([]models.Task, 0, len(o.Sorted)+len(o.Residual))
	all = append(all, o.Sorted...)
	return append(all, o.Residual...)
}

// TopologicalOrder orders tasks so that each follows its dependencies. Each
// pass scans the remaining tasks from the last index to the first and places
// every task whose dependencies are already placed. Dependencies on ids that
// are not part of tasks count as satisfied, unlike the stricter rule of placing
// a task only after each dependency appears in the output. When a pass places nothing, the
// rest is returned as Order.Residual instead of failing.
func TopologicalOrder(tasks []models.Task) Order {
	inSet := make(map[int]bool, len(tasks))
	for _, t := range tasks {
		inSet[t.ID] = true
	}

	remaining := make([]models.Task, len(tasks))
	copy(remaining, tasks)
	placed := make(map[int]bool, len(tasks))
	sorted := make([]models.Task, 0, len(tasks))

	for len(remaining) > 0 {
		found := false
		for i := len(remaining) - 1; i >= 0; i-- {
			t := remaining[i]
			if !depsPlaced(t, inSet, placed) {
				continue
			}
			sorted = append(sorted, t)
			placed[t.ID] = true
			remaining = append(remaining[:i], remaining[i+1:]...)
			found = true
		}
		if !found {
			return Order{Sorted: sorted, Residual: remaining}
		}
	}
	return Order{Sorted: sorted}
}

func depsPlaced(t models.Task, inSet, placed map[int]bool) bool {
	for _, dep := range t.Dependencies {
		if inSet[dep] && !placed[dep] {
			return false
		}
	}
	return true
}

// DepthIndex computes and memoizes task depths over one snapshot of tasks.
// Depth is 0 for a task without dependencies (or an unknown id) and otherwise
// one more than the deepest dependency.
type DepthIndex struct {
	byID     map[int]models.Task
	memo     map[int]int
	visiting map[int]bool
}

// NewDepthIndex builds an index over tasks.
func NewDepthIndex(tasks []models.Task) *DepthIndex {
	return &DepthIndex{
		byID:     index(tasks),
		memo:     make(map[int]int, len(tasks)),
		visiting: make(map[int]bool),
	}
}

// Depth returns the depth of id. It returns ErrDepthCycle if a cycle is
// reachable from id.
func (d *DepthIndex) Depth(id int) (int, error) {
	if depth, ok := d.memo[id]; ok {
		return depth, nil
	}
	t, ok := d.byID[id]
	if !ok || len(t.Dependencies) == 0 {
		d.memo[id] = 0
		return 0, nil
	}
	if d.visiting[id] {
		return 0, fmt.Errorf("%w: task #%d", ErrDepthCycle, id)
	}
	d.visiting[id] = true
	defer delete(d.visiting, id)

	maxDep := 0
	for _, dep := range t.Dependencies {
		depth, err := d.Depth(dep)
		if err != nil {
			return 0, err
		}
		if depth > maxDep {
			maxDep = depth
		}
	}
	d.memo[id] = maxDep + 1
	return maxDep + 1, nil
}

// Depth is a convenience wrapper for a single lookup.
func Depth(id int, tasks []models.Task) (int, error) {
	return NewDepthIndex(tasks).Depth(id)
}

// Level is a group of tasks sharing the same depth.
type Level struct {
	Depth int
	Tasks []models.Task
}

// Levels groups tasks by ascending depth, keeping insertion order within
// each level.
func Levels(tasks []models.Task) ([]Level, error) {
	depths := NewDepthIndex(tasks)
	byDepth := make(map[int][]models.Task)
	maxDepth := -1
	for _, t := range tasks {
		depth, err := depths.Depth(t.ID)
		if err != nil {
			return nil, err
		}
		byDepth[depth] = append(byDepth[depth], t)
		if depth > maxDepth {
			maxDepth = depth
		}
	}

	var levels []Level
	for depth := 0; depth <= maxDepth; depth++ {
		if group, ok := byDepth[depth]; ok {
			levels = append(levels, Level{Depth: depth, Tasks: group})
		}
	}
	return levels, nil
}

func index(tasks []models.Task) map[int]models.Task {
	byID := make(map[int]models.Task, len(tasks))
	for _, t := range tasks {
		if _, dup := byID[t.ID]; !dup {
			byID[t.ID] = t
		}
	}
	return byID
}
