package models

import (
	"strings"
	"time"
)

// Status is the stored lifecycle state of a task.
// Blocked is never stored; it is derived from unmet dependencies.
type Status string

const (
	StatusPending    Status = "pendente"
	StatusInProgress Status = "em-progresso"
	StatusDone       Status = "concluida"
)

// Label returns the English display name of the status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in-progress"
	case StatusDone:
		return "done"
	default:
		return string(s)
	}
}

// Priority is the user-assigned priority tier.
type Priority string

const (
	PriorityHigh   Priority = "alta"
	PriorityMedium Priority = "media"
	PriorityLow    Priority = "baixa"
)

// Label returns the English display name of the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return string(p)
	}
}

// Task represents a unit of work in a project.
type Task struct {
	ID           int      `json:"id"`
	Title        string   `json:"titulo"`
	Description  string   `json:"descricao"`
	Status       Status   `json:"status"`
	Priority     Priority `json:"prioridade"`
	Dependencies []int    `json:"dependencias"`
	CreatedAt    Date     `json:"criadoEm"`
	CompletedAt  *Date    `json:"concluidoEm"`
}

// DependsOn reports whether id is one of the task's dependencies.
func (t Task) DependsOn(id int) bool {
	for _, dep := range t.Dependencies {
		if dep == id {
			return true
		}
	}
	return false
}

// Project is the persisted document: a name, a creation date and
// the tasks in insertion order.
type Project struct {
	Name      string `json:"projeto"`
	CreatedAt Date   `json:"criadoEm"`
	Tasks     []Task `json:"tarefas"`
}

// Find returns a pointer into p.Tasks for the given id, or nil.
func (p *Project) Find(id int) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

// NextID returns max(existing ids) + 1, or 1 for an empty project.
func (p *Project) NextID() int {
	maxID := 0
	for _, t := range p.Tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}

// Normalize backfills fields that older documents may lack.
func (p *Project) Normalize() {
	if p.Tasks == nil {
		p.Tasks = []Task{}
	}
	for i := range p.Tasks {
		if p.Tasks[i].Dependencies == nil {
			p.Tasks[i].Dependencies = []int{}
		}
	}
}

// Date is a calendar day persisted as "YYYY-MM-DD". It is kept as text so a
// malformed value in a hand-edited document survives a load/save round trip.
type Date string

const dateLayout = "2006-01-02"

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// ParseDate validates s as a YYYY-MM-DD day.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", err
	}
	return Date(s), nil
}

// Time returns the UTC midnight of the day. ok is false for empty, invalid
// or template placeholder values.
func (d Date) Time() (t time.Time, ok bool) {
	s := string(d)
	if s == "" || strings.Contains(s, "{{") {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (d Date) String() string {
	return string(d)
}
