// Package ui renders tasks, scores and graph views for the terminal.
package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/balkashynov/taskgraph/internal/graph"
	"github.com/balkashynov/taskgraph/internal/models"
	"github.com/balkashynov/taskgraph/internal/scoring"
)

const (
	cardWidth      = 51
	progressWidth  = 20
	maxTitleLength = 25
)

// Status icons.
const (
	IconPending    = "○"
	IconInProgress = "→"
	IconDone       = "✓"
	IconBlocked    = "⊘"
)

// StatusIcon returns a colored icon for a stored status.
func StatusIcon(s models.Status) string {
	switch s {
	case models.StatusDone:
		return styleSuccess.Render(IconDone)
	case models.StatusInProgress:
		return styleWarning.Render(IconInProgress)
	default:
		return styleDim.Render(IconPending)
	}
}

// BlockedIcon returns the icon shown for pending tasks with unmet dependencies.
func BlockedIcon() string {
	return styleError.Render(IconBlocked)
}

// PriorityLabel returns the colored English name of a tier.
func PriorityLabel(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return styleError.Render(p.Label())
	case models.PriorityMedium:
		return styleWarning.Render(p.Label())
	case models.PriorityLow:
		return styleDim.Render(p.Label())
	default:
		return p.Label()
	}
}

// TaskCard renders the detail view of t: status, priority, description,
// dependencies with their state, the tasks it unblocks and its dates.
func TaskCard(t models.Task, all []models.Task) string {
	var b strings.Builder

	b.WriteString(styleBold.Render(fmt.Sprintf("#%d %s", t.ID, t.Title)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Status: %s %s\n", StatusIcon(t.Status), t.Status.Label())
	fmt.Fprintf(&b, "Priority: %s", PriorityLabel(t.Priority))

	if t.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(styleSubtle.Render(t.Description))
	}

	if len(t.Dependencies) > 0 {
		byID := make(map[int]models.Task, len(all))
		for _, other := range all {
			byID[other.ID] = other
		}
		b.WriteString("\n\n")
		b.WriteString(styleInfo.Render("Dependencies:"))
		for _, depID := range t.Dependencies {
			dep, ok := byID[depID]
			if !ok {
				continue
			}
			icon := styleError.Render(IconPending)
			if dep.Status == models.StatusDone {
				icon = styleSuccess.Render(IconDone)
			}
			fmt.Fprintf(&b, "\n  %s #%d %s", icon, dep.ID, dep.Title)
		}
		if !graph.IsReady(t, all) {
			b.WriteString("\n  ")
			b.WriteString(styleError.Render("⚠ Waiting on dependencies"))
		}
	}

	if unblocks := graph.BlockedBy(t.ID, all); len(unblocks) > 0 {
		b.WriteString("\n\n")
		b.WriteString(styleSection.Render("Unblocks:"))
		for _, u := range unblocks {
			fmt.Fprintf(&b, "\n  → #%d %s", u.ID, u.Title)
		}
	}

	b.WriteString("\n\n")
	b.WriteString(styleDim.Render("Created: " + t.CreatedAt.String()))
	if t.CompletedAt != nil {
		b.WriteString("\n")
		b.WriteString(styleDim.Render("Completed: " + t.CompletedAt.String()))
	}

	return styleCard.Render(b.String())
}

// TaskLine renders a one-line list entry. Pending tasks with unmet
// dependencies get the blocked icon and marker; dependency ids are colored by
// whether they are done.
func TaskLine(t models.Task, all []models.Task) string {
	if t.Status == models.StatusDone {
		return styleDim.Render(fmt.Sprintf("%s #%d %s", IconDone, t.ID, t.Title))
	}

	icon := StatusIcon(t.Status)
	blocked := t.Status == models.StatusPending && !graph.IsReady(t, all)
	if blocked {
		icon = BlockedIcon()
	}

	line := fmt.Sprintf("%s #%d [%s] %s", icon, t.ID, PriorityLabel(t.Priority), t.Title)
	if len(t.Dependencies) > 0 {
		line += " " + dependencyList(t, all)
	}
	if blocked {
		line += " " + styleError.Render("[BLOCKED]")
	}
	return line
}

func dependencyList(t models.Task, all []models.Task) string {
	done := make(map[int]bool, len(all))
	for _, other := range all {
		if other.Status == models.StatusDone {
			done[other.ID] = true
		}
	}
	ids := make([]string, 0, len(t.Dependencies))
	for _, depID := range t.Dependencies {
		s := fmt.Sprintf("%d", depID)
		if done[depID] {
			ids = append(ids, styleSuccess.Render(s))
		} else {
			ids = append(ids, styleError.Render(s))
		}
	}
	return styleDim.Render("(deps:") + " " + strings.Join(ids, styleDim.Render(",")+" ") + styleDim.Render(")")
}

// ProgressBar renders a 20-cell bar for percent (0-100).
func ProgressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(math.Round(float64(percent) * progressWidth / 100))
	return styleSuccess.Render(strings.Repeat("█", filled)) +
		styleDim.Render(strings.Repeat("░", progressWidth-filled))
}

// ScoreStyle colors a total: 30 and above is hot, 20 and above warm.
func ScoreStyle(total int) lipgloss.Style {
	switch {
	case total >= 30:
		return styleError
	case total >= 20:
		return styleWarning
	default:
		return styleDim
	}
}

// Availability describes whether a ranked task can be started.
func Availability(t models.Task, all []models.Task) string {
	switch {
	case t.Status == models.StatusInProgress:
		return "in-progress"
	case graph.IsReady(t, all):
		return "available"
	default:
		return "blocked"
	}
}

// ScoreTable renders ranked tasks with their score components.
func ScoreTable(ranked []scoring.Ranked, all []models.Task) string {
	rows := make([][]string, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, []string{
			fmt.Sprintf("#%d", r.Task.ID),
			fmt.Sprintf("%d", r.Score.Total),
			fmt.Sprintf("%d", r.Score.Urgency.Points),
			fmt.Sprintf("%d", r.Score.Priority.Points),
			fmt.Sprintf("%d", r.Score.Dependents.Points),
			fmt.Sprintf("%d", r.Score.Depth.Points),
			Availability(r.Task, all),
			Truncate(r.Task.Title, maxTitleLength),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleBorder).
		Headers("ID", "Score", "Urg", "Pri", "Dep", "Depth", "Status", "Task").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow || row < 0 || row >= len(ranked) {
				return base.Inherit(styleDim)
			}
			r := ranked[row]
			switch col {
			case 0:
				return base.Bold(true)
			case 1:
				return base.Inherit(ScoreStyle(r.Score.Total)).Align(lipgloss.Right)
			case 2, 3, 4, 5:
				return base.Align(lipgloss.Right)
			case 6:
				switch Availability(r.Task, all) {
				case "in-progress":
					return base.Inherit(styleWarning)
				case "available":
					return base.Inherit(styleSuccess)
				default:
					return base.Inherit(styleError)
				}
			}
			return base
		})

	return t.String()
}

// ScoreLegend explains the table columns and the formula for w.
func ScoreLegend(w scoring.Weights) string {
	lines := []string{
		"Legend: Urg=Urgency, Pri=Priority, Dep=Dependents, Depth=Graph depth",
		fmt.Sprintf("Formula: (Urg×%d) + (Pri×%d) + (Dep×%d) + (Depth×%d)", w.Urgency, w.Priority, w.Dependents, w.Depth),
		"Higher score = higher priority",
	}
	return styleDim.Render(strings.Join(lines, "\n"))
}

// ScoreBreakdown renders the one-line component summary shown by next.
func ScoreBreakdown(s scoring.Score) string {
	head := styleInfo.Render("📊 Score: ") + styleInfo.Bold(true).Render(fmt.Sprintf("%d", s.Total)) + styleInfo.Render(" points")
	detail := fmt.Sprintf("   Urgency: %d | Priority: %d | Dependents: %d | Depth: %d",
		s.Urgency.Points, s.Priority.Points, s.Dependents.Points, s.Depth.Points)
	return head + "\n" + styleDim.Render(detail)
}

// GraphView renders tasks grouped by depth, indented two spaces per level,
// with the ids each task unblocks.
func GraphView(levels []graph.Level, all []models.Task) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("DEPENDENCY GRAPH"))
	b.WriteString("\n")

	for _, lvl := range levels {
		indent := strings.Repeat("  ", lvl.Depth)
		for _, t := range lvl.Tasks {
			fmt.Fprintf(&b, "\n%s%s [%d] %s", indent, StatusIcon(t.Status), t.ID, t.Title)
			if unblocks := graph.BlockedBy(t.ID, all); len(unblocks) > 0 {
				ids := make([]string, len(unblocks))
				for i, u := range unblocks {
					ids[i] = fmt.Sprintf("%d", u.ID)
				}
				b.WriteString(styleDim.Render(" ──► [" + strings.Join(ids, ", ") + "]"))
			}
		}
	}

	b.WriteString("\n\n")
	b.WriteString(styleDim.Render("Legend: ○ pending  → in progress  ✓ done\n        ──► unblocks task(s)"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(0, 1).
		Render(b.String())
}

// Truncate shortens s to n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
