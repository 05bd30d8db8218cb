package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/balkashynov/taskgraph/internal/models"
)

// ErrInvalidPriority is returned for a tier that is not recognised.
var ErrInvalidPriority = errors.New("invalid priority")

// ParsePriority converts user input to a priority tier. Stored names
// (alta, media, baixa), English names (high, medium/med, low) and the numeric
// shorthands 3, 2, 1 are accepted, case-insensitively.
func ParsePriority(input string) (models.Priority, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "alta", "high", "3":
		return models.PriorityHigh, nil
	case "media", "média", "medium", "med", "2":
		return models.PriorityMedium, nil
	case "baixa", "low", "1":
		return models.PriorityLow, nil
	default:
		return "", fmt.Errorf("%w '%s'. Use: alta, media, baixa (or high, medium, low)", ErrInvalidPriority, input)
	}
}
