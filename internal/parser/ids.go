package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when an argument is not a task id.
var ErrInvalidID = errors.New("invalid task id")

// ParseTaskID parses a positive task id. A leading '#' is allowed so ids can
// be pasted from list output.
func ParseTaskID(input string) (int, error) {
	s := strings.TrimPrefix(strings.TrimSpace(input), "#")
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, input)
	}
	return id, nil
}

// ParseTaskIDs parses every element of inputs, stopping at the first
// invalid one.
func ParseTaskIDs(inputs []string) ([]int, error) {
	ids := make([]int, 0, len(inputs))
	for _, in := range inputs {
		for _, part := range strings.Split(in, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := ParseTaskID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
