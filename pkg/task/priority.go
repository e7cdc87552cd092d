package task

import (
	"fmt"
	"strconv"
	"strings"
)

// Priority is the three-level urgency of a task.
type Priority int

const (
	Low    Priority = 0
	Medium Priority = 1
	High   Priority = 2
)

// DefaultPriority is used when no priority is supplied.
const DefaultPriority = Medium

// ClampPriority forces n into [Low, High].
func ClampPriority(n int) Priority {
	switch {
	case n < int(Low):
		return Low
	case n > int(High):
		return High
	}
	return Priority(n)
}

// PriorityFrom returns DefaultPriority for nil, otherwise the clamped value.
func PriorityFrom(n *int) Priority {
	if n == nil {
		return DefaultPriority
	}
	return ClampPriority(*n)
}

// ParsePriority accepts an integer (clamped) or one of low, medium, high.
func ParsePriority(s string) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "low":
		return Low, nil
	case "medium", "med":
		return Medium, nil
	case "high":
		return High, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return DefaultPriority, fmt.Errorf("invalid priority %q", s)
	}
	return ClampPriority(n), nil
}

func (p Priority) String() string {
	switch ClampPriority(int(p)) {
	case Low:
		return "low"
	case High:
		return "high"
	}
	return "medium"
}
