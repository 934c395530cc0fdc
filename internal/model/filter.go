package model

import (
	"fmt"
	"strings"
)

// Filter partitions todos by completion status for display.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// Fragment returns the navigation fragment shown for the filter.
func (f Filter) Fragment() string {
	switch f {
	case FilterActive:
		return "#/active"
	case FilterCompleted:
		return "#/completed"
	default:
		return "#/"
	}
}

// Label returns the human-readable name of the filter.
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Match reports whether t is visible under f.
func (f Filter) Match(t Todo) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Next returns the filter that follows f in display order.
func (f Filter) Next() Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// ParseFilter accepts a filter name ("active") or its fragment ("#/active").
func ParseFilter(s string) (Filter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, f := range Filters {
		if s == string(f) || s == f.Fragment() {
			return f, nil
		}
	}
	if s == "" || s == "#" {
		return FilterAll, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}
