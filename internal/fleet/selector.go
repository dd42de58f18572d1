package fleet

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Selector sentinel errors, exposed for errors.Is checks in the console.
var (
	// ErrNoDevices means a selector was resolved against an empty fleet.
	ErrNoDevices = errors.New("no devices known (run a scan first)")
	// ErrEmptySelector means the selector contained no terms.
	ErrEmptySelector = errors.New("empty selector")
	// ErrUnknownGroup means a term named a group no device belongs to.
	ErrUnknownGroup = errors.New("unknown group")
)

// GroupResolver resolves a group label to the display indices of its
// members. *Registry satisfies this; tests substitute fixed maps.
type GroupResolver interface {
	GroupIndices(name string) []int
}

// ResolveSelector parses a device selector and returns the selected display
// indices, sorted and deduplicated.
//
// A selector is a comma-separated list of terms:
//
//	all        every device (any other terms are ignored)
//	7          a single display index
//	2-5        an inclusive index range
//	porch      every device in a group
//
// Terms that start with a digit must be a valid index or range; everything
// else is treated as a group name. The first bad term fails the whole
// selector; nothing is ever half-selected.
func ResolveSelector(expr string, count int, groups GroupResolver) ([]int, error) {
	if count <= 0 {
		return nil, ErrNoDevices
	}
	if strings.TrimSpace(expr) == "" {
		return nil, ErrEmptySelector
	}

	terms := strings.Split(expr, ",")

	// "all" anywhere in the selector means the entire fleet. The remaining
	// terms are ignored rather than validated.
	for _, term := range terms {
		if strings.EqualFold(strings.TrimSpace(term), "all") {
			return fullRange(count), nil
		}
	}

	picked := make(map[int]bool)

	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			return nil, fmt.Errorf("empty term in selector %q", expr)
		}

		if term[0] >= '0' && term[0] <= '9' {
			if err := resolveNumeric(term, count, picked); err != nil {
				return nil, err
			}
			continue
		}

		if err := resolveGroup(term, groups, picked); err != nil {
			return nil, err
		}
	}

	indices := make([]int, 0, len(picked))
	for i := range picked {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices, nil
}

// resolveNumeric handles index and range terms.
func resolveNumeric(term string, count int, picked map[int]bool) error {
	if lo, hi, ok := strings.Cut(term, "-"); ok {
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return fmt.Errorf("invalid range %q: bad start %q", term, lo)
		}
		end, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return fmt.Errorf("invalid range %q: bad end %q", term, hi)
		}
		if start > end {
			return fmt.Errorf("invalid range %q: start exceeds end", term)
		}
		if end >= count {
			return fmt.Errorf("range %q out of bounds (device indices go up to %d)", term, count-1)
		}
		for i := start; i <= end; i++ {
			picked[i] = true
		}
		return nil
	}

	index, err := strconv.Atoi(term)
	if err != nil {
		return fmt.Errorf("invalid index %q", term)
	}
	if index >= count {
		return fmt.Errorf("index %d out of bounds (device indices go up to %d)", index, count-1)
	}
	picked[index] = true
	return nil
}

// resolveGroup handles group name terms.
func resolveGroup(term string, groups GroupResolver, picked map[int]bool) error {
	if groups == nil {
		return fmt.Errorf("%w %q", ErrUnknownGroup, term)
	}
	indices := groups.GroupIndices(term)
	if len(indices) == 0 {
		return fmt.Errorf("%w %q", ErrUnknownGroup, term)
	}
	for _, i := range indices {
		picked[i] = true
	}
	return nil
}

func fullRange(count int) []int {
	indices := make([]int, count)
	for i := range indices {
		indices[i] = i
	}
	return indices
}
