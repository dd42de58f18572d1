package fleet

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// groupLabel is the shape of a valid user-assigned group name.
var groupLabel = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ErrInvalidGroup reports a group label the selector grammar could not
// round-trip.
type ErrInvalidGroup struct {
	Label string
}

func (e *ErrInvalidGroup) Error() string {
	return fmt.Sprintf("invalid group name %q (use letters, digits and underscore)", e.Label)
}

// Registry is the in-memory fleet of discovered controllers. Devices are
// never removed: a controller that skips a scan keeps its entry, its group,
// and its cached state. Display indices are reassigned after every mutation
// so they always match the current grouped ordering.
//
// The registry guards its own structure with a lock. Cached state fields on
// individual devices are written by the dispatch layer, which serializes
// writes per device.
type Registry struct {
	mu      sync.RWMutex
	byKey   map[string]*Device
	ordered []*Device
}

// NewRegistry creates an empty fleet registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey: make(map[string]*Device),
	}
}

// Len returns the number of known devices.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}

// Devices returns the fleet in display order. The slice is a copy; the
// device pointers are shared.
func (r *Registry) Devices() []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Device, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Get returns the device with the given key.
func (r *Registry) Get(key string) (*Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byKey[key]
	return d, ok
}

// At returns the device at a display index.
func (r *Registry) At(index int) (*Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.ordered) {
		return nil, false
	}
	return r.ordered[index], true
}

// ByIndices maps display indices to devices. Indices must come from the
// current ordering (the selector guarantees this).
func (r *Registry) ByIndices(indices []int) []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Device, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(r.ordered) {
			out = append(out, r.ordered[i])
		}
	}
	return out
}

// ByKeys maps device keys to devices, preserving order and dropping keys
// that are not present.
func (r *Registry) ByKeys(keys []string) []*Device {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Device, 0, len(keys))
	for _, k := range keys {
		if d, ok := r.byKey[k]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Merge folds one discovery pass into the fleet and reindexes. Existing
// devices refresh their name, long name and port but keep their group and
// cached state. New devices join the default group with nothing cached.
// Devices absent from the pass are left untouched. Duplicate observations of
// one key within the pass collapse to the last one.
//
// Returns how many devices were added and how many were already known.
func (r *Registry) Merge(observations []Observation) (added, updated int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(observations))
	for _, obs := range observations {
		if obs.Key == "" {
			continue
		}
		if existing, ok := r.byKey[obs.Key]; ok {
			existing.Name = obs.Name
			existing.LongName = obs.LongName
			existing.Port = obs.Port
			if !seen[obs.Key] {
				updated++
			}
			seen[obs.Key] = true
			continue
		}
		device := &Device{
			Key:      obs.Key,
			Name:     obs.Name,
			LongName: obs.LongName,
			Port:     obs.Port,
			Group:    DefaultGroup,
		}
		r.byKey[obs.Key] = device
		r.ordered = append(r.ordered, device)
		seen[obs.Key] = true
		added++
	}

	r.reindexLocked()
	return added, updated
}

// Reindex recomputes the display ordering and rewrites every device's Index.
// Ungrouped devices come first, then groups alphabetically, then names
// alphabetically within a group; all comparisons ignore case. The sort is
// stable so equal entries keep their relative order across scans.
func (r *Registry) Reindex() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reindexLocked()
}

func (r *Registry) reindexLocked() {
	sort.SliceStable(r.ordered, func(i, j int) bool {
		a, b := r.ordered[i], r.ordered[j]

		aDefault := strings.EqualFold(a.Group, DefaultGroup)
		bDefault := strings.EqualFold(b.Group, DefaultGroup)
		if aDefault != bDefault {
			return aDefault
		}

		aGroup := strings.ToLower(a.Group)
		bGroup := strings.ToLower(b.Group)
		if aGroup != bGroup {
			return aGroup < bGroup
		}

		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})

	for i, d := range r.ordered {
		d.Index = i
	}
}

// GroupIndices returns the display indices of every device in the named
// group, compared case-insensitively. An empty result means the group does
// not exist; callers treat that as an error rather than an empty selection.
func (r *Registry) GroupIndices(name string) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var indices []int
	for i, d := range r.ordered {
		if strings.EqualFold(d.Group, name) {
			indices = append(indices, i)
		}
	}
	return indices
}

// AssignGroup moves the given devices into a group and reindexes.
//
// A named group is exclusive: any device outside the target set that already
// carries the label (in any case variant) is returned to the default group.
// Assigning to the default group is additive and resets nobody.
func (r *Registry) AssignGroup(targets []*Device, group string) error {
	if !groupLabel.MatchString(group) {
		return &ErrInvalidGroup{Label: group}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	inTargets := make(map[string]bool, len(targets))
	for _, d := range targets {
		inTargets[d.Key] = true
	}

	if !strings.EqualFold(group, DefaultGroup) {
		for _, d := range r.ordered {
			if !inTargets[d.Key] && strings.EqualFold(d.Group, group) {
				d.Group = DefaultGroup
			}
		}
	}

	for _, d := range targets {
		d.Group = group
	}

	r.reindexLocked()
	return nil
}
