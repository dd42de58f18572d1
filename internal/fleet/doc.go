// Package fleet holds the in-memory model of every LED controller the
// tool has ever seen in this session: the registry, display ordering,
// group labels, and the selector grammar used to pick targets.
//
// # Registry
//
// Devices are keyed by network address. A discovery pass produces
// Observations which Merge folds into the registry: known devices get
// their name, long name, and port refreshed while their group label and
// cached power/sync state survive untouched, and devices absent from a
// pass are never dropped. A controller that misses one mDNS window stays
// addressable.
//
//	r := fleet.NewRegistry()
//	added, updated := r.Merge(records)
//
// After every mutation the registry resorts itself: ungrouped devices
// first, then by group and name, all case-insensitive. A device's Index
// field always equals its position in Devices(), so the numbers a user
// sees in a listing are the numbers selectors resolve against.
//
// # Groups
//
// AssignGroup sets a label on a set of devices. Labels are single words
// (letters, digits, underscore) and are exclusive: assigning a label
// that other devices already carry steals it, sending the former
// members back to the default group. Assigning the default group itself
// is additive and leaves other memberships alone.
//
// # Selectors
//
// ResolveSelector turns a user expression into a sorted, deduplicated
// list of device indices. The grammar accepts comma-separated terms,
// each an index ("3"), a range ("2-5"), a group name, or the word
// "all", which immediately selects every device regardless of what
// follows it. Any invalid term before that point fails the whole
// expression; nothing is dispatched on a partial parse.
package fleet
