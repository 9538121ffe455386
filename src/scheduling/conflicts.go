package scheduling

import (
	"sort"
)

// Occupant is one existing reservation interval on the worker's day.
type Occupant struct {
	Span      Interval
	Lock      bool
	LockToken string
}

type SlotState string

const (
	SLOT_AVAILABLE SlotState = "available"
	SLOT_LOCKED    SlotState = "locked"
	SLOT_OWN_LOCK  SlotState = "own-lock"
)

type SlotView struct {
	Time   string    `json:"time"`
	Status SlotState `json:"status"`
}

// Conflicts reports whether [start, start+duration) overlaps any occupant.
// A duration longer than a day always conflicts.
func Conflicts(start Clock, duration int, occupied []Occupant) bool {
	if duration > MaxDuration {
		return true
	}
	span := Span(start, duration)
	for _, o := range occupied {
		if span.Overlaps(o.Span) {
			return true
		}
	}
	return false
}

func FilterConflicts(candidates []Clock, duration int, occupied []Occupant) []Clock {
	out := make([]Clock, 0, len(candidates))
	for _, c := range candidates {
		if !Conflicts(c, duration, occupied) {
			out = append(out, c)
		}
	}
	return out
}

// AvailableSlots is generation followed by conflict filtering.
func AvailableSlots(w Window, duration, granularity int, occupied []Occupant) []Clock {
	return FilterConflicts(GenerateSlots(w, duration, granularity), duration, occupied)
}

// WithoutOwnLocks drops the locks held by clientToken, so a customer never
// blocks their own pick.
func WithoutOwnLocks(occupied []Occupant, clientToken string) []Occupant {
	if clientToken == "" {
		return occupied
	}
	out := make([]Occupant, 0, len(occupied))
	for _, o := range occupied {
		if o.Lock && o.LockToken == clientToken {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Annotate overlays lock information on the available starts. Foreign lock
// starts are reported as locked. The caller's own lock start is reported as
// own-lock only when it is available for the queried duration.
// The result is sorted by time with one entry per start.
func Annotate(available []Clock, occupied []Occupant, clientToken string) []SlotView {
	states := make(map[Clock]SlotState, len(available))
	for _, c := range available {
		states[c] = SLOT_AVAILABLE
	}
	for _, o := range occupied {
		if !o.Lock {
			continue
		}
		if clientToken != "" && o.LockToken == clientToken {
			if _, ok := states[o.Span.Start]; ok {
				states[o.Span.Start] = SLOT_OWN_LOCK
			}
			continue
		}
		if _, ok := states[o.Span.Start]; !ok {
			states[o.Span.Start] = SLOT_LOCKED
		}
	}

	starts := make([]Clock, 0, len(states))
	for c := range states {
		starts = append(starts, c)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	views := make([]SlotView, len(starts))
	for i, c := range starts {
		views[i] = SlotView{Time: c.String(), Status: states[c]}
	}
	return views
}
