package scheduling

import "fmt"

// Interval is the half-open range [Start, End).
type Interval struct {
	Start Clock
	End   Clock
}

func Span(start Clock, minutes int) Interval {
	return Interval{Start: start, End: start.Add(minutes)}
}

func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	if e <= s {
		return Interval{}, fmt.Errorf("interval %s-%s is empty", start, end)
	}
	return Interval{Start: s, End: e}, nil
}

// Overlaps is the single overlap predicate used for breaks and reservations.
// Intervals that only touch at an endpoint do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

func (a Interval) Within(b Interval) bool {
	return a.Start >= b.Start && a.End <= b.End
}

func (a Interval) Minutes() int {
	return int(a.End - a.Start)
}

func (a Interval) String() string {
	return a.Start.String() + "-" + a.End.String()
}
