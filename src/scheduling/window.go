package scheduling

// Hours is the stored shape shared by weekly templates and date overrides.
// Any field may be missing.
type Hours struct {
	StartTime  *string
	EndTime    *string
	BreakStart *string
	BreakEnd   *string
	IsDayOff   bool
}

// Window is the resolved working window of one worker on one date.
type Window struct {
	Open  Clock
	Close Clock
	Break *Interval
}

func (w Window) Bounds() Interval {
	return Interval{Start: w.Open, End: w.Close}
}

// Resolve picks the effective window for a date. An override, when present,
// wins over the template even if it is less permissive. A false second return
// means the worker does not work that day.
func Resolve(override, template *Hours) (Window, bool, error) {
	src := template
	if override != nil {
		src = override
	}
	if src == nil {
		return Window{}, false, nil
	}
	return src.window()
}

func (h *Hours) window() (Window, bool, error) {
	if h.IsDayOff || empty(h.StartTime) || empty(h.EndTime) {
		return Window{}, false, nil
	}
	open, err := ParseClock(*h.StartTime)
	if err != nil {
		return Window{}, false, err
	}
	cls, err := ParseClock(*h.EndTime)
	if err != nil {
		return Window{}, false, err
	}
	if cls <= open {
		return Window{}, false, nil
	}

	w := Window{Open: open, Close: cls}
	if empty(h.BreakStart) || empty(h.BreakEnd) {
		return w, true, nil
	}
	brk, err := ParseInterval(*h.BreakStart, *h.BreakEnd)
	if err != nil {
		return Window{}, false, err
	}
	w.Break = &brk
	return w, true, nil
}

func empty(s *string) bool {
	return s == nil || *s == ""
}
