package scheduling

// GenerateSlots lists every candidate start t = open + k*granularity with
// t < close whose interval [t, t+duration) fits before close and does not
// overlap the break. Durations longer than a day yield nothing.
func GenerateSlots(w Window, duration, granularity int) []Clock {
	if duration <= 0 || duration > MaxDuration || granularity <= 0 {
		return []Clock{}
	}
	slots := []Clock{}
	for t := w.Open; t < w.Close; t = t.Add(granularity) {
		span := Span(t, duration)
		if span.End > w.Close {
			break
		}
		if w.Break != nil && span.Overlaps(*w.Break) {
			continue
		}
		slots = append(slots, t)
	}
	return slots
}
