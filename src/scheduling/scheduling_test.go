package scheduling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want Clock
		ok   bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"9:30", 0, false},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"+1:30", 0, false},
		{"1230", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if !tc.ok {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.in, got.String())
	}
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	a := Interval{Start: MustParseClock("09:00"), End: MustParseClock("10:00")}
	assert.False(t, a.Overlaps(Interval{Start: MustParseClock("10:00"), End: MustParseClock("11:00")}))
	assert.False(t, a.Overlaps(Interval{Start: MustParseClock("08:00"), End: MustParseClock("09:00")}))
	assert.True(t, a.Overlaps(Interval{Start: MustParseClock("09:59"), End: MustParseClock("10:30")}))
	assert.True(t, a.Overlaps(Interval{Start: MustParseClock("09:15"), End: MustParseClock("09:45")}))
}

func TestResolve(t *testing.T) {
	template := &Hours{StartTime: str("09:00"), EndTime: str("17:00"), BreakStart: str("12:00"), BreakEnd: str("13:00")}

	t.Run("template only", func(t *testing.T) {
		w, ok, err := Resolve(nil, template)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, MustParseClock("09:00"), w.Open)
		assert.Equal(t, MustParseClock("17:00"), w.Close)
		require.NotNil(t, w.Break)
		assert.Equal(t, "12:00-13:00", w.Break.String())
	})

	t.Run("override wins even when narrower", func(t *testing.T) {
		w, ok, err := Resolve(&Hours{StartTime: str("10:00"), EndTime: str("12:00")}, template)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "10:00-12:00", w.Bounds().String())
		assert.Nil(t, w.Break)
	})

	t.Run("override day off", func(t *testing.T) {
		_, ok, err := Resolve(&Hours{IsDayOff: true}, template)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("nothing stored", func(t *testing.T) {
		_, ok, err := Resolve(nil, nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing end time means closed", func(t *testing.T) {
		_, ok, err := Resolve(nil, &Hours{StartTime: str("09:00")})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("half a break is ignored", func(t *testing.T) {
		w, ok, err := Resolve(nil, &Hours{StartTime: str("09:00"), EndTime: str("17:00"), BreakStart: str("12:00")})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Nil(t, w.Break)
	})

	t.Run("malformed stored time", func(t *testing.T) {
		_, _, err := Resolve(&Hours{StartTime: str("9am"), EndTime: str("17:00")}, nil)
		assert.Error(t, err)
	})
}

func TestGenerateSlotsMondayExample(t *testing.T) {
	w, ok, err := Resolve(nil, &Hours{StartTime: str("09:00"), EndTime: str("17:00"), BreakStart: str("12:00"), BreakEnd: str("13:00")})
	require.NoError(t, err)
	require.True(t, ok)

	slots := GenerateSlots(w, 60, 30)
	assert.Equal(t, []string{
		"09:00", "09:30", "10:00", "10:30", "11:00",
		"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00",
	}, FormatClocks(slots))

	occupied := []Occupant{{Span: Span(MustParseClock("10:00"), 60)}}
	free := FilterConflicts(slots, 60, occupied)
	assert.Equal(t, []string{
		"09:00", "11:00",
		"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00",
	}, FormatClocks(free))
}

func TestGenerateSlotsLastSlotEndsAtClose(t *testing.T) {
	w := Window{Open: MustParseClock("09:00"), Close: MustParseClock("10:00")}

	assert.Equal(t, []string{"09:00"}, FormatClocks(GenerateSlots(w, 60, 30)))
	assert.Equal(t, []string{"09:00", "09:30"}, FormatClocks(GenerateSlots(w, 30, 30)))
	assert.Empty(t, GenerateSlots(w, 90, 30))
}

func TestGenerateSlotsMatchesDefinition(t *testing.T) {
	brk := Interval{Start: MustParseClock("11:45"), End: MustParseClock("12:30")}
	w := Window{Open: MustParseClock("08:15"), Close: MustParseClock("18:40"), Break: &brk}

	for _, duration := range []int{15, 30, 45, 60, 75, 120, 600, 700} {
		want := []Clock{}
		for t := w.Open; t < w.Close; t += 30 {
			span := Span(t, duration)
			if span.End <= w.Close && !span.Overlaps(brk) {
				want = append(want, t)
			}
		}
		assert.Equal(t, want, GenerateSlots(w, duration, 30), "duration %d", duration)
	}
}

func TestAnnotate(t *testing.T) {
	w := Window{Open: MustParseClock("09:00"), Close: MustParseClock("12:00")}
	occupied := []Occupant{
		{Span: Span(MustParseClock("09:00"), 60), Lock: true, LockToken: "mine"},
		{Span: Span(MustParseClock("10:30"), 30), Lock: true, LockToken: "theirs"},
	}

	free := AvailableSlots(w, 60, 30, WithoutOwnLocks(occupied, "mine"))
	views := Annotate(free, occupied, "mine")

	assert.Equal(t, []SlotView{
		{Time: "09:00", Status: SLOT_OWN_LOCK},
		{Time: "09:30", Status: SLOT_AVAILABLE},
		{Time: "10:30", Status: SLOT_LOCKED},
		{Time: "11:00", Status: SLOT_AVAILABLE},
	}, views)
}

func TestAnnotateWithoutToken(t *testing.T) {
	occupied := []Occupant{
		{Span: Span(MustParseClock("09:00"), 60), Lock: true, LockToken: "someone"},
		{Span: Span(MustParseClock("10:00"), 60)},
	}
	w := Window{Open: MustParseClock("09:00"), Close: MustParseClock("12:00")}

	views := Annotate(AvailableSlots(w, 60, 30, occupied), occupied, "")
	assert.Equal(t, []SlotView{
		{Time: "09:00", Status: SLOT_LOCKED},
		{Time: "11:00", Status: SLOT_AVAILABLE},
	}, views)
}

func TestGenerateSlotsShortBreak(t *testing.T) {
	w, ok, err := Resolve(nil, &Hours{StartTime: str("09:00"), EndTime: str("17:00"), BreakStart: str("12:00"), BreakEnd: str("12:30")})
	require.NoError(t, err)
	require.True(t, ok)

	slots := FormatClocks(GenerateSlots(w, 60, 30))
	assert.Equal(t, []string{
		"09:00", "09:30", "10:00", "10:30", "11:00",
		"12:30", "13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00",
	}, slots)
	assert.NotContains(t, slots, "11:30")
	assert.NotContains(t, slots, "12:00")
	assert.NotContains(t, slots, "16:30")
}

func TestDurationLongerThanADay(t *testing.T) {
	w := Window{Open: MustParseClock("09:00"), Close: MustParseClock("17:00")}
	booked := []Occupant{{Span: Interval{Start: MustParseClock("09:00"), End: MustParseClock("17:00")}}}

	assert.Empty(t, GenerateSlots(w, math.MaxInt, 30))
	assert.Empty(t, GenerateSlots(w, MaxDuration+1, 30))
	assert.Empty(t, AvailableSlots(w, math.MaxInt, 30, booked))
	assert.True(t, Conflicts(MustParseClock("10:00"), math.MaxInt, booked))
	assert.True(t, Conflicts(MustParseClock("10:00"), MaxDuration+1, nil))

	day := Window{Open: 0, Close: MinutesPerDay}
	assert.Equal(t, []string{"00:00"}, FormatClocks(GenerateSlots(day, MaxDuration, 30)))
	assert.False(t, Conflicts(0, MaxDuration, nil))
}

func TestAnnotateOwnLockMustFit(t *testing.T) {
	w := Window{Open: MustParseClock("09:00"), Close: MustParseClock("12:00")}
	occupied := []Occupant{{Span: Span(MustParseClock("11:00"), 60), Lock: true, LockToken: "mine"}}

	free := AvailableSlots(w, 90, 30, WithoutOwnLocks(occupied, "mine"))
	views := Annotate(free, occupied, "mine")
	assert.Equal(t, []SlotView{
		{Time: "09:00", Status: SLOT_AVAILABLE},
		{Time: "09:30", Status: SLOT_AVAILABLE},
		{Time: "10:00", Status: SLOT_AVAILABLE},
		{Time: "10:30", Status: SLOT_AVAILABLE},
	}, views)
}
