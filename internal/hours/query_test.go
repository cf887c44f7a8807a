package hours

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowCovers(t *testing.T) {
	w := Window{EntityID: 1, Weekday: Monday, Open: NewClock(11, 0), Close: NewClock(22, 0)}

	tests := []struct {
		name string
		at   Instant
		want bool
	}{
		{"inside", Instant{Monday, NewClock(12, 0)}, true},
		{"at open", Instant{Monday, NewClock(11, 0)}, true},
		{"at close", Instant{Monday, NewClock(22, 0)}, true},
		{"before open", Instant{Monday, NewClock(10, 59)}, false},
		{"after close by a second", Instant{Monday, Clock{Hour: 22, Second: 1}}, false},
		{"other day", Instant{Tuesday, NewClock(12, 0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Covers(tt.at))
			assert.Equal(t, tt.want, len(OpenEntities([]Window{w}, tt.at)) == 1)
		})
	}
}

func TestWindowCovers_ZeroLength(t *testing.T) {
	w := Window{EntityID: 1, Weekday: Friday, Open: NewClock(9, 0), Close: NewClock(9, 0)}
	assert.True(t, w.Covers(Instant{Friday, NewClock(9, 0)}))
	assert.False(t, w.Covers(Instant{Friday, NewClock(9, 1)}))
	assert.False(t, w.Covers(Instant{Friday, NewClock(8, 59)}))
}

func TestWindowCovers_OvernightNeverMatches(t *testing.T) {
	w := Window{EntityID: 1, Weekday: Friday, Open: NewClock(22, 0), Close: NewClock(2, 0)}
	for _, at := range []Clock{NewClock(23, 0), NewClock(1, 0), NewClock(22, 0), NewClock(2, 0), NewClock(12, 0)} {
		assert.False(t, w.Covers(Instant{Friday, at}), at.String())
	}
	assert.False(t, w.Covers(Instant{Saturday, NewClock(1, 0)}))
}

func scenarioWindows() []Window {
	return []Window{
		{EntityID: 1, Weekday: Monday, Open: NewClock(11, 0), Close: NewClock(22, 0)},
		{EntityID: 1, Weekday: Tuesday, Open: NewClock(11, 0), Close: NewClock(22, 0)},
		{EntityID: 2, Weekday: Monday, Open: NewClock(9, 0), Close: NewClock(18, 0)},
		{EntityID: 2, Weekday: Wednesday, Open: NewClock(9, 0), Close: NewClock(18, 0)},
	}
}

func TestOpenEntities_Scenario(t *testing.T) {
	windows := scenarioWindows()

	monday, err := ParseInstant("2024-12-16 12:00:00")
	require.NoError(t, err)
	assert.Equal(t, Monday, monday.Weekday)
	assert.Equal(t, []int64{1, 2}, OpenEntities(windows, monday))

	thursday, err := ParseInstant("2024-12-19 10:00:00")
	require.NoError(t, err)
	assert.Equal(t, Thursday, thursday.Weekday)
	assert.Empty(t, OpenEntities(windows, thursday))

	wednesday, err := ParseInstant("2024-12-18 12:00:00")
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, OpenEntities(windows, wednesday))

	late, err := ParseInstant("2024-12-16 23:00:00")
	require.NoError(t, err)
	assert.Empty(t, OpenEntities(windows, late))
}

func TestOpenEntities_DeduplicatesOverlappingWindows(t *testing.T) {
	windows := []Window{
		{EntityID: 7, Weekday: Saturday, Open: NewClock(8, 0), Close: NewClock(14, 0)},
		{EntityID: 7, Weekday: Saturday, Open: NewClock(12, 0), Close: NewClock(20, 0)},
		{EntityID: 3, Weekday: Saturday, Open: NewClock(12, 0), Close: NewClock(13, 0)},
	}
	assert.Equal(t, []int64{3, 7}, OpenEntities(windows, Instant{Saturday, NewClock(12, 30)}))
}

func TestOpenEntities_NoWindows(t *testing.T) {
	assert.Empty(t, OpenEntities(nil, Instant{Monday, NewClock(12, 0)}))
}

func TestOpenEntities_WeekSweep(t *testing.T) {
	windows := scenarioWindows()

	start := time.Date(2024, 12, 16, 0, 0, 0, 0, time.UTC)
	for step := 0; step < 7*24*4; step++ {
		at := InstantOf(start.Add(time.Duration(step) * 15 * time.Minute))

		want := make([]int64, 0)
		for _, id := range []int64{1, 2} {
			for _, w := range windows {
				if w.EntityID == id && w.Weekday == at.Weekday && w.Open.Compare(at.Time) <= 0 && at.Time.Compare(w.Close) <= 0 {
					want = append(want, id)
					break
				}
			}
		}
		assert.Equal(t, want, OpenEntities(windows, at), "%v %v", at.Weekday, at.Time)
	}
}

func TestParseInstant_Errors(t *testing.T) {
	_, err := ParseInstant("")
	assert.ErrorIs(t, err, ErrMissingInstant)

	for _, raw := range []string{"2024-12-16 25:00:00", "2024-12-16", "16/12/2024 12:00:00", "2024-12-16T12:00:00", "2024-12-16 12:00:00.5", "2024-12-16 12:00:00 "} {
		_, err := ParseInstant(raw)
		assert.ErrorIs(t, err, ErrInvalidInstant, raw)
		assert.NotErrorIs(t, err, ErrMissingInstant, raw)
	}
}

func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, Monday, WeekdayOf(time.Date(2024, 12, 16, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Sunday, WeekdayOf(time.Date(2024, 12, 22, 0, 0, 0, 0, time.UTC)))
}
