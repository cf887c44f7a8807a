package hours

import (
	"slices"
	"time"
)

// InstantLayout is the literal query format, 24-hour clock.
const InstantLayout = "2006-01-02 15:04:05"

// Instant is the point a query asks about.
type Instant struct {
	Weekday Weekday
	Time    Clock
}

func InstantOf(t time.Time) Instant {
	return Instant{Weekday: WeekdayOf(t), Time: ClockOf(t)}
}

func ParseInstant(raw string) (Instant, error) {
	if raw == "" {
		return Instant{}, ErrMissingInstant
	}
	// time.Parse lets a fractional second through after "05"
	t, err := time.Parse(InstantLayout, raw)
	if err != nil || t.Format(InstantLayout) != raw {
		return Instant{}, &ParseError{Err: ErrInvalidInstant, Token: raw}
	}
	return InstantOf(t), nil
}

// Window is a normalized open interval owned by an entity. Open <= Close is
// assumed; windows crossing midnight are not representable.
type Window struct {
	EntityID int64
	Weekday  Weekday
	Open     Clock
	Close    Clock
}

// Covers treats both bounds as inclusive.
func (w Window) Covers(at Instant) bool {
	return w.Weekday == at.Weekday && w.Open.Compare(at.Time) <= 0 && at.Time.Compare(w.Close) <= 0
}

// OpenEntities returns the sorted, de-duplicated ids of entities owning at
// least one window covering at. It is a pure filter over windows.
func OpenEntities(windows []Window, at Instant) []int64 {
	ids := make([]int64, 0)
	seen := make(map[int64]struct{})

	for _, w := range windows {
		if !w.Covers(at) {
			continue
		}
		if _, exists := seen[w.EntityID]; exists {
			continue
		}
		seen[w.EntityID] = struct{}{}
		ids = append(ids, w.EntityID)
	}

	slices.Sort(ids)
	return ids
}
