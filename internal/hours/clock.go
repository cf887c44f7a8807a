package hours

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a zone-less wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

func NewClock(hour, minute int) Clock {
	return Clock{Hour: hour, Minute: minute}
}

// ClockOf drops the date and zone of t.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

func (c Clock) Seconds() int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}

func (c Clock) Compare(o Clock) int {
	switch a, b := c.Seconds(), o.Seconds(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String uses the 24-hour layout stored in the database.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Format12 renders "03:04 PM", the layout used for schedule display.
func (c Clock) Format12() string {
	meridiem := "AM"
	if c.Hour >= 12 {
		meridiem = "PM"
	}
	hour := c.Hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hour, c.Minute, meridiem)
}

// ParseClock reads the 24-hour "15:04:05" (or "15:04") form.
func ParseClock(s string) (Clock, error) {
	layout := "15:04:05"
	if strings.Count(s, ":") == 1 {
		layout = "15:04"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return Clock{}, err
	}
	return ClockOf(t), nil
}

// ParseTime parses a 12-hour token: "3 PM" first, then "3:30 PM". The
// meridiem is case-insensitive and the hour must be within 1..12.
func ParseTime(token string) (Clock, error) {
	s := strings.TrimSpace(token)

	if c, ok := parseHourOnly(s); ok {
		return c, nil
	}
	if c, ok := parseHourMinute(s); ok {
		return c, nil
	}

	return Clock{}, &ParseError{Err: ErrInvalidTime, Token: token}
}

func parseHourOnly(s string) (Clock, bool) {
	number, pm, ok := splitMeridiem(s)
	if !ok {
		return Clock{}, false
	}
	hour, ok := parseBounded(number, 1, 12)
	if !ok {
		return Clock{}, false
	}
	return Clock{Hour: to24(hour, pm)}, true
}

func parseHourMinute(s string) (Clock, bool) {
	number, pm, ok := splitMeridiem(s)
	if !ok {
		return Clock{}, false
	}
	h, m, found := strings.Cut(number, ":")
	if !found {
		return Clock{}, false
	}
	hour, ok := parseBounded(h, 1, 12)
	if !ok {
		return Clock{}, false
	}
	minute, ok := parseBounded(m, 0, 59)
	if !ok {
		return Clock{}, false
	}
	return Clock{Hour: to24(hour, pm), Minute: minute}, true
}

// splitMeridiem expects exactly "<number> <AM|PM>" separated by whitespace.
func splitMeridiem(s string) (number string, pm bool, ok bool) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return "", false, false
	}
	switch strings.ToUpper(fields[1]) {
	case "AM":
		return fields[0], false, true
	case "PM":
		return fields[0], true, true
	default:
		return "", false, false
	}
}

func parseBounded(s string, lo, hi int) (int, bool) {
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, false
	}
	return n, true
}

func to24(hour int, pm bool) int {
	hour %= 12
	if pm {
		hour += 12
	}
	return hour
}
