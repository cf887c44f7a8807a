package hours

import (
	"strings"
)

// Entry is one (weekday, open, close) tuple derived from an hours string.
type Entry struct {
	Weekday Weekday
	Open    Clock
	Close   Clock
}

// ParseHours turns a string such as
//
//	Mon-Fri 11:30 am - 9:30 pm / Sat-Sun 12:00 pm - 10:00 pm
//
// into entries ordered by segment, then by day expansion.
//
// Parsing stops at the first bad segment, day or time token. The entries
// derived before that point are still returned together with the error so
// the caller decides between best-effort and all-or-nothing persistence.
//
// The day half and the time half of a segment are separated at the first
// decimal digit. This relies on day names never containing digits.
func ParseHours(s string) ([]Entry, error) {
	entries := make([]Entry, 0)

	for _, segment := range strings.Split(s, "/") {
		dayRange, open, closing, err := splitSegment(segment)
		if err != nil {
			return entries, err
		}

		for _, token := range strings.Split(strings.ReplaceAll(dayRange, " ", ""), ",") {
			days, err := resolveDayToken(strings.TrimSpace(token))
			if err != nil {
				return entries, err
			}
			for _, day := range days {
				entries = append(entries, Entry{Weekday: day, Open: open, Close: closing})
			}
		}
	}

	return entries, nil
}

func splitSegment(segment string) (dayRange string, open Clock, closing Clock, err error) {
	split := strings.IndexAny(segment, "0123456789")
	if split < 0 {
		return "", Clock{}, Clock{}, &ParseError{Err: ErrMalformedSegment, Token: segment}
	}

	dayRange = strings.TrimSpace(segment[:split])
	timeRange := strings.TrimSpace(segment[split:])

	times := strings.Split(timeRange, " - ")
	if len(times) != 2 {
		return "", Clock{}, Clock{}, &ParseError{Err: ErrMalformedSegment, Token: segment}
	}

	// open is not required to precede closing
	if open, err = ParseTime(times[0]); err != nil {
		return "", Clock{}, Clock{}, err
	}
	if closing, err = ParseTime(times[1]); err != nil {
		return "", Clock{}, Clock{}, err
	}

	return dayRange, open, closing, nil
}

func resolveDayToken(token string) ([]Weekday, error) {
	if !strings.Contains(token, "-") {
		day, ok := LookupWeekday(token)
		if !ok {
			return nil, &ParseError{Err: ErrUnknownDay, Token: token}
		}
		return []Weekday{day}, nil
	}

	parts := strings.Split(token, "-")
	if len(parts) != 2 {
		return nil, &ParseError{Err: ErrMalformedSegment, Token: token}
	}

	start, ok := LookupWeekday(strings.TrimSpace(parts[0]))
	if !ok {
		return nil, &ParseError{Err: ErrUnknownDay, Token: parts[0]}
	}
	end, ok := LookupWeekday(strings.TrimSpace(parts[1]))
	if !ok {
		return nil, &ParseError{Err: ErrUnknownDay, Token: parts[1]}
	}

	return ExpandDays(start, end), nil
}
