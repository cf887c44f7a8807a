package hours

import "time"

// Weekday numbers Monday as 0 through Sunday as 6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayAbbreviations = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var weekdayByAbbreviation = map[string]Weekday{
	"Mon": Monday,
	"Tue": Tuesday,
	"Wed": Wednesday,
	"Thu": Thursday,
	"Fri": Friday,
	"Sat": Saturday,
	"Sun": Sunday,
}

// LookupWeekday resolves an exact, case-sensitive three-letter abbreviation.
func LookupWeekday(abbr string) (Weekday, bool) {
	d, ok := weekdayByAbbreviation[abbr]
	return d, ok
}

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return "Weekday(?)"
	}
	return weekdayNames[d]
}

func (d Weekday) Abbr() string {
	if !d.Valid() {
		return ""
	}
	return weekdayAbbreviations[d]
}

// WeekdayOf converts time.Weekday (Sunday=0) into the Monday=0 numbering.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// ExpandDays walks forward from start to end inclusive. It never wraps past
// Sunday, so a range such as Fri-Mon yields no days.
func ExpandDays(start, end Weekday) []Weekday {
	days := make([]Weekday, 0, 7)
	for d := start; d <= end; d++ {
		days = append(days, d)
	}
	return days
}
