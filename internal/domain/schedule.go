package domain

import "time"

const (
	// TimeLayout is the canonical 24-hour zero-padded HH:MM form
	TimeLayout = "15:04"
	// DateLayout identifies the calendar day of a dispense event
	DateLayout = "2006-01-02"
)

// IsCanonicalTime reports whether s is a zero-padded 24-hour HH:MM string
func IsCanonicalTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	hh := int(s[0]-'0')*10 + int(s[1]-'0')
	mm := int(s[3]-'0')*10 + int(s[4]-'0')
	return hh < 24 && mm < 60
}

// MinuteOf truncates an instant to its canonical HH:MM form
func MinuteOf(instant time.Time) string {
	return instant.Format(TimeLayout)
}

// DateOf returns the calendar date of an instant in its own location
func DateOf(instant time.Time) string {
	return instant.Format(DateLayout)
}

// EventInstant combines a calendar day and an HH:MM time in loc
func EventInstant(date, hhmm string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+hhmm, loc)
}
