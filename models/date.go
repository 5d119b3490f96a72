package models

import (
	"fmt"
	"regexp"
	"time"
)

// DayDateLayout is the day.month.year form used for every stored date.
const DayDateLayout = "02.01.2006"

var dayDatePattern = regexp.MustCompile(`^(0[1-9]|[12][0-9]|3[01])\.(0[1-9]|1[0-2])\.\d{4}$`)

// ParseDayDate parses s as DD.MM.YYYY and rejects dates that do not exist on the
// calendar, such as 31.02.2001.
func ParseDayDate(s string) (time.Time, error) {
	if !dayDatePattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("date %q does not match DD.MM.YYYY", s)
	}
	t, err := time.Parse(DayDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not a calendar date: %w", s, err)
	}
	return t, nil
}

// IsDayDate reports whether s is a valid DD.MM.YYYY calendar date.
func IsDayDate(s string) bool {
	_, err := ParseDayDate(s)
	return err == nil
}
