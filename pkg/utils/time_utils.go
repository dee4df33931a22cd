package utils

import "time"

// Vietnam time location (ICT, +07:00)
var vnLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Ho_Chi_Minh"); err == nil {
		return loc
	}
	return time.FixedZone("ICT", 7*3600)
}()

func VNLocation() *time.Location { return vnLoc }

// FromUnixSecondsVN returns zero time if t<=0 to let callers decide how to render.
func FromUnixSecondsVN(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).In(vnLoc)
}

func FormatRFC3339VN(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(vnLoc).Format(time.RFC3339)
}

func FormatDateVN(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(vnLoc).Format(time.DateOnly)
}

// StartOfDayVN truncates t to local midnight in Vietnam.
func StartOfDayVN(t time.Time) time.Time {
	vn := t.In(vnLoc)
	return time.Date(vn.Year(), vn.Month(), vn.Day(), 0, 0, 0, 0, vnLoc)
}

// ClockOnDay combines the calendar day of day with an "HH:MM" clock string.
func ClockOnDay(day time.Time, clock string) (time.Time, error) {
	t, err := time.ParseInLocation("15:04", clock, vnLoc)
	if err != nil {
		return time.Time{}, err
	}
	d := day.In(vnLoc)
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, vnLoc), nil
}
