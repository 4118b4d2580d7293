package services

import "time"

const dateLayout = "2006-01-02"

// DateAtLocation truncates value to midnight of its calendar day in the
// given location. All "today" computations go through here so the server
// host's zone never leaks into stored dates.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// DateKey formats value as the ISO calendar date used as the primary key.
func DateKey(value time.Time, location *time.Location) string {
	return DateAtLocation(value, location).Format(dateLayout)
}

// WeekStart returns midnight of the Monday of the ISO week containing
// value, regardless of locale.
func WeekStart(value time.Time, location *time.Location) time.Time {
	start := DateAtLocation(value, location)
	offset := (int(start.Weekday()) + 6) % 7
	return start.AddDate(0, 0, -offset)
}

// MonthStart returns midnight of the first day of the calendar month
// containing value.
func MonthStart(value time.Time, location *time.Location) time.Time {
	localized := DateAtLocation(value, location)
	return time.Date(localized.Year(), localized.Month(), 1, 0, 0, 0, 0, localized.Location())
}

// ParseDate parses an ISO calendar date in the given location. The zero
// time and false are returned for anything malformed.
func ParseDate(raw string, location *time.Location) (time.Time, bool) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.ParseInLocation(dateLayout, raw, location)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
