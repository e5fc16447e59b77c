package daily

import (
	"errors"
	"time"
)

// ErrEmptyDataset is returned when an index is requested for an empty list.
var ErrEmptyDataset = errors.New("daily: dataset length must be positive")

const day = 24 * time.Hour

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DayNumber returns the number of whole UTC days between the Unix epoch and t.
// Time of day and the caller's zone are ignored.
func DayNumber(t time.Time) int64 {
	secs := t.UTC().Unix()
	n := secs / 86400
	if secs%86400 < 0 {
		n--
	}
	return n
}

// Index returns the deterministic index for the UTC calendar day of t:
// DayNumber(t) mod length.
func Index(t time.Time, length int) (int, error) {
	if length <= 0 {
		return 0, ErrEmptyDataset
	}
	l := int64(length)
	return int(((DayNumber(t) % l) + l) % l), nil
}

// NextMidnight returns the start of the UTC day following t.
func NextMidnight(t time.Time) time.Time {
	return t.UTC().Truncate(day).Add(day)
}
