package repository

import (
	"strings"
	"time"
)

const timeLayout = time.RFC3339Nano

// parseTime reads a stored timestamp, yielding the zero time when the
// value is empty or malformed.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

// isUniqueViolation matches SQLite's constraint message; the driver does not
// export a typed error for it.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
