// Package datetime handles the fixed "yyyy-MM-dd HH:mm:ss" wire format.
package datetime

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02 15:04:05"

// LoadLocation resolves name, treating an empty name as UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", name, err)
	}
	return loc, nil
}

// Parse reads value in loc. A nil loc means UTC.
func Parse(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(Layout, value, loc)
}

// Format renders t in loc. A nil loc means UTC.
func Format(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(Layout)
}
