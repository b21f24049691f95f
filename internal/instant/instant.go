// Package instant parses and formats the UTC instants that cross the service
// boundary and the storage layer.
//
// Every instant is stored and compared as UTC. A timestamp string without an
// explicit zone designator is read as UTC by appending "Z"; it is never
// interpreted in the server's local zone.
package instant

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalid indicates a string that is not a recognizable instant.
var ErrInvalid = errors.New("invalid instant")

const dateOnly = "2006-01-02"

// Parse reads s as a UTC instant.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalid)
	}
	if len(s) == len(dateOnly) {
		t, err := time.Parse(dateOnly, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalid, s)
		}
		return t.UTC(), nil
	}

	s = strings.Replace(s, " ", "T", 1)
	if !hasZone(s) {
		s += "Z"
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return t.UTC(), nil
}

// ParseOptional parses s when it is non-nil and non-blank.
func ParseOptional(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := Parse(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Format renders t in the single textual form used on the wire and on disk.
func Format(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// FormatOptional renders t, or returns nil for a nil instant.
func FormatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := Format(*t)
	return &s
}

// hasZone reports whether the time portion of s ends with Z or a numeric offset.
func hasZone(s string) bool {
	if strings.HasSuffix(s, "Z") || strings.HasSuffix(s, "z") {
		return true
	}
	idx := strings.IndexByte(s, 'T')
	if idx < 0 {
		return false
	}
	clock := s[idx+1:]
	return strings.ContainsAny(clock, "+-")
}
