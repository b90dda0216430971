// Package bump walks commit history back to the last release tag and
// recommends the next semantic version increment.
package bump

import (
	"fmt"
)

// Level is a semantic version component.
type Level int

const (
	Patch Level = iota
	Minor
	Major
)

func (l Level) String() string {
	switch l {
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case Major:
		return "major"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ParseLevel accepts exactly "patch", "minor" or "major".
func ParseLevel(s string) (Level, error) {
	switch s {
	case "patch":
		return Patch, nil
	case "minor":
		return Minor, nil
	case "major":
		return Major, nil
	}
	return Patch, fmt.Errorf("unknown bump level %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if l < Patch || l > Major {
		return nil, fmt.Errorf("invalid bump level %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
