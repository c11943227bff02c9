package owner

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// NoChange is the ID the chown family reads as "leave unchanged". It can
// never name a real user or group.
const NoChange uint32 = math.MaxUint32

// Spec identifies a user or group either by numeric ID or by name.
// The zero value is the numeric ID 0 (root).
type Spec struct {
	name   string
	id     uint32
	byName bool
}

// ByID returns a numeric specifier.
func ByID(id uint32) Spec {
	return Spec{id: id}
}

// ByName returns a symbolic specifier.
func ByName(name string) Spec {
	return Spec{name: name, byName: true}
}

// ParseSpec parses command-line style text into a Spec.
//
// Text made only of digits is a numeric ID. A leading "+" forces numeric
// interpretation, as chown(1) does. A leading "-" is rejected because IDs
// are unsigned. Anything else is a name. Empty text, IDs that overflow
// 32 bits, and the NoChange sentinel return ErrInvalidInput.
func ParseSpec(s string) (Spec, error) {
	if s == "" {
		return Spec{}, newError("parse", s, ErrInvalidInput, errors.New("empty specifier"))
	}

	switch {
	case strings.HasPrefix(s, "+"):
		return parseID(s, s[1:])
	case strings.HasPrefix(s, "-"):
		return Spec{}, newError("parse", s, ErrInvalidInput, errors.New("negative id"))
	case isDigits(s):
		return parseID(s, s)
	default:
		return ByName(s), nil
	}
}

func parseID(raw, digits string) (Spec, error) {
	if !isDigits(digits) {
		return Spec{}, newError("parse", raw, ErrInvalidInput, errors.New("not a number"))
	}
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return Spec{}, newError("parse", raw, ErrInvalidInput, err)
	}
	if uint32(n) == NoChange {
		return Spec{}, newError("parse", raw, ErrInvalidInput, errors.New("reserved id"))
	}
	return ByID(uint32(n)), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsName reports whether the specifier is symbolic.
func (s Spec) IsName() bool {
	return s.byName
}

// ID returns the numeric ID and true for numeric specifiers.
func (s Spec) ID() (uint32, bool) {
	if s.byName {
		return 0, false
	}
	return s.id, true
}

// Name returns the name and true for symbolic specifiers.
func (s Spec) Name() (string, bool) {
	if !s.byName {
		return "", false
	}
	return s.name, true
}

// String renders the specifier the way ParseSpec accepts it back. Names
// that would parse as numbers are not escaped; use ByName directly for
// those.
func (s Spec) String() string {
	if s.byName {
		return s.name
	}
	return strconv.FormatUint(uint64(s.id), 10)
}
