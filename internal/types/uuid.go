package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// UUID is a device identifier as sent by the hub: a sequence of byte values.
type UUID []byte

// MarshalJSON encodes the UUID as an array of numbers instead of base64.
func (u UUID) MarshalJSON() ([]byte, error) {
	return []byte("[" + u.join(",", 10, false) + "]"), nil
}

// UnmarshalJSON decodes an array of byte-sized integers.
func (u *UUID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*u = nil
		return nil
	}
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return fmt.Errorf("uuid: expected array, got %s", s)
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		*u = UUID{}
		return nil
	}
	parsed, err := parseBytes(inner, ",")
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Path returns the hyphen-joined decimal form used in hub URL paths.
func (u UUID) Path() string {
	return u.join("-", 10, false)
}

// DOM returns the comma-joined decimal form used as an action key in the UI.
func (u UUID) DOM() string {
	return u.join(",", 10, false)
}

// Colon returns the colon-joined decimal display form.
func (u UUID) Colon() string {
	return u.join(":", 10, false)
}

// HexBraces returns the uppercase hex display form, e.g. "{1, A, FF}".
func (u UUID) HexBraces() string {
	return "{" + u.join(", ", 16, true) + "}"
}

// Canonical returns the RFC 4122 string for 16-byte identifiers, or "" otherwise.
func (u UUID) Canonical() string {
	id, err := uuid.FromBytes(u)
	if err != nil {
		return ""
	}
	return id.String()
}

func (u UUID) join(sep string, base int, upper bool) string {
	parts := make([]string, len(u))
	for i, b := range u {
		s := strconv.FormatUint(uint64(b), base)
		if upper {
			s = strings.ToUpper(s)
		}
		parts[i] = s
	}
	return strings.Join(parts, sep)
}

// ParseDOM parses the comma-joined decimal form.
func ParseDOM(s string) (UUID, error) {
	return parseBytes(s, ",")
}

// ParsePath parses the hyphen-joined decimal form.
func ParsePath(s string) (UUID, error) {
	return parseBytes(s, "-")
}

func parseBytes(s, sep string) (UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("uuid: empty")
	}
	fields := strings.Split(s, sep)
	out := make(UUID, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(strings.TrimSpace(f), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("uuid: invalid byte %q: %w", f, err)
		}
		out = append(out, byte(n))
	}
	return out, nil
}
