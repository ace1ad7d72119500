// Package registry stores the mapping from hardware serial numbers to
// human-assigned device identities.
package registry

import (
	"fmt"
	"strings"
)

// Role tells whether a device drives (leader) or is driven (follower).
type Role string

const (
	Leader   Role = "leader"
	Follower Role = "follower"
)

// Entry maps one hardware serial number to its assigned identity.
type Entry struct {
	Serial string // normalized vendor serial
	Name   string // human-chosen nice name, normalized
	Role   Role
	Type   string // device family, e.g. "so101"
}

// InvalidRoleError rejects a role outside the two known values.
type InvalidRoleError struct {
	Role string
}

func (e *InvalidRoleError) Error() string {
	return fmt.Sprintf("invalid role %q: must be %q or %q", e.Role, Leader, Follower)
}

// DuplicateNameError rejects a nice name already taken within the same
// (role, type) pair. Two such entries would share one calibration file.
type DuplicateNameError struct {
	Name string
	Role Role
	Type string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("name %q is already registered for a %s %s", e.Name, e.Type, e.Role)
}

// ParseRole lowercases and validates a role value.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case Leader, Follower:
		return r, nil
	}
	return "", &InvalidRoleError{Role: s}
}

// NormalizeSerial strips every non-alphanumeric character from a vendor
// serial.
func NormalizeSerial(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isAlnum(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeName lowercases a nice name and restricts it to [a-z0-9_]: any
// run of other characters becomes a single underscore, and leading or
// trailing separators are dropped, so "White 12!" becomes "white_12".
func NormalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if isAlnum(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		} else {
			pendingSep = true
		}
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}
