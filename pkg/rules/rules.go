// Package rules derives stable device-naming rules from the registry.
package rules

import (
	"fmt"
	"strings"

	"github.com/mvdh/robohost/pkg/registry"
)

// Rule maps one hardware serial to its stable symlink names. The specific
// name is unique per entry; the generic name is shared by every entry of
// the same role.
type Rule struct {
	Serial   string
	Specific string
	Generic  string
}

// Generate produces one rule per entry, in registry order. Generic-name
// collisions between entries of the same role are left in place: the
// consumer is expected to apply rules in order, so the generic alias ends
// up on the most recently registered device of that role. The boot flow
// relies on the generic alias existing whenever any device of the role
// does, which is why it is emitted unconditionally.
func Generate(entries []registry.Entry) []Rule {
	out := make([]Rule, 0, len(entries))
	for _, e := range entries {
		out = append(out, Rule{
			Serial:   e.Serial,
			Specific: fmt.Sprintf("tty_%s_%s_%s", e.Name, e.Role, e.Type),
			Generic:  fmt.Sprintf("tty_%s", e.Role),
		})
	}
	return out
}

// Render formats rules for the external matching engine, one line per rule.
// The header comment restates the ordering contract the engine must honor.
func Render(rs []Rule) string {
	var b strings.Builder
	b.WriteString("# robohost device-naming rules.\n")
	b.WriteString("# Apply in order: when several devices share a role, the last matching\n")
	b.WriteString("# rule owns the generic tty_<role> name.\n")
	for _, r := range rs {
		fmt.Fprintf(&b, "MATCH serial=%s -> SYMLINK %s, SYMLINK %s\n", r.Serial, r.Specific, r.Generic)
	}
	return b.String()
}
