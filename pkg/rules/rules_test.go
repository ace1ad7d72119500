package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvdh/robohost/pkg/registry"
)

func TestGenerate(t *testing.T) {
	entries := []registry.Entry{
		{Serial: "58FA094281", Name: "white_12", Role: registry.Follower, Type: "so101"},
		{Serial: "91AB234567", Name: "black", Role: registry.Leader, Type: "so101"},
	}

	rs := Generate(entries)
	require.Len(t, rs, 2)
	assert.Equal(t, Rule{
		Serial:   "58FA094281",
		Specific: "tty_white_12_follower_so101",
		Generic:  "tty_follower",
	}, rs[0])
	assert.Equal(t, Rule{
		Serial:   "91AB234567",
		Specific: "tty_black_leader_so101",
		Generic:  "tty_leader",
	}, rs[1])
}

func TestGenerateSharedRoleCollidesOnGenericName(t *testing.T) {
	entries := []registry.Entry{
		{Serial: "58FA094281", Name: "white", Role: registry.Follower, Type: "so101"},
		{Serial: "91AB234567", Name: "green", Role: registry.Follower, Type: "so101"},
	}

	rs := Generate(entries)
	require.Len(t, rs, 2)
	// Both rules carry the generic name; ordering decides the winner.
	assert.Equal(t, "tty_follower", rs[0].Generic)
	assert.Equal(t, "tty_follower", rs[1].Generic)
	assert.NotEqual(t, rs[0].Specific, rs[1].Specific)
}

func TestRenderFormat(t *testing.T) {
	out := Render(Generate([]registry.Entry{
		{Serial: "58FA094281", Name: "white", Role: registry.Follower, Type: "so101"},
	}))

	assert.Contains(t, out,
		"MATCH serial=58FA094281 -> SYMLINK tty_white_follower_so101, SYMLINK tty_follower\n")

	// Rule lines keep registry order after the header comments.
	var ruleLines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "MATCH ") {
			ruleLines = append(ruleLines, line)
		}
	}
	assert.Len(t, ruleLines, 1)
}
