package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvdh/robohost/pkg/registry"
)

func TestParseLinkName(t *testing.T) {
	tests := []struct {
		base string
		role registry.Role
		name string
		typ  string
		ok   bool
	}{
		{"tty_white_follower_so101", registry.Follower, "white", "so101", true},
		{"tty_white_12_follower_so101", registry.Follower, "white_12", "so101", true},
		{"tty_black_leader_so101", registry.Leader, "black", "so101", true},
		{"tty_black_leader_so101", registry.Follower, "", "", false}, // wrong role
		{"tty_follower", registry.Follower, "", "", false},           // generic link
		{"ttyACM0", registry.Follower, "", "", false},
	}

	for _, tt := range tests {
		name, typ, ok := parseLinkName(tt.base, tt.role)
		if ok != tt.ok || name != tt.name || typ != tt.typ {
			t.Errorf("parseLinkName(%q, %s) = (%q, %q, %v), want (%q, %q, %v)",
				tt.base, tt.role, name, typ, ok, tt.name, tt.typ, tt.ok)
		}
	}
}

func TestFindRoleLink(t *testing.T) {
	devDir := t.TempDir()

	node := filepath.Join(devDir, "ttyACM0")
	require.NoError(t, os.WriteFile(node, nil, 0o644))
	require.NoError(t, os.Symlink("ttyACM0", filepath.Join(devDir, "tty_white_follower_so101")))
	require.NoError(t, os.Symlink("ttyACM0", filepath.Join(devDir, "tty_follower")))

	link, err := findRoleLink(devDir, registry.Follower)
	require.NoError(t, err)
	assert.Equal(t, "tty_white_follower_so101", link.Link)
	assert.Equal(t, "white", link.Name)
	assert.Equal(t, "so101", link.Type)
	wantPort, err := filepath.EvalSymlinks(node)
	require.NoError(t, err)
	assert.Equal(t, wantPort, link.Port)

	_, err = findRoleLink(devDir, registry.Leader)
	assert.Error(t, err)
}
