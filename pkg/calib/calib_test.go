package calib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvdh/robohost/pkg/registry"
)

func TestLocate(t *testing.T) {
	tests := []struct {
		entry    registry.Entry
		expected string
	}{
		{
			registry.Entry{Name: "white_12", Role: registry.Follower, Type: "so101"},
			filepath.Join("robots", "so101_follower", "white_12.json"),
		},
		{
			registry.Entry{Name: "black", Role: registry.Leader, Type: "so101"},
			filepath.Join("teleoperators", "so101_leader", "black.json"),
		},
	}

	for _, tt := range tests {
		if got := Locate(tt.entry); got != tt.expected {
			t.Errorf("Locate(%+v) = %q, want %q", tt.entry, got, tt.expected)
		}
	}
}

func TestSyncCopiesAndCountsMissing(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()

	entries := []registry.Entry{
		{Serial: "58FA094281", Name: "white", Role: registry.Follower, Type: "so101"},
		{Serial: "91AB234567", Name: "black", Role: registry.Leader, Type: "so101"},
		{Serial: "77CD890123", Name: "green", Role: registry.Follower, Type: "so101"},
	}

	// Calibration exists for white and black, not for green.
	writeCalib(t, source, entries[0], `{"shoulder_pan":{"id":1}}`)
	writeCalib(t, source, entries[1], `{"gripper":{"id":6}}`)

	res := Syncer{Source: source, Dest: dest}.Sync(entries)

	assert.Equal(t, 2, res.Copied)
	require.Len(t, res.Missing, 1)
	assert.Equal(t, filepath.Join(source, Locate(entries[2])), res.Missing[0])
	assert.Empty(t, res.Errors)

	for _, e := range entries[:2] {
		src, err := os.ReadFile(filepath.Join(source, Locate(e)))
		require.NoError(t, err)
		dst, err := os.ReadFile(filepath.Join(dest, Locate(e)))
		require.NoError(t, err)
		assert.Equal(t, src, dst, "calibration for %q must copy byte-identical", e.Name)
	}
}

func TestSyncRoundTrip(t *testing.T) {
	source := t.TempDir()
	cache := t.TempDir()

	entries := []registry.Entry{
		{Serial: "58FA094281", Name: "white", Role: registry.Follower, Type: "so101"},
		{Serial: "91AB234567", Name: "black", Role: registry.Leader, Type: "so101"},
	}
	writeCalib(t, source, entries[0], `{"elbow_flex":{"range_min":823,"range_max":3540}}`)
	writeCalib(t, source, entries[1], `{"wrist_roll":{"range_min":100,"range_max":4000}}`)

	// Export then import must reproduce the original bytes.
	export := Syncer{Source: source, Dest: cache}.Sync(entries)
	require.Equal(t, 2, export.Copied)

	restored := t.TempDir()
	imported := Syncer{Source: cache, Dest: restored}.Sync(entries)
	require.Equal(t, 2, imported.Copied)

	for _, e := range entries {
		want, err := os.ReadFile(filepath.Join(source, Locate(e)))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(restored, Locate(e)))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSyncRecordsCopyFailuresAndContinues(t *testing.T) {
	source := t.TempDir()
	dest := t.TempDir()

	entries := []registry.Entry{
		{Serial: "58FA094281", Name: "white", Role: registry.Follower, Type: "so101"},
		{Serial: "91AB234567", Name: "black", Role: registry.Leader, Type: "so101"},
	}
	writeCalib(t, source, entries[0], `{"shoulder_pan":{"id":1}}`)
	writeCalib(t, source, entries[1], `{"gripper":{"id":6}}`)

	// A plain file where the robots tree should go makes the follower copy
	// fail without the source being missing.
	require.NoError(t, os.WriteFile(filepath.Join(dest, "robots"), nil, 0o644))

	res := Syncer{Source: source, Dest: dest}.Sync(entries)

	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error(), `"white"`)
	assert.Empty(t, res.Missing)
	// The batch continued past the failure: the leader still copied.
	assert.Equal(t, 1, res.Copied)
	_, err := os.Stat(filepath.Join(dest, Locate(entries[1])))
	assert.NoError(t, err)
}

func TestSyncEmptyRegistry(t *testing.T) {
	res := Syncer{Source: t.TempDir(), Dest: t.TempDir()}.Sync(nil)
	assert.Zero(t, res.Copied)
	assert.Empty(t, res.Missing)
}

func writeCalib(t *testing.T, root string, e registry.Entry, contents string) {
	t.Helper()
	path := filepath.Join(root, Locate(e))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}
