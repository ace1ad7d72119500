package hostconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "devices.csv", cfg.Registry)
	assert.Equal(t, time.Second, cfg.DetectInterval())
	assert.Equal(t, 30*time.Second, cfg.DetectTimeout())
	assert.Equal(t, []string{"tty_leader", "tty_follower"}, cfg.Startup.Required)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robohost.yaml")
	content := `
registry: /etc/robohost/devices.csv
device_glob: "/dev/ttyACM*"
detect:
  interval_ms: 250
  timeout_sec: 10
calibration:
  source: /srv/robohost/calibration
  cache: /var/cache/robohost
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/etc/robohost/devices.csv", cfg.Registry)
	assert.Equal(t, "/dev/ttyACM*", cfg.DeviceGlob)
	assert.Equal(t, 250*time.Millisecond, cfg.DetectInterval())
	assert.Equal(t, 10*time.Second, cfg.DetectTimeout())
	assert.Equal(t, "/srv/robohost/calibration", cfg.Calibration.Source)
	// Unset fields keep their defaults.
	assert.Equal(t, []string{"python", "-m", "lerobot.teleoperate"}, cfg.Startup.Command)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robohost.yaml")
	require.NoError(t, os.WriteFile(path, []byte("detect:\n  interval_ms: -5\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interval_ms")
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robohost.yaml")
	require.NoError(t, os.WriteFile(path, []byte("registry: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
