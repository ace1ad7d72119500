package device

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolutionError reports a device that exposes no hardware serial
// attribute (a non-USB-serial or driverless device).
type ResolutionError struct {
	Path string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("device %s exposes no hardware serial attribute", e.Path)
}

// Resolver reads a device's vendor-assigned serial number from sysfs.
type Resolver struct {
	// SysfsRoot overrides /sys, for tests.
	SysfsRoot string
}

// Resolve follows devicePath to its real device node and returns the raw
// serial attribute of the USB device behind it. The value is returned as
// the vendor wrote it; normalization is the registry's job.
func (r Resolver) Resolve(devicePath string) (string, error) {
	node, err := filepath.EvalSymlinks(devicePath)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", devicePath, err)
	}

	root := r.SysfsRoot
	if root == "" {
		root = "/sys"
	}

	// class/tty/<node>/device points into the USB interface directory; the
	// serial attribute lives on one of its ancestors (the USB device).
	dir, err := filepath.EvalSymlinks(filepath.Join(root, "class", "tty", filepath.Base(node), "device"))
	if err != nil {
		return "", &ResolutionError{Path: devicePath}
	}

	for range 4 {
		b, err := os.ReadFile(filepath.Join(dir, "serial"))
		if err == nil {
			if s := strings.TrimSpace(string(b)); s != "" {
				return s, nil
			}
		}
		dir = filepath.Dir(dir)
	}
	return "", &ResolutionError{Path: devicePath}
}
