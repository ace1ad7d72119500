package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type CheckCommand struct {
	DevDir string `long:"dev" default:"/dev" description:"Device directory"`
}

func (c *CheckCommand) Execute(args []string) error {
	cfg := loadConfig()

	missing, available := missingDevices(c.DevDir, cfg.Startup.Required)
	if len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "Missing devices: %s\n", strings.Join(missing, ", "))
		fmt.Fprintln(os.Stderr, "Available tty_* devices:")
		for _, name := range available {
			fmt.Fprintf(os.Stderr, "  - %s\n", name)
		}
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Hints:")
		fmt.Fprintln(os.Stderr, "  1. Check that the USB cables are plugged in")
		fmt.Fprintln(os.Stderr, "  2. Reload the naming rules (e.g. sudo udevadm trigger)")
		fmt.Fprintf(os.Stderr, "  3. Inspect %s for available devices\n", c.DevDir)
		os.Exit(1)
	}

	fmt.Println(successStyle.Render("All required devices found: " + strings.Join(cfg.Startup.Required, ", ")))
	return nil
}

// missingDevices reports which required names are absent from devDir,
// along with the tty_* entries that are present, sorted.
func missingDevices(devDir string, required []string) (missing, available []string) {
	for _, name := range required {
		if _, err := os.Stat(filepath.Join(devDir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	links, _ := filepath.Glob(filepath.Join(devDir, "tty_*"))
	sort.Strings(links)
	for _, l := range links {
		available = append(available, filepath.Base(l))
	}
	return missing, available
}
