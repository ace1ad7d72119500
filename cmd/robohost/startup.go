package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mvdh/robohost/pkg/registry"
)

// StartupCommand is the boot entrypoint (run from cron @reboot): wait for
// the system to settle, verify the named device links are present, then
// launch the external teleoperation process against the leader and follower
// links.
type StartupCommand struct {
	Settle int    `long:"settle" default:"-1" description:"Seconds to wait before starting (overrides config)"`
	DevDir string `long:"dev" default:"/dev" description:"Device directory"`
	DryRun bool   `long:"dry-run" description:"Print the teleoperation command without starting it"`
}

func (c *StartupCommand) Execute(args []string) error {
	cfg := loadConfig()

	logf("Robohost startup")

	settle := c.Settle
	if settle < 0 {
		settle = cfg.Startup.SettleSec
	}
	if settle > 0 {
		logf("Waiting %d second(s) for system initialization...", settle)
		time.Sleep(time.Duration(settle) * time.Second)
	}

	follower, err := findRoleLink(c.DevDir, registry.Follower)
	if err != nil {
		logf("%v", err)
		os.Exit(1)
	}
	leader, err := findRoleLink(c.DevDir, registry.Leader)
	if err != nil {
		logf("%v", err)
		os.Exit(1)
	}

	argv := append([]string{}, cfg.Startup.Command...)
	argv = append(argv,
		fmt.Sprintf("--robot.type=%s_%s", follower.Type, registry.Follower),
		"--robot.port="+follower.Port,
		"--robot.id="+follower.Name,
		fmt.Sprintf("--teleop.type=%s_%s", leader.Type, registry.Leader),
		"--teleop.port="+leader.Port,
		"--teleop.id="+leader.Name,
	)
	logf("Command: %s", strings.Join(argv, " "))

	if c.DryRun {
		return nil
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		logf("Failed to start teleoperation: %v", err)
		os.Exit(1)
	}
	logf("Teleoperation started (PID %d)", cmd.Process.Pid)
	logf("  Follower: %s -> %s (id %s)", follower.Link, follower.Port, follower.Name)
	logf("  Leader:   %s -> %s (id %s)", leader.Link, leader.Port, leader.Name)
	return nil
}

// roleLink is one resolved tty_{name}_{role}_{type} symlink.
type roleLink struct {
	Link string // link basename
	Port string // resolved device node
	Name string // nice name extracted from the link
	Type string // device family extracted from the link
}

// findRoleLink picks the first specific link for the role in sorted order.
// The generic tty_{role} link carries no identity and is skipped.
func findRoleLink(devDir string, role registry.Role) (*roleLink, error) {
	links, err := filepath.Glob(filepath.Join(devDir, "tty_*"))
	if err != nil {
		return nil, err
	}
	sort.Strings(links)

	for _, l := range links {
		name, typ, ok := parseLinkName(filepath.Base(l), role)
		if !ok {
			continue
		}
		port, err := filepath.EvalSymlinks(l)
		if err != nil {
			continue // dangling link
		}
		return &roleLink{Link: filepath.Base(l), Port: port, Name: name, Type: typ}, nil
	}
	return nil, fmt.Errorf("no %s device link found under %s (expected tty_<name>_%s_<type>)", role, devDir, role)
}

// parseLinkName splits tty_{name}_{role}_{type}. The name may itself
// contain underscores; the role sits second to last.
func parseLinkName(base string, role registry.Role) (name, typ string, ok bool) {
	parts := strings.Split(base, "_")
	if len(parts) < 4 || parts[0] != "tty" {
		return "", "", false
	}
	if parts[len(parts)-2] != string(role) {
		return "", "", false
	}
	return strings.Join(parts[1:len(parts)-2], "_"), parts[len(parts)-1], true
}

// logf prints with a timestamp, matching the boot log style.
func logf(format string, args ...any) {
	fmt.Printf("[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), fmt.Sprintf(format, args...))
}
