package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/mvdh/robohost/pkg/device"
	"github.com/mvdh/robohost/pkg/registry"
)

type RegisterCommand struct {
	Role    string `long:"role" description:"Device role (leader or follower); prompted when omitted"`
	Type    string `long:"type" default:"so101" description:"Device family"`
	Timeout int    `long:"timeout" default:"30" description:"Detection timeout in seconds (overrides config)"`
}

func (c *RegisterCommand) Execute(args []string) error {
	cfg := loadConfig()

	fmt.Println(headerStyle.Render("Robohost Register"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━"))
	fmt.Println()

	store := openOrCreateStore(cfg.Registry)

	roleInput := c.Role
	if roleInput == "" {
		roleInput = askRole()
	}
	role, err := registry.ParseRole(roleInput)
	if err != nil {
		fatalf("%v", err)
	}

	timeout := time.Duration(c.Timeout) * time.Second
	if timeout <= 0 {
		timeout = cfg.DetectTimeout()
	}

	fmt.Printf("Unplug the %s arm if it is connected, then plug it in now.\n", role)
	fmt.Println(dimStyle.Render(fmt.Sprintf("Watching %s for up to %s...", cfg.DeviceGlob, timeout)))
	fmt.Println()

	detector := device.Detector{
		Lister:   device.GlobLister{Pattern: cfg.DeviceGlob},
		Chooser:  device.IndexChooser{In: os.Stdin, Out: os.Stderr},
		Interval: cfg.DetectInterval(),
	}
	path, err := detector.Detect(context.Background(), string(role), timeout)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Println(successStyle.Render("Found new device: " + path))

	serial, err := device.Resolver{}.Resolve(path)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Hardware serial: %s\n", serial)
	fmt.Println()
	fmt.Println(subHeaderStyle.Render("━━━ Identity ━━━"))
	fmt.Println()

	entry := registry.Entry{
		Serial: serial,
		Name:   askName(),
		Role:   role,
		Type:   c.Type,
	}
	if err := store.Append(entry); err != nil {
		fatalf("%v", err)
	}
	if err := store.Persist(cfg.Registry); err != nil {
		fatalf("%v", err)
	}

	normalized := store.All()[store.Len()-1]
	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render(fmt.Sprintf("Registered %s as %s %s %q",
		normalized.Serial, normalized.Type, normalized.Role, normalized.Name)))
	fmt.Printf("Registry saved to %s\n", cfg.Registry)
	fmt.Println()
	fmt.Println("Regenerate the naming rules with: " + headerStyle.Render("robohost rules"))
	return nil
}

// openOrCreateStore loads the registry, tolerating a missing file (first
// registration) and bad rows (they are warned about and skipped, never
// rewritten silently).
func openOrCreateStore(path string) *registry.Store {
	store, rowErrs, err := registry.Load(path, warnf)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			fatalf("%v", err)
		}
		return registry.NewStore(warnf)
	}
	for _, re := range rowErrs {
		warnf("registry %s: %v (row skipped)", path, re)
	}
	return store
}

func askRole() string {
	var role string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which role does this arm have?").
				Options(
					huh.NewOption("Leader (the one you move by hand)", "leader"),
					huh.NewOption("Follower (the one that follows)", "follower"),
				).
				Value(&role),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	return role
}

func askName() string {
	var name string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nice name for this arm").
				Description("Lowercased; anything outside [a-z0-9_] becomes _").
				Validate(func(s string) error {
					if registry.NormalizeName(s) == "" {
						return fmt.Errorf("name needs at least one letter or digit")
					}
					return nil
				}).
				Value(&name),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	return name
}
