package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jessevdk/go-flags"

	"github.com/mvdh/robohost/pkg/hostconf"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type Options struct {
	Config string `short:"c" long:"config" description:"Path to the configuration file" default:"robohost.yaml"`

	Register RegisterCommand `command:"register" description:"Detect a newly attached arm and register it"`
	Rules    RulesCommand    `command:"rules" description:"Generate device-naming rules from the registry"`
	Export   ExportCommand   `command:"export" description:"Copy calibration files from the source tree to the runtime cache"`
	Import   ImportCommand   `command:"import" description:"Copy calibration files from the runtime cache back to the source tree"`
	Check    CheckCommand    `command:"check" description:"Verify that the required device links exist"`
	Watch    WatchCommand    `command:"watch" description:"Watch device attach/detach events live"`
	Probe    ProbeCommand    `command:"probe" description:"Scan a device for SO-101 servos"`
	Startup  StartupCommand  `command:"startup" description:"Boot entrypoint: check devices and launch teleoperation"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "robohost - device identity and calibration management for teleoperation hosts"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}

func loadConfig() *hostconf.Config {
	cfg, err := hostconf.Load(opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func warnf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, warnStyle.Render("Warning: "+fmt.Sprintf(format, args...)))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
