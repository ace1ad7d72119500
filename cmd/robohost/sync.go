package main

import (
	"fmt"
	"os"

	"github.com/mvdh/robohost/pkg/calib"
	"github.com/mvdh/robohost/pkg/hostconf"
	"github.com/mvdh/robohost/pkg/registry"
)

type ExportCommand struct{}

func (c *ExportCommand) Execute(args []string) error {
	return runSync("Export", func(cfg *hostconf.Config) calib.Syncer {
		return calib.Syncer{Source: cfg.Calibration.Source, Dest: cfg.Calibration.Cache, Warn: warnf}
	})
}

type ImportCommand struct{}

func (c *ImportCommand) Execute(args []string) error {
	return runSync("Import", func(cfg *hostconf.Config) calib.Syncer {
		return calib.Syncer{Source: cfg.Calibration.Cache, Dest: cfg.Calibration.Source, Warn: warnf}
	})
}

func runSync(title string, build func(*hostconf.Config) calib.Syncer) error {
	cfg := loadConfig()

	fmt.Println(headerStyle.Render("Robohost " + title))
	fmt.Println()

	store, rowErrs, err := registry.Load(cfg.Registry, warnf)
	if err != nil {
		fatalf("%v", err)
	}
	for _, re := range rowErrs {
		warnf("registry %s: %v (row skipped)", cfg.Registry, re)
	}

	syncer := build(cfg)
	fmt.Println(dimStyle.Render(fmt.Sprintf("%s -> %s (%d entries)", syncer.Source, syncer.Dest, store.Len())))
	res := syncer.Sync(store.All())

	fmt.Println()
	fmt.Println(successStyle.Render(fmt.Sprintf("Copied %d calibration file(s)", res.Copied)))
	if len(res.Missing) > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("%d calibration file(s) not found:", len(res.Missing))))
		for _, p := range res.Missing {
			fmt.Println(dimStyle.Render("  - " + p))
		}
	}
	if len(res.Errors) > 0 {
		for _, err := range res.Errors {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
	return nil
}
