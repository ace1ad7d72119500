package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvdh/robohost/pkg/registry"
	"github.com/mvdh/robohost/pkg/rules"
)

type RulesCommand struct {
	Output string `short:"o" long:"output" description:"Write rules to this file instead of stdout"`
}

func (c *RulesCommand) Execute(args []string) error {
	cfg := loadConfig()

	store, rowErrs, err := registry.Load(cfg.Registry, warnf)
	if err != nil {
		fatalf("%v", err)
	}
	for _, re := range rowErrs {
		warnf("registry %s: %v (row skipped)", cfg.Registry, re)
	}

	text := rules.Render(rules.Generate(store.All()))

	if c.Output == "" {
		fmt.Print(text)
		return nil
	}
	if err := writeFileAtomic(c.Output, []byte(text)); err != nil {
		fatalf("%v", err)
	}
	fmt.Fprintln(os.Stderr, successStyle.Render(fmt.Sprintf("Wrote %d rule(s) to %s", store.Len(), c.Output)))
	return nil
}

// writeFileAtomic writes via a temp file and rename, like the registry's
// own persist, so a half-written rules file never replaces a good one.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
