// Package device discovers newly attached USB serial devices and resolves
// their hardware identity.
package device

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.bug.st/serial"
)

// DefaultGlob matches the stable identity paths the kernel creates for USB
// serial adapters.
const DefaultGlob = "/dev/serial/by-id/*"

// DefaultInterval is the snapshot polling interval.
const DefaultInterval = time.Second

// A Lister returns a snapshot of the currently enumerable device paths.
type Lister interface {
	List() ([]string, error)
}

// GlobLister enumerates device paths matching a filesystem glob.
type GlobLister struct {
	Pattern string
}

func (g GlobLister) List() ([]string, error) {
	pattern := g.Pattern
	if pattern == "" {
		pattern = DefaultGlob
	}
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// SerialPortLister enumerates the serial ports reported by the OS.
type SerialPortLister struct{}

func (SerialPortLister) List() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ports))
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}
		out = append(out, port)
	}
	sort.Strings(out)
	return out, nil
}

// EventKind tells whether a device appeared or disappeared.
type EventKind int

const (
	Added EventKind = iota
	Removed
)

func (k EventKind) String() string {
	if k == Added {
		return "attached"
	}
	return "detached"
}

// Event records one change in the device namespace.
type Event struct {
	Kind EventKind
	Path string
}

// PollWatcher turns snapshot polling into a stream of attach/detach events.
// It is the default backend; a push-based backend only needs to produce the
// same Event stream.
type PollWatcher struct {
	Lister   Lister
	Interval time.Duration
}

// Watch captures a baseline snapshot and emits one Event per change until
// the context is cancelled. The channel is closed on cancellation.
func (w PollWatcher) Watch(ctx context.Context) (<-chan Event, error) {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	baseline, err := w.Lister.List()
	if err != nil {
		return nil, err
	}
	known := toSet(baseline)

	ch := make(chan Event)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			current, err := w.Lister.List()
			if err != nil {
				// Transient enumeration failure; the next tick retries.
				continue
			}
			cur := toSet(current)

			for _, p := range current {
				if !known[p] {
					select {
					case ch <- Event{Kind: Added, Path: p}:
					case <-ctx.Done():
						return
					}
				}
			}
			var gone []string
			for p := range known {
				if !cur[p] {
					gone = append(gone, p)
				}
			}
			sort.Strings(gone)
			for _, p := range gone {
				select {
				case ch <- Event{Kind: Removed, Path: p}:
				case <-ctx.Done():
					return
				}
			}
			known = cur
		}
	}()
	return ch, nil
}

func toSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set
}
