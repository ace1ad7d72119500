package device

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// NotFoundError reports that no new device appeared within the timeout
// window.
type NotFoundError struct {
	Role    string
	Timeout time.Duration
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no new %s device detected within %s", e.Role, e.Timeout)
}

// A Chooser picks one path out of a fixed candidate set. It is consulted
// only when more than one device appears in the same polling window.
type Chooser interface {
	Choose(role string, candidates []string) (string, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(role string, candidates []string) (string, error)

func (f ChooserFunc) Choose(role string, candidates []string) (string, error) {
	return f(role, candidates)
}

// IndexChooser prints an enumerated candidate list on Out and reads a
// 1-based index from In, re-prompting until the input is a valid index.
type IndexChooser struct {
	In  io.Reader
	Out io.Writer
}

func (c IndexChooser) Choose(role string, candidates []string) (string, error) {
	fmt.Fprintf(c.Out, "Multiple new devices appeared for role %q:\n", role)
	for i, p := range candidates {
		fmt.Fprintf(c.Out, "  %d) %s\n", i+1, p)
	}

	sc := bufio.NewScanner(c.In)
	for {
		fmt.Fprintf(c.Out, "Select device [1-%d]: ", len(candidates))
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		input := strings.TrimSpace(sc.Text())
		idx, err := strconv.Atoi(input)
		if err != nil || idx < 1 || idx > len(candidates) {
			fmt.Fprintf(c.Out, "Invalid selection %q, expected a number between 1 and %d.\n", input, len(candidates))
			continue
		}
		return candidates[idx-1], nil
	}
}

// Detector finds the next newly attached device by polling snapshot diffs.
type Detector struct {
	Lister   Lister
	Chooser  Chooser       // nil means prompt on stdin/stderr
	Interval time.Duration // zero means DefaultInterval
}

// Detect captures a baseline snapshot, then polls once per interval until a
// new path appears or the timeout elapses. A single new path is returned
// directly; several new paths are handed to the chooser with the candidate
// set frozen at that point, so later attach events cannot shift the indexes
// the operator is looking at.
func (d Detector) Detect(ctx context.Context, role string, timeout time.Duration) (string, error) {
	interval := d.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	baseline, err := d.Lister.List()
	if err != nil {
		return "", fmt.Errorf("list devices: %w", err)
	}
	known := toSet(baseline)

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		// A transient enumeration failure is retried on the next tick,
		// like the PollWatcher; only the deadline ends the attempt.
		current, err := d.Lister.List()
		if err == nil {
			var fresh []string
			for _, p := range current {
				if !known[p] {
					fresh = append(fresh, p)
				}
			}
			switch {
			case len(fresh) == 1:
				return fresh[0], nil
			case len(fresh) > 1:
				return d.choose(role, fresh)
			}
		}

		if !time.Now().Before(deadline) {
			return "", &NotFoundError{Role: role, Timeout: timeout}
		}
	}
}

func (d Detector) choose(role string, candidates []string) (string, error) {
	ch := d.Chooser
	if ch == nil {
		ch = IndexChooser{In: os.Stdin, Out: os.Stderr}
	}
	return ch.Choose(role, candidates)
}
