package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mvdh/robohost/pkg/device"
)

type WatchCommand struct{}

const maxWatchEvents = 20

type eventMsg device.Event
type watchClosedMsg struct{}

type watchModel struct {
	glob     string
	ch       <-chan device.Event
	lines    []string
	quitting bool
	closed   bool
}

func waitForDeviceEvent(ch <-chan device.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m watchModel) Init() tea.Cmd {
	return waitForDeviceEvent(m.ch)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case eventMsg:
		ev := device.Event(msg)
		style := successStyle
		if ev.Kind == device.Removed {
			style = warnStyle
		}
		line := fmt.Sprintf("%s  %s %s",
			dimStyle.Render(time.Now().Format("15:04:05")),
			style.Render(ev.Kind.String()),
			ev.Path)
		m.lines = append(m.lines, line)
		if len(m.lines) > maxWatchEvents {
			m.lines = m.lines[len(m.lines)-maxWatchEvents:]
		}
		return m, waitForDeviceEvent(m.ch)

	case watchClosedMsg:
		m.closed = true
		return m, tea.Quit
	}

	return m, nil
}

func (m watchModel) View() string {
	if m.quitting || m.closed {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Robohost Watch"))
	sb.WriteString(dimStyle.Render("  " + m.glob))
	sb.WriteString("\n\n")

	if len(m.lines) == 0 {
		sb.WriteString(dimStyle.Render("Waiting for device changes..."))
	} else {
		sb.WriteString(strings.Join(m.lines, "\n"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Press 'q' to quit"))
	sb.WriteString("\n")
	return sb.String()
}

func (c *WatchCommand) Execute(args []string) error {
	cfg := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := device.PollWatcher{
		Lister:   device.GlobLister{Pattern: cfg.DeviceGlob},
		Interval: cfg.DetectInterval(),
	}
	ch, err := watcher.Watch(ctx)
	if err != nil {
		fatalf("watch devices: %v", err)
	}

	p := tea.NewProgram(watchModel{glob: cfg.DeviceGlob, ch: ch})
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running watch: %v", err)
	}
	return nil
}
