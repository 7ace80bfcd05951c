package app

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hivecore/hivemon/internal/core"
	"github.com/hivecore/hivemon/internal/eventbus"
	"github.com/hivecore/hivemon/ui/components"
)

// frameMsg drives periodic re-rendering; all state changes happen on the core
// event loop, the UI only snapshots and draws.
type frameMsg struct{}

const frameInterval = 100 * time.Millisecond

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// AppModel forwards key presses to the event bus and renders snapshots of the
// shared state. It never mutates the state directly.
type AppModel struct {
	state   *core.State
	bus     *eventbus.Bus
	target  string
	spinner spinner.Model
	width   int
	height  int
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(frameTick(), m.spinner.Tick)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The core loop owns all key handling; a full bus drops the key
		// rather than blocking the render loop.
		_ = m.bus.Publish(eventbus.InputEvent{Key: msg.String()})
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case frameMsg:
		return m, frameTick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *AppModel) View() string {
	snap := m.state.Snapshot()
	width := m.width
	if width == 0 {
		width = 100
	}

	var b strings.Builder
	b.WriteString(components.RenderTabs(snap.ActiveView))
	b.WriteString("\n")
	if banner := components.RenderBanners(snap.Banners, width); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}

	switch snap.ActiveView {
	case core.ViewDashboard:
		b.WriteString(components.RenderDashboard(snap, width))
	case core.ViewNodes:
		b.WriteString(components.RenderNodes(snap, width))
	case core.ViewQueues:
		b.WriteString(components.RenderQueues(snap, width))
	case core.ViewKeys:
		b.WriteString(components.RenderKeys(snap, width))
	case core.ViewConsole:
		b.WriteString(components.RenderConsole(snap, width))
	case core.ViewLogs:
		b.WriteString(components.RenderLogs(snap, width))
	}
	b.WriteString("\n")

	if panel := components.RenderActionPanel(snap, m.spinner.View()); panel != "" {
		b.WriteString(panel)
		b.WriteString("\n")
	}

	b.WriteString(components.RenderStatusBar(m.target, snap, width))
	return b.String()
}
