package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hivecore/hivemon/internal/core"
	"github.com/hivecore/hivemon/ui/styles"
)

const (
	workerPaneWidth = 28
	actionPaneWidth = 30
)

// RenderDashboard lays out the three dashboard panes side by side.
func RenderDashboard(snap core.Snapshot, width int) string {
	workers := RenderWorkerList(snap)
	actions := RenderActionPane(snap)
	global := RenderGlobalPane(snap, width-workerPaneWidth-actionPaneWidth-8)
	return lipgloss.JoinHorizontal(lipgloss.Top, workers, actions, global)
}

func RenderWorkerList(snap core.Snapshot) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render("Workers"))
	b.WriteString("\n")

	if snap.WorkerStatuses == nil {
		b.WriteString(styles.DimStyle().Render("fetching..."))
	}
	for i, name := range snap.WorkerNames {
		row := truncate(name, workerPaneWidth-6)
		if statuses := snap.WorkerStatuses[name]; len(statuses) > 0 {
			row = fmt.Sprintf("%s %s", row, truncate(statuses[len(statuses)-1], 8))
		}
		style := styles.RowStyle()
		if i == snap.SelectedWorker && snap.Focus == core.FocusWorkerList {
			style = styles.SelectedRowStyle()
		}
		b.WriteString(style.Render(row))
		b.WriteString("\n")
	}
	if n := snap.WorkerConnections["Unauthenticated"]; n > 0 {
		b.WriteString(styles.DimStyle().Render(fmt.Sprintf("unauthenticated: %d", n)))
	}

	return styles.PaneStyle(snap.Focus == core.FocusWorkerList).Width(workerPaneWidth).Render(b.String())
}

func RenderActionPane(snap core.Snapshot) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render("Actions"))
	b.WriteString("\n")

	for i, kind := range core.WorkerActions {
		style := styles.RowStyle()
		if i == snap.SelectedAction && snap.Focus == core.FocusActionList {
			style = styles.SelectedRowStyle()
		}
		b.WriteString(style.Render(kind.String()))
		b.WriteString("\n")
	}

	// Info block for the selected worker: the model tags it serves.
	if len(snap.WorkerNames) > 0 && snap.SelectedWorker < len(snap.WorkerNames) {
		name := snap.WorkerNames[snap.SelectedWorker]
		b.WriteString("\n")
		b.WriteString(styles.DimStyle().Render(truncate(name, actionPaneWidth-6)))
		b.WriteString("\n")
		for _, tag := range snap.WorkerTags[name] {
			b.WriteString(styles.RowStyle().Render("  " + truncate(tag, actionPaneWidth-8)))
			b.WriteString("\n")
		}
	}

	return styles.PaneStyle(snap.Focus == core.FocusActionList).Width(actionPaneWidth).Render(b.String())
}

func RenderGlobalPane(snap core.Snapshot, width int) string {
	if width < 20 {
		width = 20
	}
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render("Queues"))
	b.WriteString("\n")

	if snap.QueueMap == nil {
		b.WriteString(styles.DimStyle().Render("fetching..."))
	}
	for _, name := range sortedKeys(snap.QueueMap) {
		b.WriteString(styles.RowStyle().Render(fmt.Sprintf("%s %d", truncate(name, width-10), snap.QueueMap[name])))
		b.WriteString("\n")
	}

	return styles.PaneStyle(snap.Focus == core.FocusGlobalPane).Width(width).Render(b.String())
}

func agoString(t time.Time) string {
	d := time.Since(t).Round(time.Second)
	if d < 0 {
		d = 0
	}
	return d.String() + " ago"
}
