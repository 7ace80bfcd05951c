package components

import (
	"fmt"
	"strings"

	"github.com/hivecore/hivemon/internal/core"
	"github.com/hivecore/hivemon/ui/styles"
)

// RenderNodes is the detail view: one block per worker with connection count,
// last ping and version info.
func RenderNodes(snap core.Snapshot, width int) string {
	var b strings.Builder
	if snap.WorkerStatuses == nil {
		b.WriteString(styles.DimStyle().Render("fetching..."))
	}
	for _, name := range snap.WorkerNames {
		b.WriteString(styles.TitleStyle().Render(name))
		b.WriteString("\n")
		b.WriteString(styles.RowStyle().Render(fmt.Sprintf("  connections: %d", snap.WorkerConnections[name])))
		b.WriteString("\n")
		if pings := snap.WorkerPings[name]; len(pings) > 0 {
			b.WriteString(styles.RowStyle().Render("  last ping:   " + agoString(pings[len(pings)-1])))
			b.WriteString("\n")
		}
		if v, ok := snap.WorkerVersions[name]; ok {
			b.WriteString(styles.RowStyle().Render(fmt.Sprintf("  versions:    hive %s / ollama %s", v.Hive, v.Ollama)))
			b.WriteString("\n")
		}
		if tags := snap.WorkerTags[name]; len(tags) > 0 {
			b.WriteString(styles.DimStyle().Render("  models: " + truncate(strings.Join(tags, ", "), width-12)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return styles.PaneStyle(false).Width(width - 2).Render(b.String())
}

// RenderQueues lists every queue (model- and node-keyed) with its depth.
func RenderQueues(snap core.Snapshot, width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render(fmt.Sprintf("%-40s %s", "Queue", "Count")))
	b.WriteString("\n")
	if snap.QueueMap == nil {
		b.WriteString(styles.DimStyle().Render("fetching..."))
	}
	for _, name := range sortedKeys(snap.QueueMap) {
		b.WriteString(styles.RowStyle().Render(fmt.Sprintf("%-40s %d", truncate(name, 40), snap.QueueMap[name])))
		b.WriteString("\n")
	}
	return styles.PaneStyle(false).Width(width - 2).Render(b.String())
}

// RenderKeys lists auth keys with their values masked; 'c' copies the
// selected key to the clipboard.
func RenderKeys(snap core.Snapshot, width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render("Authentication keys"))
	b.WriteString("\n")
	if snap.AuthKeys == nil {
		b.WriteString(styles.DimStyle().Render("fetching..."))
	}
	for i, k := range snap.AuthKeys {
		row := fmt.Sprintf("%-8s %-16s %-8s %s", truncate(k.ID, 8), truncate(k.Name, 16), k.Role, maskValue(k.Value))
		style := styles.RowStyle()
		if i == snap.SelectedKey {
			style = styles.SelectedRowStyle()
		}
		b.WriteString(style.Render(truncate(row, width-6)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle().Render("press c to copy the selected key"))
	return styles.PaneStyle(false).Width(width - 2).Render(b.String())
}

func maskValue(v string) string {
	if len(v) <= 8 {
		return strings.Repeat("*", len(v))
	}
	return v[:4] + strings.Repeat("*", 4) + v[len(v)-4:]
}

// RenderConsole shows the chat-style prompt pane.
func RenderConsole(snap core.Snapshot, width int) string {
	var b strings.Builder
	for _, line := range snap.ConsoleOutput {
		b.WriteString(styles.RowStyle().Render(truncate(line, width-6)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.InputStyle().Width(width - 6).Render(snap.ConsoleInput + styles.CursorStyle().Render(" ")))
	return styles.PaneStyle(true).Width(width - 2).Render(b.String())
}

const logsShown = 30

// RenderLogs shows the tail of the in-memory log ring.
func RenderLogs(snap core.Snapshot, width int) string {
	logs := snap.Logs
	if len(logs) > logsShown {
		logs = logs[len(logs)-logsShown:]
	}
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render("Recent events"))
	b.WriteString("\n")
	for _, line := range logs {
		b.WriteString(styles.DimStyle().Render(truncate(line, width-6)))
		b.WriteString("\n")
	}
	return styles.PaneStyle(false).Width(width - 2).Render(b.String())
}
