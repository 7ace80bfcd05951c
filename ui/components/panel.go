package components

import (
	"fmt"
	"strings"

	"github.com/hivecore/hivemon/internal/core"
	"github.com/hivecore/hivemon/ui/styles"
)

const (
	panelWidth     = 60
	responseWindow = 12
)

// RenderActionPanel renders the overlay for the multi-step action workflow.
// Empty string when the panel is idle.
func RenderActionPanel(snap core.Snapshot, spin string) string {
	switch snap.Panel.State {
	case core.PanelInput:
		return renderInputPanel(snap.Panel)
	case core.PanelConfirm:
		return renderConfirmPanel(snap.Panel, snap.ConfirmChoice)
	case core.PanelResponse:
		return renderResponsePanel(snap, spin)
	}
	return ""
}

func renderInputPanel(panel core.ActionPanel) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render(panel.Kind.String()))
	b.WriteString("\n\n")
	b.WriteString("Model name:\n")

	runes := []rune(panel.Input)
	before := string(runes[:panel.Cursor])
	under := " "
	after := ""
	if panel.Cursor < len(runes) {
		under = string(runes[panel.Cursor])
		after = string(runes[panel.Cursor+1:])
	}
	b.WriteString(styles.InputStyle().Width(panelWidth - 8).Render(before + styles.CursorStyle().Render(under) + after))
	b.WriteString("\n\n")
	b.WriteString(styles.DimStyle().Render("enter: confirm   esc: cancel"))

	return styles.PanelBorderStyle(true).Width(panelWidth).Render(b.String())
}

func renderConfirmPanel(panel core.ActionPanel, choice int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render(fmt.Sprintf("%s %s?", panel.Kind.Verb(), panel.Model)))
	b.WriteString("\n\n")
	b.WriteString(styles.ConfirmChoiceStyle(choice == core.ConfirmProceed).Render("Proceed"))
	b.WriteString("  ")
	b.WriteString(styles.ConfirmChoiceStyle(choice == core.ConfirmAbort).Render("Abort"))
	b.WriteString("\n\n")
	b.WriteString(styles.DimStyle().Render("left/right: choose   enter: commit   esc: back"))

	return styles.PanelBorderStyle(true).Width(panelWidth).Render(b.String())
}

func renderResponsePanel(snap core.Snapshot, spin string) string {
	panel := snap.Panel
	var b strings.Builder

	title := fmt.Sprintf("%s: %s", panel.Kind.String(), panel.Model)
	if snap.ActionInProgress {
		title += " " + spin
	}
	b.WriteString(styles.TitleStyle().Render(title))
	b.WriteString("\n\n")

	if len(panel.Output) == 0 && panel.Placeholder != "" {
		b.WriteString(styles.DimStyle().Render(panel.Placeholder))
		b.WriteString("\n")
	}

	lines := panel.Output
	start := panel.Scroll
	if start > len(lines) {
		start = len(lines)
	}
	window := lines[start:]
	if len(window) > responseWindow {
		window = window[:responseWindow]
	}
	for _, line := range window {
		b.WriteString(styles.OutputLineStyle(line.OK).Render(truncate(line.Text, panelWidth-6)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if snap.ActionInProgress {
		b.WriteString(styles.DimStyle().Render("up/down: scroll   any key: dismiss (cancels)"))
	} else {
		b.WriteString(styles.DimStyle().Render("up/down: scroll   any key: dismiss"))
	}

	return styles.PanelBorderStyle(panel.Success).Width(panelWidth).Render(b.String())
}

// RenderStatusBar is the bottom line: active profile target plus key hints
// for the current view.
func RenderStatusBar(target string, snap core.Snapshot, width int) string {
	var status string
	switch {
	case snap.ActionInProgress:
		status = fmt.Sprintf("%s | action running...", target)
	case snap.ActiveView == core.ViewKeys:
		status = fmt.Sprintf("%s | %s", target, hintLine(keys.Views, keys.Move, keys.Copy, keys.Dismiss, keys.Quit))
	default:
		status = fmt.Sprintf("%s | %s", target, hintLine(keys.Views, keys.Focus, keys.Move, keys.Select, keys.Refresh, keys.Quit))
	}
	return styles.StatusBarStyle(width).Render(truncate(status, width-2))
}
