package styles

import "github.com/charmbracelet/lipgloss"

func TabStyle(active bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 2)
	if active {
		return s.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62")).Bold(true)
	}
	return s.Foreground(lipgloss.Color("241"))
}

func PaneStyle(focused bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if focused {
		return s.BorderForeground(lipgloss.Color("62"))
	}
	return s.BorderForeground(lipgloss.Color("238"))
}

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("141")).
		Bold(true)
}

func SelectedRowStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("62"))
}

func RowStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))
}

func DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
}

func BannerStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("160")).
		Padding(0, 1)
}

func StatusBarStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func OutputLineStyle(ok bool) lipgloss.Style {
	if ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
}

func PanelBorderStyle(success bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		Padding(0, 1)
	if success {
		return s.BorderForeground(lipgloss.Color("62"))
	}
	return s.BorderForeground(lipgloss.Color("160"))
}

func ConfirmChoiceStyle(selected bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 2)
	if selected {
		return s.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("62")).Bold(true)
	}
	return s.Foreground(lipgloss.Color("241"))
}

func InputStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)
}

func CursorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Reverse(true)
}
