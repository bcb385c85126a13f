package main

import "github.com/charmbracelet/lipgloss"

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	bold   = lipgloss.NewStyle().Bold(true)

	header = bold.Foreground(lipgloss.Color("255")).Underline(true)
	cell   = lipgloss.NewStyle().PaddingRight(2)
)

// table renders rows as left-aligned columns sized to their widest cell. Cells may
// already carry styles; widths are measured without escape codes.
func table(head []string, rows [][]string) string {
	widths := make([]int, len(head))
	for i, h := range head {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i, c := range r {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}

	line := func(cells []string, style func(string) string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = cell.Width(widths[i] + 2).Render(style(c))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}

	out := []string{line(head, func(s string) string { return header.Render(s) })}
	for _, r := range rows {
		out = append(out, line(r, func(s string) string { return s }))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}
