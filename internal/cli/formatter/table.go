package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// RenderTable renders an aligned table with a header separator line.
// Column widths are measured on visible width so styled cells line up.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)
	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow(&b, widths, headers, StyleHeader.Render)
	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(&b, widths, row, nil)
	}
	return b.String()
}

func writeRow(b *strings.Builder, widths []int, cells []string, style func(...string) string) {
	for i := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := max(widths[i]-lipgloss.Width(cell), 0)
		if style != nil {
			cell = style(cell)
		}
		b.WriteString(cell)
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", pad+colGap))
		}
	}
	b.WriteString("\n")
}

// KV is one labelled value of a key/value listing.
type KV struct {
	Key   string
	Value string
}

// RenderKV renders labelled values with the labels right-padded to a
// common width. Empty values are skipped.
func RenderKV(pairs []KV) string {
	width := 0
	for _, p := range pairs {
		if p.Value != "" {
			width = max(width, lipgloss.Width(p.Key))
		}
	}
	var b strings.Builder
	for _, p := range pairs {
		if p.Value == "" {
			continue
		}
		b.WriteString(StyleDim.Render(p.Key + strings.Repeat(" ", width-lipgloss.Width(p.Key))))
		b.WriteString(strings.Repeat(" ", colGap))
		b.WriteString(p.Value)
		b.WriteString("\n")
	}
	return b.String()
}
