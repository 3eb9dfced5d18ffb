package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// renderFooter lists the bindings of scope. Actions reported by inert are
// drawn greyed out.
func renderFooter(keys *KeyRegistry, scope string, width int, inert func(action string) bool) string {
	bg := colorMantle
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Background(bg)
	descStyle := lipgloss.NewStyle().Foreground(colorMuted).Background(bg)
	offStyle := lipgloss.NewStyle().Foreground(colorInert).Background(bg).Strikethrough(true)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	bindings := keys.BindingsForScope(scope)
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if len(b.Keys) == 0 {
			continue
		}
		kb := key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Description))
		if inert != nil && inert(b.Action) {
			kb.SetEnabled(false)
		}
		h := kb.Help()
		if h.Key == "" || h.Desc == "" {
			continue
		}
		if !kb.Enabled() {
			parts = append(parts, offStyle.Render(h.Key+" "+h.Desc))
			continue
		}
		parts = append(parts, keyStyle.Render(h.Key)+space+descStyle.Render(h.Desc))
	}
	line := strings.Join(parts, sep)
	if line == "" {
		line = lipgloss.NewStyle().Foreground(colorMuted).Background(bg).Render("No shortcuts")
	}
	return renderBar(footerStyle, max(1, width), line, bg)
}

func renderStatusBar(msg string, isErr bool, width int) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		msg = "Ready"
	}
	if isErr {
		return renderBar(statusErrBarStyle, max(1, width), msg, colorSurface0)
	}
	return renderBar(statusBarStyle, max(1, width), msg, colorSurface0)
}

func renderBar(style lipgloss.Style, width int, text string, bg lipgloss.TerminalColor) string {
	line := strings.ReplaceAll(text, "\n", " ")
	line = ansi.Truncate(line, width, "")
	lineW := ansi.StringWidth(line)
	if lineW < width {
		line += strings.Repeat(" ", width-lineW)
	}
	return style.
		Background(bg).
		Width(width).
		MaxWidth(width).
		Render(line)
}
