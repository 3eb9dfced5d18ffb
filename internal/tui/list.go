package tui

import (
	"strings"

	"github.com/jask/holocron/internal/catalog"
)

// listView renders the current page's names with a cursor and reports
// activated rows by display name.
type listView struct {
	cursor     int
	offset     int
	onActivate func(name string)
}

func (l *listView) reset() {
	l.cursor = 0
	l.offset = 0
}

func (l *listView) clamp(n int) {
	if l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

func (l *listView) move(delta, n int) {
	l.cursor += delta
	l.clamp(n)
}

// moveTo puts the cursor on row i if it exists.
func (l *listView) moveTo(i, n int) bool {
	if i < 0 || i >= n {
		return false
	}
	l.cursor = i
	return true
}

// activate reports the name under the cursor.
func (l *listView) activate(items []catalog.Item) {
	if l.cursor < 0 || l.cursor >= len(items) || l.onActivate == nil {
		return
	}
	l.onActivate(items[l.cursor].Name)
}

// rowAt maps a line inside the rendered rows to an item index, or -1.
func (l *listView) rowAt(line, n int) int {
	if line < 0 {
		return -1
	}
	i := l.offset + line
	if i >= n {
		return -1
	}
	return i
}

// scroll keeps the cursor within a window of height rows.
func (l *listView) scroll(height int) {
	if height < 1 {
		height = 1
	}
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+height {
		l.offset = l.cursor - height + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

func (l *listView) render(items []catalog.Item, selected, height int, stale bool) string {
	if len(items) == 0 {
		return staleRowStyle.Render("(no characters)")
	}
	l.scroll(height)
	end := min(len(items), l.offset+max(1, height))
	rows := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		marker := "  "
		style := rowStyle
		if i == selected {
			marker = "● "
			style = selectedStyle
		}
		if i == l.cursor {
			marker = "> "
			if i == selected {
				marker = ">●"
			}
			style = cursorStyle
		}
		if stale {
			style = staleRowStyle
		}
		rows = append(rows, style.Render(marker+items[i].Name))
	}
	return strings.Join(rows, "\n")
}
