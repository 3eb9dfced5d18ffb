package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jask/holocron/internal/browse"
)

const (
	appTitle = "Star Wars Characters"

	// rows above the first list row: title, page line, blank, box border
	listTopRow  = 4
	listWidth   = 28
	chromeLines = 8
)

// App is the bubbletea model: a list of the current page's characters and
// a detail panel for the selected one.
type App struct {
	ctx       context.Context
	ctrl      *browse.Controller
	keys      *KeyRegistry
	log       zerolog.Logger
	list      listView
	spinner   spinner.Model
	find      textinput.Model
	finding   bool
	status    string
	statusErr bool
	width     int
	height    int
}

func New(ctx context.Context, ctrl *browse.Controller, keys *KeyRegistry, log zerolog.Logger) *App {
	if keys == nil {
		keys = NewKeyRegistry(DefaultKeyBindings())
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	ti := textinput.New()
	ti.Prompt = "find: "
	ti.Placeholder = "name on this page"
	ti.CharLimit = 64

	a := &App{
		ctx:     ctx,
		ctrl:    ctrl,
		keys:    keys,
		log:     log.With().Str("component", "tui").Logger(),
		spinner: sp,
		find:    ti,
	}
	a.list.onActivate = ctrl.Select
	return a
}

func (a *App) Init() tea.Cmd {
	return a.turn(a.ctrl.Start())
}

// turn starts the fetch a page transition asked for.
func (a *App) turn(f *browse.Fetch) tea.Cmd {
	if f == nil {
		return nil
	}
	a.status = fmt.Sprintf("loading page %d...", f.Page)
	a.statusErr = false
	return tea.Batch(a.spinner.Tick, a.fetchCmd(*f))
}

func (a *App) fetchCmd(f browse.Fetch) tea.Cmd {
	ctrl, ctx := a.ctrl, a.ctx
	return func() tea.Msg {
		return pageMsg{event: ctrl.Fetch(ctx, f)}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		if a.keys.IsAction(m, actionForceQuit, a.scope()) {
			return a, tea.Quit
		}
		if a.finding {
			return a.handleFindKey(m)
		}
		return a.handleListKey(m)
	case tea.MouseMsg:
		return a.handleMouse(m)
	case pageMsg:
		return a.handlePage(m)
	case spinner.TickMsg:
		if a.ctrl.State().Status != browse.StatusFetching {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	}
	return a, nil
}

func (a *App) scope() string {
	if a.finding {
		return scopeFind
	}
	return scopeList
}

func (a *App) handleListKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := a.ctrl.State().Items
	switch a.keys.ActionFor(m, scopeList) {
	case actionQuit:
		return a, tea.Quit
	case actionNext:
		return a, a.turn(a.ctrl.Advance())
	case actionPrev:
		return a, a.turn(a.ctrl.Retreat())
	case actionDown:
		a.list.move(1, len(items))
	case actionUp:
		a.list.move(-1, len(items))
	case actionSelect:
		a.list.activate(items)
	case actionFind:
		if len(items) == 0 {
			return a, nil
		}
		a.finding = true
		a.find.SetValue("")
		return a, a.find.Focus()
	}
	return a, nil
}

func (a *App) handleFindKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.keys.ActionFor(m, scopeFind) {
	case actionCancel:
		a.closeFind()
		return a, nil
	case actionConfirm:
		query := a.find.Value()
		a.closeFind()
		items := a.ctrl.State().Items
		it, ok := browse.Closest(items, query)
		if !ok {
			a.status = fmt.Sprintf("no match for %q", query)
			return a, nil
		}
		a.list.moveTo(browse.IndexOf(items, it.Name), len(items))
		a.list.activate(items)
		return a, nil
	}
	var cmd tea.Cmd
	a.find, cmd = a.find.Update(m)
	return a, cmd
}

func (a *App) closeFind() {
	a.finding = false
	a.find.Blur()
}

func (a *App) handleMouse(m tea.MouseMsg) (tea.Model, tea.Cmd) {
	items := a.ctrl.State().Items
	switch {
	case m.Button == tea.MouseButtonWheelDown:
		a.list.move(1, len(items))
	case m.Button == tea.MouseButtonWheelUp:
		a.list.move(-1, len(items))
	case m.Button == tea.MouseButtonLeft && m.Action == tea.MouseActionPress:
		if m.X > listWidth+4 {
			return a, nil
		}
		if i := a.list.rowAt(m.Y-listTopRow, len(items)); a.list.moveTo(i, len(items)) {
			a.list.activate(items)
		}
	}
	return a, nil
}

func (a *App) handlePage(m pageMsg) (tea.Model, tea.Cmd) {
	var seq uint64
	var page int
	switch e := m.event.(type) {
	case browse.Loaded:
		seq, page = e.Seq, e.Page
	case browse.Failed:
		seq, page = e.Seq, e.Page
	}
	applied := a.ctrl.State().Accepts(seq)
	a.ctrl.Dispatch(m.event)
	if !applied {
		return a, nil
	}

	st := a.ctrl.State()
	a.list.reset()
	switch st.Status {
	case browse.StatusFailed:
		a.status = fmt.Sprintf("page %d: %v", page, st.Err)
		a.statusErr = true
	case browse.StatusLoaded:
		a.status = fmt.Sprintf("loaded page %d (%d characters)", page, len(st.Items))
		a.statusErr = false
	}
	return a, nil
}

func (a *App) listHeight() int {
	if a.height <= 0 {
		return 20
	}
	return max(1, a.height-chromeLines)
}

func (a *App) View() string {
	st := a.ctrl.State()

	info := fmt.Sprintf("Page %d", st.Page)
	if st.MaxPage > 0 {
		info = fmt.Sprintf("Page %d of %d", st.Page, st.MaxPage)
	}
	if st.Status == browse.StatusFetching {
		info += " " + a.spinner.View()
	}

	var rows string
	if st.Status == browse.StatusFailed {
		rows = statusErrBarStyle.UnsetBackground().Render("could not load this page")
	} else {
		rows = a.list.render(st.Items, st.SelectedIndex(), a.listHeight(), st.Status == browse.StatusFetching)
	}
	panes := []string{boxStyle.Width(listWidth).Render(rows)}
	if it, ok := st.Selected(); ok {
		panes = append(panes, " ", detailBoxStyle.Render(renderDetail(it)))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(appTitle))
	b.WriteString("\n")
	b.WriteString(pageStyle.Render(info))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panes...))
	b.WriteString("\n")
	if a.finding {
		b.WriteString(a.find.View())
		b.WriteString("\n")
	}
	width := a.width
	if width <= 0 {
		width = 80
	}
	b.WriteString(renderStatusBar(a.status, a.statusErr, width))
	b.WriteString("\n")
	b.WriteString(renderFooter(a.keys, a.scope(), width, func(action string) bool {
		switch action {
		case actionNext:
			return !st.CanAdvance()
		case actionPrev:
			return !st.CanRetreat()
		}
		return false
	}))
	return b.String()
}

type pageMsg struct {
	event browse.Event
}
