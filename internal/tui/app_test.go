package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jask/holocron/internal/browse"
	"github.com/jask/holocron/internal/catalog"
)

type stubSource struct {
	mu    sync.Mutex
	pages map[int][]catalog.Item
	errs  map[int]error
	calls []int
}

func (s *stubSource) FetchPage(_ context.Context, page int) (catalog.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, page)
	if err := s.errs[page]; err != nil {
		return catalog.Page{}, err
	}
	return catalog.Page{Number: page, Items: s.pages[page]}, nil
}

func (s *stubSource) fetched() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.calls...)
}

func swapiPages() map[int][]catalog.Item {
	return map[int][]catalog.Item{
		1: {
			{Name: "Luke Skywalker", Height: "172", Mass: "77", HairColor: "blond", SkinColor: "fair", EyeColor: "blue", BirthYear: "19BBY", Gender: "male"},
			{Name: "C-3PO", Height: "167", Mass: "75", HairColor: "n/a", SkinColor: "gold", EyeColor: "yellow", BirthYear: "112BBY", Gender: "n/a"},
		},
		2: {
			{Name: "Anakin Skywalker", Height: "188", Mass: "84", HairColor: "blond", SkinColor: "fair", EyeColor: "blue", BirthYear: "41.9BBY", Gender: "male"},
		},
	}
}

func newTestApp(t *testing.T, src *stubSource) *App {
	t.Helper()
	ctrl := browse.NewController(src, browse.New(1, 9, browse.DiscardStale), zerolog.Nop())
	a := New(context.Background(), ctrl, nil, zerolog.Nop())
	a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	run(t, a, a.Init())
	return a
}

// run executes cmd and feeds page results back until none are left.
// Spinner ticks are dropped so the loop ends.
func run(t *testing.T, a *App, cmd tea.Cmd) (quit bool) {
	t.Helper()
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if run(t, a, c) {
				quit = true
			}
		}
	case pageMsg:
		_, next := a.Update(msg)
		return run(t, a, next)
	case tea.QuitMsg:
		return true
	}
	return quit
}

func press(t *testing.T, a *App, k tea.KeyMsg) tea.Cmd {
	t.Helper()
	_, cmd := a.Update(k)
	return cmd
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestInitLoadsStartPage(t *testing.T) {
	src := &stubSource{pages: swapiPages()}
	a := newTestApp(t, src)

	require.Equal(t, []int{1}, src.fetched())
	view := a.View()
	require.Contains(t, view, "Star Wars Characters")
	require.Contains(t, view, "Page 1 of 9")
	require.Contains(t, view, "Luke Skywalker")
	require.Contains(t, view, "C-3PO")
	require.Contains(t, view, "loaded page 1 (2 characters)")
	require.NotContains(t, view, "Height:")
}

func TestEnterShowsDetail(t *testing.T) {
	src := &stubSource{pages: swapiPages()}
	a := newTestApp(t, src)

	press(t, a, runes("j"))
	press(t, a, tea.KeyMsg{Type: tea.KeyEnter})

	it, ok := a.ctrl.State().Selected()
	require.True(t, ok)
	require.Equal(t, "C-3PO", it.Name)

	view := a.View()
	require.Contains(t, view, "Height: 167 cm")
	require.Contains(t, view, "Mass: 75 kg")
	require.Contains(t, view, "Hair Color: n/a")
	require.Contains(t, view, "Skin Color: gold")
	require.Contains(t, view, "Eye Color: yellow")
	require.Contains(t, view, "Birth Year: 112BBY")
	require.Contains(t, view, "Gender: n/a")
}

func TestAdvanceClearsDetailAndFetchesOnce(t *testing.T) {
	src := &stubSource{pages: swapiPages()}
	a := newTestApp(t, src)

	press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	_, ok := a.ctrl.State().Selected()
	require.True(t, ok)

	cmd := press(t, a, runes("n"))
	require.NotNil(t, cmd)
	st := a.ctrl.State()
	require.Equal(t, 2, st.Page)
	require.Equal(t, browse.StatusFetching, st.Status)
	_, ok = st.Selected()
	require.False(t, ok)
	require.NotContains(t, a.View(), "Height:")

	run(t, a, cmd)
	require.Equal(t, []int{1, 2}, src.fetched())
	require.Contains(t, a.View(), "Anakin Skywalker")
	require.Contains(t, a.View(), "Page 2 of 9")
}

func TestBackOnFirstPageIsInert(t *testing.T) {
	src := &stubSource{pages: swapiPages()}
	a := newTestApp(t, src)

	require.Nil(t, press(t, a, tea.KeyMsg{Type: tea.KeyLeft}))
	require.Equal(t, 1, a.ctrl.State().Page)
	require.Equal(t, []int{1}, src.fetched())
}

func TestFindSelectsClosestName(t *testing.T) {
	src := &stubSource{pages: swapiPages()}
	a := newTestApp(t, src)

	press(t, a, runes("/"))
	require.True(t, a.finding)
	for _, r := range "c3p" {
		press(t, a, runes(string(r)))
	}
	// q is text while the prompt is open
	press(t, a, runes("q"))
	require.True(t, a.finding)
	require.Equal(t, "c3pq", a.find.Value())
	press(t, a, tea.KeyMsg{Type: tea.KeyBackspace})
	press(t, a, tea.KeyMsg{Type: tea.KeyEnter})

	require.False(t, a.finding)
	it, ok := a.ctrl.State().Selected()
	require.True(t, ok)
	require.Equal(t, "C-3PO", it.Name)
	require.Equal(t, 1, a.list.cursor)
}

func TestFindCancel(t *testing.T) {
	src := &stubSource{pages: swapiPages()}
	a := newTestApp(t, src)

	press(t, a, runes("/"))
	press(t, a, runes("luke"))
	press(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, a.finding)
	_, ok := a.ctrl.State().Selected()
	require.False(t, ok)
}

func TestMouseClickSelectsRow(t *testing.T) {
	src := &stubSource{pages: swapiPages()}
	a := newTestApp(t, src)

	a.Update(tea.MouseMsg{X: 5, Y: listTopRow + 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	it, ok := a.ctrl.State().Selected()
	require.True(t, ok)
	require.Equal(t, "C-3PO", it.Name)

	// below the last row does nothing
	a.Update(tea.MouseMsg{X: 5, Y: listTopRow + 7, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	it, _ = a.ctrl.State().Selected()
	require.Equal(t, "C-3PO", it.Name)
}

func TestFailedPageIsVisible(t *testing.T) {
	src := &stubSource{pages: swapiPages(), errs: map[int]error{2: errors.New("connection refused")}}
	a := newTestApp(t, src)

	run(t, a, press(t, a, runes("n")))
	st := a.ctrl.State()
	require.Equal(t, browse.StatusFailed, st.Status)
	view := a.View()
	require.Contains(t, view, "could not load this page")
	require.Contains(t, view, "page 2: connection refused")
	require.True(t, a.statusErr)

	run(t, a, press(t, a, runes("b")))
	require.Equal(t, browse.StatusLoaded, a.ctrl.State().Status)
	require.False(t, a.statusErr)
	require.Contains(t, a.View(), "Luke Skywalker")
}

func TestStaleResponseIgnoredByView(t *testing.T) {
	src := &stubSource{pages: swapiPages()}
	a := newTestApp(t, src)

	first := press(t, a, runes("n"))
	second := press(t, a, runes("n"))
	require.Equal(t, 3, a.ctrl.State().Page)

	run(t, a, second)
	run(t, a, first)
	require.Equal(t, 3, a.ctrl.State().Page)
	require.Empty(t, a.ctrl.State().Items)
	require.NotContains(t, a.View(), "Anakin Skywalker")
}

func TestQuit(t *testing.T) {
	src := &stubSource{pages: swapiPages()}
	a := newTestApp(t, src)
	require.True(t, run(t, a, press(t, a, runes("q"))))
	require.True(t, run(t, a, press(t, a, tea.KeyMsg{Type: tea.KeyCtrlC})))
}

func TestFooterMarksInertActions(t *testing.T) {
	keys := NewKeyRegistry(DefaultKeyBindings())
	out := renderFooter(keys, scopeList, 200, func(action string) bool { return action == actionPrev })
	require.Contains(t, out, "back")
	require.Contains(t, out, "next")
	require.NotContains(t, out, "cancel")
	require.Equal(t, 1, strings.Count(out, "\n")+1)
}
