package browse

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jask/holocron/internal/catalog"
)

type Status string

const (
	StatusIdle     Status = "idle"
	StatusFetching Status = "fetching"
	StatusLoaded   Status = "loaded"
	StatusFailed   Status = "failed"
)

// StalePolicy decides what happens to a fetch outcome that arrives after a
// newer fetch has been issued.
type StalePolicy int

const (
	// DiscardStale applies only the outcome of the latest issued fetch.
	DiscardStale StalePolicy = iota
	// LastResolvedWins applies every outcome in arrival order, so an older
	// page can overwrite a newer one.
	LastResolvedWins
)

func (p StalePolicy) String() string {
	if p == LastResolvedWins {
		return "apply"
	}
	return "discard"
}

// ParseStalePolicy maps the browse.stale_responses setting.
func ParseStalePolicy(s string) (StalePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "discard":
		return DiscardStale, nil
	case "apply":
		return LastResolvedWins, nil
	}
	return DiscardStale, fmt.Errorf("unknown stale response policy %q", s)
}

// State is the page number, the items of the last applied page, and the
// selection. The zero selection is none.
type State struct {
	Page    int
	MaxPage int // 0 means no upper bound
	Policy  StalePolicy
	Items   []catalog.Item
	Status  Status
	Err     error
	Seq     uint64 // token of the most recently issued fetch

	selected int // index into Items plus one
}

// Fetch is the one outbound read a transition asks for.
type Fetch struct {
	Page int
	Seq  uint64
}

func New(startPage, maxPage int, policy StalePolicy) State {
	if startPage < 1 {
		startPage = 1
	}
	if maxPage < 0 {
		maxPage = 0
	}
	return State{Page: startPage, MaxPage: maxPage, Policy: policy, Status: StatusIdle}
}

// Selected returns the selected item, if any.
func (s State) Selected() (catalog.Item, bool) {
	if s.selected < 1 || s.selected > len(s.Items) {
		return catalog.Item{}, false
	}
	return s.Items[s.selected-1], true
}

// SelectedIndex returns the index of the selected item in Items, or -1.
func (s State) SelectedIndex() int {
	if _, ok := s.Selected(); !ok {
		return -1
	}
	return s.selected - 1
}

func (s State) CanAdvance() bool { return s.MaxPage == 0 || s.Page < s.MaxPage }

func (s State) CanRetreat() bool { return s.Page > 1 }

// Event is an input to Reduce.
type Event interface{ event() }

type (
	// Start issues the first fetch. It only acts on an idle state.
	Start   struct{}
	Advance struct{}
	Retreat struct{}
	// Select picks the current item named Name. Unknown names are ignored.
	Select struct{ Name string }
	// Loaded is a successful fetch outcome.
	Loaded struct {
		Seq   uint64
		Page  int
		Items []catalog.Item
	}
	// Failed is an unsuccessful fetch outcome.
	Failed struct {
		Seq  uint64
		Page int
		Err  error
	}
)

func (Start) event() {}
func (Advance) event() {}
func (Retreat) event() {}
func (Select) event() {}
func (Loaded) event() {}
func (Failed) event() {}

// Reduce applies ev to s. The returned Fetch is non-nil exactly when the
// page number changed (or the first load started).
func Reduce(s State, ev Event) (State, *Fetch) {
	switch e := ev.(type) {
	case Start:
		if s.Status != StatusIdle {
			return s, nil
		}
		return s.turnTo(s.Page)
	case Advance:
		if !s.CanAdvance() {
			return s, nil
		}
		return s.turnTo(s.Page + 1)
	case Retreat:
		if !s.CanRetreat() {
			return s, nil
		}
		return s.turnTo(s.Page - 1)
	case Select:
		if i := IndexOf(s.Items, e.Name); i >= 0 {
			s.selected = i + 1
		}
		return s, nil
	case Loaded:
		if !s.Accepts(e.Seq) {
			return s, nil
		}
		s.Items = slices.Clone(e.Items)
		s.selected = 0
		s.Status = StatusLoaded
		s.Err = nil
		return s, nil
	case Failed:
		if !s.Accepts(e.Seq) {
			return s, nil
		}
		s.Items = nil
		s.selected = 0
		s.Status = StatusFailed
		s.Err = e.Err
		return s, nil
	}
	return s, nil
}

// Accepts reports whether an outcome carrying seq would be applied.
func (s State) Accepts(seq uint64) bool {
	if seq == 0 || seq > s.Seq {
		return false
	}
	if s.Policy == LastResolvedWins {
		return true
	}
	return seq == s.Seq
}

func (s State) turnTo(page int) (State, *Fetch) {
	s.Page = page
	s.Seq++
	s.selected = 0
	s.Status = StatusFetching
	s.Err = nil
	return s, &Fetch{Page: page, Seq: s.Seq}
}

// IndexOf returns the index of the first item named exactly name, or -1.
func IndexOf(items []catalog.Item, name string) int {
	return slices.IndexFunc(items, func(it catalog.Item) bool { return it.Name == name })
}
