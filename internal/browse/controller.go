package browse

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jask/holocron/internal/catalog"
)

// Controller holds the browser state and performs the fetches its
// transitions ask for. Dispatch must be called from a single goroutine;
// Fetch may run anywhere since it never touches the state.
type Controller struct {
	src   catalog.Source
	state State
	log   zerolog.Logger
}

func NewController(src catalog.Source, initial State, log zerolog.Logger) *Controller {
	return &Controller{src: src, state: initial, log: log.With().Str("component", "browse").Logger()}
}

func (c *Controller) State() State { return c.state }

// Dispatch applies ev and returns the fetch to issue, if any.
func (c *Controller) Dispatch(ev Event) *Fetch {
	prev := c.state
	next, fetch := Reduce(prev, ev)
	c.state = next

	switch e := ev.(type) {
	case Loaded:
		c.logOutcome(prev, e.Seq, e.Page, nil)
	case Failed:
		c.logOutcome(prev, e.Seq, e.Page, e.Err)
	case Select:
		if next.selected != prev.selected {
			c.log.Info().Int("page", next.Page).Str("name", e.Name).Msg("selected")
		} else {
			c.log.Debug().Str("name", e.Name).Msg("selection unchanged")
		}
	}
	if fetch != nil {
		c.log.Debug().Int("from", prev.Page).Int("page", fetch.Page).Uint64("seq", fetch.Seq).Msg("page turn")
	}
	return fetch
}

func (c *Controller) logOutcome(prev State, seq uint64, page int, err error) {
	if !prev.Accepts(seq) {
		c.log.Debug().Uint64("seq", seq).Uint64("latest", prev.Seq).Int("page", page).Msg("stale response discarded")
		return
	}
	if seq != prev.Seq {
		c.log.Warn().Uint64("seq", seq).Uint64("latest", prev.Seq).Int("page", page).Int("current_page", prev.Page).Msg("stale response applied")
	}
	if err != nil {
		c.log.Error().Err(err).Int("page", page).Msg("page load failed")
	}
}

func (c *Controller) Start() *Fetch { return c.Dispatch(Start{}) }

func (c *Controller) Advance() *Fetch { return c.Dispatch(Advance{}) }

func (c *Controller) Retreat() *Fetch { return c.Dispatch(Retreat{}) }

func (c *Controller) Select(name string) { c.Dispatch(Select{Name: name}) }

// Fetch performs f against the source and returns its outcome event.
func (c *Controller) Fetch(ctx context.Context, f Fetch) Event {
	page, err := c.src.FetchPage(ctx, f.Page)
	if err != nil {
		return Failed{Seq: f.Seq, Page: f.Page, Err: err}
	}
	return Loaded{Seq: f.Seq, Page: f.Page, Items: page.Items}
}
