// Package browse owns the page-turn and selection state of the catalog
// browser.
//
// State transitions are pure (Reduce); the network call a transition asks
// for is returned as a Fetch description and performed by Controller.Fetch,
// so the state machine runs without a network in tests.
package browse
