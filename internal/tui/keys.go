package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	scopeList = "list"
	scopeFind = "find"
)

const (
	actionQuit      = "quit"
	actionForceQuit = "force-quit"
	actionNext      = "next"
	actionPrev      = "prev"
	actionDown      = "down"
	actionUp        = "up"
	actionSelect    = "select"
	actionFind      = "find"
	actionConfirm   = "confirm"
	actionCancel    = "cancel"
)

type KeyBinding struct {
	Keys        []string
	Action      string
	Description string
	Scopes      []string
}

type KeyRegistry struct {
	bindings []KeyBinding
}

func NewKeyRegistry(bindings []KeyBinding) *KeyRegistry {
	return &KeyRegistry{bindings: slices.Clone(bindings)}
}

func (r *KeyRegistry) BindingsForScope(scope string) []KeyBinding {
	out := make([]KeyBinding, 0, len(r.bindings))
	for _, b := range r.bindings {
		if scopeMatch(scope, b.Scopes) {
			out = append(out, b)
		}
	}
	return out
}

func (r *KeyRegistry) IsAction(msg tea.KeyMsg, action, scope string) bool {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if b.Action != action || !scopeMatch(scope, b.Scopes) {
			continue
		}
		for _, k := range b.Keys {
			if normalizeKey(k) == pressed {
				return true
			}
		}
	}
	return false
}

// ActionFor returns the first action in scope bound to msg, or "".
func (r *KeyRegistry) ActionFor(msg tea.KeyMsg, scope string) string {
	for _, b := range r.BindingsForScope(scope) {
		if r.IsAction(msg, b.Action, scope) {
			return b.Action
		}
	}
	return ""
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func scopeMatch(scope string, scopes []string) bool {
	if len(scopes) == 0 {
		return true
	}
	for _, s := range scopes {
		if s == "*" || s == scope {
			return true
		}
	}
	return false
}

func DefaultKeyBindings() []KeyBinding {
	return []KeyBinding{
		{Keys: []string{"left", "h", "b"}, Action: actionPrev, Description: "back", Scopes: []string{scopeList}},
		{Keys: []string{"right", "l", "n"}, Action: actionNext, Description: "next", Scopes: []string{scopeList}},
		{Keys: []string{"j", "down"}, Action: actionDown, Description: "down", Scopes: []string{scopeList}},
		{Keys: []string{"k", "up"}, Action: actionUp, Description: "up", Scopes: []string{scopeList}},
		{Keys: []string{"enter"}, Action: actionSelect, Description: "details", Scopes: []string{scopeList}},
		{Keys: []string{"/"}, Action: actionFind, Description: "find", Scopes: []string{scopeList}},
		{Keys: []string{"q"}, Action: actionQuit, Description: "quit", Scopes: []string{scopeList}},
		{Keys: []string{"enter"}, Action: actionConfirm, Description: "jump", Scopes: []string{scopeFind}},
		{Keys: []string{"esc"}, Action: actionCancel, Description: "cancel", Scopes: []string{scopeFind}},
		{Keys: []string{"ctrl+c"}, Action: actionForceQuit, Description: "", Scopes: []string{"*"}},
	}
}

// ApplyActionKeybindings replaces the keys of every binding whose action
// appears in actionKeys.
func ApplyActionKeybindings(bindings []KeyBinding, actionKeys map[string][]string) []KeyBinding {
	out := make([]KeyBinding, 0, len(bindings))
	for _, b := range bindings {
		next := KeyBinding{
			Keys:        append([]string(nil), b.Keys...),
			Action:      b.Action,
			Description: b.Description,
			Scopes:      append([]string(nil), b.Scopes...),
		}
		if keys, ok := actionKeys[b.Action]; ok && len(keys) > 0 {
			next.Keys = append([]string(nil), keys...)
		}
		out = append(out, next)
	}
	return out
}
