package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

type Binding struct {
	Action Action
	Keys   []string
	Help   string
}

// KeyRegistry maps key names to actions per scope, falling back to global.
type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal = "global"
	scopeList   = "list"
	scopeSearch = "search"
	scopeDetail = "detail"
	scopeNotice = "notice"
)

const (
	actionQuit    Action = "quit"
	actionUp      Action = "up"
	actionDown    Action = "down"
	actionOpen    Action = "open"
	actionNew     Action = "new"
	actionDelete  Action = "delete"
	actionSearch  Action = "search"
	actionReload  Action = "reload"
	actionApply   Action = "apply"
	actionCancel  Action = "cancel"
	actionSave    Action = "save"
	actionBack    Action = "back"
	actionNext    Action = "next_field"
	actionPrev    Action = "prev_field"
	actionDismiss Action = "dismiss"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(scope, Binding{Action: action, Keys: keys, Help: help})
	}

	reg(scopeGlobal, actionQuit, []string{"ctrl+c"}, "quit")

	reg(scopeList, actionOpen, []string{"enter"}, "open")
	reg(scopeList, actionNew, []string{"n"}, "new")
	reg(scopeList, actionDelete, []string{"d"}, "delete")
	reg(scopeList, actionSearch, []string{"/"}, "search")
	reg(scopeList, actionReload, []string{"r"}, "reload")
	reg(scopeList, actionUp, []string{"k", "up"}, "up")
	reg(scopeList, actionDown, []string{"j", "down"}, "down")
	reg(scopeList, actionQuit, []string{"q"}, "quit")

	reg(scopeSearch, actionApply, []string{"enter"}, "apply")
	reg(scopeSearch, actionCancel, []string{"esc"}, "clear")

	reg(scopeDetail, actionSave, []string{"enter"}, "save")
	reg(scopeDetail, actionBack, []string{"esc"}, "back")
	reg(scopeDetail, actionNext, []string{"tab", "down"}, "next field")
	reg(scopeDetail, actionPrev, []string{"shift+tab", "up"}, "prev field")

	reg(scopeNotice, actionDismiss, []string{"enter", "esc", "space"}, "dismiss")
	return r
}

// Register adds b to scope unless one of its keys is already taken there.
func (r *KeyRegistry) Register(scope string, b Binding) {
	scope = strings.TrimSpace(scope)
	if r == nil || scope == "" {
		return
	}
	if _, ok := r.indexByScope[scope]; !ok {
		r.indexByScope[scope] = make(map[string]*Binding)
	}
	normKeys := normalizeKeyList(b.Keys)
	if len(normKeys) == 0 || r.scopeHasAnyKey(scope, normKeys) {
		return
	}
	copyBinding := b
	copyBinding.Keys = normKeys
	r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
	for _, k := range copyBinding.Keys {
		r.indexByScope[scope][k] = &copyBinding
	}
}

// Lookup resolves keyName in scope, then in the global scope.
func (r *KeyRegistry) Lookup(keyName, scope string) Action {
	if r == nil || keyName == "" {
		return ""
	}
	keyName = normalizeKeyName(keyName)
	if b := r.indexByScope[scope][keyName]; b != nil {
		return b.Action
	}
	if b := r.indexByScope[scopeGlobal][keyName]; b != nil {
		return b.Action
	}
	return ""
}

func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.bindingsByScope[scope]
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, exists := lookup[k]; exists {
			return true
		}
	}
	return false
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	// single uppercase runes stay distinct from lowercase
	if len(trimmed) == 1 && trimmed[0] >= 'A' && trimmed[0] <= 'Z' {
		return trimmed
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	return s
}
