package actions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ActionType represents how a binding is executed
type ActionType string

const (
	ActionTypeShellCommand ActionType = "shell"
	ActionTypeSleep        ActionType = "sleep"
	ActionTypeMidi         ActionType = "midi"
)

// Call is one semantic action sent by the surface
type Call struct {
	Name string
	Args []any
}

// ArgStrings renders the arguments the way bindings match them
func (c Call) ArgStrings() []string {
	out := make([]string, len(c.Args))
	for i, a := range c.Args {
		out[i] = fmt.Sprint(a)
	}
	return out
}

func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.ArgStrings(), " ")
}

// Binding runs some code when the surface sends a matching action
type Binding struct {
	ID   string     `yaml:"id"`
	Name string     `yaml:"name"`
	On   string     `yaml:"on"`             // action name, e.g. TOGGLE_PLAY
	Args []string   `yaml:"args,omitempty"` // leading arguments that must match, e.g. [3, L]
	Type ActionType `yaml:"type"`
	Code string     `yaml:"code"`
	// Order sorts bindings sharing a trigger
	Order int `yaml:"order"`
	// WaitForCompletion blocks later bindings until this one finishes
	WaitForCompletion bool `yaml:"wait_for_completion"`
}

// NewBinding creates a binding with a generated ID
func NewBinding(name, on string, actionType ActionType) *Binding {
	return &Binding{
		ID:   uuid.New().String(),
		Name: name,
		On:   on,
		Type: actionType,
	}
}

// Matches reports whether the binding fires for a call. Args are compared
// as a prefix so a binding on [3] fires for every hold class of switch 3.
func (b *Binding) Matches(c Call) bool {
	if b.On != c.Name {
		return false
	}
	got := c.ArgStrings()
	if len(b.Args) > len(got) {
		return false
	}
	for i, want := range b.Args {
		if !strings.EqualFold(want, got[i]) {
			return false
		}
	}
	return true
}

// BindingStore holds the configured bindings
type BindingStore struct {
	Bindings []Binding
}

// NewBindingStore creates a store from configured bindings. Bindings
// without an ID get one.
func NewBindingStore(bindings []Binding) *BindingStore {
	s := &BindingStore{Bindings: make([]Binding, 0, len(bindings))}
	for _, b := range bindings {
		if b.ID == "" {
			b.ID = uuid.New().String()
		}
		s.Bindings = append(s.Bindings, b)
	}
	return s
}

// AddBinding appends a binding, ordering it last among bindings with the
// same trigger
func (s *BindingStore) AddBinding(b *Binding) {
	b.Order = s.getNextOrder(b.On)
	s.Bindings = append(s.Bindings, *b)
}

func (s *BindingStore) getNextOrder(on string) int {
	maxOrder := -1
	for _, b := range s.Bindings {
		if b.On == on && b.Order > maxOrder {
			maxOrder = b.Order
		}
	}
	return maxOrder + 1
}

// GetBinding returns a binding by ID, or nil if not found
func (s *BindingStore) GetBinding(id string) *Binding {
	for i := range s.Bindings {
		if s.Bindings[i].ID == id {
			return &s.Bindings[i]
		}
	}
	return nil
}

// RemoveBinding removes a binding by ID
func (s *BindingStore) RemoveBinding(id string) bool {
	for i := range s.Bindings {
		if s.Bindings[i].ID == id {
			s.Bindings = append(s.Bindings[:i], s.Bindings[i+1:]...)
			return true
		}
	}
	return false
}

// Match returns the bindings for a call, sorted by Order
func (s *BindingStore) Match(c Call) []Binding {
	var out []Binding
	for _, b := range s.Bindings {
		if b.Matches(c) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
