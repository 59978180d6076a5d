package tui

import (
	"github.com/goliatone/go-settingsgen/pkg/model"
)

// State tracks the values collected during a session and the server-provided
// errors keyed by field name. Only fields the user was prompted for are
// recorded, so a merging store keeps everything else untouched.
type State struct {
	current model.Record
	values  model.Record
	errors  map[string][]string
}

// NewState seeds the state with the resolved descriptors and errors.
func NewState(descriptors model.Descriptors, errs map[string][]string) *State {
	return &State{
		current: descriptors.Values(),
		values:  make(model.Record),
		errors:  cloneErrors(errs),
	}
}

// Values returns the collected values (mutable).
func (s *State) Values() model.Record {
	if s == nil {
		return nil
	}
	return s.values
}

// ErrorsFor returns the errors attached to a field.
func (s *State) ErrorsFor(name string) []string {
	if s == nil || len(s.errors) == 0 {
		return nil
	}
	return s.errors[name]
}

// Current returns the value shown as the prompt default: the collected value
// when present, otherwise the resolved one.
func (s *State) Current(name string) any {
	if s == nil {
		return nil
	}
	if value, ok := s.values[name]; ok {
		return value
	}
	return s.current[name]
}

// SetValue records a collected value and clears the field's errors.
func (s *State) SetValue(name string, value any) {
	if s == nil {
		return
	}
	s.values[name] = value
	delete(s.errors, name)
}

func cloneErrors(src map[string][]string) map[string][]string {
	if len(src) == 0 {
		return make(map[string][]string)
	}
	out := make(map[string][]string, len(src))
	for k, v := range src {
		out[k] = append([]string(nil), v...)
	}
	return out
}
