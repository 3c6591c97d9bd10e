// Package form holds the raw soil readings entered on the screen and the
// completeness gate that guards submission.
package form

import (
	"errors"
	"fmt"
	"sync"

	"soil_health"
)

// ErrUnknownField is returned for keys outside the fixed reading set.
var ErrUnknownField = errors.New("unknown field")

// FieldStore owns the ten raw reading values for the lifetime of a screen.
type FieldStore struct {
	mu     sync.RWMutex
	values soil_health.Readings
}

func NewFieldStore() *FieldStore {
	return &FieldStore{}
}

// Set replaces the raw text of exactly one field. Any text is accepted, including "".
func (s *FieldStore) Set(key soil_health.FieldKey, raw string) error {
	i, ok := soil_health.IndexOf(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, key)
	}
	s.mu.Lock()
	s.values[i] = raw
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of all ten values in field order.
func (s *FieldStore) Snapshot() soil_health.Readings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values
}
