package form

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-reaform/pkg/catalog"
)

// Store holds the record for one editing session and applies edits to it in
// place. Edits never validate; validation is deferred to Save.
type Store struct {
	record Record
}

// NewStore returns a store holding an empty record.
func NewStore() *Store {
	return &Store{record: NewRecord()}
}

// Record returns a copy of the current record.
func (s *Store) Record() Record {
	return s.record.clone()
}

// Reset discards every edit.
func (s *Store) Reset() {
	s.record = NewRecord()
}

// Value returns a scalar field. Non-scalar fields read as empty.
func (s *Store) Value(field Field) string {
	value, _ := s.record.Scalar(field)
	return value
}

// SetField replaces a scalar field unconditionally. Invalid UTF-8 is
// replaced with U+FFFD so the record and both exports hold the same text.
func (s *Store) SetField(field Field, value string) error {
	ptr := s.record.scalar(field)
	if ptr == nil {
		return fmt.Errorf("%w: %q is not a text field", ErrUnknownField, field)
	}
	*ptr = validText(value)
	return nil
}

// SetMembership adds item to materias when included and absent, or removes
// it when not included. Both directions are idempotent and insertion order is
// preserved.
func (s *Store) SetMembership(item string, included bool) {
	item = validText(item)
	idx := indexOf(s.record.Materias, item)
	switch {
	case included && idx < 0:
		s.record.Materias = append(s.record.Materias, item)
	case !included && idx >= 0:
		s.record.Materias = append(s.record.Materias[:idx:idx], s.record.Materias[idx+1:]...)
	}
}

// Materias returns a copy of the selected materias in insertion order.
func (s *Store) Materias() []string {
	return append([]string{}, s.record.Materias...)
}

// HasMateria reports whether item is selected.
func (s *Store) HasMateria(item string) bool {
	return indexOf(s.record.Materias, item) >= 0
}

// SetFlag sets one key of a checkbox group. Other keys are untouched.
func (s *Store) SetFlag(group catalog.Group, key string, value bool) error {
	flags := s.record.flags(group)
	if flags == nil {
		return fmt.Errorf("%w: %q is not a flag group", ErrUnknownField, group)
	}
	return flags.Set(key, value)
}

// Flag reads one key of a checkbox group.
func (s *Store) Flag(group catalog.Group, key string) bool {
	flags, ok := s.record.Flags(group)
	if !ok {
		return false
	}
	return flags.Get(key)
}

// CurricularDetailsEnabled reports whether competencias específicas and
// saberes básicos are editable: at least one materia is selected or cursos
// holds non-blank text. Disabled fields keep their content.
func (s *Store) CurricularDetailsEnabled() bool {
	return len(s.record.Materias) > 0 || strings.TrimSpace(s.record.Cursos) != ""
}

// AuthorshipDetailVisible reports whether autoriaEspecificar is shown.
func (s *Store) AuthorshipDetailVisible() bool {
	return s.record.Autoria != "" && s.record.Autoria != AuthorshipSentinel
}

// IsCurricularDetail reports whether field is gated by
// CurricularDetailsEnabled.
func IsCurricularDetail(field Field) bool {
	return field == FieldCompetenciasEspecificas || field == FieldSaberesBasicos
}

func validText(value string) string {
	return strings.ToValidUTF8(value, "\uFFFD")
}

func indexOf(items []string, item string) int {
	for i, candidate := range items {
		if candidate == item {
			return i
		}
	}
	return -1
}
