package form

import (
	"fmt"
	"strings"
)

// Confirmation is the result of a successful save.
type Confirmation struct {
	Title string
}

// ValidationError reports a required field left blank. It is recoverable:
// the record is untouched and the user can edit and retry.
type ValidationError struct {
	Field Field
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("form: %s is required", e.Field)
}

// Save validates the record. Only titulo is required; nothing is persisted.
func (s *Store) Save() (Confirmation, error) {
	if strings.TrimSpace(s.record.Titulo) == "" {
		return Confirmation{}, &ValidationError{Field: FieldTitulo}
	}
	return Confirmation{Title: s.record.Titulo}, nil
}
