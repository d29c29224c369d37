// Package session binds one record store to one notifier and turns user
// actions (save, export, dismiss) into notifications and downloads.
package session

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-reaform/pkg/form"
	"github.com/goliatone/go-reaform/pkg/notify"
)

const (
	// SavedPrefix starts the confirmation shown after a successful save.
	SavedPrefix = "✓ REA guardado correctamente: "
	// MissingTitleMessage is shown when a save is attempted without titulo.
	MissingTitleMessage = "Por favor, completa al menos el título del REA"
)

// Session is one editing session: the record being filled and the
// notification shown for it. It is not safe for concurrent use; callers that
// share a session across goroutines serialize access themselves.
type Session struct {
	store    *form.Store
	notifier *notify.Notifier
}

// Option configures a Session.
type Option func(*Session)

// WithStore seeds the session with an existing store, e.g. a loaded draft.
func WithStore(store *form.Store) Option {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithNotifier swaps the notifier.
func WithNotifier(n *notify.Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// New returns a session with an empty record.
func New(options ...Option) *Session {
	s := &Session{}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.store == nil {
		s.store = form.NewStore()
	}
	if s.notifier == nil {
		s.notifier = notify.New()
	}
	return s
}

// Store exposes the record store for field edits.
func (s *Session) Store() *form.Store {
	return s.store
}

// Notifier exposes the session's notifier.
func (s *Session) Notifier() *notify.Notifier {
	return s.notifier
}

// Save validates the record and reports the outcome as a notification. The
// returned error is the validation failure, if any.
func (s *Session) Save() (form.Confirmation, error) {
	confirmation, err := s.store.Save()
	if err != nil {
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			s.notifier.Error(MissingTitleMessage)
		} else {
			s.notifier.Error(err.Error())
		}
		return form.Confirmation{}, err
	}
	s.notifier.Success(SavedPrefix + confirmation.Title)
	return confirmation, nil
}

// Export serializes the record without validating it and hands the result to
// dl exactly once. A failing download is reported as an error notification
// and returned.
func (s *Session) Export(format form.Format, dl Downloader) (form.Export, error) {
	if dl == nil {
		return form.Export{}, errors.New("session: downloader is nil")
	}
	export, err := s.store.Export(format)
	if err != nil {
		s.notifier.Error(fmt.Sprintf("No se pudo generar el archivo %s", format.Extension()))
		return form.Export{}, fmt.Errorf("session: export %s: %w", format, err)
	}
	if err := dl.Download(export.Filename, export.ContentType, export.Payload); err != nil {
		s.notifier.Error(fmt.Sprintf("No se pudo descargar %s", export.Filename))
		return export, fmt.Errorf("session: download %s: %w", export.Filename, err)
	}
	return export, nil
}

// ExportCSV exports the record as CSV.
func (s *Session) ExportCSV(dl Downloader) (form.Export, error) {
	return s.Export(form.FormatCSV, dl)
}

// ExportJSON exports the record as JSON.
func (s *Session) ExportJSON(dl Downloader) (form.Export, error) {
	return s.Export(form.FormatJSON, dl)
}

// Dismiss clears the current notification.
func (s *Session) Dismiss() {
	s.notifier.Dismiss()
}

// Notification returns the visible notification, if any.
func (s *Session) Notification() (notify.Notification, bool) {
	return s.notifier.Current()
}
