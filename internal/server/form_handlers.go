package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-reaform/pkg/catalog"
	"github.com/goliatone/go-reaform/pkg/form"
	"github.com/goliatone/go-reaform/pkg/render"
	"github.com/goliatone/go-reaform/pkg/renderers/html"
	"github.com/goliatone/go-reaform/pkg/session"
)

const (
	actionUpdate     = "update"
	actionSave       = "save"
	actionExportCSV  = "export-csv"
	actionExportJSON = "export-json"
	actionDismiss    = "dismiss"

	presentField = "_present"
	tabField     = "tab"
)

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	entry := s.sessionFor(w, r)
	defer entry.mu.Unlock()

	tab := render.ParseTab(r.URL.Query().Get(tabField))
	s.renderPage(w, r, entry, tab, http.StatusOK, render.RenderOptions{})
}

func (s *Server) handleFormPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	entry := s.sessionFor(w, r)
	defer entry.mu.Unlock()

	if !validCSRF(entry, r.PostForm.Get(CSRFField)) {
		http.Error(w, "invalid or expired form token", http.StatusForbidden)
		return
	}

	store := entry.session.Store()
	if err := applyForm(store, r.PostForm); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tab := render.ParseTab(lastValue(r.PostForm[tabField]))
	action := strings.TrimSpace(r.PostForm.Get("action"))
	if action == "" {
		action = actionUpdate
	}

	switch action {
	case actionUpdate:
		s.renderPage(w, r, entry, tab, http.StatusOK, render.RenderOptions{})
	case actionDismiss:
		entry.session.Dismiss()
		s.renderPage(w, r, entry, tab, http.StatusOK, render.RenderOptions{})
	case actionSave:
		_, err := entry.session.Save()
		s.metrics.observeSave(err)
		if err != nil {
			var verr *form.ValidationError
			if !errors.As(err, &verr) {
				s.logger.Error("save", "error", err, "request_id", requestIDFrom(r.Context()))
			}
			mapping := render.MapError(err, session.MissingTitleMessage)
			s.renderPage(w, r, entry, tab, http.StatusUnprocessableEntity, render.RenderOptions{
				Errors:     mapping.Fields,
				FormErrors: mapping.Form,
			})
			return
		}
		s.renderPage(w, r, entry, tab, http.StatusOK, render.RenderOptions{})
	case actionExportCSV, actionExportJSON:
		format := form.FormatCSV
		if action == actionExportJSON {
			format = form.FormatJSON
		}
		if err := s.export(w, r, entry, format); err != nil {
			s.renderPage(w, r, entry, tab, http.StatusInternalServerError, render.RenderOptions{})
		}
	default:
		http.Error(w, fmt.Sprintf("unknown action %q", action), http.StatusBadRequest)
	}
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	format := form.FormatJSON
	if strings.HasSuffix(r.URL.Path, ".csv") {
		format = form.FormatCSV
	}
	entry := s.sessionFor(w, r)
	defer entry.mu.Unlock()

	if err := s.export(w, r, entry, format); err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
	}
}

// export writes the download on success. On failure nothing has been written
// unless the payload write itself failed, and the error is returned.
func (s *Server) export(w http.ResponseWriter, r *http.Request, entry *sessionEntry, format form.Format) error {
	dl := &responseDownloader{w: w}
	_, err := entry.session.Export(format, dl)
	s.metrics.observeExport(string(format), err)
	if err != nil {
		s.logger.Error("export", "format", format, "error", err, "request_id", requestIDFrom(r.Context()))
		if dl.sent {
			return nil
		}
		return err
	}
	s.logger.Debug("export", "format", format, "request_id", requestIDFrom(r.Context()))
	return nil
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, entry *sessionEntry, tab render.Tab, status int, opts render.RenderOptions) {
	opts.Action = "/"
	opts.Theme = s.cfg.Theme
	opts.ThemeVariant = s.cfg.ThemeVariant
	if variant := strings.TrimSpace(r.URL.Query().Get("variant")); variant != "" {
		opts.ThemeVariant = variant
	}
	opts.HiddenFields = render.MergeHiddenFields(opts.HiddenFields, render.CSRFToken(CSRFField, entry.csrf))

	page := render.Page{Session: entry.session, Vocabulary: s.vocab, Tab: tab}
	renderer, err := s.renderers.Get(html.Name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	out, err := renderer.Render(r.Context(), page, opts)
	if err != nil {
		s.logger.Error("render page", "error", err, "request_id", requestIDFrom(r.Context()))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(out); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

// applyForm copies posted values into the store. Scalars absent from the
// post are left untouched, so disabled or hidden controls keep their content.
// Checkbox groups are replaced only when the page declared them present.
func applyForm(store *form.Store, values url.Values) error {
	for _, field := range form.ScalarFields() {
		posted, ok := values[string(field)]
		if !ok || len(posted) == 0 {
			continue
		}
		if err := store.SetField(field, posted[0]); err != nil {
			return err
		}
	}

	present := make(map[form.Field]bool)
	for _, name := range values[presentField] {
		present[form.Field(name)] = true
	}

	if present[form.FieldMaterias] {
		selected := make(map[string]bool)
		for _, item := range values[string(form.FieldMaterias)] {
			if item = strings.TrimSpace(item); item != "" {
				selected[item] = true
			}
		}
		for _, current := range store.Materias() {
			if !selected[current] {
				store.SetMembership(current, false)
			}
		}
		for _, item := range values[string(form.FieldMaterias)] {
			if item = strings.TrimSpace(item); item != "" {
				store.SetMembership(item, true)
			}
		}
	}

	for _, group := range catalog.Groups() {
		field := form.Field(group)
		if !present[field] {
			continue
		}
		selected := make(map[string]bool)
		for _, key := range values[string(field)] {
			if !group.Has(key) {
				return fmt.Errorf("%w: %s.%s", form.ErrUnknownKey, group, key)
			}
			selected[key] = true
		}
		for _, key := range group.Keys() {
			if err := store.SetFlag(group, key, selected[key]); err != nil {
				return err
			}
		}
	}
	return nil
}

// lastValue picks the final occurrence. The page posts its current tab as a
// hidden input and the clicked tab button afterwards.
func lastValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}
