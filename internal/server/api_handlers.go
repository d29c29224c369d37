package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/goliatone/go-reaform/pkg/catalog"
	"github.com/goliatone/go-reaform/pkg/form"
	"github.com/goliatone/go-reaform/pkg/render"
	"github.com/goliatone/go-reaform/pkg/schema"
	"github.com/goliatone/go-reaform/pkg/session"
)

type fieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type materiaRequest struct {
	Item     string `json:"item"`
	Included bool   `json:"included"`
}

type flagRequest struct {
	Group string `json:"group"`
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

type saveResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type validateResponse struct {
	Valid  bool                `json:"valid"`
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	entry := s.sessionFor(w, r)
	defer entry.mu.Unlock()
	s.writeJSON(w, r, http.StatusOK, newRecordResponse(entry.session))
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	var req fieldRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	entry := s.sessionFor(w, r)
	defer entry.mu.Unlock()

	if err := entry.session.Store().SetField(form.Field(req.Field), req.Value); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error(), render.ErrorMapping{})
		return
	}
	s.writeJSON(w, r, http.StatusOK, newRecordResponse(entry.session))
}

func (s *Server) handleSetMateria(w http.ResponseWriter, r *http.Request) {
	var req materiaRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	item := strings.TrimSpace(req.Item)
	if item == "" {
		s.writeError(w, r, http.StatusBadRequest, "materia item is required", render.ErrorMapping{})
		return
	}
	entry := s.sessionFor(w, r)
	defer entry.mu.Unlock()

	entry.session.Store().SetMembership(item, req.Included)
	s.writeJSON(w, r, http.StatusOK, newRecordResponse(entry.session))
}

func (s *Server) handleSetFlag(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	group, ok := catalog.ParseGroup(req.Group)
	if !ok {
		s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown flag group %q", req.Group), render.ErrorMapping{})
		return
	}
	entry := s.sessionFor(w, r)
	defer entry.mu.Unlock()

	if err := entry.session.Store().SetFlag(group, req.Key, req.Value); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error(), render.ErrorMapping{})
		return
	}
	s.writeJSON(w, r, http.StatusOK, newRecordResponse(entry.session))
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	entry := s.sessionFor(w, r)
	defer entry.mu.Unlock()

	confirmation, err := entry.session.Save()
	s.metrics.observeSave(err)
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, session.MissingTitleMessage,
			render.MapError(err, session.MissingTitleMessage))
		return
	}
	s.writeJSON(w, r, http.StatusOK, saveResponse{
		Title:   confirmation.Title,
		Message: session.SavedPrefix + confirmation.Title,
	})
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	entry := s.sessionFor(w, r)
	defer entry.mu.Unlock()

	entry.session.Dismiss()
	s.writeJSON(w, r, http.StatusOK, newRecordResponse(entry.session))
}

// handleValidate checks an arbitrary JSON export against the REA schema.
// Issues are mapped onto record field names.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !requireJSON(w, r) {
		return
	}
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "could not read body", render.ErrorMapping{})
		return
	}
	err = s.schema.ValidateExport(r.Context(), payload)
	if err == nil {
		s.writeJSON(w, r, http.StatusOK, validateResponse{Valid: true})
		return
	}
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		s.writeError(w, r, http.StatusBadRequest, err.Error(), render.ErrorMapping{})
		return
	}
	mapping := render.MapErrorPayload(verr.Fields())
	s.writeJSON(w, r, http.StatusUnprocessableEntity, validateResponse{
		Fields: mapping.Fields,
		Form:   mapping.Form,
	})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.schema.JSON())
}

// decodeJSON reads a single JSON object. Requiring the JSON content type keeps
// plain cross-site form posts away from the API.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !requireJSON(w, r) {
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json body: %v", err), render.ErrorMapping{})
		return false
	}
	return true
}

func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		http.Error(w, "content type must be application/json", http.StatusUnsupportedMediaType)
		return false
	}
	return true
}
