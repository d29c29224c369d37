package server

import (
	"encoding/json"
	"net/http"

	"github.com/goliatone/go-reaform/pkg/form"
	"github.com/goliatone/go-reaform/pkg/render"
	"github.com/goliatone/go-reaform/pkg/session"
)

type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

type notificationResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

type recordResponse struct {
	Record                   form.OrderedRecord    `json:"record"`
	CurricularDetailsEnabled bool                  `json:"curricular_details_enabled"`
	AuthorshipDetailVisible  bool                  `json:"authorship_detail_visible"`
	Notification             *notificationResponse `json:"notification,omitempty"`
}

func newRecordResponse(s *session.Session) recordResponse {
	store := s.Store()
	resp := recordResponse{
		Record:                   store.Project(),
		CurricularDetailsEnabled: store.CurricularDetailsEnabled(),
		AuthorshipDetailVisible:  store.AuthorshipDetailVisible(),
	}
	if n, ok := s.Notification(); ok {
		resp.Notification = &notificationResponse{Message: n.Message, Kind: string(n.Kind)}
	}
	return resp
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("write json response", "error", err, "request_id", requestIDFrom(r.Context()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string, mapping render.ErrorMapping) {
	s.writeJSON(w, r, status, errorResponse{
		Error:  message,
		Fields: mapping.Fields,
		Form:   mapping.Form,
	})
}
