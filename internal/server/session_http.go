package server

import (
	"crypto/subtle"
	"net/http"
)

// sessionFor resolves the caller's session from its cookie, creating a new
// one (and setting the cookie) when none is live. The entry is returned
// locked; callers must unlock it.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *sessionEntry {
	var entry *sessionEntry
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		entry, _ = s.sessions.lookup(cookie.Value)
	}
	if entry == nil {
		entry = s.sessions.create()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    entry.id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   r.TLS != nil,
		})
		s.logger.Debug("session created", "request_id", requestIDFrom(r.Context()))
	}
	entry.mu.Lock()
	return entry
}

func validCSRF(entry *sessionEntry, token string) bool {
	return token != "" && subtle.ConstantTimeCompare([]byte(entry.csrf), []byte(token)) == 1
}
