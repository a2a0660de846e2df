package handlers

import (
	"context"
	"net/http"

	"autopart/internal/session"
)

const (
	sessionCookie = "autopart-session-id"
	cookieMaxAge  = 60 * 60 * 48
)

type ctxKeySession struct{}

// ensureSession attaches the caller's session to the request context,
// creating one (and setting the cookie) on first contact or when the
// cookie references a session this process no longer knows.
func (s *Server) ensureSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *session.Session
		if c, err := r.Cookie(sessionCookie); err == nil {
			if existing, ok := s.sessions.Get(c.Value); ok {
				sess = existing
			}
		}
		if sess == nil {
			sess = s.sessions.Create()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   cookieMaxAge,
				HttpOnly: true,
			})
			s.log.WithField("session", sess.ID).Debug("session created")
		}
		ctx := context.WithValue(r.Context(), ctxKeySession{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(ctxKeySession{}).(*session.Session)
}
