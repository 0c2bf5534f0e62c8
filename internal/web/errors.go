package web

// errors.go turns handler errors into responses. The technical error is
// logged with the request id; the client gets the core.MapError message as
// an inline fragment, JSON or a full page depending on the request.

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/sheetquiz/internal/core"
	"github.com/JonMunkholm/sheetquiz/internal/feed"
	"github.com/JonMunkholm/sheetquiz/internal/logging"
	"github.com/JonMunkholm/sheetquiz/internal/quiz"
	"github.com/JonMunkholm/sheetquiz/internal/settings"
	"github.com/JonMunkholm/sheetquiz/internal/web/templates"
	"github.com/JonMunkholm/sheetquiz/internal/weak"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// errorStatus picks the HTTP status for a service error.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrSessionNotFound),
		errors.Is(err, core.ErrNoQuestions),
		errors.Is(err, weak.ErrOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, core.ErrQuestionIndex),
		errors.Is(err, core.ErrUnknownChoice),
		errors.Is(err, quiz.ErrUnknownOrder):
		return http.StatusBadRequest
	case errors.Is(err, feed.ErrFeedUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// fail responds to err with the status errorStatus chooses.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.respondError(w, r, err, errorStatus(err))
}

// respondError logs err and writes the user-facing message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	switch {
	case isFragment(r):
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(statusCode)
		_ = templates.ErrorAlert(userMsg.Message, userMsg.Action, userMsg.Code).Render(r.Context(), w)
	case wantsJSON(r):
		respondErrorJSON(w, userMsg, statusCode)
	default:
		prefs := s.prefs(r)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(statusCode)
		_ = templates.ErrorPage(prefs, userMsg.Message, userMsg.Action, userMsg.Code).Render(r.Context(), w)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// prefs loads the saved preferences, falling back to defaults so a broken
// store never prevents a page from rendering.
func (s *Server) prefs(r *http.Request) settings.Prefs {
	p, err := s.service.Prefs(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Warn("load preferences failed", "error", err)
		return settings.Prefs{
			Theme:     settings.ThemeDark,
			FontScale: 1,
			Order:     quiz.Order(s.cfg.Quiz.Order),
			Limit:     s.cfg.Quiz.Limit,
		}
	}
	return p
}

// isFragment reports whether the client wants an HTML fragment instead of a
// full page (quiz.js or HTMX requests).
func isFragment(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "fetch" || r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
