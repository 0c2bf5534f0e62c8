package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/sheetquiz/internal/core"
	"github.com/JonMunkholm/sheetquiz/internal/quiz"
	"github.com/JonMunkholm/sheetquiz/internal/weak"
)

// ReloadResponse is returned by POST /api/reload.
type ReloadResponse struct {
	Records int         `json:"records"`
	Status  core.Status `json:"status"`
}

// QuizListResponse is returned by GET /api/quiz/{subject}.
type QuizListResponse struct {
	Subject   string          `json:"subject"`
	Order     quiz.Order      `json:"order"`
	Limit     int             `json:"limit"`
	Questions []quiz.Question `json:"questions"`
}

// handleAPIStatus reports the record cache state.
func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Status())
}

// handleAPISubjects lists subjects with question counts.
func (s *Server) handleAPISubjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Subjects())
}

// handleAPIQuiz builds a question list without opening a session.
func (s *Server) handleAPIQuiz(w http.ResponseWriter, r *http.Request) {
	subject := pathParam(r, "subject")

	opts, err := parseStartOptions(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	prefs := s.prefs(r)
	order := opts.Order
	if order == "" {
		order = prefs.Order
	}
	limit := quiz.ResolveLimit(opts.Limit, prefs.Limit)

	list := s.service.BuildList(subject, order, limit)
	if len(list) == 0 {
		s.fail(w, r, fmt.Errorf("%w: %q", core.ErrNoQuestions, subject))
		return
	}
	writeJSON(w, http.StatusOK, QuizListResponse{
		Subject:   subject,
		Order:     order,
		Limit:     limit,
		Questions: list,
	})
}

type startRequest struct {
	Subject string `json:"subject"`
	Order   string `json:"order"`
	Limit   int    `json:"limit"`
}

// handleAPIStartQuiz opens a session from a JSON body.
func (s *Server) handleAPIStartQuiz(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	opts := core.StartOptions{Limit: req.Limit}
	if req.Order != "" {
		order, err := quiz.ParseOrder(req.Order)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		opts.Order = order
	}

	sess, err := s.service.StartQuiz(r.Context(), req.Subject, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/api"+sessionURL(sess.ID))
	writeJSON(w, http.StatusCreated, sess)
}

// handleAPISession returns a session snapshot.
func (s *Server) handleAPISession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.Session(pathParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// handleAPIWeak returns the weak list filtered by ?subject=.
func (s *Server) handleAPIWeak(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.Weak(r.Context(), r.URL.Query().Get("subject"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleAPIWeakDelete removes one weak item by full-list position.
func (s *Server) handleAPIWeakDelete(w http.ResponseWriter, r *http.Request) {
	raw := pathParam(r, "pos")
	pos, err := strconv.Atoi(raw)
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: %q", weak.ErrOutOfRange, raw))
		return
	}
	if err := s.service.RemoveWeak(r.Context(), pos); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAPIWeakClear empties the weak list.
func (s *Server) handleAPIWeakClear(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ClearWeak(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAPIStats summarizes finished sessions.
func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.service.SessionStats()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleAPIPrefs returns the saved preferences.
func (s *Server) handleAPIPrefs(w http.ResponseWriter, r *http.Request) {
	p, err := s.service.Prefs(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type prefsRequest struct {
	Theme     *string  `json:"theme"`
	FontScale *float64 `json:"fontScale"`
	Order     *string  `json:"order"`
	Limit     *int     `json:"limit"`
}

// handleAPIPutPrefs updates the fields present in the body.
func (s *Server) handleAPIPutPrefs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req prefsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	current, err := s.service.Prefs(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if req.Theme != nil {
		if _, err := s.service.SetTheme(ctx, *req.Theme); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if req.FontScale != nil {
		if _, err := s.service.SetFontScale(ctx, *req.FontScale); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if req.Order != nil || req.Limit != nil {
		order, limit := current.Order, current.Limit
		if req.Order != nil {
			if order, err = quiz.ParseOrder(*req.Order); err != nil {
				s.fail(w, r, err)
				return
			}
		}
		if req.Limit != nil {
			if *req.Limit < 0 {
				s.respondError(w, r, invalid("limit %d", *req.Limit), http.StatusBadRequest)
				return
			}
			limit = *req.Limit
		}
		if err := s.service.SetQuizDefaults(ctx, order, limit); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	s.handleAPIPrefs(w, r)
}

// handleAPIReload fetches the feed now. Feed failures answer 502 and leave
// the cached records in place.
func (s *Server) handleAPIReload(w http.ResponseWriter, r *http.Request) {
	n, err := s.service.Reload(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ReloadResponse{Records: n, Status: s.service.Status()})
}
