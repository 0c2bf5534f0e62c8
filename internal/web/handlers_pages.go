package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/sheetquiz/internal/core"
	"github.com/JonMunkholm/sheetquiz/internal/logging"
	"github.com/JonMunkholm/sheetquiz/internal/web/templates"
	"github.com/JonMunkholm/sheetquiz/internal/weak"
)

// handleHome renders the subject list.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	st := s.service.Status()
	data := templates.HomeData{
		Prefs:    s.prefs(r),
		Status:   st,
		Subjects: s.service.Subjects(),
	}
	if st.LastError != "" {
		msg := core.MapError(errors.New(st.LastError))
		data.Banner = &msg
	}
	render(w, r, http.StatusOK, templates.Home(data))
}

// handleStartQuiz opens a session for the subject in the path or query and
// redirects to it. With save=1 the chosen order and limit become defaults.
func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	subject := pathParam(r, "subject")
	if subject == "" {
		subject = q.Get("subject")
	}
	if strings.TrimSpace(subject) == "" {
		s.fail(w, r, fmt.Errorf("%w: %q", core.ErrNoQuestions, subject))
		return
	}

	opts, err := parseStartOptions(q)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if q.Get("save") == "1" {
		order := opts.Order
		if order == "" {
			order = s.prefs(r).Order
		}
		if err := s.service.SetQuizDefaults(ctx, order, opts.Limit); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	sess, err := s.service.StartQuiz(ctx, subject, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, sessionURL(sess.ID), http.StatusSeeOther)
}

// handleSession renders all cards of a session.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.Session(pathParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, templates.QuizPage(s.prefs(r), sess))
}

// handleAnswer records one click. Fragment requests get the re-rendered
// card, JSON clients the AnswerResult, and plain form posts are redirected
// back to the card.
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")

	req, err := parseAnswer(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	res, err := s.service.Answer(r.Context(), id, req.Index, req.Letter)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	switch {
	case isFragment(r):
		if sess, err := s.service.Session(id); err == nil {
			w.Header().Set("X-Quiz-Correct", strconv.Itoa(sess.Correct()))
			w.Header().Set("X-Quiz-Answered", strconv.Itoa(sess.Answered()))
		}
		render(w, r, http.StatusOK, templates.Card(id, res.Card))
	case wantsJSON(r):
		writeJSON(w, http.StatusOK, res)
	default:
		http.Redirect(w, r, sessionURL(id)+"#q"+strconv.Itoa(req.Index), http.StatusSeeOther)
	}
}

// handleWeak renders the weak list, optionally filtered by subject.
func (s *Server) handleWeak(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.Weak(r.Context(), r.URL.Query().Get("subject"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render(w, r, http.StatusOK, templates.WeakPage(s.prefs(r), view))
}

// handleWeakDelete removes one item by its position in the full list and
// returns to the filtered view.
func (s *Server) handleWeakDelete(w http.ResponseWriter, r *http.Request) {
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
	http.Redirect(w, r, weakURL(r.URL.Query().Get("subject")), http.StatusSeeOther)
}

// handleWeakClear empties the weak list.
func (s *Server) handleWeakClear(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ClearWeak(r.Context()); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/weak", http.StatusSeeOther)
}

// handleTheme sets the theme from the form, or toggles it when none is given.
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, invalid("parse form: %v", err), http.StatusBadRequest)
		return
	}

	var err error
	if theme := r.PostFormValue("theme"); theme != "" {
		_, err = s.service.SetTheme(ctx, theme)
	} else {
		_, err = s.service.ToggleTheme(ctx)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.afterPrefsChange(w, r)
}

// handleFont sets an absolute scale ("scale") or steps it by "delta".
func (s *Server) handleFont(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, invalid("parse form: %v", err), http.StatusBadRequest)
		return
	}

	var err error
	if raw := r.PostFormValue("scale"); raw != "" {
		scale, perr := strconv.ParseFloat(raw, 64)
		if perr != nil {
			s.respondError(w, r, invalid("font scale %q", raw), http.StatusBadRequest)
			return
		}
		_, err = s.service.SetFontScale(ctx, scale)
	} else {
		raw := r.PostFormValue("delta")
		delta, perr := strconv.ParseFloat(raw, 64)
		if perr != nil {
			s.respondError(w, r, invalid("font delta %q", raw), http.StatusBadRequest)
			return
		}
		_, err = s.service.StepFont(ctx, delta)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.afterPrefsChange(w, r)
}

func (s *Server) afterPrefsChange(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, s.prefs(r))
		return
	}
	redirectBack(w, r, "/")
}

// handleReloadPage reloads the feed and returns home. A failure shows up
// as the banner on the home page.
func (s *Server) handleReloadPage(w http.ResponseWriter, r *http.Request) {
	if _, err := s.service.Reload(r.Context()); err != nil {
		logging.FromContext(r.Context()).Warn("manual reload failed", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func weakURL(subject string) string {
	if subject == "" {
		return "/weak"
	}
	return "/weak?subject=" + url.QueryEscape(subject)
}
