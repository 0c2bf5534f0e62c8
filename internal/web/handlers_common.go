package web

// handlers_common.go holds request parsing and response helpers shared by
// the page and API handlers.

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/sheetquiz/internal/core"
	"github.com/JonMunkholm/sheetquiz/internal/logging"
	"github.com/JonMunkholm/sheetquiz/internal/quiz"
)

// maxBodySize caps JSON and form bodies.
const maxBodySize = 64 * 1024

// errInvalidRequest is mapped to REQ003.
var errInvalidRequest = errors.New("invalid request")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidRequest, fmt.Sprintf(format, args...))
}

// render writes a full page or fragment.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
	}
}

// pathParam returns a decoded chi URL parameter. chi routes on RawPath when
// the request carries one, and only then are the captured values still
// escaped; otherwise they come from the already decoded Path.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// parseStartOptions reads order and limit from the query. Empty values fall
// back to the saved preferences inside the service; a negative or
// non-numeric limit is treated as empty.
func parseStartOptions(q url.Values) (core.StartOptions, error) {
	var opts core.StartOptions
	if raw := q.Get("order"); raw != "" {
		order, err := quiz.ParseOrder(raw)
		if err != nil {
			return opts, err
		}
		opts.Order = order
	}
	if n, err := strconv.Atoi(strings.TrimSpace(q.Get("limit"))); err == nil && n > 0 {
		opts.Limit = n
	}
	return opts, nil
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return invalid("decode body: %v", err)
	}
	return nil
}

type answerRequest struct {
	Index  int    `json:"index"`
	Letter string `json:"letter"`
}

// parseAnswer reads index and letter from a JSON or form body.
func parseAnswer(w http.ResponseWriter, r *http.Request) (answerRequest, error) {
	var req answerRequest
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		err := decodeJSON(w, r, &req)
		return req, err
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseForm(); err != nil {
		return req, invalid("parse form: %v", err)
	}
	raw := r.PostFormValue("index")
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return req, invalid("question index %q", raw)
	}
	req.Index = idx
	req.Letter = r.PostFormValue("letter")
	return req, nil
}

// redirectBack sends the client to the referring page on this host, or to
// fallback.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	target := fallback
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" &&
		strings.HasPrefix(ref.Path, "/") && (ref.Host == "" || ref.Host == r.Host) {
		target = ref.RequestURI()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func sessionURL(id string) string {
	return "/session/" + url.PathEscape(id)
}
