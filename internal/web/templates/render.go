// Package templates holds the templ components served by the web package.
//
// The *_templ.go files are generated; edit the .templ sources and run
// `templ generate`.
package templates

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/JonMunkholm/sheetquiz/internal/core"
	"github.com/JonMunkholm/sheetquiz/internal/quiz"
	"github.com/JonMunkholm/sheetquiz/internal/settings"
)

// RenderMarkdown converts explanation text to HTML. Raw HTML in the source
// is dropped and unsafe link schemes are neutralized.
func RenderMarkdown(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.SkipHTML | mdhtml.Safelink,
	})
	return string(markdown.ToHTML([]byte(text), p, r))
}

// Markdown is RenderMarkdown as a component.
func Markdown(text string) templ.Component {
	return templ.Raw(RenderMarkdown(text))
}

func fontStyle(prefs settings.Prefs) string {
	return "font-size:" + strconv.FormatFloat(prefs.FontPx(), 'f', -1, 64) + "px"
}

// themeLabel names the theme the toggle switches to.
func themeLabel(prefs settings.Prefs) string {
	if prefs.Theme == settings.ThemeLight {
		return "ダーク"
	}
	return "ライト"
}

var orderOptions = []quiz.Order{quiz.OrderFixed, quiz.OrderRandom}

func orderLabel(o quiz.Order) string {
	if o == quiz.OrderRandom {
		return "ランダム"
	}
	return "順番どおり"
}

// limitValue leaves the field blank for "all questions".
func limitValue(limit int) string {
	if limit <= 0 {
		return ""
	}
	return strconv.Itoa(limit)
}

const (
	markCorrect = "correct"
	markWrong   = "wrong"
)

// markOf reports how a choice was marked, or "" when it was never clicked.
func markOf(card core.Card, letter string) string {
	m, ok := card.MarkFor(letter)
	switch {
	case !ok:
		return ""
	case m.Correct:
		return markCorrect
	default:
		return markWrong
	}
}

func cardID(index int) string {
	return "q" + strconv.Itoa(index)
}

func accuracyPercent(sess core.Session) string {
	return strconv.FormatFloat(sess.Accuracy()*100, 'f', 0, 64)
}

func answerURL(sessionID string) templ.SafeURL {
	return templ.URL("/session/" + url.PathEscape(sessionID) + "/answer")
}

// weakDeleteURL keeps the current filter so the list comes back filtered.
func weakDeleteURL(pos int, filter string) templ.SafeURL {
	return templ.URL(fmt.Sprintf("/weak/%d/delete?subject=%s", pos, url.QueryEscape(filter)))
}
