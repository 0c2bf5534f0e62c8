package core

import (
	"context"
	"time"

	"github.com/JonMunkholm/sheetquiz/internal/quiz"
	"github.com/JonMunkholm/sheetquiz/internal/sheet"
	"github.com/JonMunkholm/sheetquiz/internal/weak"
)

// Feed supplies the raw records. *feed.Fetcher satisfies it.
type Feed interface {
	Fetch(ctx context.Context) ([]sheet.Record, error)
	URL() string
}

// Mark is one choice clicked on a card.
type Mark struct {
	Letter  string `json:"letter"`
	Correct bool   `json:"correct"`
}

// Card is a question inside a session together with the choices made on it.
type Card struct {
	Index    int           `json:"index"`
	Question quiz.Question `json:"question"`
	Marks    []Mark        `json:"marks"`
}

// Answered reports whether any choice has been made.
func (c Card) Answered() bool {
	return len(c.Marks) > 0
}

// FirstCorrect reports whether the first choice was correct.
func (c Card) FirstCorrect() bool {
	return len(c.Marks) > 0 && c.Marks[0].Correct
}

// Last returns the most recent choice, if any.
func (c Card) Last() (Mark, bool) {
	if len(c.Marks) == 0 {
		return Mark{}, false
	}
	return c.Marks[len(c.Marks)-1], true
}

// MarkFor returns the latest mark for letter, if that choice was clicked.
func (c Card) MarkFor(letter string) (Mark, bool) {
	for i := len(c.Marks) - 1; i >= 0; i-- {
		if c.Marks[i].Letter == letter {
			return c.Marks[i], true
		}
	}
	return Mark{}, false
}

// Session is a snapshot of a running quiz.
type Session struct {
	ID        string     `json:"id"`
	Subject   string     `json:"subject"`
	Order     quiz.Order `json:"order"`
	Limit     int        `json:"limit"`
	Cards     []Card     `json:"cards"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// Answered counts cards with at least one choice.
func (s Session) Answered() int {
	n := 0
	for _, c := range s.Cards {
		if c.Answered() {
			n++
		}
	}
	return n
}

// Correct counts cards whose first choice was correct.
func (s Session) Correct() int {
	n := 0
	for _, c := range s.Cards {
		if c.FirstCorrect() {
			n++
		}
	}
	return n
}

// Finished reports whether every card has been answered.
func (s Session) Finished() bool {
	return len(s.Cards) > 0 && s.Answered() == len(s.Cards)
}

// Accuracy is Correct/len(Cards), or 0 for an empty session.
func (s Session) Accuracy() float64 {
	if len(s.Cards) == 0 {
		return 0
	}
	return float64(s.Correct()) / float64(len(s.Cards))
}

// clone deep-copies the session so callers never share mark slices.
func (s *Session) clone() Session {
	out := *s
	out.Cards = make([]Card, len(s.Cards))
	for i, c := range s.Cards {
		c.Marks = append([]Mark(nil), c.Marks...)
		out.Cards[i] = c
	}
	return out
}

// StartOptions override the saved preferences for one session.
type StartOptions struct {
	Order quiz.Order // "" uses the saved order
	Limit int        // <= 0 uses the saved limit
}

// AnswerResult is the outcome of one click.
type AnswerResult struct {
	Index       int    `json:"index"`
	Letter      string `json:"letter"`
	Correct     bool   `json:"correct"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
	AddedToWeak bool   `json:"addedToWeak"`
	Card        Card   `json:"card"`
}

// Status describes the record cache.
type Status struct {
	Source    string    `json:"source"`
	Loaded    bool      `json:"loaded"`
	Records   int       `json:"records"`
	Subjects  int       `json:"subjects"`
	LoadedAt  time.Time `json:"loadedAt,omitzero"`
	LastError string    `json:"lastError,omitempty"`
	Sessions  int       `json:"sessions"`
}

// SubjectInfo is a subject with its question count.
type SubjectInfo struct {
	Name      string `json:"name"`
	Questions int    `json:"questions"`
}

// WeakView is the weak list as shown for one subject filter.
type WeakView struct {
	Filter   string      `json:"filter"`
	Items    []weak.Item `json:"items"`
	Subjects []string    `json:"subjects"`
	Total    int         `json:"total"`
}

// Stats summarizes the accuracy of finished sessions.
type Stats struct {
	Sessions int     `json:"sessions"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	P90      float64 `json:"p90"`
	Best     float64 `json:"best"`
}
