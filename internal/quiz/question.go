// Package quiz derives multiple-choice questions from sheet records and
// builds the ordered question lists presented for a subject.
//
// Everything here is pure: callers pass records, settings and a random
// source in, and get fresh slices back.
package quiz

import (
	"strings"

	"github.com/JonMunkholm/sheetquiz/internal/sheet"
)

// Question is a normalized quiz item.
// The JSON shape is also the persisted weak-list format.
type Question struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	Unit        string `json:"unit"`
	Question    string `json:"question"`
	A           string `json:"a"`
	B           string `json:"b"`
	C           string `json:"c"`
	D           string `json:"d"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

// Choice is one lettered option of a question.
type Choice struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// Letters lists the option markers in display order.
var Letters = []string{"A", "B", "C", "D"}

// Field aliases, checked in order; the first non-empty value wins.
// Localized names cover sheets authored with Japanese headers.
var (
	idKeys          = []string{"id"}
	subjectKeys     = []string{"subject", "科目"}
	unitKeys        = []string{"unit", "単元"}
	questionKeys    = []string{"question", "問題"}
	choiceAKeys     = []string{"choice_a", "A", "choiceA"}
	choiceBKeys     = []string{"choice_b", "B", "choiceB"}
	choiceCKeys     = []string{"choice_c", "C", "choiceC"}
	choiceDKeys     = []string{"choice_d", "D", "choiceD"}
	answerKeys      = []string{"answer", "正解"}
	explanationKeys = []string{"explanation", "解説"}
)

// resolve returns the first non-empty value among keys, or "".
func resolve(rec sheet.Record, keys []string) string {
	for _, k := range keys {
		if v := rec.Value(k); v != "" {
			return v
		}
	}
	return ""
}

// SubjectOf resolves a record's subject through the subject aliases.
func SubjectOf(rec sheet.Record) string {
	return resolve(rec, subjectKeys)
}

// FromRecord normalizes a record into a Question.
// Absent fields become ""; the answer is trimmed and upper-cased.
func FromRecord(rec sheet.Record) Question {
	return Question{
		ID:          resolve(rec, idKeys),
		Subject:     resolve(rec, subjectKeys),
		Unit:        resolve(rec, unitKeys),
		Question:    resolve(rec, questionKeys),
		A:           resolve(rec, choiceAKeys),
		B:           resolve(rec, choiceBKeys),
		C:           resolve(rec, choiceCKeys),
		D:           resolve(rec, choiceDKeys),
		Answer:      strings.ToUpper(strings.TrimSpace(resolve(rec, answerKeys))),
		Explanation: resolve(rec, explanationKeys),
	}
}

// Option returns the text for letter ("A".."D"), or "" for any other letter.
func (q Question) Option(letter string) string {
	switch letter {
	case "A":
		return q.A
	case "B":
		return q.B
	case "C":
		return q.C
	case "D":
		return q.D
	}
	return ""
}

// Choices returns the non-empty options in letter order.
func (q Question) Choices() []Choice {
	out := make([]Choice, 0, len(Letters))
	for _, l := range Letters {
		if txt := q.Option(l); txt != "" {
			out = append(out, Choice{Letter: l, Text: txt})
		}
	}
	return out
}

// IsCorrect reports whether the option (letter, text) answers q.
// Sheets may store either the letter or the literal option text as the
// answer, so either match counts.
func IsCorrect(q Question, letter, text string) bool {
	return letter == q.Answer || text == q.Answer
}

// Check is IsCorrect for one of q's own options.
func (q Question) Check(letter string) bool {
	return IsCorrect(q, letter, q.Option(letter))
}
