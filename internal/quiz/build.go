package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/JonMunkholm/sheetquiz/internal/sheet"
)

// Order selects how a built list is arranged.
type Order string

const (
	// OrderFixed keeps sheet order.
	OrderFixed Order = "fixed"
	// OrderRandom returns a uniform shuffle.
	OrderRandom Order = "random"
)

// ErrUnknownOrder is returned by ParseOrder for unrecognized values.
var ErrUnknownOrder = errors.New("unknown quiz order")

// ParseOrder converts user input into an Order. Empty input means OrderFixed.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderFixed:
		return OrderFixed, nil
	case OrderRandom:
		return OrderRandom, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOrder, s)
}

// BuildList returns the questions for subject, ordered and truncated.
//
// Records are matched on their resolved subject by exact string comparison.
// With OrderRandom the matching questions are shuffled with rng (the global
// source when rng is nil). A positive limit keeps that many leading
// questions; zero or negative keeps all. records is never modified.
func BuildList(records []sheet.Record, subject string, order Order, limit int, rng *rand.Rand) []Question {
	list := make([]Question, 0)
	for _, rec := range records {
		if SubjectOf(rec) != subject {
			continue
		}
		list = append(list, FromRecord(rec))
	}

	if order == OrderRandom {
		list = Shuffle(list, rng)
	}

	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}

	return list
}

// Shuffle returns a uniformly shuffled copy of list (Fisher–Yates).
// The input slice is left untouched.
func Shuffle[T any](list []T, rng *rand.Rand) []T {
	out := make([]T, len(list))
	copy(out, list)

	for i := len(out) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ResolveLimit picks the per-session override when positive and falls back
// to the persisted default otherwise.
func ResolveLimit(override, persisted int) int {
	if override > 0 {
		return override
	}
	if persisted > 0 {
		return persisted
	}
	return 0
}
