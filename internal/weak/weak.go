// Package weak keeps the list of questions the user has answered wrongly.
//
// The list is stored as one JSON array under a single key. Every change
// reads the whole list, edits it and writes it back.
package weak

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/JonMunkholm/sheetquiz/internal/kv"
	"github.com/JonMunkholm/sheetquiz/internal/logging"
	"github.com/JonMunkholm/sheetquiz/internal/quiz"
)

// DefaultKey is the store key used when none is configured.
const DefaultKey = "weak:default"

// ErrOutOfRange is returned by RemoveAt for a position outside the list.
var ErrOutOfRange = errors.New("weak item position out of range")

// Item is a stored question together with its position in the full list.
type Item struct {
	Pos int `json:"pos"`
	quiz.Question
}

// List is the persisted weak list.
type List struct {
	store kv.Store
	key   string
	mu    sync.Mutex
}

// New returns a List stored under key (DefaultKey when empty).
func New(store kv.Store, key string) *List {
	if key == "" {
		key = DefaultKey
	}
	return &List{store: store, key: key}
}

// Key returns the store key the list lives under.
func (l *List) Key() string {
	return l.key
}

// Load returns the stored list. A missing key is an empty list, and so is a
// value that does not decode; the latter is logged and otherwise ignored.
func (l *List) Load(ctx context.Context) ([]quiz.Question, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

func (l *List) load(ctx context.Context) ([]quiz.Question, error) {
	raw, ok, err := l.store.Get(ctx, l.key)
	if err != nil {
		return nil, fmt.Errorf("load weak list: %w", err)
	}
	if !ok || raw == "" {
		return []quiz.Question{}, nil
	}

	var items []quiz.Question
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logging.FromContext(ctx).Warn("weak list is corrupt, treating as empty",
			"key", l.key,
			"error", err,
		)
		return []quiz.Question{}, nil
	}
	if items == nil {
		items = []quiz.Question{}
	}
	return items, nil
}

func (l *List) save(ctx context.Context, items []quiz.Question) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode weak list: %w", err)
	}
	if err := l.store.Set(ctx, l.key, string(raw)); err != nil {
		return fmt.Errorf("save weak list: %w", err)
	}
	return nil
}

// Add appends q unless an item with the same identity is already stored.
// It reports whether q was added.
func (l *List) Add(ctx context.Context, q quiz.Question) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	items, err := l.load(ctx)
	if err != nil {
		return false, err
	}
	for _, it := range items {
		if Same(it, q) {
			return false, nil
		}
	}
	if err := l.save(ctx, append(items, q)); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveAt deletes the item at pos in the full (unfiltered) list.
func (l *List) RemoveAt(ctx context.Context, pos int) (quiz.Question, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	items, err := l.load(ctx)
	if err != nil {
		return quiz.Question{}, err
	}
	if pos < 0 || pos >= len(items) {
		return quiz.Question{}, fmt.Errorf("%w: %d (have %d)", ErrOutOfRange, pos, len(items))
	}

	removed := items[pos]
	items = append(items[:pos], items[pos+1:]...)
	if err := l.save(ctx, items); err != nil {
		return quiz.Question{}, err
	}
	return removed, nil
}

// Clear empties the list.
func (l *List) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.save(ctx, []quiz.Question{})
}

// Same reports whether a and b are the same weak item. Only id, subject and
// question text are compared.
func Same(a, b quiz.Question) bool {
	return a.ID == b.ID && a.Subject == b.Subject && a.Question == b.Question
}

// Filter returns the items whose subject equals subject, each tagged with
// its position in items. An empty subject selects everything.
func Filter(items []quiz.Question, subject string) []Item {
	out := make([]Item, 0, len(items))
	for i, q := range items {
		if subject != "" && q.Subject != subject {
			continue
		}
		out = append(out, Item{Pos: i, Question: q})
	}
	return out
}

// Subjects returns the distinct non-empty subjects in items, collated.
func Subjects(items []quiz.Question) []string {
	seen := make(map[string]bool)
	var subs []string
	for _, q := range items {
		if q.Subject == "" || seen[q.Subject] {
			continue
		}
		seen[q.Subject] = true
		subs = append(subs, q.Subject)
	}
	quiz.SortSubjects(subs)
	return subs
}
