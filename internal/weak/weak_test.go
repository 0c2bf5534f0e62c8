package weak

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/sheetquiz/internal/kv"
	"github.com/JonMunkholm/sheetquiz/internal/quiz"
)

func q(id, subject, question string) quiz.Question {
	return quiz.Question{ID: id, Subject: subject, Question: question, A: "x", Answer: "A"}
}

// brokenStore fails every call.
type brokenStore struct{}

var errBroken = errors.New("disk on fire")

func (brokenStore) Get(context.Context, string) (string, bool, error) { return "", false, errBroken }
func (brokenStore) Set(context.Context, string, string) error        { return errBroken }
func (brokenStore) Remove(context.Context, string) error             { return errBroken }

func TestLoad_MissingIsEmpty(t *testing.T) {
	items, err := New(kv.NewMemory(), "").Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestLoad_CorruptIsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", `{"id":"1"}`, "null"} {
		store := kv.NewMemory()
		require.NoError(t, store.Set(ctx, DefaultKey, raw))

		items, err := New(store, "").Load(ctx)
		require.NoError(t, err, raw)
		assert.Empty(t, items, raw)
	}
}

func TestLoad_StoreErrorPropagates(t *testing.T) {
	_, err := New(brokenStore{}, "").Load(context.Background())
	assert.ErrorIs(t, err, errBroken)
}

func TestAdd_Dedup(t *testing.T) {
	ctx := context.Background()
	list := New(kv.NewMemory(), "")

	added, err := list.Add(ctx, q("1", "Math", "2+2?"))
	require.NoError(t, err)
	assert.True(t, added)

	// Same identity, different options and answer.
	dup := q("1", "Math", "2+2?")
	dup.B, dup.Answer, dup.Unit = "4", "B", "Algebra"
	added, err = list.Add(ctx, dup)
	require.NoError(t, err)
	assert.False(t, added, "same (id, subject, question) must not be added twice")

	added, err = list.Add(ctx, q("1", "Art", "2+2?"))
	require.NoError(t, err)
	assert.True(t, added, "different subject is a different item")

	items, err := list.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Answer, "first stored copy is kept")
}

func TestAdd_PersistedShape(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	_, err := New(store, "weak:test").Add(ctx, q("7", "社会", "首都は？"))
	require.NoError(t, err)

	raw, ok, err := store.Get(ctx, "weak:test")
	require.NoError(t, err)
	require.True(t, ok)

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "7", decoded[0]["id"])
	assert.Equal(t, "社会", decoded[0]["subject"])
	assert.Equal(t, "首都は？", decoded[0]["question"])
	assert.Equal(t, "A", decoded[0]["answer"])
}

func TestRemoveAt(t *testing.T) {
	ctx := context.Background()
	list := New(kv.NewMemory(), "")
	for _, it := range []quiz.Question{q("1", "A", "a"), q("2", "B", "b"), q("3", "A", "c")} {
		_, err := list.Add(ctx, it)
		require.NoError(t, err)
	}

	removed, err := list.RemoveAt(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2", removed.ID)

	items, err := list.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "3", items[1].ID)

	for _, pos := range []int{-1, 2, 99} {
		_, err := list.RemoveAt(ctx, pos)
		assert.ErrorIs(t, err, ErrOutOfRange, "pos %d", pos)
	}
}

func TestRemoveAt_FilteredPosition(t *testing.T) {
	ctx := context.Background()
	list := New(kv.NewMemory(), "")
	for _, it := range []quiz.Question{q("1", "Math", "a"), q("2", "Art", "b"), q("3", "Art", "c")} {
		_, err := list.Add(ctx, it)
		require.NoError(t, err)
	}

	items, err := list.Load(ctx)
	require.NoError(t, err)
	view := Filter(items, "Art")
	require.Len(t, view, 2)

	// Deleting the first entry of the filtered view removes item "2", not "1".
	_, err = list.RemoveAt(ctx, view[0].Pos)
	require.NoError(t, err)

	items, err = list.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "3", items[1].ID)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	list := New(store, "")
	_, err := list.Add(ctx, q("1", "Math", "a"))
	require.NoError(t, err)

	require.NoError(t, list.Clear(ctx))

	raw, _, err := store.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestWritesPropagateStoreErrors(t *testing.T) {
	ctx := context.Background()
	list := New(brokenStore{}, "")

	_, err := list.Add(ctx, q("1", "Math", "a"))
	assert.ErrorIs(t, err, errBroken)
	assert.ErrorIs(t, list.Clear(ctx), errBroken)
}

func TestSame(t *testing.T) {
	base := q("1", "Math", "2+2?")
	tests := []struct {
		name string
		b    quiz.Question
		want bool
	}{
		{"identical", base, true},
		{"unit ignored", quiz.Question{ID: "1", Subject: "Math", Question: "2+2?", Unit: "x"}, true},
		{"id differs", q("2", "Math", "2+2?"), false},
		{"subject differs", q("1", "Art", "2+2?"), false},
		{"question differs", q("1", "Math", "2+3?"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Same(base, tt.b))
		})
	}
}

func TestFilter(t *testing.T) {
	items := []quiz.Question{q("1", "Math", "a"), q("2", "Art", "b"), q("3", "Math", "c")}

	all := Filter(items, "")
	require.Len(t, all, 3)
	assert.Equal(t, 2, all[2].Pos)

	math := Filter(items, "Math")
	require.Len(t, math, 2)
	assert.Equal(t, 0, math[0].Pos)
	assert.Equal(t, 2, math[1].Pos)
	assert.Equal(t, "c", math[1].Question.Question)

	assert.Empty(t, Filter(items, "math"), "subject match is exact")
}

func TestSubjects(t *testing.T) {
	items := []quiz.Question{q("1", "Math", "a"), q("2", "", "b"), q("3", "Art", "c"), q("4", "Math", "d")}
	assert.Equal(t, []string{"Art", "Math"}, Subjects(items))
}
