package entries

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/storage"
	"github.com/julianstephens/dearme/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Provider {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "entries.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestJournalLifecycle(t *testing.T) {
	s := NewService(newTestStore(t), Journals)
	ctx := context.Background()

	first, err := s.Add(ctx, "alice", models.JournalEntry{Entry: "  slept well  "})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "slept well", first.Entry)
	assert.Equal(t, "alice", first.OwnerID)

	time.Sleep(time.Millisecond)
	second, err := s.Add(ctx, "alice", models.JournalEntry{Entry: "long day"})
	require.NoError(t, err)

	list, err := s.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)

	got, err := s.Get(ctx, "alice", first.ID)
	require.NoError(t, err)
	assert.Equal(t, "slept well", got.Entry)

	_, err = s.Get(ctx, "bob", first.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "alice", first.ID))
	list, err = s.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRejectsBlankFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := NewService(store, Gratitude).Add(ctx, "alice", models.Gratitude{Gratitude: " \t "})
	var empty *EmptyFieldError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "gratitude", empty.Field)
	assert.ErrorIs(t, err, ErrEmptyField)

	_, err = NewService(store, Reflections).Add(ctx, "alice", models.Reflection{})
	assert.ErrorIs(t, err, ErrEmptyField)

	_, err = NewService(store, Goals).Add(ctx, "alice", models.Goal{Goal: ""})
	assert.ErrorIs(t, err, ErrEmptyField)
}

func TestABCDERequiresEveryStep(t *testing.T) {
	s := NewService(newTestStore(t), ABCDE)
	ctx := context.Background()

	full := models.ABCDE{A: "missed bus", B: "I'm always late", C: "anxious", D: "it happens rarely", E: "calmer"}

	tests := []struct {
		name  string
		clear func(*models.ABCDE)
		field string
	}{
		{"a", func(v *models.ABCDE) { v.A = "" }, "a"},
		{"c", func(v *models.ABCDE) { v.C = "  " }, "c"},
		{"e", func(v *models.ABCDE) { v.E = "" }, "e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := full
			tt.clear(&v)
			_, err := s.Add(ctx, "alice", v)
			var empty *EmptyFieldError
			require.ErrorAs(t, err, &empty)
			assert.Equal(t, tt.field, empty.Field)
		})
	}

	saved, err := s.Add(ctx, "alice", full)
	require.NoError(t, err)
	assert.Equal(t, "missed bus → calmer", s.Summary(saved))
}
