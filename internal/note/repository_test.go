package note

import (
	"path/filepath"
	"testing"
	"time"

	"ainotebook/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db)
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepository(t)

	n := NewNote("Reading list", "- The Go Programming Language")
	n.AddTag("books")
	n.AddTag("go")
	require.NoError(t, repo.Create(n))

	got, err := repo.GetByID(n.ID)
	require.NoError(t, err)
	assert.Equal(t, n.Title, got.Title)
	assert.Equal(t, n.Content, got.Content)
	assert.Equal(t, []string{"books", "go"}, got.Tags)
	assert.True(t, n.CreatedAt.Equal(got.CreatedAt))
	assert.False(t, got.Favorite)
}

func TestGetByIDLoadsOnlyItsTags(t *testing.T) {
	repo := newTestRepository(t)

	first := NewNote("first", "")
	first.AddTag("shared")
	first.AddTag("one")
	second := NewNote("second", "")
	second.AddTag("shared")
	second.AddTag("two")
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	got, err := repo.GetByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared", "two"}, got.Tags)

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, n := range all {
		assert.Len(t, n.Tags, 2, n.Title)
	}
}

func TestGetMissing(t *testing.T) {
	repo := newTestRepository(t)
	_, err := repo.GetByID("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRewritesTags(t *testing.T) {
	repo := newTestRepository(t)
	n := NewNote("draft", "")
	n.AddTag("old")
	require.NoError(t, repo.Create(n))

	before := n.UpdatedAt
	n.Title = "final"
	n.RemoveTag("old")
	n.AddTag("new")
	require.NoError(t, repo.Update(n))
	assert.False(t, n.UpdatedAt.Before(before))

	got, err := repo.GetByID(n.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, []string{"new"}, got.Tags)

	ghost := NewNote("ghost", "")
	assert.ErrorIs(t, repo.Update(ghost), ErrNotFound)
}

func TestGetAllOrdersFavoritesFirst(t *testing.T) {
	repo := newTestRepository(t)
	base := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	older := NewNote("older", "")
	older.CreatedAt, older.UpdatedAt = base, base
	newer := NewNote("newer", "")
	newer.CreatedAt, newer.UpdatedAt = base.Add(time.Hour), base.Add(time.Hour)
	starred := NewNote("starred", "")
	starred.CreatedAt, starred.UpdatedAt = base.Add(-time.Hour), base.Add(-time.Hour)

	for _, n := range []*Note{older, newer, starred} {
		require.NoError(t, repo.Create(n))
	}
	require.NoError(t, repo.SetFavorite(starred.ID, true))

	all, err := repo.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "starred", all[0].Title)
	assert.True(t, all[0].Favorite)
	assert.Equal(t, "newer", all[1].Title)
	assert.Equal(t, "older", all[2].Title)

	assert.ErrorIs(t, repo.SetFavorite("missing", true), ErrNotFound)
}

func TestDeleteRemovesTags(t *testing.T) {
	repo := newTestRepository(t)
	n := NewNote("temp", "")
	n.AddTag("scratch")
	require.NoError(t, repo.Create(n))

	require.NoError(t, repo.Delete(n.ID))
	_, err := repo.GetByID(n.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	tags, err := repo.Tags()
	require.NoError(t, err)
	assert.Empty(t, tags)

	assert.ErrorIs(t, repo.Delete(n.ID), ErrNotFound)
}

func TestNotebooks(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.CreateNotebook("  ")
	assert.ErrorIs(t, err, ErrInvalid)

	work, err := repo.CreateNotebook("Work")
	require.NoError(t, err)
	_, err = repo.CreateNotebook("Home")
	require.NoError(t, err)

	n := NewNote("standup", "")
	n.NotebookID = work.ID
	require.NoError(t, repo.Create(n))

	notebooks, err := repo.GetNotebooks()
	require.NoError(t, err)
	require.Len(t, notebooks, 2)
	assert.Equal(t, "Home", notebooks[0].Name)
	assert.Equal(t, 0, notebooks[0].NoteCount)
	assert.Equal(t, "Work", notebooks[1].Name)
	assert.Equal(t, 1, notebooks[1].NoteCount)

	found, err := repo.FindNotebook("Work")
	require.NoError(t, err)
	assert.Equal(t, work.ID, found.ID)
	found, err = repo.FindNotebook(work.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work", found.Name)
	_, err = repo.FindNotebook("Garden")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.DeleteNotebook(work.ID))
	got, err := repo.GetByID(n.ID)
	require.NoError(t, err)
	assert.Empty(t, got.NotebookID, "note survives, detached")
}

func TestTagCounts(t *testing.T) {
	repo := newTestRepository(t)
	for _, tags := range [][]string{{"go", "db"}, {"go"}, {"ideas"}} {
		n := NewNote("n", "")
		for _, tag := range tags {
			n.AddTag(tag)
		}
		require.NoError(t, repo.Create(n))
	}

	tags, err := repo.Tags()
	require.NoError(t, err)
	assert.Equal(t, []TagCount{
		{Name: "go", Count: 2},
		{Name: "db", Count: 1},
		{Name: "ideas", Count: 1},
	}, tags)
}
