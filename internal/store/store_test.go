package store

import (
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesDirectoryAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "notebook.db")

	db, err := Open(path)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('notes', 'notebooks', 'note_tags', 'focus_sessions')",
	).Scan(&count))
	assert.Equal(t, 4, count)

	_, err = db.Exec("INSERT INTO notebooks (id, name, created_at) VALUES ('nb', 'Work', ?)", FormatTime(time.Now()))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// reopening keeps existing data
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM notebooks").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestTimeRoundTrip(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	in := time.Date(2026, 1, 2, 3, 4, 5, 6, loc)

	out, err := ParseTime(FormatTime(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
	assert.Equal(t, time.UTC, out.Location())

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}

func TestFormattedTimesSortChronologically(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	times := []time.Time{
		base.Add(10 * time.Hour),
		base.Add(time.Nanosecond),
		base,
		base.Add(time.Second),
	}
	formatted := make([]string, len(times))
	for i, tm := range times {
		formatted[i] = FormatTime(tm)
	}
	sort.Strings(formatted)

	assert.Equal(t, []string{
		FormatTime(base),
		FormatTime(base.Add(time.Nanosecond)),
		FormatTime(base.Add(time.Second)),
		FormatTime(base.Add(10 * time.Hour)),
	}, formatted)
}
