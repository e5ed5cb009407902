package anki

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCollection(t *testing.T) *Collection {
	t.Helper()
	coll, err := OpenCollection(filepath.Join(t.TempDir(), "collection.anki2"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = coll.Close() })
	return coll
}

// rawDB opens a second handle on the collection file so tests can reshape
// its contents directly.
func rawDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenCollectionBootstrapsFreshFile(t *testing.T) {
	t.Parallel()

	coll := openTestCollection(t)

	// A fresh collection ships with the Basic note type, so adding a card
	// works immediately.
	require.NoError(t, coll.AddNote("German", "der Hund", "dog"))

	count, err := coll.NoteCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddNoteCreatesDeckOnce(t *testing.T) {
	t.Parallel()

	coll := openTestCollection(t)

	require.NoError(t, coll.AddNote("German", "eins", "one"))
	require.NoError(t, coll.AddNote("German", "zwei", "two"))
	require.NoError(t, coll.AddNote("French", "un", "one"))

	db := rawDB(t, coll.Path())
	var decks int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM decks`).Scan(&decks))
	assert.Equal(t, 2, decks)

	var german int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM notes JOIN decks ON decks.id = notes.deck_id WHERE decks.name = ?`,
		"German",
	).Scan(&german))
	assert.Equal(t, 2, german)
}

func TestAddNoteFallsBackToFirstNotetype(t *testing.T) {
	t.Parallel()

	coll := openTestCollection(t)

	db := rawDB(t, coll.Path())
	_, err := db.Exec(`UPDATE notetypes SET name = 'Custom' WHERE name = 'Basic'`)
	require.NoError(t, err)

	assert.NoError(t, coll.AddNote("German", "front", "back"))
}

func TestAddNoteWithoutAnyNotetype(t *testing.T) {
	t.Parallel()

	coll := openTestCollection(t)

	db := rawDB(t, coll.Path())
	_, err := db.Exec(`DELETE FROM notetypes`)
	require.NoError(t, err)

	err = coll.AddNote("German", "front", "back")
	assert.ErrorIs(t, err, ErrNoNotetype)
}

func TestReopenDoesNotReseedNotetypes(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "collection.anki2")

	coll, err := OpenCollection(path)
	require.NoError(t, err)

	db := rawDB(t, path)
	_, err = db.Exec(`DELETE FROM notetypes`)
	require.NoError(t, err)
	require.NoError(t, coll.Close())

	// Reopening an existing collection keeps whatever the server sent,
	// even when that is no note types at all.
	reopened, err := OpenCollection(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	err = reopened.AddNote("German", "front", "back")
	assert.ErrorIs(t, err, ErrNoNotetype)
}
