package anki

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// defaultNotetype is the two-sided note type cards are built from when the
// collection has it.
const defaultNotetype = "Basic"

// schemaSQL bootstraps an empty working copy. Statements run one at a time,
// split on semicolons.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS decks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS notetypes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS notes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guid TEXT NOT NULL UNIQUE,
	notetype_id INTEGER NOT NULL REFERENCES notetypes(id),
	deck_id INTEGER NOT NULL REFERENCES decks(id),
	front TEXT NOT NULL,
	back TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)
`

// Collection is the local sqlite working copy of a remote collection. It is
// owned by exactly one Session and never shared.
type Collection struct {
	path string
	db   *sql.DB
}

// OpenCollection opens the working copy at path, creating the file and
// bootstrapping the schema when it does not exist yet. A freshly bootstrapped
// collection is seeded with the Basic note type, matching what a new Anki
// collection ships with; a downloaded collection keeps whatever note types
// the server sent.
func OpenCollection(path string) (*Collection, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection at %s: %w", path, err)
	}

	fresh, err := isFresh(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to bootstrap collection schema: %w", err)
		}
	}

	if fresh {
		if _, err := db.Exec(`INSERT INTO notetypes (name) VALUES (?)`, defaultNotetype); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to seed default note type: %w", err)
		}
	}

	return &Collection{path: path, db: db}, nil
}

// isFresh reports whether the database has no notetypes table yet, i.e. the
// file was just created rather than downloaded from the server.
func isFresh(db *sql.DB) (bool, error) {
	var name string
	err := db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'notetypes'`,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to inspect collection schema: %w", err)
	}
	return false, nil
}

// Path returns the file path backing the working copy.
func (c *Collection) Path() string {
	return c.path
}

// AddNote inserts a two-sided note into the named deck. The deck is created
// if absent. The Basic note type is preferred; when the collection lacks it,
// the first available note type is used, and ErrNoNotetype is returned when
// the collection has none at all.
func (c *Collection) AddNote(deck, front, back string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deckID, err := resolveDeck(tx, deck)
	if err != nil {
		return err
	}

	notetypeID, err := resolveNotetype(tx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		`INSERT INTO notes (guid, notetype_id, deck_id, front, back) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), notetypeID, deckID, front, back,
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}

	return tx.Commit()
}

// NoteCount reports the number of notes in the working copy.
func (c *Collection) NoteCount() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	return n, nil
}

// Close closes the underlying database handle, flushing pending writes to
// the backing file.
func (c *Collection) Close() error {
	return c.db.Close()
}

// resolveDeck returns the deck's ID, creating the deck when it is absent.
func resolveDeck(tx *sql.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM decks WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up deck %q: %w", name, err)
	}

	res, err := tx.Exec(`INSERT INTO decks (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to create deck %q: %w", name, err)
	}
	return res.LastInsertId()
}

// resolveNotetype returns the Basic note type's ID, falling back to the
// first available note type.
func resolveNotetype(tx *sql.Tx) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM notetypes WHERE name = ?`, defaultNotetype).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to look up note type: %w", err)
	}

	err = tx.QueryRow(`SELECT id FROM notetypes ORDER BY id LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoNotetype
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up fallback note type: %w", err)
	}
	return id, nil
}
