package bot

import (
	"context"

	"github.com/phrazzld/ankibot/internal/anki"
)

// Session is the slice of the anki session lifecycle the orchestrator
// drives: add cards, push, release. Opening (acquire, authenticate, pull)
// happens in the SessionFactory.
type Session interface {
	// AddCard inserts a two-sided card into the named deck of the working copy.
	AddCard(deck, front, back string) error

	// Push syncs local mutations back to the server.
	Push(ctx context.Context) error

	// Close releases all local session resources. Idempotent, never fails.
	Close()
}

// SessionFactory opens a sync session for the given account. The returned
// session is exclusively owned by the caller, which must Close it on every
// path. *anki.Session satisfies the Session interface.
type SessionFactory func(ctx context.Context, creds anki.Credentials) (Session, error)
