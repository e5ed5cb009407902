package anki

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// State is a session's position in the sync lifecycle.
type State string

// Session lifecycle states. Failed is reachable from any non-terminal state;
// Closed is always the final state regardless of outcome.
const (
	StateCreated       State = "created"
	StateAuthenticated State = "authenticated"
	StateSyncedInitial State = "synced_initial"
	StateMutating      State = "mutating"
	StateSyncedFinal   State = "synced_final"
	StateFailed        State = "failed"
	StateClosed        State = "closed"
)

// Credentials identify one user's account on a sync server.
type Credentials struct {
	Endpoint string
	Username string
	Password string
}

// Session is a scoped handle to one remote collection. It is exclusively
// owned by the call that opened it and must never be shared across
// concurrent activations. Callers must Close the session on every path;
// Close is idempotent.
type Session struct {
	logger *slog.Logger
	client SyncClient
	creds  Credentials

	path   string
	auth   AuthToken
	coll   *Collection
	state  State
	closed bool
}

// OpenSession acquires a uniquely named local working copy, authenticates
// with the sync server and pulls the remote collection into it. On any
// failure the partially acquired resources are released before returning;
// on success the caller owns the session and must Close it.
func OpenSession(ctx context.Context, logger *slog.Logger, client SyncClient, creds Credentials) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		logger: logger.With(slog.String("component", "anki_session")),
		client: client,
		creds:  creds,
		state:  StateCreated,
	}

	if err := s.acquire(); err != nil {
		s.Close()
		return nil, err
	}

	if err := s.authenticate(ctx); err != nil {
		s.Close()
		return nil, err
	}

	if err := s.pull(ctx); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Path returns the working copy's file path.
func (s *Session) Path() string {
	return s.path
}

// acquire allocates a unique working-copy path in the temp directory and
// removes any stale file occupying it.
func (s *Session) acquire() error {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	s.path = filepath.Join(os.TempDir(), fmt.Sprintf("ankibot_%s.anki2", suffix))

	s.logger.Debug("acquiring working copy", "path", s.path)

	if _, err := os.Stat(s.path); err == nil {
		s.logger.Debug("removing stale working copy", "path", s.path)
		if err := os.Remove(s.path); err != nil {
			s.fail()
			return fmt.Errorf("failed to remove stale working copy %s: %w", s.path, err)
		}
	}

	return nil
}

// authenticate presents the credentials to the server and stores the opaque
// host key for the rest of the session.
func (s *Session) authenticate(ctx context.Context) error {
	auth, err := s.client.Login(ctx, s.creds.Endpoint, s.creds.Username, s.creds.Password)
	if err != nil {
		s.fail()
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	s.auth = auth
	s.state = StateAuthenticated
	s.logger.Info("authenticated with sync server", "endpoint", s.creds.Endpoint)
	return nil
}

// pull brings the working copy up to date with the server, downloading the
// full collection when the server cannot merge incrementally, then opens it.
func (s *Session) pull(ctx context.Context) error {
	result, err := s.client.SyncChanges(ctx, s.creds.Endpoint, s.auth, s.path)
	if err != nil {
		s.fail()
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	if result.RequiresFullDownload {
		s.logger.Debug("performing full download", "path", s.path)
		if err := s.client.FullDownload(ctx, s.creds.Endpoint, s.auth, s.path); err != nil {
			s.fail()
			return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
		}
	}

	coll, err := OpenCollection(s.path)
	if err != nil {
		s.fail()
		return fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	s.coll = coll
	s.state = StateSyncedInitial
	s.logger.Info("collection pulled from server", "endpoint", s.creds.Endpoint)
	return nil
}

// AddCard inserts a two-sided card into the named deck of the working copy.
// Cards are applied one at a time; a failure leaves earlier cards in place
// locally. Only valid between pull and push.
func (s *Session) AddCard(deck, front, back string) error {
	if s.state != StateSyncedInitial {
		return fmt.Errorf("%w: state %s", ErrInvalidState, s.state)
	}

	s.state = StateMutating
	if err := s.coll.AddNote(deck, front, back); err != nil {
		s.fail()
		return err
	}

	s.state = StateSyncedInitial
	s.logger.Debug("card added", "deck", deck)
	return nil
}

// Push flushes the working copy and syncs it back to the server. After a
// failed push, cards added during the session exist locally but were never
// published; callers must surface that distinction.
func (s *Session) Push(ctx context.Context) error {
	if s.state != StateSyncedInitial {
		return fmt.Errorf("%w: state %s", ErrInvalidState, s.state)
	}

	// Close the collection first so every write reaches the backing file.
	if err := s.coll.Close(); err != nil {
		s.coll = nil
		s.fail()
		return fmt.Errorf("%w: failed to flush working copy: %v", ErrUploadFailed, err)
	}
	s.coll = nil

	if err := s.client.Upload(ctx, s.creds.Endpoint, s.auth, s.path); err != nil {
		s.fail()
		return fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	s.state = StateSyncedFinal
	s.logger.Info("collection synced to server", "endpoint", s.creds.Endpoint)
	return nil
}

// Close releases all local resources: the open collection handle and the
// backing file. It runs its cleanup exactly once, never returns an error,
// and logs (rather than raises) failures so cleanup cannot mask the error
// that led here.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true

	if s.coll != nil {
		if err := s.coll.Close(); err != nil {
			s.logger.Error("failed to close working copy", "path", s.path, "error", err)
		}
		s.coll = nil
	}

	if s.path != "" {
		if _, err := os.Stat(s.path); err == nil {
			if err := os.Remove(s.path); err != nil {
				s.logger.Error("failed to delete working copy", "path", s.path, "error", err)
			}
		}
	}

	s.state = StateClosed
}

// fail marks the session failed. The terminal Closed state is still reached
// through Close.
func (s *Session) fail() {
	s.state = StateFailed
}
