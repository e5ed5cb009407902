package anki

import "errors"

// Sync session errors. The phase distinction matters to callers: an upload
// failure after successful mutation means cards exist locally but were never
// published, which is a different user-visible outcome than an early login
// failure where nothing happened at all.
var (
	// ErrLoginFailed is returned when authentication with the sync server fails.
	ErrLoginFailed = errors.New("could not authenticate with sync server")

	// ErrDownloadFailed is returned when the collection cannot be fetched from
	// the sync server.
	ErrDownloadFailed = errors.New("could not fetch collection from sync server")

	// ErrUploadFailed is returned when local changes cannot be synced back to
	// the sync server. Cards added during the session remain local-only.
	ErrUploadFailed = errors.New("could not sync collection back to sync server")

	// ErrNoNotetype is returned when the collection has no note types at all,
	// so no card can be constructed.
	ErrNoNotetype = errors.New("no note types available in collection")

	// ErrInvalidState is returned when a session operation is called outside
	// its allowed lifecycle state.
	ErrInvalidState = errors.New("sync session is not in a valid state for this operation")
)
