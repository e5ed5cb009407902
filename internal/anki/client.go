package anki

import "context"

// AuthToken is the opaque credential obtained from the sync server on login
// and presented on every subsequent call.
type AuthToken struct {
	HostKey string
}

// SyncResult reports the outcome of an incremental sync request.
type SyncResult struct {
	// RequiresFullDownload is set when the server cannot merge incrementally
	// and the local copy must be replaced wholesale.
	RequiresFullDownload bool
}

// SyncClient is the boundary to the remote sync peer. Implementations are
// stateless and safe to share across concurrent sessions; all per-session
// state (credentials, working-copy path) is passed explicitly.
type SyncClient interface {
	// Login authenticates against the server and returns an opaque credential.
	Login(ctx context.Context, endpoint, username, password string) (AuthToken, error)

	// SyncChanges requests an incremental sync for the working copy at path.
	SyncChanges(ctx context.Context, endpoint string, auth AuthToken, path string) (SyncResult, error)

	// FullDownload replaces the working copy at path with the server's copy.
	// Invoked only when SyncChanges reported RequiresFullDownload.
	FullDownload(ctx context.Context, endpoint string, auth AuthToken, path string) error

	// Upload pushes the working copy at path back to the server.
	Upload(ctx context.Context, endpoint string, auth AuthToken, path string) error
}
