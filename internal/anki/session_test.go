package anki

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSyncClient is a scriptable stand-in for the remote sync peer.
type fakeSyncClient struct {
	loginErr    error
	syncErr     error
	downloadErr error
	uploadErr   error

	requiresFull bool
	downloadData []byte

	loginCalls    int
	syncCalls     int
	downloadCalls int
	uploadCalls   int
	uploadedPath  string
}

func (f *fakeSyncClient) Login(_ context.Context, _, _, _ string) (AuthToken, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return AuthToken{}, f.loginErr
	}
	return AuthToken{HostKey: "host-key"}, nil
}

func (f *fakeSyncClient) SyncChanges(_ context.Context, _ string, _ AuthToken, _ string) (SyncResult, error) {
	f.syncCalls++
	if f.syncErr != nil {
		return SyncResult{}, f.syncErr
	}
	return SyncResult{RequiresFullDownload: f.requiresFull}, nil
}

func (f *fakeSyncClient) FullDownload(_ context.Context, _ string, _ AuthToken, path string) error {
	f.downloadCalls++
	if f.downloadErr != nil {
		return f.downloadErr
	}
	if f.downloadData != nil {
		return os.WriteFile(path, f.downloadData, 0o600)
	}
	return nil
}

func (f *fakeSyncClient) Upload(_ context.Context, _ string, _ AuthToken, path string) error {
	f.uploadCalls++
	f.uploadedPath = path
	return f.uploadErr
}

func testCreds() Credentials {
	return Credentials{
		Endpoint: "https://sync.example.com",
		Username: "alice",
		Password: "secret",
	}
}

// workingCopies lists ankibot working-copy files currently in the temp dir.
func workingCopies(t *testing.T) map[string]bool {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "ankibot_*.anki2"))
	require.NoError(t, err)
	set := make(map[string]bool, len(matches))
	for _, m := range matches {
		set[m] = true
	}
	return set
}

func TestSessionLifecycleSuccess(t *testing.T) {
	client := &fakeSyncClient{}

	sess, err := OpenSession(context.Background(), slog.Default(), client, testCreds())
	require.NoError(t, err)
	assert.Equal(t, StateSyncedInitial, sess.State())

	require.NoError(t, sess.AddCard("German", "der Hund", "dog"))
	require.NoError(t, sess.AddCard("German", "dog", "der Hund"))
	assert.Equal(t, StateSyncedInitial, sess.State())

	require.NoError(t, sess.Push(context.Background()))
	assert.Equal(t, StateSyncedFinal, sess.State())
	assert.Equal(t, 1, client.uploadCalls)
	assert.Equal(t, sess.Path(), client.uploadedPath)

	// Cards were flushed to the file the peer received.
	coll, err := OpenCollection(client.uploadedPath)
	require.NoError(t, err)
	count, err := coll.NoteCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.NoError(t, coll.Close())

	sess.Close()
	assert.Equal(t, StateClosed, sess.State())
	assert.NoFileExists(t, sess.Path())
}

func TestSessionAuthFailure(t *testing.T) {
	before := workingCopies(t)
	client := &fakeSyncClient{loginErr: errors.New("403 invalid credentials")}

	_, err := OpenSession(context.Background(), slog.Default(), client, testCreds())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoginFailed)

	// Authentication failure never reaches the transfer or mutate steps.
	assert.Equal(t, 0, client.syncCalls)
	assert.Equal(t, 0, client.downloadCalls)
	assert.Equal(t, 0, client.uploadCalls)

	// No working-copy file survives the failed session.
	assert.Equal(t, before, workingCopies(t))
}

func TestSessionPullFailure(t *testing.T) {
	before := workingCopies(t)
	client := &fakeSyncClient{syncErr: errors.New("connection refused")}

	_, err := OpenSession(context.Background(), slog.Default(), client, testCreds())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownloadFailed)
	assert.NotErrorIs(t, err, ErrUploadFailed)
	assert.Equal(t, before, workingCopies(t))
}

func TestSessionFullDownloadFailure(t *testing.T) {
	before := workingCopies(t)
	client := &fakeSyncClient{requiresFull: true, downloadErr: errors.New("short read")}

	_, err := OpenSession(context.Background(), slog.Default(), client, testCreds())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDownloadFailed)
	assert.Equal(t, 1, client.downloadCalls)
	assert.Equal(t, before, workingCopies(t))
}

func TestSessionPushFailure(t *testing.T) {
	client := &fakeSyncClient{uploadErr: errors.New("server unavailable")}

	sess, err := OpenSession(context.Background(), slog.Default(), client, testCreds())
	require.NoError(t, err)
	defer sess.Close()

	require.NoError(t, sess.AddCard("German", "der Hund", "dog"))

	err = sess.Push(context.Background())
	require.Error(t, err)

	// Push failure is a distinct outcome from pull failure: cards were
	// applied locally but never published.
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.NotErrorIs(t, err, ErrDownloadFailed)
	assert.Equal(t, StateFailed, sess.State())

	sess.Close()
	assert.NoFileExists(t, sess.Path())
}

func TestSessionAddCardOutsideLifecycle(t *testing.T) {
	client := &fakeSyncClient{}

	sess, err := OpenSession(context.Background(), slog.Default(), client, testCreds())
	require.NoError(t, err)
	defer sess.Close()

	require.NoError(t, sess.AddCard("German", "front", "back"))
	require.NoError(t, sess.Push(context.Background()))

	err = sess.AddCard("German", "front", "back")
	assert.ErrorIs(t, err, ErrInvalidState)

	err = sess.Push(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	client := &fakeSyncClient{}

	sess, err := OpenSession(context.Background(), slog.Default(), client, testCreds())
	require.NoError(t, err)

	sess.Close()
	sess.Close()
	assert.Equal(t, StateClosed, sess.State())
	assert.NoFileExists(t, sess.Path())
}

func TestSessionRemovesStaleFile(t *testing.T) {
	client := &fakeSyncClient{}

	sess, err := OpenSession(context.Background(), slog.Default(), client, testCreds())
	require.NoError(t, err)
	defer sess.Close()

	// A second session must never share the first session's path.
	other, err := OpenSession(context.Background(), slog.Default(), client, testCreds())
	require.NoError(t, err)
	defer other.Close()

	assert.NotEqual(t, sess.Path(), other.Path())
}
