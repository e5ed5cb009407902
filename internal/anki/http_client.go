package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// defaultRequestTimeout bounds every individual call to the sync server.
const defaultRequestTimeout = 30 * time.Second

// HTTPSyncClient talks to an Anki-compatible sync server over JSON/HTTP.
// It is stateless: endpoint and credentials are supplied per call, so one
// client instance serves every session in the process.
type HTTPSyncClient struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPSyncClient creates a sync client. A nil httpClient gets a default
// with a 30 second timeout.
func NewHTTPSyncClient(logger *slog.Logger, httpClient *http.Client) *HTTPSyncClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPSyncClient{
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "sync_client")),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Key string `json:"key"`
}

type syncChangesResponse struct {
	RequiresFullDownload bool `json:"requires_full_download"`
}

// Login authenticates and returns the server-issued host key.
func (c *HTTPSyncClient) Login(ctx context.Context, endpoint, username, password string) (AuthToken, error) {
	var resp loginResponse
	err := c.postJSON(ctx, endpoint, "/sync/hostKey", "", loginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return AuthToken{}, err
	}

	if resp.Key == "" {
		return AuthToken{}, fmt.Errorf("sync server returned an empty host key")
	}

	c.logger.Debug("authenticated with sync server", "endpoint", endpoint)
	return AuthToken{HostKey: resp.Key}, nil
}

// SyncChanges asks the server for an incremental sync of the working copy.
func (c *HTTPSyncClient) SyncChanges(ctx context.Context, endpoint string, auth AuthToken, path string) (SyncResult, error) {
	var resp syncChangesResponse
	if err := c.postJSON(ctx, endpoint, "/sync/start", auth.HostKey, struct{}{}, &resp); err != nil {
		return SyncResult{}, err
	}

	c.logger.Debug("incremental sync negotiated",
		"endpoint", endpoint,
		"requires_full_download", resp.RequiresFullDownload)
	return SyncResult{RequiresFullDownload: resp.RequiresFullDownload}, nil
}

// FullDownload replaces the working copy at path with the server's collection.
func (c *HTTPSyncClient) FullDownload(ctx context.Context, endpoint string, auth AuthToken, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(endpoint, "/sync/download"), nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}
	req.Header.Set("Authorization", auth.HostKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read downloaded collection: %w", err)
	}

	if err := os.WriteFile(path, body, 0o600); err != nil {
		return fmt.Errorf("failed to write downloaded collection: %w", err)
	}

	c.logger.Debug("full collection downloaded", "endpoint", endpoint, "bytes", len(body))
	return nil
}

// Upload pushes the working copy at path back to the server.
func (c *HTTPSyncClient) Upload(ctx context.Context, endpoint string, auth AuthToken, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read collection for upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(endpoint, "/sync/upload"), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", auth.HostKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload request failed with status %d", resp.StatusCode)
	}

	c.logger.Debug("collection uploaded", "endpoint", endpoint, "bytes", len(data))
	return nil
}

// postJSON posts a JSON payload and decodes a JSON response. hostKey is sent
// as the Authorization header when non-empty.
func (c *HTTPSyncClient) postJSON(ctx context.Context, endpoint, path, hostKey string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(endpoint, path), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if hostKey != "" {
		req.Header.Set("Authorization", hostKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request to %s failed with status %d", path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}

	return nil
}

func joinURL(endpoint, path string) string {
	return strings.TrimRight(strings.TrimSpace(endpoint), "/") + path
}
