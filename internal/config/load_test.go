package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
server:
  port: 9090
  log_level: debug
telegram:
  token: "123456:test-token"
  poll_timeout_seconds: 25
llm:
  gemini_api_key: test-key
  model_name: gemini-2.0-flash
translation:
  source_language: GERMAN
  target_language: ENGLISH
users:
  "123456789":
    sync_endpoint: https://sync.example.com
    username: alice
    password: secret
    deck: German
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFileValid(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromFile(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "123456:test-token", cfg.Telegram.Token)
	assert.Equal(t, 25, cfg.Telegram.PollTimeoutSeconds)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ModelName)
	assert.Equal(t, 3, cfg.LLM.MaxRetries, "default applies when unset")
	assert.Equal(t, "GERMAN", cfg.Translation.SourceLanguage)

	profile, ok := cfg.Profile(123456789)
	require.True(t, ok)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "German", profile.Deck)

	_, ok = cfg.Profile(42)
	assert.False(t, ok)
}

func TestLoadFromFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing telegram token",
			yaml: `
server: {port: 8080, log_level: info}
telegram: {poll_timeout_seconds: 30}
llm: {gemini_api_key: k, model_name: m}
translation: {source_language: GERMAN, target_language: ENGLISH}
users:
  "1": {sync_endpoint: https://s.example.com, username: u, password: p, deck: d}
`,
		},
		{
			name: "no users",
			yaml: `
server: {port: 8080, log_level: info}
telegram: {token: t}
llm: {gemini_api_key: k, model_name: m}
translation: {source_language: GERMAN, target_language: ENGLISH}
users: {}
`,
		},
		{
			name: "bad sync endpoint",
			yaml: `
server: {port: 8080, log_level: info}
telegram: {token: t}
llm: {gemini_api_key: k, model_name: m}
translation: {source_language: GERMAN, target_language: ENGLISH}
users:
  "1": {sync_endpoint: "not a url", username: u, password: p, deck: d}
`,
		},
		{
			name: "bad log level",
			yaml: `
server: {port: 8080, log_level: loud}
telegram: {token: t}
llm: {gemini_api_key: k, model_name: m}
translation: {source_language: GERMAN, target_language: ENGLISH}
users:
  "1": {sync_endpoint: https://s.example.com, username: u, password: p, deck: d}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFromFile(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestProfilesSkipsNonNumericKeys(t *testing.T) {
	t.Parallel()

	cfg := &Config{Users: map[string]UserProfile{
		"123":    {Username: "alice"},
		"oops":   {Username: "bob"},
		"-99999": {Username: "carol"},
	}}

	profiles := cfg.Profiles()
	assert.Len(t, profiles, 2)
	assert.Equal(t, "alice", profiles[123].Username)
	assert.Equal(t, "carol", profiles[-99999].Username)
}
