package config

import "strconv"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig           `mapstructure:"server"      validate:"required"`
	Telegram    TelegramConfig         `mapstructure:"telegram"    validate:"required"`
	LLM         LLMConfig              `mapstructure:"llm"         validate:"required"`
	Translation TranslationConfig      `mapstructure:"translation" validate:"required"`
	Users       map[string]UserProfile `mapstructure:"users"       validate:"required,min=1,dive"`
}

// ServerConfig contains process-level settings: the health endpoint port and
// the log level.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// TelegramConfig contains Telegram transport settings.
type TelegramConfig struct {
	Token              string `mapstructure:"token"                validate:"required"`
	PollTimeoutSeconds int    `mapstructure:"poll_timeout_seconds" validate:"gte=0,lte=300"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"      validate:"required"`
	ModelName         string `mapstructure:"model_name"          validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
}

// TranslationConfig names the language pair every request is translated
// between, e.g. GERMAN -> ENGLISH.
type TranslationConfig struct {
	SourceLanguage string `mapstructure:"source_language" validate:"required"`
	TargetLanguage string `mapstructure:"target_language" validate:"required"`
}

// UserProfile is the per-requester Anki sync configuration. The map key in
// Config.Users is the requester's Telegram chat ID; absence of a key is the
// authorization boundary.
type UserProfile struct {
	SyncEndpoint string `mapstructure:"sync_endpoint" validate:"required,url"`
	Username     string `mapstructure:"username"      validate:"required"`
	Password     string `mapstructure:"password"      validate:"required"`
	Deck         string `mapstructure:"deck"          validate:"required"`
}

// Profile looks up the sync profile for a Telegram chat ID. The second
// return value is false for unknown (unauthorized) requesters.
func (c *Config) Profile(chatID int64) (UserProfile, bool) {
	profile, ok := c.Users[strconv.FormatInt(chatID, 10)]
	return profile, ok
}

// Profiles returns the user map re-keyed by numeric chat ID. Entries whose
// key is not a valid integer are skipped.
func (c *Config) Profiles() map[int64]UserProfile {
	out := make(map[int64]UserProfile, len(c.Users))
	for key, profile := range c.Users {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		out[id] = profile
	}
	return out
}
