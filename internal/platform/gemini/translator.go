package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/phrazzld/ankibot/internal/config"
	"github.com/phrazzld/ankibot/internal/domain"
	"github.com/phrazzld/ankibot/internal/translation"
)

//go:embed prompt.tmpl
var promptTemplateText string

// Translator implements the translation.Translator interface using Google's
// Gemini API. The model is asked for JSON and its reply is validated and
// sanitized before anything leaves this package.
type Translator struct {
	logger         *slog.Logger
	llm            config.LLMConfig
	langs          config.TranslationConfig
	promptTemplate *template.Template
	client         *genai.Client
}

// NewTranslator creates a Translator with the provided dependencies.
// Returns an error wrapping translation.ErrInvalidConfig when required
// configuration is missing or the client cannot be created.
func NewTranslator(
	ctx context.Context,
	logger *slog.Logger,
	llm config.LLMConfig,
	langs config.TranslationConfig,
) (*Translator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if llm.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", translation.ErrInvalidConfig)
	}

	if llm.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", translation.ErrInvalidConfig)
	}

	if langs.SourceLanguage == "" || langs.TargetLanguage == "" {
		return nil, fmt.Errorf("%w: source and target languages cannot be empty", translation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("translate").Parse(promptTemplateText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", translation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  llm.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", translation.ErrInvalidConfig, err)
	}

	return &Translator{
		logger:         logger.With(slog.String("component", "gemini_translator")),
		llm:            llm,
		langs:          langs,
		promptTemplate: promptTemplate,
		client:         client,
	}, nil
}

// Translate implements translation.Translator.
func (t *Translator) Translate(ctx context.Context, request string) (*domain.Translation, error) {
	prompt, err := t.buildPrompt(request)
	if err != nil {
		return nil, err
	}

	t.logger.InfoContext(ctx, "translating request", "request", request)

	schema, err := t.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, err := parseResponse(request, schema)
	if err != nil {
		return nil, err
	}

	t.logger.InfoContext(ctx, "translation complete",
		"request", request,
		"senses", len(result.Senses))
	return result, nil
}

// buildPrompt renders the prompt template for the request.
func (t *Translator) buildPrompt(request string) (string, error) {
	if strings.TrimSpace(request) == "" {
		return "", fmt.Errorf("%w: request text cannot be empty", translation.ErrTranslationFailed)
	}

	var buf bytes.Buffer
	err := t.promptTemplate.Execute(&buf, promptData{
		SourceLanguage: t.langs.SourceLanguage,
		TargetLanguage: t.langs.TargetLanguage,
		Request:        request,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return buf.String(), nil
}

// callWithRetry calls the Gemini API with exponential backoff and jitter for
// transient errors. Permanent errors (blocked content, malformed replies)
// are returned immediately.
func (t *Translator) callWithRetry(ctx context.Context, prompt string) (*responseSchema, error) {
	maxRetries := t.llm.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseDelaySeconds := t.llm.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		t.logger.DebugContext(ctx, "calling Gemini API",
			"model", t.llm.ModelName,
			"attempt", attempt+1,
			"max_attempts", maxRetries+1)

		schema, transient, err := t.generate(ctx, prompt)
		if err == nil {
			return schema, nil
		}

		t.logger.WarnContext(ctx, "Gemini API call failed",
			"attempt", attempt+1,
			"transient", transient,
			"error", err)

		if !transient {
			return nil, err
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w: exceeded %d attempts: %v",
				translation.ErrTransientFailure, maxRetries+1, err)
		}

		// delay = baseDelay * 2^attempt * (0.5 + rand(0, 0.5))
		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitter := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoff * jitter * float64(time.Second))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", translation.ErrTransientFailure, ctx.Err())
		}
	}
}

// generate makes a single API call and decodes the JSON reply. The second
// return value reports whether the failure is worth retrying.
func (t *Translator) generate(ctx context.Context, prompt string) (*responseSchema, bool, error) {
	resp, err := t.client.Models.GenerateContent(ctx, t.llm.ModelName,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return nil, true, fmt.Errorf("gemini API call failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return nil, false, fmt.Errorf("%w: no content generated", translation.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return nil, false, translation.ErrContentBlocked
	}

	text := resp.Text()
	if text == "" {
		return nil, false, fmt.Errorf("%w: empty reply", translation.ErrInvalidResponse)
	}

	var schema responseSchema
	if err := json.Unmarshal([]byte(text), &schema); err != nil {
		return nil, false, fmt.Errorf("%w: failed to parse JSON reply: %v", translation.ErrInvalidResponse, err)
	}

	return &schema, false, nil
}

// parseResponse converts the model reply into a validated, sanitized domain
// Translation. One invalid context rejects the whole reply.
func parseResponse(request string, schema *responseSchema) (*domain.Translation, error) {
	if schema == nil || len(schema.Contexts) == 0 {
		return nil, fmt.Errorf("%w: reply has no contexts", translation.ErrInvalidResponse)
	}

	senses := make([]domain.Sense, 0, len(schema.Contexts))
	for i, ctx := range schema.Contexts {
		sense := domain.Sense{
			Text:         ctx.Text,
			Type:         ctx.Type,
			Label:        ctx.Label,
			Article:      ctx.Article,
			Plural:       ctx.Plural,
			Translations: ctx.Translations,
			Example:      ctx.Example,
		}
		if ctx.VerbForms != nil {
			sense.VerbForms = &domain.VerbForms{
				Praeteritum: ctx.VerbForms.Praeteritum,
				Perfekt:     ctx.VerbForms.Perfekt,
			}
		}

		if err := sense.Validate(); err != nil {
			return nil, fmt.Errorf("%w: context %d: %v", translation.ErrInvalidResponse, i, err)
		}

		// Sanitize after validation so stripped markup cannot empty a field
		// unnoticed.
		sense.Sanitize()
		senses = append(senses, sense)
	}

	result, err := domain.NewTranslation(request, senses)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", translation.ErrInvalidResponse, err)
	}
	return result, nil
}
