package translation

import (
	"context"

	"github.com/phrazzld/ankibot/internal/domain"
)

// Translator defines the interface for producing a multi-sense translation
// of a short word or phrase. It is the boundary between the application core
// and the external language-analysis service; implementations live under
// internal/platform.
type Translator interface {
	// Translate analyzes the request text and returns a Translation whose
	// senses are validated and sanitized. The returned error wraps one of
	// the sentinel errors in errors.go when the failure kind is known.
	Translate(ctx context.Context, request string) (*domain.Translation, error)
}
