package translation

import "errors"

// Common errors returned by Translator implementations
var (
	// ErrTranslationFailed is returned when translation fails for any general reason
	ErrTranslationFailed = errors.New("failed to translate request")

	// ErrInvalidResponse is returned when the model response cannot be parsed,
	// is missing required fields, or contains an empty translation list
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model refuses the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during translation")

	// ErrInvalidConfig is returned when the translator configuration is invalid
	ErrInvalidConfig = errors.New("invalid translator configuration")
)
