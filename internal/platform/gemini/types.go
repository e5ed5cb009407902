// Package gemini implements the translation.Translator interface using
// Google's Gemini API.
package gemini

// promptData represents the data passed to the prompt template
type promptData struct {
	SourceLanguage string
	TargetLanguage string
	Request        string
}

// responseSchema represents the expected structure of the model's JSON reply
type responseSchema struct {
	// Contexts is the list of distinct meanings, most frequent first
	Contexts []contextSchema `json:"contexts"`
}

// contextSchema represents a single meaning/context in the model reply
type contextSchema struct {
	// Text is the word or phrase with corrected spelling
	Text string `json:"text"`

	// Type is the grammatical class (noun, verb, adjective, ...)
	Type string `json:"type"`

	// Label is a vague category hint that must not spoil the answer
	Label string `json:"label"`

	// Article is der/die/das for German nouns, empty otherwise
	Article string `json:"article"`

	// Plural is the plural form for simple nouns, empty otherwise
	Plural string `json:"plural"`

	// VerbForms holds conjugation forms for German verbs, nil otherwise
	VerbForms *verbFormsSchema `json:"verb_forms"`

	// Translations are the target-language translations for this meaning
	Translations []string `json:"translations"`

	// Example demonstrates this specific meaning in the source language
	Example string `json:"example"`
}

// verbFormsSchema holds German conjugation forms in the model reply
type verbFormsSchema struct {
	Praeteritum string `json:"praeteritum"`
	Perfekt     string `json:"perfekt"`
}
