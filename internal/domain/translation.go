package domain

import (
	"errors"
	"strings"
)

// Sense-specific validation errors
var (
	// ErrSenseTextEmpty is returned when a sense has no surface form.
	ErrSenseTextEmpty = errors.New("sense text cannot be empty")

	// ErrSenseTypeEmpty is returned when a sense has no word type.
	ErrSenseTypeEmpty = errors.New("sense type cannot be empty")

	// ErrSenseLabelEmpty is returned when a sense has no category label.
	ErrSenseLabelEmpty = errors.New("sense label cannot be empty")

	// ErrSenseExampleEmpty is returned when a sense has no example sentence.
	ErrSenseExampleEmpty = errors.New("sense example cannot be empty")

	// ErrNoTranslations is returned when a sense has an empty translation list.
	ErrNoTranslations = errors.New("sense must have at least one translation")

	// ErrEmptyTranslation is returned when a translation list item is empty.
	ErrEmptyTranslation = errors.New("translation items cannot be empty")

	// ErrNoSenses is returned when a translation result has no senses.
	ErrNoSenses = errors.New("translation must have at least one sense")

	// ErrRequestEmpty is returned when the original request text is empty.
	ErrRequestEmpty = errors.New("translation request cannot be empty")
)

// markupBreaking holds the characters stripped by Sanitize. They break
// Telegram Markdown or Anki HTML when they appear in model output.
const markupBreaking = "*_`[]<>&"

// Sanitize removes markup-breaking characters from model output. Downstream
// renderers (Telegram Markdown, Anki card HTML) do not escape field content,
// so these characters must never leave the translation boundary.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(markupBreaking, r) {
			return -1
		}
		return r
	}, s)
}

// VerbForms holds German verb conjugation forms (Praeteritum and Perfekt).
type VerbForms struct {
	Praeteritum string `json:"praeteritum"`
	Perfekt     string `json:"perfekt"`
}

// Sense represents one distinct meaning of a translated word or phrase,
// together with the metadata needed to render it as a flashcard: article and
// plural for nouns, conjugation forms for German verbs, target-language
// translations, and an example sentence demonstrating this specific meaning.
type Sense struct {
	Text         string     `json:"text"`
	Type         string     `json:"type"`
	Label        string     `json:"label"`
	Article      string     `json:"article,omitempty"`
	Plural       string     `json:"plural,omitempty"`
	VerbForms    *VerbForms `json:"verb_forms,omitempty"`
	Translations []string   `json:"translations"`
	Example      string     `json:"example"`
}

// Validate checks that all required sense fields are non-empty after
// trimming and that the translation list has at least one non-empty item.
func (s *Sense) Validate() error {
	if strings.TrimSpace(s.Text) == "" {
		return ErrSenseTextEmpty
	}

	if strings.TrimSpace(s.Type) == "" {
		return ErrSenseTypeEmpty
	}

	if strings.TrimSpace(s.Label) == "" {
		return ErrSenseLabelEmpty
	}

	if strings.TrimSpace(s.Example) == "" {
		return ErrSenseExampleEmpty
	}

	if len(s.Translations) == 0 {
		return ErrNoTranslations
	}

	for _, t := range s.Translations {
		if strings.TrimSpace(t) == "" {
			return ErrEmptyTranslation
		}
	}

	return nil
}

// Sanitize strips markup-breaking characters from every textual field of the
// sense, including optional fields and the translation list.
func (s *Sense) Sanitize() {
	s.Text = Sanitize(s.Text)
	s.Type = Sanitize(s.Type)
	s.Label = Sanitize(s.Label)
	s.Article = Sanitize(s.Article)
	s.Plural = Sanitize(s.Plural)
	s.Example = Sanitize(s.Example)

	for i, t := range s.Translations {
		s.Translations[i] = Sanitize(t)
	}

	if s.VerbForms != nil {
		s.VerbForms.Praeteritum = Sanitize(s.VerbForms.Praeteritum)
		s.VerbForms.Perfekt = Sanitize(s.VerbForms.Perfekt)
	}
}

// Translation is the complete result of analyzing one request: the original
// request text and an ordered list of distinct senses, most frequent first.
// A Translation is immutable once constructed and safe for shared reads.
type Translation struct {
	Request string  `json:"request"`
	Senses  []Sense `json:"senses"`
}

// NewTranslation creates a validated Translation from a request and its
// senses. Every sense is validated; a single invalid sense rejects the whole
// result. Returns an error if validation fails.
func NewTranslation(request string, senses []Sense) (*Translation, error) {
	if strings.TrimSpace(request) == "" {
		return nil, ErrRequestEmpty
	}

	if len(senses) == 0 {
		return nil, ErrNoSenses
	}

	for i := range senses {
		if err := senses[i].Validate(); err != nil {
			return nil, err
		}
	}

	return &Translation{Request: request, Senses: senses}, nil
}
