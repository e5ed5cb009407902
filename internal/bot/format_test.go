package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/ankibot/internal/domain"
)

func hundSense() domain.Sense {
	return domain.Sense{
		Text:         "Hund",
		Type:         "noun",
		Label:        "animal",
		Article:      "der",
		Plural:       "Hunde",
		Translations: []string{"dog"},
		Example:      "Der Hund bellt.",
	}
}

func TestForwardCard(t *testing.T) {
	t.Parallel()

	sense := hundSense()
	front, back := forwardCard(&sense)

	assert.Contains(t, front, "Hund")
	assert.Contains(t, front, "der ")
	assert.Contains(t, front, "[noun, animal]")
	assert.Contains(t, back, "dog")
	assert.Contains(t, back, "Der Hund bellt.")
	assert.NotContains(t, front, "dog", "forward front must not spoil the answer")
}

func TestReverseCard(t *testing.T) {
	t.Parallel()

	sense := hundSense()
	front, back := reverseCard(&sense)

	assert.Contains(t, front, "dog")
	assert.Contains(t, front, "[noun, animal]")
	assert.Contains(t, back, "Hund")
	assert.Contains(t, back, "Der Hund bellt.")
	assert.NotContains(t, front, "Hund", "reverse front must not spoil the answer")
}

func TestCardsJoinMultipleTranslations(t *testing.T) {
	t.Parallel()

	sense := hundSense()
	sense.Translations = []string{"dog", "hound"}

	_, back := forwardCard(&sense)
	assert.Contains(t, back, "dog, hound")

	front, _ := reverseCard(&sense)
	assert.Contains(t, front, "dog, hound")
}

func TestForwardCardVerbForms(t *testing.T) {
	t.Parallel()

	sense := domain.Sense{
		Text:         "machen",
		Type:         "verb",
		Label:        "activity",
		VerbForms:    &domain.VerbForms{Praeteritum: "machte", Perfekt: "hat gemacht"},
		Translations: []string{"to make"},
		Example:      "Ich mache das.",
	}

	front, _ := forwardCard(&sense)
	assert.Contains(t, front, "machen (machte, hat gemacht)")
	assert.NotContains(t, front, "der ")
}

func TestFormatTranslation(t *testing.T) {
	t.Parallel()

	tr := &domain.Translation{Request: "Hund", Senses: []domain.Sense{hundSense()}}

	text := formatTranslation(tr, "GERMAN")

	assert.Contains(t, text, "🇩🇪 Translation for *Hund*")
	assert.Contains(t, text, "*der Hund* (pl. Hunde) \\[noun, animal]")
	assert.Contains(t, text, "dog")
	assert.Contains(t, text, "💬 _Der Hund bellt._")
}

func TestFormatTranslationUnknownLanguageHasNoFlag(t *testing.T) {
	t.Parallel()

	tr := &domain.Translation{Request: "sana", Senses: []domain.Sense{hundSense()}}

	text := formatTranslation(tr, "FINNISH")
	assert.Contains(t, text, "Translation for *sana*")
	assert.NotContains(t, text, "🇩🇪")
}

func TestFormatTranslationMultipleSenses(t *testing.T) {
	t.Parallel()

	castle := domain.Sense{
		Text: "Schloss", Type: "noun", Label: "building",
		Article: "das", Translations: []string{"castle"},
		Example: "Das Schloss steht auf dem Berg.",
	}
	lock := domain.Sense{
		Text: "Schloss", Type: "noun", Label: "mechanism",
		Article: "das", Translations: []string{"lock"},
		Example: "Das Schloss ist verrostet.",
	}
	tr := &domain.Translation{Request: "Schloss", Senses: []domain.Sense{castle, lock}}

	text := formatTranslation(tr, "GERMAN")
	assert.Contains(t, text, "castle")
	assert.Contains(t, text, "lock")
	assert.Contains(t, text, "building")
	assert.Contains(t, text, "mechanism")
}
