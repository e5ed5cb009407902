package bot

import (
	"fmt"
	"strings"

	"github.com/phrazzld/ankibot/internal/domain"
)

// languageFlags maps upper-case language names to flag emoji shown in front
// of the translation header.
var languageFlags = map[string]string{
	"GERMAN":    "🇩🇪",
	"ENGLISH":   "🇬🇧",
	"UKRAINIAN": "🇺🇦",
	"FRENCH":    "🇫🇷",
	"SPANISH":   "🇪🇸",
}

// formatArticle renders an article prefix (e.g. "der ").
func formatArticle(article string) string {
	if article == "" {
		return ""
	}
	return article + " "
}

// formatVerbForms renders conjugation forms (e.g. " (machte, hat gemacht)").
func formatVerbForms(forms *domain.VerbForms) string {
	if forms == nil {
		return ""
	}
	return fmt.Sprintf(" (%s, %s)", forms.Praeteritum, forms.Perfekt)
}

// formatPlural renders a plural suffix (e.g. " (pl. Hunde)").
func formatPlural(plural string) string {
	if plural == "" {
		return ""
	}
	return fmt.Sprintf(" (pl. %s)", plural)
}

// formatLabel renders the type/label tag (e.g. " \[noun, animal]"). The
// opening bracket is escaped so Telegram does not treat it as a link.
func formatLabel(wordType, label string) string {
	if label == "" {
		return ""
	}
	prefix := ""
	if wordType != "" {
		prefix = wordType + ", "
	}
	return fmt.Sprintf(" \\[%s%s]", prefix, label)
}

// formatTranslation renders the complete multi-sense breakdown as Telegram
// Markdown. Pure function of its inputs.
func formatTranslation(tr *domain.Translation, sourceLanguage string) string {
	flag := languageFlags[strings.ToUpper(sourceLanguage)]
	if flag != "" {
		flag += " "
	}

	lines := []string{fmt.Sprintf("%sTranslation for *%s*\n", flag, tr.Request)}

	for i := range tr.Senses {
		sense := &tr.Senses[i]
		lines = append(lines,
			fmt.Sprintf("*%s%s*%s%s%s",
				formatArticle(sense.Article),
				sense.Text,
				formatVerbForms(sense.VerbForms),
				formatPlural(sense.Plural),
				formatLabel(sense.Type, sense.Label)),
			strings.Join(sense.Translations, ", "),
			fmt.Sprintf("💬 _%s_\n", sense.Example),
		)
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// forwardCard builds the source-to-target card for a sense. Card content is
// Anki HTML.
func forwardCard(sense *domain.Sense) (front, back string) {
	front = fmt.Sprintf("%s%s%s<br><br><i>[%s, %s]</i>",
		formatArticle(sense.Article),
		sense.Text,
		formatVerbForms(sense.VerbForms),
		sense.Type,
		sense.Label)
	back = fmt.Sprintf("%s<br><br><i>%s</i>",
		strings.Join(sense.Translations, ", "),
		sense.Example)
	return front, back
}

// reverseCard builds the target-to-source card for a sense.
func reverseCard(sense *domain.Sense) (front, back string) {
	front = fmt.Sprintf("%s<br><br><i>[%s, %s]</i>",
		strings.Join(sense.Translations, ", "),
		sense.Type,
		sense.Label)
	back = fmt.Sprintf("%s%s%s<br><br><i>%s</i>",
		formatArticle(sense.Article),
		sense.Text,
		formatVerbForms(sense.VerbForms),
		sense.Example)
	return front, back
}
