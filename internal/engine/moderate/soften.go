package moderate

import "regexp"

// moderationNote is appended whenever softening changed the text.
const moderationNote = "\n\n[Nota: Contenido moderado]"

type softenRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// softenRules tone down explicit violence, control language, possessiveness,
// and threats for critical content shown outside restricted mode.
var softenRules = []softenRule{
	{regexp.MustCompile(`(?i)\b(matar|mataré|matarte)\b`), "alejarme"},
	{regexp.MustCompile(`(?i)\b(destruir|destruiré)\b`), "afectar"},

	{regexp.MustCompile(`(?i)\bno quiero que\b`), "me gustaría que no"},
	{regexp.MustCompile(`(?i)\bno puedes\b`), "no deberías"},
	{regexp.MustCompile(`(?i)\bte prohíbo\b`), "preferiría que no"},

	{regexp.MustCompile(`(?i)\beres mío/a\b`), "eres muy importante para mí"},
	{regexp.MustCompile(`(?i)\bme perteneces\b`), "significas mucho para mí"},

	{regexp.MustCompile(`(?i)\bsi no\.\.\. entonces\b`), "espero que"},
}

// soften rewrites extreme language and reports whether anything changed.
func soften(response string) (string, bool) {
	softened := response
	for _, rule := range softenRules {
		softened = rule.pattern.ReplaceAllString(softened, rule.replacement)
	}

	if softened == response {
		return response, false
	}

	return softened + moderationNote, true
}
