package gate

import (
	"strings"
	"unicode"

	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/robalyx/personaguard/internal/engine/rules"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ConsentMatch is the outcome of scanning a user message for consent.
type ConsentMatch struct {
	// IsConsent reports whether the message grants consent at all.
	IsConsent bool
	// Type distinguishes an exact checkpoint phrase from a generic
	// affirmative.
	Type enum.ConsentType
	// Behavior and ConsentKey are set for specific matches only. Generic
	// affirmatives must be resolved against the checkpoint the user was
	// prompted for.
	Behavior   enum.BehaviorType
	ConsentKey string
}

// genericAffirmatives are accepted as consent only in reply to an active
// consent prompt.
var genericAffirmatives = map[string]struct{}{
	"si":        {},
	"yes":       {},
	"acepto":    {},
	"consiento": {},
}

// normalizer strips diacritics so "SÍ" and "si" compare equal.
var normalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeConsentText lowercases, trims, and removes accents from a message
// for phrase comparison.
func normalizeConsentText(message string) string {
	normalized, _, err := transform.String(normalizer, message)
	if err != nil {
		normalized = message
	}

	return strings.ToLower(strings.TrimSpace(normalized))
}

// IsConsentMessage scans a message for a consent grant. Checkpoint phrases
// must match exactly after normalization; "CONSIENTO FASE 7" does not grant a
// phase 8 checkpoint. Anything else, including longer sentences containing a
// phrase, is not consent.
func (m *Manager) IsConsentMessage(message string) ConsentMatch {
	normalized := normalizeConsentText(message)
	if normalized == "" {
		return ConsentMatch{}
	}

	for behavior, rule := range m.rules.All() {
		if rule.ConsentPhrase == "" {
			continue
		}

		if normalized == normalizeConsentText(rule.ConsentPhrase) {
			return ConsentMatch{
				IsConsent:  true,
				Type:       enum.ConsentTypeSpecific,
				Behavior:   behavior,
				ConsentKey: rule.ConsentKey(behavior),
			}
		}
	}

	if _, ok := genericAffirmatives[normalized]; ok {
		return ConsentMatch{IsConsent: true, Type: enum.ConsentTypeGeneral}
	}

	return ConsentMatch{}
}

// ConsentKeyFor returns the ledger key for a behavior's checkpoint, empty
// when the behavior has none.
func (m *Manager) ConsentKeyFor(behavior enum.BehaviorType) string {
	rule, _ := m.rules.Lookup(behavior)
	if rule.CriticalPhase == 0 {
		return ""
	}

	return rule.ConsentKey(behavior)
}

// Rules exposes the manager's rule table.
func (m *Manager) Rules() *rules.Table {
	return m.rules
}
