package trigger

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/robalyx/personaguard/internal/database/types/enum"
)

// Message carries everything a matcher may inspect about an incoming user
// message.
type Message struct {
	// Text is the raw message content.
	Text string
	// LastMessageAt is when the previous message in the conversation was
	// sent, zero when there is no history.
	LastMessageAt time.Time
	// ReceivedAt is when this message arrived.
	ReceivedAt time.Time
}

// Match is one detected trigger. A matcher emits at most one match per
// trigger type per message.
type Match struct {
	Type       enum.TriggerType
	Weight     float64
	Confidence float64
	Excerpt    string
}

// Matcher inspects a message for one trigger type. Implementations must be
// safe for concurrent use.
type Matcher interface {
	Type() enum.TriggerType
	Match(msg Message) []Match
}

// patternMatcher detects a trigger by running ordered regex patterns against
// the message text.
type patternMatcher struct {
	triggerType enum.TriggerType
	patterns    []*regexp.Regexp
	// filter rejects a raw match before it is emitted, nil accepts all.
	filter func(groups []string) bool
}

func (m *patternMatcher) Type() enum.TriggerType { return m.triggerType }

func (m *patternMatcher) Match(msg Message) []Match {
	for _, pattern := range m.patterns {
		groups := pattern.FindStringSubmatch(msg.Text)
		if groups == nil {
			continue
		}

		if m.filter != nil && !m.filter(groups) {
			continue
		}

		return []Match{{
			Type:       m.triggerType,
			Weight:     triggerWeights[m.triggerType],
			Confidence: confidence(groups[0], msg.Text),
			Excerpt:    groups[0],
		}}
	}

	return nil
}

// delayMatcher grades the gap since the previous message. Purely temporal,
// so its confidence is always 1.
type delayMatcher struct{}

func (delayMatcher) Type() enum.TriggerType { return enum.TriggerTypeDelayedResponse }

func (delayMatcher) Match(msg Message) []Match {
	if msg.LastMessageAt.IsZero() {
		return nil
	}

	elapsed := msg.ReceivedAt.Sub(msg.LastMessageAt)

	for i := len(delayThresholds) - 1; i >= 0; i-- {
		threshold := delayThresholds[i]
		if elapsed >= threshold.after {
			return []Match{{
				Type:       enum.TriggerTypeDelayedResponse,
				Weight:     threshold.weight,
				Confidence: 1.0,
				Excerpt:    fmt.Sprintf("%.1f horas de retraso (%s)", elapsed.Hours(), threshold.label),
			}}
		}
	}

	return nil
}

// thirdPartyFilter drops proper-name captures shorter than three runes,
// which are usually false positives, unless the surrounding match names a
// friend explicitly.
func thirdPartyFilter(groups []string) bool {
	name := groups[0]
	if len(groups) > 1 && groups[1] != "" {
		name = groups[1]
	}

	if len([]rune(name)) < 3 && !strings.Contains(groups[0], "amig") {
		return false
	}

	return true
}

// confidence scores a regex match between 0.5 and 1.0 from how much of the
// message it covers and whether it leads the message.
func confidence(matched, full string) float64 {
	score := 0.7

	if len(full) > 0 {
		ratio := float64(len(matched)) / float64(len(full))

		switch {
		case ratio > 0.5:
			score += 0.2
		case ratio > 0.3:
			score += 0.1
		}
	}

	if strings.HasPrefix(strings.TrimSpace(full), strings.TrimSpace(matched)) {
		score += 0.1
	}

	return min(1.0, max(0.5, score))
}

// DefaultMatchers returns the built-in matcher set covering every trigger
// type.
func DefaultMatchers() []Matcher {
	return []Matcher{
		&patternMatcher{triggerType: enum.TriggerTypeAbandonmentSignal, patterns: abandonmentPatterns},
		&patternMatcher{triggerType: enum.TriggerTypeCriticism, patterns: criticismPatterns},
		&patternMatcher{
			triggerType: enum.TriggerTypeMentionOtherPerson,
			patterns:    thirdPartyPatterns,
			filter:      thirdPartyFilter,
		},
		&patternMatcher{triggerType: enum.TriggerTypeBoundaryAssertion, patterns: boundaryPatterns},
		&patternMatcher{triggerType: enum.TriggerTypeReassurance, patterns: reassurancePatterns},
		&patternMatcher{triggerType: enum.TriggerTypeExplicitRejection, patterns: rejectionPatterns},
		delayMatcher{},
	}
}
