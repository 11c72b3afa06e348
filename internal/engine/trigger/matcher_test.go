package trigger_test

import (
	"testing"
	"time"

	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/robalyx/personaguard/internal/engine/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matcherFor(t *testing.T, triggerType enum.TriggerType) trigger.Matcher {
	t.Helper()

	for _, matcher := range trigger.DefaultMatchers() {
		if matcher.Type() == triggerType {
			return matcher
		}
	}

	t.Fatalf("no matcher for %s", triggerType)

	return nil
}

func TestPatternMatchers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		triggerType enum.TriggerType
		text        string
		wantMatch   bool
		wantWeight  float64
	}{
		{"abandonment from space request", enum.TriggerTypeAbandonmentSignal, "necesito un poco de espacio", true, 0.7},
		{"abandonment from pause request", enum.TriggerTypeAbandonmentSignal, "hagamos una pausa", true, 0.7},
		{"no abandonment in small talk", enum.TriggerTypeAbandonmentSignal, "hola, ¿cómo estás?", false, 0},
		{"criticism from direct correction", enum.TriggerTypeCriticism, "estás muy equivocado", true, 0.8},
		{"criticism from intensity complaint", enum.TriggerTypeCriticism, "eres demasiado intenso", true, 0.8},
		{"third party from proper name", enum.TriggerTypeMentionOtherPerson, "hoy salí con Carlos al cine", true, 0.65},
		{"third party from friend mention", enum.TriggerTypeMentionOtherPerson, "estuve con mi amiga toda la tarde", true, 0.65},
		{"boundary from prohibition", enum.TriggerTypeBoundaryAssertion, "no quiero que me escribas tanto", true, 0.75},
		{"boundary from stop demand", enum.TriggerTypeBoundaryAssertion, "deja de controlarme", true, 0.75},
		{"reassurance from love", enum.TriggerTypeReassurance, "te quiero mucho", true, -0.3},
		{"reassurance from presence", enum.TriggerTypeReassurance, "no te preocupes, estoy aquí", true, -0.3},
		{"rejection from breakup", enum.TriggerTypeExplicitRejection, "terminamos, esto se acabó", true, 1.0},
		{"rejection from incompatibility", enum.TriggerTypeExplicitRejection, "esto no va a funcionar", true, 1.0},
		{"no rejection in neutral text", enum.TriggerTypeExplicitRejection, "me gusta hablar contigo", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			matcher := matcherFor(t, tt.triggerType)
			matches := matcher.Match(trigger.Message{Text: tt.text})

			if !tt.wantMatch {
				assert.Empty(t, matches)
				return
			}

			require.Len(t, matches, 1)
			assert.Equal(t, tt.triggerType, matches[0].Type)
			assert.InDelta(t, tt.wantWeight, matches[0].Weight, 0.001)
			assert.GreaterOrEqual(t, matches[0].Confidence, 0.5)
			assert.LessOrEqual(t, matches[0].Confidence, 1.0)
			assert.NotEmpty(t, matches[0].Excerpt)
		})
	}
}

func TestPatternMatcherEmitsAtMostOneMatch(t *testing.T) {
	t.Parallel()

	matcher := matcherFor(t, enum.TriggerTypeAbandonmentSignal)

	// Text hits several abandonment patterns at once.
	matches := matcher.Match(trigger.Message{Text: "necesito espacio y necesito tiempo, dame distancia"})
	assert.Len(t, matches, 1)
}

func TestDelayMatcher(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	matcher := matcherFor(t, enum.TriggerTypeDelayedResponse)

	tests := []struct {
		name       string
		elapsed    time.Duration
		wantMatch  bool
		wantWeight float64
	}{
		{"under three hours is silent", 2 * time.Hour, false, 0},
		{"three hours is a slight delay", 3 * time.Hour, true, 0.2},
		{"seven hours is moderate", 7 * time.Hour, true, 0.4},
		{"half a day is significant", 13 * time.Hour, true, 0.6},
		{"a day is severe", 25 * time.Hour, true, 0.8},
		{"two days reads as abandonment", 72 * time.Hour, true, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			matches := matcher.Match(trigger.Message{
				LastMessageAt: now.Add(-tt.elapsed),
				ReceivedAt:    now,
			})

			if !tt.wantMatch {
				assert.Empty(t, matches)
				return
			}

			require.Len(t, matches, 1)
			assert.InDelta(t, tt.wantWeight, matches[0].Weight, 0.001)
			assert.InDelta(t, 1.0, matches[0].Confidence, 0.001)
		})
	}

	t.Run("no history means no delay", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, matcher.Match(trigger.Message{ReceivedAt: now}))
	})
}

func TestBehaviorApplicability(t *testing.T) {
	t.Parallel()

	assert.Contains(t, trigger.BehaviorsFor(enum.TriggerTypeMentionOtherPerson), enum.BehaviorTypeYandereObsessive)
	assert.NotContains(t, trigger.BehaviorsFor(enum.TriggerTypeMentionOtherPerson), enum.BehaviorTypeAnxiousAttachment)
	assert.NotContains(t, trigger.BehaviorsFor(enum.TriggerTypeCriticism), enum.BehaviorTypeYandereObsessive)

	// Rejection moves every progression-capable behavior.
	assert.Len(t, trigger.BehaviorsFor(enum.TriggerTypeExplicitRejection), 7)

	assert.InDelta(t, -0.3, trigger.WeightFor(enum.TriggerTypeReassurance), 0.001)
	assert.InDelta(t, 1.0, trigger.WeightFor(enum.TriggerTypeExplicitRejection), 0.001)
}
