package gate_test

import (
	"testing"

	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsConsentMessageSpecific(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)

	t.Run("exact yandere phrase", func(t *testing.T) {
		t.Parallel()

		match := m.IsConsentMessage("CONSIENTO FASE 8")
		require.True(t, match.IsConsent)
		assert.Equal(t, enum.ConsentTypeSpecific, match.Type)
		assert.Equal(t, enum.BehaviorTypeYandereObsessive, match.Behavior)
		assert.Equal(t, "YANDERE_OBSESSIVE_phase_8", match.ConsentKey)
	})

	t.Run("case and accents do not matter", func(t *testing.T) {
		t.Parallel()

		assert.True(t, m.IsConsentMessage("consiento fase 8").IsConsent)
		assert.True(t, m.IsConsentMessage("  Consiento Fase 8  ").IsConsent)
	})

	t.Run("hypersexuality phrase with or without accent", func(t *testing.T) {
		t.Parallel()

		match := m.IsConsentMessage("ACEPTO CONTENIDO EXPLÍCITO")
		require.True(t, match.IsConsent)
		assert.Equal(t, enum.BehaviorTypeHypersexuality, match.Behavior)
		assert.Equal(t, "HYPERSEXUALITY_phase_1", match.ConsentKey)

		assert.True(t, m.IsConsentMessage("acepto contenido explicito").IsConsent)
	})

	t.Run("wrong phase number is not consent", func(t *testing.T) {
		t.Parallel()

		assert.False(t, m.IsConsentMessage("CONSIENTO FASE 7").IsConsent)
		assert.False(t, m.IsConsentMessage("CONSIENTO FASE 88").IsConsent)
	})

	t.Run("phrase buried in a sentence is not consent", func(t *testing.T) {
		t.Parallel()

		assert.False(t, m.IsConsentMessage("creo que consiento fase 8 pero no sé").IsConsent)
	})
}

func TestIsConsentMessageGeneric(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)

	for _, token := range []string{"sí", "SI", "si", "yes", "Acepto", "CONSIENTO"} {
		match := m.IsConsentMessage(token)
		require.True(t, match.IsConsent, "token %q", token)
		assert.Equal(t, enum.ConsentTypeGeneral, match.Type)
		assert.Empty(t, match.ConsentKey)
	}

	assert.False(t, m.IsConsentMessage("sí, claro que quiero").IsConsent)
	assert.False(t, m.IsConsentMessage("no").IsConsent)
	assert.False(t, m.IsConsentMessage("").IsConsent)
	assert.False(t, m.IsConsentMessage("   ").IsConsent)
}

func TestConsentKeyFor(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)

	assert.Equal(t, "YANDERE_OBSESSIVE_phase_8", m.ConsentKeyFor(enum.BehaviorTypeYandereObsessive))
	assert.Empty(t, m.ConsentKeyFor(enum.BehaviorTypeCodependency))
	assert.Empty(t, m.ConsentKeyFor(enum.BehaviorType("FUTURE_BEHAVIOR")))
}
