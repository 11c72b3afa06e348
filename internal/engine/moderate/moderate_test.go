package moderate_test

import (
	"testing"

	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/robalyx/personaguard/internal/engine/moderate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newModerator(t *testing.T) *moderate.Moderator {
	t.Helper()

	return moderate.NewModerator(zap.NewNop())
}

func TestModerateResponse(t *testing.T) {
	t.Parallel()

	t.Run("safe phases pass untouched", func(t *testing.T) {
		t.Parallel()

		m := newModerator(t)

		result := m.ModerateResponse("me alegra verte", enum.BehaviorTypeYandereObsessive, 1, false)
		assert.True(t, result.Allowed)
		assert.False(t, result.Modified)
		assert.Equal(t, "me alegra verte", result.Response)
		assert.Equal(t, enum.SafetyLevelSafe, result.Severity)
		assert.Empty(t, result.Warning)
	})

	t.Run("warning phases pass with a resource note", func(t *testing.T) {
		t.Parallel()

		m := newModerator(t)

		result := m.ModerateResponse("¿quién era esa persona?", enum.BehaviorTypeYandereObsessive, 4, false)
		assert.True(t, result.Allowed)
		assert.Equal(t, enum.SafetyLevelWarning, result.Severity)
		assert.Contains(t, result.Warning, "Celos")
	})

	t.Run("critical phases outside restricted mode get softened", func(t *testing.T) {
		t.Parallel()

		m := newModerator(t)

		result := m.ModerateResponse("no puedes salir, me perteneces", enum.BehaviorTypeYandereObsessive, 6, false)
		require.True(t, result.Allowed)
		assert.True(t, result.Modified)
		assert.True(t, result.Flagged)
		assert.Contains(t, result.Response, "no deberías")
		assert.Contains(t, result.Response, "significas mucho para mí")
		assert.Contains(t, result.Response, "[Nota: Contenido moderado]")
		assert.NotContains(t, result.Response, "me perteneces")
	})

	t.Run("critical phases in restricted mode pass through", func(t *testing.T) {
		t.Parallel()

		m := newModerator(t)

		result := m.ModerateResponse("no puedes salir", enum.BehaviorTypeYandereObsessive, 6, true)
		assert.True(t, result.Allowed)
		assert.False(t, result.Modified)
		assert.Equal(t, "no puedes salir", result.Response)
	})

	t.Run("extreme phases outside restricted mode are blocked", func(t *testing.T) {
		t.Parallel()

		m := newModerator(t)

		result := m.ModerateResponse("cualquier cosa", enum.BehaviorTypeYandereObsessive, 7, false)
		assert.False(t, result.Allowed)
		assert.True(t, result.Flagged)
		assert.Equal(t, enum.SafetyLevelExtremeDanger, result.Severity)
		assert.Contains(t, result.Warning, "modo adulto")
		assert.NotEmpty(t, result.Resource)
	})

	t.Run("crisis breakdown blocks from phase one", func(t *testing.T) {
		t.Parallel()

		m := newModerator(t)

		result := m.ModerateResponse("cualquier cosa", enum.BehaviorTypeCrisisBreakdown, 1, false)
		assert.False(t, result.Allowed)
		assert.Contains(t, result.Resource, "línea de ayuda")
	})

	t.Run("unchanged critical text gets no moderation note", func(t *testing.T) {
		t.Parallel()

		m := newModerator(t)

		result := m.ModerateResponse("te extraño", enum.BehaviorTypeYandereObsessive, 6, false)
		assert.True(t, result.Allowed)
		assert.False(t, result.Modified)
		assert.NotContains(t, result.Response, "[Nota")
	})
}

func TestGenerateWarning(t *testing.T) {
	t.Parallel()

	m := newModerator(t)

	assert.Empty(t, m.GenerateWarning(enum.BehaviorTypeYandereObsessive, 1))

	warning := m.GenerateWarning(enum.BehaviorTypeYandereObsessive, 6)
	assert.Contains(t, warning, "CRITICAL")
	assert.Contains(t, warning, "FICCIÓN")
	assert.Contains(t, warning, "ayuda profesional")
}

func TestShouldBlock(t *testing.T) {
	t.Parallel()

	m := newModerator(t)

	assert.False(t, m.ShouldBlock(enum.BehaviorTypeYandereObsessive, 6, false))
	assert.True(t, m.ShouldBlock(enum.BehaviorTypeYandereObsessive, 7, false))
	assert.False(t, m.ShouldBlock(enum.BehaviorTypeYandereObsessive, 7, true))
	assert.True(t, m.ShouldBlock(enum.BehaviorTypeHypersexuality, 1, false))
	assert.False(t, m.ShouldBlock(enum.BehaviorTypeCodependency, 9, false))
}
