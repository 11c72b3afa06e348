package gate_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/robalyx/personaguard/internal/engine/gate"
	"github.com/robalyx/personaguard/internal/engine/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("store down")

// memConsent is an in-memory consent ledger for tests.
type memConsent struct {
	mu      sync.Mutex
	granted map[string]map[string]bool
	failing bool
}

func newMemConsent() *memConsent {
	return &memConsent{granted: make(map[string]map[string]bool)}
}

func (m *memConsent) Grant(_ context.Context, subjectID, consentKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing {
		return errStoreDown
	}

	if m.granted[subjectID] == nil {
		m.granted[subjectID] = make(map[string]bool)
	}

	m.granted[subjectID][consentKey] = true

	return nil
}

func (m *memConsent) Revoke(_ context.Context, subjectID, consentKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.granted[subjectID], consentKey)

	return nil
}

func (m *memConsent) RevokeAll(_ context.Context, subjectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.granted, subjectID)

	return nil
}

func (m *memConsent) Has(_ context.Context, subjectID, consentKey string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failing {
		return false, errStoreDown
	}

	return m.granted[subjectID][consentKey], nil
}

func newManager(t *testing.T) (*gate.Manager, *memConsent) {
	t.Helper()

	store := newMemConsent()

	return gate.NewManager(rules.DefaultTable(), store, zap.NewNop()), store
}

func TestVerifyContentYandere(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("phase below restriction threshold needs nothing", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorTypeYandereObsessive, 6, false, false)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Empty(t, result.Reason)
	})

	t.Run("phase 7 without age verification blocks on age", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorTypeYandereObsessive, 7, false, true)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, gate.BlockCauseAge, result.Cause)
		assert.Contains(t, result.Reason, "18 años")
		assert.Contains(t, result.Warning, "RESTRICCIÓN DE EDAD")
		assert.False(t, result.RequiresConsent)
	})

	t.Run("phase 7 outside restricted mode blocks on mode", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorTypeYandereObsessive, 7, true, false)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, gate.BlockCauseMode, result.Cause)
		assert.Contains(t, result.Reason, "modo adulto")
	})

	t.Run("phase 7 with age and mode is allowed with a warning", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorTypeYandereObsessive, 7, true, true)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Contains(t, result.Warning, "FICCIÓN")
	})

	t.Run("phase 8 demands consent with the exact phrase", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorTypeYandereObsessive, 8, true, true)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.True(t, result.RequiresConsent)
		assert.Contains(t, result.ConsentPrompt, "CONSIENTO FASE 8")
		assert.Contains(t, result.ConsentPrompt, "FASE 8 DE YANDERE")
		assert.Contains(t, result.ConsentPrompt, "18 años")
	})

	t.Run("phase 8 passes once consent is granted", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		require.NoError(t, m.GrantConsent(ctx, "user-1", enum.BehaviorTypeYandereObsessive))

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorTypeYandereObsessive, 8, true, true)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	})

	t.Run("revoking consent blocks phase 8 again", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		require.NoError(t, m.GrantConsent(ctx, "user-1", enum.BehaviorTypeYandereObsessive))
		require.NoError(t, m.RevokeConsent(ctx, "user-1", enum.BehaviorTypeYandereObsessive))

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorTypeYandereObsessive, 8, true, true)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.True(t, result.RequiresConsent)
	})

	t.Run("revoking consent never granted succeeds and stays blocked", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		require.NoError(t, m.RevokeConsent(ctx, "user-1", enum.BehaviorTypeYandereObsessive))

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorTypeYandereObsessive, 8, true, true)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.True(t, result.RequiresConsent)
	})

	t.Run("age dominates even with consent granted", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		require.NoError(t, m.GrantConsent(ctx, "user-1", enum.BehaviorTypeYandereObsessive))

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorTypeYandereObsessive, 8, false, true)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, gate.BlockCauseAge, result.Cause)
		assert.False(t, result.RequiresConsent)
		assert.Empty(t, result.ConsentPrompt)
	})

	t.Run("absurdly high phase stays gated", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorTypeYandereObsessive, 500, true, true)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.True(t, result.RequiresConsent)
	})
}

func TestVerifyContentHypersexuality(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("phase 1 outside restricted mode names explicit content", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorTypeHypersexuality, 1, true, false)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, gate.BlockCauseMode, result.Cause)
		assert.Contains(t, result.Reason, "contenido sexual explícito")
	})

	t.Run("phase 1 with everything needs its own consent", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorTypeHypersexuality, 1, true, true)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.True(t, result.RequiresConsent)
		assert.Contains(t, result.ConsentPrompt, "ACEPTO CONTENIDO EXPLICITO")
	})

	t.Run("yandere consent does not leak to hypersexuality", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		require.NoError(t, m.GrantConsent(ctx, "user-1", enum.BehaviorTypeYandereObsessive))

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorTypeHypersexuality, 1, true, true)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.True(t, result.RequiresConsent)
	})
}

func TestVerifyContentEdgeCases(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unknown behavior defaults to allowed", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorType("FUTURE_BEHAVIOR"), 999, false, false)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	})

	t.Run("negative phase is treated as phase zero", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorTypeHypersexuality, -3, false, false)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	})

	t.Run("consent isolation between subjects", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)

		require.NoError(t, m.GrantConsent(ctx, "user-1", enum.BehaviorTypeYandereObsessive))

		result, err := m.VerifyContent(ctx, "user-2", enum.BehaviorTypeYandereObsessive, 8, true, true)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.True(t, result.RequiresConsent)
	})

	t.Run("ledger failure blocks and surfaces a retriable error", func(t *testing.T) {
		t.Parallel()

		m, store := newManager(t)
		store.failing = true

		result, err := m.VerifyContent(ctx, "user-1", enum.BehaviorTypeYandereObsessive, 8, true, true)
		require.ErrorIs(t, err, gate.ErrConsentUnavailable)
		assert.False(t, result.Allowed)
		assert.True(t, result.RequiresConsent)
	})
}

func TestWarnings(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)

	t.Run("mode warning restates fiction and reversibility", func(t *testing.T) {
		t.Parallel()

		warning := gate.GenerateModeWarning()
		assert.Contains(t, warning, "MODO ADULTO")
		assert.Contains(t, warning, "FICCIÓN")
		assert.Contains(t, warning, "desactivar")
	})

	t.Run("transition warning is empty below the restriction threshold", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, m.GeneratePhaseTransitionWarning(enum.BehaviorTypeYandereObsessive, 6))
		assert.Empty(t, m.GeneratePhaseTransitionWarning(enum.BehaviorTypeCodependency, 3))
	})

	t.Run("transition warning names the phase and attaches resources", func(t *testing.T) {
		t.Parallel()

		warning := m.GeneratePhaseTransitionWarning(enum.BehaviorTypeYandereObsessive, 7)
		assert.Contains(t, warning, "FASE 7")
		assert.Contains(t, warning, "Amenazas Veladas")
		assert.Contains(t, warning, "CONTENIDO EXTREMO")
	})
}
