package rules_test

import (
	"testing"

	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/robalyx/personaguard/internal/engine/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableLookup(t *testing.T) {
	t.Parallel()

	table := rules.DefaultTable()

	t.Run("yandere is restricted late with a consent checkpoint", func(t *testing.T) {
		t.Parallel()

		rule, ok := table.Lookup(enum.BehaviorTypeYandereObsessive)
		require.True(t, ok)
		assert.Equal(t, 7, rule.MinRestrictedPhase)
		assert.Equal(t, 8, rule.CriticalPhase)
	})

	t.Run("hypersexuality is restricted and critical from phase one", func(t *testing.T) {
		t.Parallel()

		rule, ok := table.Lookup(enum.BehaviorTypeHypersexuality)
		require.True(t, ok)
		assert.Equal(t, 1, rule.MinRestrictedPhase)
		assert.Equal(t, 1, rule.CriticalPhase)
	})

	t.Run("attachment behaviors are never restricted", func(t *testing.T) {
		t.Parallel()

		rule, ok := table.Lookup(enum.BehaviorTypeAnxiousAttachment)
		require.True(t, ok)
		assert.Equal(t, rules.NeverRestricted, rule.MinRestrictedPhase)
		assert.False(t, rule.RestrictedAt(500))
	})

	t.Run("unknown behavior gets the never-restricted rule", func(t *testing.T) {
		t.Parallel()

		rule, ok := table.Lookup(enum.BehaviorType("FUTURE_BEHAVIOR"))
		assert.False(t, ok)
		assert.False(t, rule.RestrictedAt(999))
	})
}

func TestBehaviorRulePhaseChecks(t *testing.T) {
	t.Parallel()

	table := rules.DefaultTable()
	rule, _ := table.Lookup(enum.BehaviorTypeYandereObsessive)

	assert.False(t, rule.RestrictedAt(6))
	assert.True(t, rule.RestrictedAt(7))
	assert.True(t, rule.RestrictedAt(8))

	assert.False(t, rule.CriticalAt(7))
	assert.True(t, rule.CriticalAt(8))
	assert.True(t, rule.CriticalAt(500))
}

func TestConsentKeyRendering(t *testing.T) {
	t.Parallel()

	table := rules.DefaultTable()

	yandere, _ := table.Lookup(enum.BehaviorTypeYandereObsessive)
	assert.Equal(t, "YANDERE_OBSESSIVE_phase_8", yandere.ConsentKey(enum.BehaviorTypeYandereObsessive))

	hyper, _ := table.Lookup(enum.BehaviorTypeHypersexuality)
	assert.Equal(t, "HYPERSEXUALITY_phase_1", hyper.ConsentKey(enum.BehaviorTypeHypersexuality))
}

func TestTableValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, rules.DefaultTable().Validate())
}

func TestThresholdFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		behavior enum.BehaviorType
		phase    int
		want     enum.SafetyLevel
	}{
		{"yandere phase 1 is safe", enum.BehaviorTypeYandereObsessive, 1, enum.SafetyLevelSafe},
		{"yandere phase 3 keeps phase 1 threshold", enum.BehaviorTypeYandereObsessive, 3, enum.SafetyLevelSafe},
		{"yandere phase 4 warns", enum.BehaviorTypeYandereObsessive, 4, enum.SafetyLevelWarning},
		{"yandere phase 6 is critical", enum.BehaviorTypeYandereObsessive, 6, enum.SafetyLevelCritical},
		{"yandere phase 8 keeps extreme danger", enum.BehaviorTypeYandereObsessive, 8, enum.SafetyLevelExtremeDanger},
		{"crisis breakdown is extreme from the start", enum.BehaviorTypeCrisisBreakdown, 1, enum.SafetyLevelExtremeDanger},
		{"unknown behavior defaults to safe", enum.BehaviorType("FUTURE_BEHAVIOR"), 5, enum.SafetyLevelSafe},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, rules.ThresholdFor(tt.behavior, tt.phase).Level)
		})
	}
}

func TestRequiresRestrictedMode(t *testing.T) {
	t.Parallel()

	assert.False(t, rules.RequiresRestrictedMode(enum.SafetyLevelSafe))
	assert.False(t, rules.RequiresRestrictedMode(enum.SafetyLevelWarning))
	assert.False(t, rules.RequiresRestrictedMode(enum.SafetyLevelCritical))
	assert.True(t, rules.RequiresRestrictedMode(enum.SafetyLevelExtremeDanger))
}

func TestPhaseName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Celos de Terceros", rules.PhaseName(enum.BehaviorTypeYandereObsessive, 4))
	assert.Empty(t, rules.PhaseName(enum.BehaviorTypeYandereObsessive, 99))
	assert.Empty(t, rules.PhaseName(enum.BehaviorTypeCodependency, 1))
}
