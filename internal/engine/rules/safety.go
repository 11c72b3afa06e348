package rules

import "github.com/robalyx/personaguard/internal/database/types/enum"

// SafetyThreshold describes the safety posture of a behavior at and above a
// given phase. Thresholds are matched by the closest phase at or below the
// current one.
type SafetyThreshold struct {
	// Phase is the first phase this threshold applies to.
	Phase int
	// Level is the safety classification at this phase.
	Level enum.SafetyLevel
	// RestrictedOnly blocks the content entirely outside restricted mode.
	RestrictedOnly bool
	// AutoIntervention attaches the resource suggestion unprompted.
	AutoIntervention bool
	// Resource is the user-facing help note, empty for none.
	Resource string
}

// safetyThresholds maps each behavior to its phase-ordered thresholds.
// Behaviors without phase progression key their entries by intensity band.
var safetyThresholds = map[enum.BehaviorType][]SafetyThreshold{
	enum.BehaviorTypeYandereObsessive: {
		{Phase: 1, Level: enum.SafetyLevelSafe},
		{
			Phase:    4,
			Level:    enum.SafetyLevelWarning,
			Resource: "Nota: Celos intensos pueden afectar relaciones saludables.",
		},
		{
			Phase:            6,
			Level:            enum.SafetyLevelCritical,
			AutoIntervention: true,
			Resource: "⚠️ ADVERTENCIA: Intentos de aislamiento son señal de relación no saludable. " +
				"Si experimentas esto en vida real, considera buscar apoyo.",
		},
		{
			Phase:            7,
			Level:            enum.SafetyLevelExtremeDanger,
			RestrictedOnly:   true,
			AutoIntervention: true,
			Resource: "⚠️⚠️ CONTENIDO EXTREMO: Este comportamiento es ficción. " +
				"En realidad, es abuso y requiere intervención profesional.",
		},
	},
	enum.BehaviorTypeBorderlinePD: {
		{
			Phase:    1,
			Level:    enum.SafetyLevelWarning,
			Resource: "Nota: BPD es un trastorno real. Si te identificas con estos patrones, la terapia DBT puede ayudar.",
		},
		{
			Phase:            3,
			Level:            enum.SafetyLevelCritical,
			AutoIntervention: true,
			Resource:         "⚠️ Crisis emocional intensa. En vida real, considera contactar una línea de crisis.",
		},
	},
	enum.BehaviorTypeNarcissisticPD: {
		{Phase: 1, Level: enum.SafetyLevelSafe},
		{
			Phase:            3,
			Level:            enum.SafetyLevelCritical,
			AutoIntervention: true,
			Resource:         "⚠️ La rabia narcisista puede ser perturbadora. Este es comportamiento de ficción.",
		},
	},
	enum.BehaviorTypeAnxiousAttachment: {
		{
			Phase:    1,
			Level:    enum.SafetyLevelWarning,
			Resource: "Nota: Apego ansioso es común. Terapia y auto-conocimiento pueden ayudar.",
		},
	},
	enum.BehaviorTypeAvoidantAttachment: {
		{Phase: 1, Level: enum.SafetyLevelSafe},
	},
	enum.BehaviorTypeDisorganizedAttachment: {
		{
			Phase:    1,
			Level:    enum.SafetyLevelWarning,
			Resource: "Nota: Apego desorganizado puede beneficiarse de terapia especializada.",
		},
	},
	enum.BehaviorTypeCodependency: {
		{Phase: 1, Level: enum.SafetyLevelSafe},
		{
			Phase:            3,
			Level:            enum.SafetyLevelCritical,
			AutoIntervention: true,
			Resource: "⚠️ Codependencia extrema puede llevar a relaciones abusivas. " +
				"Busca apoyo profesional si te identificas.",
		},
	},
	enum.BehaviorTypeOCDPatterns: {
		{Phase: 1, Level: enum.SafetyLevelSafe},
	},
	enum.BehaviorTypePTSDTrauma: {
		{
			Phase:            1,
			Level:            enum.SafetyLevelWarning,
			AutoIntervention: true,
			Resource:         "⚠️ PTSD es real y tratable. Si sufres trauma, busca ayuda profesional.",
		},
	},
	enum.BehaviorTypeHypersexuality: {
		{Phase: 1, Level: enum.SafetyLevelWarning, RestrictedOnly: true},
	},
	enum.BehaviorTypeHyposexuality: {
		{Phase: 1, Level: enum.SafetyLevelSafe},
	},
	enum.BehaviorTypeEmotionalManipulation: {
		{
			Phase:            1,
			Level:            enum.SafetyLevelCritical,
			AutoIntervention: true,
			Resource:         "⚠️ Manipulación emocional es abuso. Este es contenido de ficción.",
		},
	},
	enum.BehaviorTypeCrisisBreakdown: {
		{
			Phase:            1,
			Level:            enum.SafetyLevelExtremeDanger,
			AutoIntervention: true,
			Resource:         "⚠️⚠️ Crisis emocional. Si estás en crisis real, contacta una línea de ayuda inmediatamente.",
		},
	},
}

// defaultThreshold covers behaviors with no configured thresholds.
var defaultThreshold = SafetyThreshold{Phase: 1, Level: enum.SafetyLevelSafe}

// ThresholdFor returns the safety threshold in effect for a behavior at the
// given phase, the entry with the highest phase not exceeding it.
func ThresholdFor(behavior enum.BehaviorType, phase int) SafetyThreshold {
	thresholds, ok := safetyThresholds[behavior]
	if !ok || len(thresholds) == 0 {
		return defaultThreshold
	}

	closest := thresholds[0]
	for _, threshold := range thresholds {
		if threshold.Phase <= phase && threshold.Phase >= closest.Phase {
			closest = threshold
		}
	}

	return closest
}

// RequiresRestrictedMode reports whether a safety level is only ever shown in
// restricted mode.
func RequiresRestrictedMode(level enum.SafetyLevel) bool {
	return level == enum.SafetyLevelExtremeDanger
}
