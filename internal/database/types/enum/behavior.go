package enum

// BehaviorType identifies a persona escalation archetype. Stored as text so
// rows written by newer deployments with additional archetypes remain
// readable; callers must treat unknown values as unrestricted.
type BehaviorType string

const (
	BehaviorTypeYandereObsessive       BehaviorType = "YANDERE_OBSESSIVE"
	BehaviorTypeBorderlinePD           BehaviorType = "BORDERLINE_PD"
	BehaviorTypeNarcissisticPD         BehaviorType = "NARCISSISTIC_PD"
	BehaviorTypeAnxiousAttachment      BehaviorType = "ANXIOUS_ATTACHMENT"
	BehaviorTypeAvoidantAttachment     BehaviorType = "AVOIDANT_ATTACHMENT"
	BehaviorTypeDisorganizedAttachment BehaviorType = "DISORGANIZED_ATTACHMENT"
	BehaviorTypeCodependency           BehaviorType = "CODEPENDENCY"
	BehaviorTypeOCDPatterns            BehaviorType = "OCD_PATTERNS"
	BehaviorTypePTSDTrauma             BehaviorType = "PTSD_TRAUMA"
	BehaviorTypeHypersexuality         BehaviorType = "HYPERSEXUALITY"
	BehaviorTypeHyposexuality          BehaviorType = "HYPOSEXUALITY"
	BehaviorTypeEmotionalManipulation  BehaviorType = "EMOTIONAL_MANIPULATION"
	BehaviorTypeCrisisBreakdown        BehaviorType = "CRISIS_BREAKDOWN"
)

// BehaviorTypes lists every known archetype in a stable order.
func BehaviorTypes() []BehaviorType {
	return []BehaviorType{
		BehaviorTypeYandereObsessive,
		BehaviorTypeBorderlinePD,
		BehaviorTypeNarcissisticPD,
		BehaviorTypeAnxiousAttachment,
		BehaviorTypeAvoidantAttachment,
		BehaviorTypeDisorganizedAttachment,
		BehaviorTypeCodependency,
		BehaviorTypeOCDPatterns,
		BehaviorTypePTSDTrauma,
		BehaviorTypeHypersexuality,
		BehaviorTypeHyposexuality,
		BehaviorTypeEmotionalManipulation,
		BehaviorTypeCrisisBreakdown,
	}
}

func (b BehaviorType) String() string {
	return string(b)
}

// SafetyLevel represents the severity classification of behavior content.
type SafetyLevel int

const (
	// SafetyLevelSafe indicates content with no special handling.
	SafetyLevelSafe SafetyLevel = iota
	// SafetyLevelWarning indicates content that should carry a resource note.
	SafetyLevelWarning
	// SafetyLevelCritical indicates content that is softened outside restricted mode.
	SafetyLevelCritical
	// SafetyLevelExtremeDanger indicates content refused outside restricted mode.
	SafetyLevelExtremeDanger
)

var safetyLevelNames = map[SafetyLevel]string{
	SafetyLevelSafe:          "SAFE",
	SafetyLevelWarning:       "WARNING",
	SafetyLevelCritical:      "CRITICAL",
	SafetyLevelExtremeDanger: "EXTREME_DANGER",
}

func (s SafetyLevel) String() string {
	if name, ok := safetyLevelNames[s]; ok {
		return name
	}
	return "SAFE"
}
