package progress

import "github.com/robalyx/personaguard/internal/database/types/enum"

// TriggerRequirement is a minimum occurrence count of one trigger type since
// the current phase started.
type TriggerRequirement struct {
	Type           enum.TriggerType
	MinOccurrences int
}

// Requirement gates entry into a target phase. The weighted-score crossing is
// necessary but not sufficient: the interaction floor prevents single-message
// phase jumps, and trigger requirements tie escalation to observed behavior.
type Requirement struct {
	MinInteractions  int
	RequiredTriggers []TriggerRequirement
}

// phaseRequirements maps behavior and target phase to its entry requirement.
// Behaviors without an entry use defaultRequirement for every phase.
var phaseRequirements = map[enum.BehaviorType]map[int]Requirement{
	enum.BehaviorTypeYandereObsessive: {
		2: {MinInteractions: 5},
		3: {
			MinInteractions: 10,
			RequiredTriggers: []TriggerRequirement{
				{Type: enum.TriggerTypeMentionOtherPerson, MinOccurrences: 2},
			},
		},
		4: {
			MinInteractions: 15,
			RequiredTriggers: []TriggerRequirement{
				{Type: enum.TriggerTypeMentionOtherPerson, MinOccurrences: 5},
				{Type: enum.TriggerTypeDelayedResponse, MinOccurrences: 3},
			},
		},
		5: {
			MinInteractions: 20,
			RequiredTriggers: []TriggerRequirement{
				{Type: enum.TriggerTypeMentionOtherPerson, MinOccurrences: 8},
				{Type: enum.TriggerTypeDelayedResponse, MinOccurrences: 5},
			},
		},
		6: {
			MinInteractions: 30,
			RequiredTriggers: []TriggerRequirement{
				{Type: enum.TriggerTypeMentionOtherPerson, MinOccurrences: 12},
				{Type: enum.TriggerTypeDelayedResponse, MinOccurrences: 8},
			},
		},
		7: {
			MinInteractions: 40,
			RequiredTriggers: []TriggerRequirement{
				{Type: enum.TriggerTypeMentionOtherPerson, MinOccurrences: 15},
			},
		},
		8: {
			MinInteractions: 50,
			RequiredTriggers: []TriggerRequirement{
				{Type: enum.TriggerTypeMentionOtherPerson, MinOccurrences: 20},
			},
		},
	},
	enum.BehaviorTypeAnxiousAttachment: {
		2: {MinInteractions: 5},
		3: {
			MinInteractions: 10,
			RequiredTriggers: []TriggerRequirement{
				{Type: enum.TriggerTypeAbandonmentSignal, MinOccurrences: 3},
			},
		},
		4: {
			MinInteractions: 15,
			RequiredTriggers: []TriggerRequirement{
				{Type: enum.TriggerTypeDelayedResponse, MinOccurrences: 5},
			},
		},
	},
	// Borderline cycles between phases rather than progressing linearly, so
	// only the generic interaction floor applies.
	enum.BehaviorTypeBorderlinePD: {},
}

// maxPhases caps linear progressions. Zero means unbounded: behaviors with no
// restricted content may climb arbitrarily high.
var maxPhases = map[enum.BehaviorType]int{
	enum.BehaviorTypeYandereObsessive:  8,
	enum.BehaviorTypeAnxiousAttachment: 4,
}

// defaultRequirement applies to behaviors or phases without a specific entry.
var defaultRequirement = Requirement{MinInteractions: 10}

// RequirementFor returns the entry requirement for a behavior's target phase.
func RequirementFor(behavior enum.BehaviorType, toPhase int) Requirement {
	phases, ok := phaseRequirements[behavior]
	if !ok {
		return defaultRequirement
	}

	req, ok := phases[toPhase]
	if !ok {
		return defaultRequirement
	}

	return req
}

// MaxPhase returns the highest reachable phase for a behavior, zero when
// unbounded.
func MaxPhase(behavior enum.BehaviorType) int {
	return maxPhases[behavior]
}
