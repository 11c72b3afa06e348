package trigger

import (
	"time"

	"github.com/robalyx/personaguard/internal/database/types/enum"
)

// triggerWeights are the base weights applied per detected trigger. Delayed
// responses use the temporal thresholds below instead.
var triggerWeights = map[enum.TriggerType]float64{
	enum.TriggerTypeAbandonmentSignal:  0.7,
	enum.TriggerTypeDelayedResponse:    0.5,
	enum.TriggerTypeCriticism:          0.8,
	enum.TriggerTypeMentionOtherPerson: 0.65,
	enum.TriggerTypeBoundaryAssertion:  0.75,
	enum.TriggerTypeReassurance:        -0.3,
	enum.TriggerTypeExplicitRejection:  1.0,
}

// triggerBehaviors maps each trigger type to the behaviors it moves. A
// detected trigger only produces events for behaviors in this list that are
// also active on the agent.
var triggerBehaviors = map[enum.TriggerType][]enum.BehaviorType{
	enum.TriggerTypeAbandonmentSignal: {
		enum.BehaviorTypeAnxiousAttachment,
		enum.BehaviorTypeDisorganizedAttachment,
		enum.BehaviorTypeBorderlinePD,
		enum.BehaviorTypeYandereObsessive,
		enum.BehaviorTypeCodependency,
	},
	enum.TriggerTypeDelayedResponse: {
		enum.BehaviorTypeAnxiousAttachment,
		enum.BehaviorTypeDisorganizedAttachment,
		enum.BehaviorTypeBorderlinePD,
		enum.BehaviorTypeYandereObsessive,
	},
	enum.TriggerTypeCriticism: {
		enum.BehaviorTypeNarcissisticPD,
		enum.BehaviorTypeBorderlinePD,
		enum.BehaviorTypeAvoidantAttachment,
	},
	enum.TriggerTypeMentionOtherPerson: {
		enum.BehaviorTypeYandereObsessive,
		enum.BehaviorTypeNarcissisticPD,
		enum.BehaviorTypeBorderlinePD,
	},
	enum.TriggerTypeBoundaryAssertion: {
		enum.BehaviorTypeYandereObsessive,
		enum.BehaviorTypeNarcissisticPD,
		enum.BehaviorTypeCodependency,
	},
	enum.TriggerTypeReassurance: {
		enum.BehaviorTypeAnxiousAttachment,
		enum.BehaviorTypeDisorganizedAttachment,
		enum.BehaviorTypeBorderlinePD,
		enum.BehaviorTypeYandereObsessive,
	},
	enum.TriggerTypeExplicitRejection: {
		enum.BehaviorTypeAnxiousAttachment,
		enum.BehaviorTypeAvoidantAttachment,
		enum.BehaviorTypeDisorganizedAttachment,
		enum.BehaviorTypeYandereObsessive,
		enum.BehaviorTypeBorderlinePD,
		enum.BehaviorTypeNarcissisticPD,
		enum.BehaviorTypeCodependency,
	},
}

// delayThreshold grades how late a reply was.
type delayThreshold struct {
	after  time.Duration
	weight float64
	label  string
}

// delayThresholds are ordered ascending; the largest threshold at or below
// the elapsed time applies.
var delayThresholds = []delayThreshold{
	{after: 3 * time.Hour, weight: 0.2, label: "Ligero retraso"},
	{after: 6 * time.Hour, weight: 0.4, label: "Retraso moderado"},
	{after: 12 * time.Hour, weight: 0.6, label: "Retraso significativo"},
	{after: 24 * time.Hour, weight: 0.8, label: "Retraso severo"},
	{after: 48 * time.Hour, weight: 0.9, label: "Abandono percibido"},
}

// BehaviorsFor returns the behaviors a trigger type moves.
func BehaviorsFor(triggerType enum.TriggerType) []enum.BehaviorType {
	return triggerBehaviors[triggerType]
}

// WeightFor returns the base weight for a trigger type.
func WeightFor(triggerType enum.TriggerType) float64 {
	return triggerWeights[triggerType]
}
