package progress

import (
	"math"
	"time"

	"github.com/robalyx/personaguard/internal/database/types"
	"github.com/robalyx/personaguard/internal/database/types/enum"
	"go.uber.org/zap"
)

const (
	// escalationRateFloor keeps the threshold divisor away from zero for
	// profiles configured with a near-zero escalation rate.
	escalationRateFloor = 0.05

	// deEscalationBaseRun is the soothing-run length that drops one phase for
	// a profile with a zero de-escalation rate. Higher rates shorten the run.
	deEscalationBaseRun = 3
)

// Event is one weighted trigger feeding the state machine.
type Event struct {
	Type   enum.TriggerType
	Weight float64
}

// Outcome describes what a processed message did to a profile.
type Outcome struct {
	PreviousPhase int
	Phase         int
	Escalated     bool
	DeEscalated   bool
	Intensity     float64
	PhaseScore    float64
}

// Machine advances behavior profiles through their phase sequence. It is
// pure: callers load the profile and counters, apply one message, and persist
// the mutated state atomically.
type Machine struct {
	logger *zap.Logger
}

// NewMachine creates a progression state machine.
func NewMachine(logger *zap.Logger) *Machine {
	return &Machine{
		logger: logger.Named("progress"),
	}
}

// EscalationThreshold is the weighted score a phase must accumulate before
// advancement. Derived from the profile's intensity and volatility, scaled by
// the escalation rate so eager profiles cross sooner.
func EscalationThreshold(profile *types.BehaviorProfile) float64 {
	rate := math.Max(profile.EscalationRate, escalationRateFloor)
	return profile.BaseIntensity * (1 + profile.Volatility) / rate
}

// deEscalationRun is how many consecutive soothing interactions drop a phase.
func deEscalationRun(profile *types.BehaviorProfile) int {
	run := int(math.Ceil(deEscalationBaseRun * (1 - profile.DeEscalationRate)))
	if run < 1 {
		run = 1
	}

	return run
}

// CountMessage records one inbound message in the agent's counters. Called
// exactly once per message, no matter how many behaviors the message feeds;
// per-behavior state is advanced separately through Apply.
func (m *Machine) CountMessage(counters *types.ProgressionCounters, events []Event) {
	counters.TotalInteractions++

	// Positive-weight triggers escalate, negative-weight triggers soothe.
	switch net := netWeight(events); {
	case net > 0:
		counters.NegativeInteractions++
	case net < 0:
		counters.PositiveInteractions++
	}
}

func netWeight(events []Event) float64 {
	var net float64
	for _, event := range events {
		net += event.Weight
	}

	return net
}

// Apply folds one message's trigger events into the profile. triggerCounts
// holds per-type occurrence counts since the phase started, read from the
// trigger log. The profile is mutated in place and the counters row carries
// the updated intensity; the caller persists both in a single transaction.
func (m *Machine) Apply(
	profile *types.BehaviorProfile,
	counters *types.ProgressionCounters,
	events []Event,
	triggerCounts map[enum.TriggerType]int,
	now time.Time,
) Outcome {
	outcome := Outcome{
		PreviousPhase: profile.CurrentPhase,
		Phase:         profile.CurrentPhase,
	}

	profile.InteractionsSincePhaseStart++

	net := netWeight(events)

	switch {
	case net > 0:
		profile.NegativeRun = 0
	case net < 0:
		profile.NegativeRun++
	}

	profile.PhaseScore += net
	if profile.PhaseScore < 0 {
		profile.PhaseScore = 0
	}

	m.updateIntensity(profile, counters, net)

	if dropped := m.tryDeEscalate(profile, now); dropped {
		outcome.DeEscalated = true
	} else if advanced := m.tryEscalate(profile, triggerCounts, now); advanced {
		outcome.Escalated = true
	}

	outcome.Phase = profile.CurrentPhase
	outcome.Intensity = counters.Intensity(profile.Behavior)
	outcome.PhaseScore = profile.PhaseScore

	return outcome
}

// tryEscalate advances the profile by exactly one phase when the accumulated
// score crosses the threshold and the target phase's requirements are met.
func (m *Machine) tryEscalate(
	profile *types.BehaviorProfile, triggerCounts map[enum.TriggerType]int, now time.Time,
) bool {
	nextPhase := profile.CurrentPhase + 1

	if limit := MaxPhase(profile.Behavior); limit > 0 && nextPhase > limit {
		return false
	}

	if profile.PhaseScore < EscalationThreshold(profile) {
		return false
	}

	req := RequirementFor(profile.Behavior, nextPhase)
	if profile.InteractionsSincePhaseStart < req.MinInteractions {
		return false
	}

	for _, tr := range req.RequiredTriggers {
		if triggerCounts[tr.Type] < tr.MinOccurrences {
			return false
		}
	}

	m.transition(profile, nextPhase, "natural_progression", now)

	m.logger.Info("Behavior escalated",
		zap.String("agentID", profile.AgentID),
		zap.String("behavior", profile.Behavior.String()),
		zap.Int("phase", nextPhase))

	return true
}

// tryDeEscalate drops the phase after a sustained soothing run. A run twice
// the threshold length drops two phases at once.
func (m *Machine) tryDeEscalate(profile *types.BehaviorProfile, now time.Time) bool {
	if profile.CurrentPhase <= 1 {
		return false
	}

	run := deEscalationRun(profile)
	if profile.NegativeRun < run {
		return false
	}

	drop := 1
	if profile.NegativeRun >= 2*run {
		drop = 2
	}

	target := profile.CurrentPhase - drop
	if target < 1 {
		target = 1
	}

	m.transition(profile, target, "de_escalation", now)

	m.logger.Info("Behavior de-escalated",
		zap.String("agentID", profile.AgentID),
		zap.String("behavior", profile.Behavior.String()),
		zap.Int("phase", target))

	return true
}

// transition closes the open history interval and opens a new one for the
// target phase, resetting the per-phase accumulators.
func (m *Machine) transition(profile *types.BehaviorProfile, toPhase int, reason string, now time.Time) {
	if n := len(profile.PhaseHistory); n > 0 && profile.PhaseHistory[n-1].ExitedAt.IsZero() {
		profile.PhaseHistory[n-1].ExitedAt = now
		profile.PhaseHistory[n-1].ExitReason = reason
	}

	profile.PhaseHistory = append(profile.PhaseHistory, types.PhaseInterval{
		Phase:          toPhase,
		EnteredAt:      now,
		FinalIntensity: profile.BaseIntensity,
	})

	profile.CurrentPhase = toPhase
	profile.PhaseStartedAt = now
	profile.InteractionsSincePhaseStart = 0
	profile.PhaseScore = 0
	profile.NegativeRun = 0
}

// Reset clears progression back to phase zero. History is emptied but the
// profile row itself survives; the trigger log is untouched.
func (m *Machine) Reset(profile *types.BehaviorProfile, counters *types.ProgressionCounters, now time.Time) {
	profile.CurrentPhase = 0
	profile.PhaseStartedAt = now
	profile.InteractionsSincePhaseStart = 0
	profile.PhaseScore = 0
	profile.NegativeRun = 0
	profile.PhaseHistory = nil

	counters.SetIntensity(profile.Behavior, 0)

	m.logger.Info("Behavior reset",
		zap.String("agentID", profile.AgentID),
		zap.String("behavior", profile.Behavior.String()))
}

// updateIntensity nudges the tracked intensity with the message's net weight,
// scaled by the profile's escalation or de-escalation rate.
func (m *Machine) updateIntensity(
	profile *types.BehaviorProfile, counters *types.ProgressionCounters, net float64,
) {
	intensity := counters.Intensity(profile.Behavior)
	if intensity == 0 {
		intensity = profile.BaseIntensity
	}

	switch {
	case net > 0:
		intensity += profile.EscalationRate * net
	case net < 0:
		intensity += profile.DeEscalationRate * net
	}

	intensity = math.Min(1, math.Max(0, intensity))
	counters.SetIntensity(profile.Behavior, intensity)
}
