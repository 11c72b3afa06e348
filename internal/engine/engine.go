// Package engine orchestrates the message pipeline: consent capture, trigger
// detection, phase progression, and content gating, producing one aggregate
// verdict per incoming message.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/personaguard/internal/database"
	"github.com/robalyx/personaguard/internal/database/service"
	"github.com/robalyx/personaguard/internal/database/types"
	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/robalyx/personaguard/internal/engine/gate"
	"github.com/robalyx/personaguard/internal/engine/moderate"
	"github.com/robalyx/personaguard/internal/engine/progress"
	"github.com/robalyx/personaguard/internal/engine/rules"
	"github.com/robalyx/personaguard/internal/engine/session"
	"github.com/robalyx/personaguard/internal/engine/trigger"
	"go.uber.org/zap"
)

// Subject describes the person talking to the agent.
type Subject struct {
	// ID identifies the subject in the consent ledger.
	ID string
	// AgeVerified is whether the subject passed age verification.
	AgeVerified bool
	// RestrictedMode is whether the subject enabled restricted content for
	// this agent.
	RestrictedMode bool
}

// Incoming is one user message entering the pipeline.
type Incoming struct {
	ID   uuid.UUID
	Text string
	// LastMessageAt is when the previous message in the conversation was
	// sent, zero for the first message.
	LastMessageAt time.Time
	ReceivedAt    time.Time
}

// BehaviorStatus reports one behavior's state after the message was applied.
type BehaviorStatus struct {
	Behavior    enum.BehaviorType `json:"behavior"`
	Phase       int               `json:"phase"`
	PhaseName   string            `json:"phaseName,omitempty"`
	Intensity   float64           `json:"intensity"`
	SafetyLevel enum.SafetyLevel  `json:"safetyLevel"`
	Escalated   bool              `json:"escalated,omitempty"`
	DeEscalated bool              `json:"deEscalated,omitempty"`
	Gate        *gate.Result      `json:"gate"`
}

// Verdict is the aggregate outcome for one message. When several behaviors
// block, the dominant cause wins: age over mode over consent.
type Verdict struct {
	Allowed         bool                `json:"allowed"`
	Reason          string              `json:"reason,omitempty"`
	Warnings        []string            `json:"warnings,omitempty"`
	RequiresConsent bool                `json:"requiresConsent,omitempty"`
	ConsentPrompt   string              `json:"consentPrompt,omitempty"`
	ConsentGranted  bool                `json:"consentGranted,omitempty"`
	Behaviors       []BehaviorStatus    `json:"behaviors,omitempty"`
	Triggers        []trigger.Detection `json:"triggers,omitempty"`
}

// Engine wires the pipeline stages together.
type Engine struct {
	progression *service.ProgressionService
	repo        *database.Repository
	gate        *gate.Manager
	detector    *trigger.Detector
	moderator   *moderate.Moderator
	sessions    *session.Store
	locks       *session.Locker
	logger      *zap.Logger
}

// New creates the engine from its stages.
func New(
	progression *service.ProgressionService,
	repo *database.Repository,
	gateManager *gate.Manager,
	detector *trigger.Detector,
	moderator *moderate.Moderator,
	sessions *session.Store,
	locks *session.Locker,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		progression: progression,
		repo:        repo,
		gate:        gateManager,
		detector:    detector,
		moderator:   moderator,
		sessions:    sessions,
		locks:       locks,
		logger:      logger.Named("engine"),
	}
}

// Gate returns the content gating manager for direct consent operations.
func (e *Engine) Gate() *gate.Manager {
	return e.gate
}

// HandleMessage runs the full pipeline for one user message. Consent
// messages are consumed before any trigger processing so a bare "sí" never
// feeds the progression engine.
func (e *Engine) HandleMessage(
	ctx context.Context, agentID string, subject Subject, msg Incoming,
) (*Verdict, error) {
	if verdict, handled, err := e.handleConsentMessage(ctx, agentID, subject, msg.Text); handled || err != nil {
		return verdict, err
	}

	profiles, err := e.repo.Behavior().GetActiveProfiles(ctx, agentID)
	if err != nil {
		return nil, err
	}

	if len(profiles) == 0 {
		return &Verdict{Allowed: true}, nil
	}

	active := make([]enum.BehaviorType, len(profiles))
	for i, profile := range profiles {
		active[i] = profile.Behavior
	}

	detections, err := e.detector.Detect(ctx, agentID, active, trigger.Message{
		Text:          msg.Text,
		LastMessageAt: msg.LastMessageAt,
		ReceivedAt:    msg.ReceivedAt,
	}, msg.ID)
	if err != nil {
		return nil, err
	}

	// The message-level counters move once here; the per-behavior loop below
	// only advances phase state.
	if err := e.progression.RecordInteraction(ctx, agentID, messageEvents(detections)); err != nil {
		return nil, err
	}

	verdict := &Verdict{Allowed: true, Triggers: detections}

	var (
		dominant   gate.BlockCause
		dominantBy *gate.Result
		gateErr    error
	)

	for _, profile := range profiles {
		status, result, err := e.applyToBehavior(ctx, agentID, subject, profile, detections)
		if err != nil {
			if !errors.Is(err, gate.ErrConsentUnavailable) {
				return nil, err
			}
			// Fail closed but keep evaluating the other behaviors.
			gateErr = err
		}

		verdict.Behaviors = append(verdict.Behaviors, *status)

		if result.Warning != "" && result.Allowed {
			verdict.Warnings = append(verdict.Warnings, result.Warning)
		}

		if !result.Allowed && result.Cause > dominant {
			dominant = result.Cause
			dominantBy = result
		}
	}

	if dominantBy != nil {
		verdict.Allowed = false
		verdict.Reason = dominantBy.Reason

		if dominantBy.Warning != "" {
			verdict.Warnings = append(verdict.Warnings, dominantBy.Warning)
		}

		// Consent details only surface when nothing stronger blocks.
		if dominant == gate.BlockCauseConsent {
			verdict.RequiresConsent = dominantBy.RequiresConsent
			verdict.ConsentPrompt = dominantBy.ConsentPrompt
		}
	}

	return verdict, gateErr
}

// applyToBehavior folds the message's detections into one behavior and gates
// the resulting phase.
func (e *Engine) applyToBehavior(
	ctx context.Context, agentID string, subject Subject,
	profile *types.BehaviorProfile, detections []trigger.Detection,
) (*BehaviorStatus, *gate.Result, error) {
	events := eventsFor(profile.Behavior, detections)

	phase := profile.CurrentPhase
	intensity := profile.BaseIntensity

	status := &BehaviorStatus{Behavior: profile.Behavior}

	release, err := e.locks.Acquire(ctx, agentID, profile.Behavior)
	if err != nil {
		if !errors.Is(err, session.ErrLockHeld) {
			return nil, nil, err
		}

		// Another worker is already progressing this behavior; gate on the
		// phase we loaded rather than stalling the message.
		e.logger.Warn("Progression lock held, gating on loaded phase",
			zap.String("agentID", agentID),
			zap.String("behavior", profile.Behavior.String()))
	} else {
		outcome, err := e.progression.ApplyMessage(ctx, agentID, profile.Behavior, events)

		release()

		if err != nil {
			return nil, nil, err
		}

		phase = outcome.Phase
		intensity = outcome.Intensity
		status.Escalated = outcome.Escalated
		status.DeEscalated = outcome.DeEscalated
	}

	status.Phase = phase
	status.PhaseName = rules.PhaseName(profile.Behavior, phase)
	status.Intensity = intensity
	status.SafetyLevel = rules.ThresholdFor(profile.Behavior, phase).Level

	result, gateErr := e.gate.VerifyContent(
		ctx, subject.ID, profile.Behavior, phase, subject.AgeVerified, subject.RestrictedMode)

	status.Gate = result

	if result.RequiresConsent && result.ConsentPrompt != "" {
		key := e.gate.ConsentKeyFor(profile.Behavior)
		if err := e.sessions.SetPendingConsent(ctx, subject.ID, agentID, profile.Behavior, key); err != nil {
			e.logger.Warn("Failed to record pending consent", zap.Error(err))
		}
	}

	if result.Allowed {
		e.maybeWarnTransition(ctx, agentID, profile.Behavior, phase, status, &result.Warning)
	}

	return status, result, gateErr
}

// maybeWarnTransition upgrades the generic restricted-mode warning to the
// full phase transition notice the first time a restricted phase is seen in
// a session.
func (e *Engine) maybeWarnTransition(
	ctx context.Context, agentID string, behavior enum.BehaviorType, phase int,
	status *BehaviorStatus, warning *string,
) {
	transition := e.gate.GeneratePhaseTransitionWarning(behavior, phase)
	if transition == "" {
		return
	}

	first, err := e.sessions.MarkPhaseWarned(ctx, agentID, behavior, phase)
	if err != nil {
		e.logger.Warn("Failed to mark phase warned", zap.Error(err))
		return
	}

	if first {
		*warning = transition
		status.Gate.Warning = transition
	}
}

// handleConsentMessage consumes the message when it grants consent. Generic
// affirmatives only count when a consent prompt is pending.
func (e *Engine) handleConsentMessage(
	ctx context.Context, agentID string, subject Subject, text string,
) (*Verdict, bool, error) {
	match := e.gate.IsConsentMessage(text)
	if !match.IsConsent {
		return nil, false, nil
	}

	switch match.Type {
	case enum.ConsentTypeSpecific:
		if err := e.gate.GrantConsentKey(ctx, subject.ID, match.ConsentKey); err != nil {
			return nil, true, err
		}

		if err := e.sessions.ClearPendingConsent(ctx, subject.ID, agentID); err != nil {
			e.logger.Warn("Failed to clear pending consent", zap.Error(err))
		}

		return consentGrantedVerdict(match.Behavior), true, nil

	case enum.ConsentTypeGeneral:
		behavior, consentKey, pending, err := e.sessions.TakePendingConsent(ctx, subject.ID, agentID)
		if err != nil {
			return nil, true, err
		}

		if !pending {
			// A bare affirmative outside a consent flow is an ordinary message.
			return nil, false, nil
		}

		if err := e.gate.GrantConsentKey(ctx, subject.ID, consentKey); err != nil {
			return nil, true, err
		}

		return consentGrantedVerdict(behavior), true, nil
	}

	return nil, false, nil
}

func consentGrantedVerdict(behavior enum.BehaviorType) *Verdict {
	return &Verdict{
		Allowed:        true,
		ConsentGranted: true,
		Warnings: []string{
			"✅ Consentimiento registrado para " + behavior.String() +
				". Puedes revocarlo en cualquier momento.",
		},
	}
}

// ModerateResponse applies the outbound safety thresholds to a generated
// response for one behavior at its current phase.
func (e *Engine) ModerateResponse(
	ctx context.Context, agentID string, behavior enum.BehaviorType,
	response string, restrictedMode bool,
) (*moderate.Result, error) {
	profile, err := e.repo.Behavior().GetProfile(ctx, agentID, behavior)
	if err != nil {
		return nil, err
	}

	return e.moderator.ModerateResponse(response, behavior, profile.CurrentPhase, restrictedMode), nil
}

// messageEvents flattens every detection into events for message-level
// counting, before any per-behavior filtering.
func messageEvents(detections []trigger.Detection) []progress.Event {
	events := make([]progress.Event, 0, len(detections))
	for _, detection := range detections {
		events = append(events, progress.Event{Type: detection.Type, Weight: detection.Weight})
	}

	return events
}

// eventsFor converts detections into progression events for one behavior.
func eventsFor(behavior enum.BehaviorType, detections []trigger.Detection) []progress.Event {
	var events []progress.Event

	for _, detection := range detections {
		for _, affected := range detection.Behaviors {
			if affected == behavior {
				events = append(events, progress.Event{Type: detection.Type, Weight: detection.Weight})
				break
			}
		}
	}

	return events
}
