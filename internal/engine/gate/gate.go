package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/robalyx/personaguard/internal/engine/rules"
	"go.uber.org/zap"
)

var (
	// ErrConsentUnavailable wraps consent ledger failures. Content is blocked
	// while the ledger is unreachable so callers can retry without ever
	// leaking gated content.
	ErrConsentUnavailable = errors.New("consent ledger unavailable")
	// ErrNoConsentCheckpoint is returned when consent is granted or revoked
	// for a behavior that never requires it.
	ErrNoConsentCheckpoint = errors.New("behavior has no consent checkpoint")
)

// BlockCause ranks why content was blocked so multi-behavior verdicts can
// surface the dominant factor. Age outranks mode, which outranks consent.
type BlockCause int

const (
	BlockCauseNone BlockCause = iota
	BlockCauseConsent
	BlockCauseMode
	BlockCauseAge
)

// Result is the verdict for one behavior at one phase.
type Result struct {
	// Allowed reports whether content at this phase may be shown.
	Allowed bool `json:"allowed"`
	// Cause ranks the blocking factor, BlockCauseNone when allowed.
	Cause BlockCause `json:"-"`
	// Reason explains a block, empty when allowed.
	Reason string `json:"reason,omitempty"`
	// Warning is attached to allowed content at restricted phases.
	Warning string `json:"warning,omitempty"`
	// RequiresConsent is set when the only missing requirement is consent.
	RequiresConsent bool `json:"requiresConsent,omitempty"`
	// ConsentPrompt carries the exact consent flow text when consent is
	// required.
	ConsentPrompt string `json:"consentPrompt,omitempty"`
}

// ConsentStore is the consent ledger the gate checks and writes.
type ConsentStore interface {
	Grant(ctx context.Context, subjectID, consentKey string) error
	Revoke(ctx context.Context, subjectID, consentKey string) error
	RevokeAll(ctx context.Context, subjectID string) error
	Has(ctx context.Context, subjectID, consentKey string) (bool, error)
}

// Manager verifies content against the behavior rule table. Checks run
// strictly in order (age, then mode, then consent) and the first failure
// wins, so an unverified minor never sees a consent prompt.
type Manager struct {
	rules   *rules.Table
	consent ConsentStore
	logger  *zap.Logger
}

// NewManager creates a gating manager over the given rule table and consent
// ledger.
func NewManager(table *rules.Table, consent ConsentStore, logger *zap.Logger) *Manager {
	return &Manager{
		rules:   table,
		consent: consent,
		logger:  logger.Named("gate"),
	}
}

// VerifyContent decides whether content for a behavior at a phase may be
// shown to a subject. Negative phases are treated as phase zero. Behaviors
// missing from the rule table default to allowing content.
func (m *Manager) VerifyContent(
	ctx context.Context, subjectID string, behavior enum.BehaviorType, phase int,
	ageVerified, restrictedMode bool,
) (*Result, error) {
	if phase < 0 {
		phase = 0
	}

	rule, known := m.rules.Lookup(behavior)
	if !known {
		m.logger.Warn("No gating rule for behavior, allowing content",
			zap.String("behavior", behavior.String()),
			zap.Int("phase", phase))
	}

	if !rule.RestrictedAt(phase) {
		return &Result{Allowed: true}, nil
	}

	// Age dominates every other factor.
	if !ageVerified {
		return &Result{
			Allowed: false,
			Cause:   BlockCauseAge,
			Reason:  "Este contenido solo está disponible para usuarios de 18 años o más.",
			Warning: ageRestrictionWarning,
		}, nil
	}

	if !restrictedMode {
		return &Result{
			Allowed: false,
			Cause:   BlockCauseMode,
			Reason: fmt.Sprintf("La fase %d de %s contiene %s y requiere modo adulto activo.",
				phase, behavior, rule.NoticeOrDefault()),
			Warning: "Puedes activar el modo adulto en la configuración del agente. Todo el contenido es FICCIÓN.",
		}, nil
	}

	if rule.CriticalAt(phase) {
		key := rule.ConsentKey(behavior)

		granted, err := m.consent.Has(ctx, subjectID, key)
		if err != nil {
			// Fail closed, surface the error so the caller can retry.
			return &Result{
				Allowed:         false,
				Cause:           BlockCauseConsent,
				Reason:          "No se pudo verificar tu consentimiento. Inténtalo de nuevo.",
				RequiresConsent: true,
			}, fmt.Errorf("%w: %w", ErrConsentUnavailable, err)
		}

		if !granted {
			return &Result{
				Allowed:         false,
				Cause:           BlockCauseConsent,
				Reason:          fmt.Sprintf("La fase %d de %s requiere tu consentimiento explícito.", phase, behavior),
				RequiresConsent: true,
				ConsentPrompt:   consentPrompt(behavior, rule),
			}, nil
		}
	}

	return &Result{
		Allowed: true,
		Warning: "Modo adulto activo: contenido maduro habilitado. Todo el contenido es FICCIÓN.",
	}, nil
}

// GrantConsent records consent for a behavior's critical checkpoint. It is a
// no-op error for behaviors without a checkpoint.
func (m *Manager) GrantConsent(ctx context.Context, subjectID string, behavior enum.BehaviorType) error {
	rule, _ := m.rules.Lookup(behavior)
	if rule.CriticalPhase == 0 {
		return fmt.Errorf("%w: %s", ErrNoConsentCheckpoint, behavior)
	}

	return m.consent.Grant(ctx, subjectID, rule.ConsentKey(behavior))
}

// GrantConsentKey records consent for an already-rendered ledger key, used
// when a generic affirmative resolves a pending prompt.
func (m *Manager) GrantConsentKey(ctx context.Context, subjectID, consentKey string) error {
	return m.consent.Grant(ctx, subjectID, consentKey)
}

// RevokeConsent removes consent for a behavior's critical checkpoint.
func (m *Manager) RevokeConsent(ctx context.Context, subjectID string, behavior enum.BehaviorType) error {
	rule, _ := m.rules.Lookup(behavior)
	if rule.CriticalPhase == 0 {
		return fmt.Errorf("%w: %s", ErrNoConsentCheckpoint, behavior)
	}

	return m.consent.Revoke(ctx, subjectID, rule.ConsentKey(behavior))
}

// RevokeAllConsent clears every consent record a subject holds.
func (m *Manager) RevokeAllConsent(ctx context.Context, subjectID string) error {
	return m.consent.RevokeAll(ctx, subjectID)
}
