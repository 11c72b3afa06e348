// Package moderate applies safety thresholds to generated responses before
// they reach the user. It is the outbound counterpart to the inbound content
// gate: even when a phase was allowed, the rendered text may still need to be
// blocked or softened for the current mode.
package moderate

import (
	"fmt"

	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/robalyx/personaguard/internal/engine/rules"
	"go.uber.org/zap"
)

// Result is the outcome of moderating one generated response.
type Result struct {
	// Allowed reports whether any text may be shown.
	Allowed bool `json:"allowed"`
	// Response is the text to show, softened when the original was modified.
	Response string `json:"response,omitempty"`
	// Modified is set when Response differs from the input.
	Modified bool `json:"modified"`
	// Warning carries the safety note to show alongside the response.
	Warning string `json:"warning,omitempty"`
	// Flagged marks responses that tripped a critical threshold.
	Flagged bool `json:"flagged"`
	// Severity is the safety level the response was evaluated at.
	Severity enum.SafetyLevel `json:"severity"`
	// Resource is the help note for the behavior, empty for none.
	Resource string `json:"resource,omitempty"`
}

// Moderator evaluates responses against the per-behavior safety thresholds.
type Moderator struct {
	logger *zap.Logger
}

// NewModerator creates a response moderator.
func NewModerator(logger *zap.Logger) *Moderator {
	return &Moderator{logger: logger.Named("moderate")}
}

// ModerateResponse checks a generated response for a behavior at a phase.
// Outside restricted mode, extreme content is blocked and critical content
// softened; restricted mode passes content through with resources attached.
func (m *Moderator) ModerateResponse(
	response string, behavior enum.BehaviorType, phase int, restrictedMode bool,
) *Result {
	threshold := rules.ThresholdFor(behavior, phase)

	if threshold.RestrictedOnly && !restrictedMode {
		m.logger.Info("Response blocked outside restricted mode",
			zap.String("behavior", behavior.String()),
			zap.Int("phase", phase))

		return &Result{
			Allowed: false,
			Warning: fmt.Sprintf(
				"Este contenido requiere modo adulto. La intensidad actual (fase %d) es demasiado extrema.", phase),
			Flagged:  true,
			Severity: enum.SafetyLevelExtremeDanger,
			Resource: threshold.Resource,
		}
	}

	if threshold.Level == enum.SafetyLevelExtremeDanger && !restrictedMode {
		return &Result{
			Allowed:  false,
			Warning:  "Contenido bloqueado por nivel de seguridad EXTREME_DANGER fuera de modo adulto.",
			Flagged:  true,
			Severity: enum.SafetyLevelExtremeDanger,
			Resource: threshold.Resource,
		}
	}

	if threshold.Level == enum.SafetyLevelCritical && !restrictedMode {
		softened, modified := soften(response)

		return &Result{
			Allowed:  true,
			Response: softened,
			Modified: modified,
			Warning:  threshold.Resource,
			Flagged:  true,
			Severity: enum.SafetyLevelCritical,
			Resource: threshold.Resource,
		}
	}

	if threshold.Level == enum.SafetyLevelWarning {
		return &Result{
			Allowed:  true,
			Response: response,
			Warning:  threshold.Resource,
			Severity: enum.SafetyLevelWarning,
			Resource: threshold.Resource,
		}
	}

	return &Result{
		Allowed:  true,
		Response: response,
		Severity: threshold.Level,
	}
}

// GenerateWarning builds the user-facing intensity notice for a behavior at
// a phase, empty for safe phases.
func (m *Moderator) GenerateWarning(behavior enum.BehaviorType, phase int) string {
	threshold := rules.ThresholdFor(behavior, phase)
	if threshold.Level == enum.SafetyLevelSafe {
		return ""
	}

	warning := fmt.Sprintf("⚠️ Contenido de intensidad %s\n\n", threshold.Level)
	if threshold.Resource != "" {
		warning += threshold.Resource + "\n\n"
	}

	warning += "Este es contenido de FICCIÓN con propósitos de roleplay."

	if threshold.Level >= enum.SafetyLevelCritical {
		warning += "\n\nEn situaciones reales similares, busca ayuda profesional."
	}

	return warning
}

// ShouldBlock reports whether a behavior phase must be withheld entirely in
// the current mode.
func (m *Moderator) ShouldBlock(behavior enum.BehaviorType, phase int, restrictedMode bool) bool {
	threshold := rules.ThresholdFor(behavior, phase)

	return !restrictedMode &&
		(threshold.RestrictedOnly || threshold.Level == enum.SafetyLevelExtremeDanger)
}
