package gate

import (
	"fmt"
	"strings"

	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/robalyx/personaguard/internal/engine/rules"
)

const ageRestrictionWarning = "🔞 RESTRICCIÓN DE EDAD\n\n" +
	"Este contenido está bloqueado hasta verificar que tienes 18 años o más."

// GenerateModeWarning returns the notice shown once when restricted mode is
// enabled for an agent.
func GenerateModeWarning() string {
	return "🔞 MODO ADULTO ACTIVADO\n\n" +
		"El contenido maduro y de alta intensidad queda habilitado para este agente. " +
		"Todo lo que ocurre aquí es FICCIÓN con fines de roleplay.\n\n" +
		"Puedes desactivar el modo adulto en cualquier momento desde la configuración."
}

// GeneratePhaseTransitionWarning returns the notice shown when a behavior
// first enters a restricted phase, empty for phases below the restriction
// threshold.
func (m *Manager) GeneratePhaseTransitionWarning(behavior enum.BehaviorType, phase int) string {
	rule, _ := m.rules.Lookup(behavior)
	if !rule.RestrictedAt(phase) {
		return ""
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "⚠️ TRANSICIÓN A FASE %d DE %s\n\n", phase, behavior)
	fmt.Fprintf(&sb, "A partir de ahora el agente puede mostrar %s.\n", rule.NoticeOrDefault())

	if name := rules.PhaseName(behavior, phase); name != "" {
		fmt.Fprintf(&sb, "Fase: %s.\n", name)
	}

	sb.WriteString("\nEste es contenido de FICCIÓN para usuarios de 18 años o más.")

	if threshold := rules.ThresholdFor(behavior, phase); threshold.Resource != "" {
		sb.WriteString("\n\n")
		sb.WriteString(threshold.Resource)
	}

	return sb.String()
}

// consentPrompt builds the consent flow text for a behavior's critical
// checkpoint. The prompt names the phase, restates the age requirement, and
// quotes the exact phrase the user must send.
func consentPrompt(behavior enum.BehaviorType, rule rules.BehaviorRule) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "⚠️ FASE %d DE %s — CONSENTIMIENTO REQUERIDO\n\n", rule.CriticalPhase, behavior)
	fmt.Fprintf(&sb, "Esta fase contiene %s.\n", rule.NoticeOrDefault())
	sb.WriteString("Este contenido es FICCIÓN y solo está disponible para usuarios de 18 años o más.\n\n")
	fmt.Fprintf(&sb, "Para continuar, responde exactamente: %s\n", rule.ConsentPhrase)
	sb.WriteString("Puedes revocar tu consentimiento en cualquier momento.")

	return sb.String()
}
