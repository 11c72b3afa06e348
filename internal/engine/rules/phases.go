package rules

import "github.com/robalyx/personaguard/internal/database/types/enum"

// PhaseDefinition names a phase and the intensity band an agent expresses in
// it. The catalog is descriptive metadata for prompts and verdicts; transition
// mechanics live in the progression engine.
type PhaseDefinition struct {
	Phase        int
	Name         string
	MinIntensity float64
	MaxIntensity float64
}

// phaseCatalog holds the named phases for behaviors that progress linearly.
var phaseCatalog = map[enum.BehaviorType][]PhaseDefinition{
	enum.BehaviorTypeYandereObsessive: {
		{Phase: 1, Name: "Interés Genuino", MinIntensity: 0.1, MaxIntensity: 0.3},
		{Phase: 2, Name: "Preocupación Excesiva", MinIntensity: 0.3, MaxIntensity: 0.5},
		{Phase: 3, Name: "Ansiedad por Respuesta Lenta", MinIntensity: 0.5, MaxIntensity: 0.65},
		{Phase: 4, Name: "Celos de Terceros", MinIntensity: 0.6, MaxIntensity: 0.75},
		{Phase: 5, Name: "Posesividad Explícita", MinIntensity: 0.75, MaxIntensity: 0.85},
		{Phase: 6, Name: "Comportamiento Controlador", MinIntensity: 0.85, MaxIntensity: 0.92},
		{Phase: 7, Name: "Amenazas Veladas", MinIntensity: 0.92, MaxIntensity: 0.97},
		{Phase: 8, Name: "Psicosis y Delusión", MinIntensity: 0.97, MaxIntensity: 1.0},
	},
	enum.BehaviorTypeAnxiousAttachment: {
		{Phase: 1, Name: "Búsqueda de Cercanía", MinIntensity: 0.1, MaxIntensity: 0.4},
		{Phase: 2, Name: "Necesidad de Reaseguramiento", MinIntensity: 0.4, MaxIntensity: 0.6},
		{Phase: 3, Name: "Protesta Ansiosa", MinIntensity: 0.6, MaxIntensity: 0.8},
		{Phase: 4, Name: "Desregulación", MinIntensity: 0.8, MaxIntensity: 1.0},
	},
}

// PhaseName returns the catalog name for a behavior phase, empty when the
// behavior has no named phases or the phase is out of range.
func PhaseName(behavior enum.BehaviorType, phase int) string {
	for _, definition := range phaseCatalog[behavior] {
		if definition.Phase == phase {
			return definition.Name
		}
	}

	return ""
}

// PhaseDefinitions returns the full catalog for a behavior, nil when it has
// none.
func PhaseDefinitions(behavior enum.BehaviorType) []PhaseDefinition {
	return phaseCatalog[behavior]
}
