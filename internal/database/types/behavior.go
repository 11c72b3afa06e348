package types

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/personaguard/internal/database/types/enum"
)

var (
	ErrProfileNotFound  = errors.New("behavior profile not found")
	ErrVersionConflict  = errors.New("behavior profile was modified concurrently")
	ErrCountersNotFound = errors.New("progression counters not found")
)

// PhaseInterval is one closed entry of a profile's phase history. The last
// entry stays open (ExitedAt zero) until the next transition closes it.
type PhaseInterval struct {
	Phase          int       `json:"phase"`
	EnteredAt      time.Time `json:"enteredAt"`
	ExitedAt       time.Time `json:"exitedAt,omitzero"`
	ExitReason     string    `json:"exitReason,omitempty"`
	FinalIntensity float64   `json:"finalIntensity"`
}

// BehaviorProfile tracks progression state for one agent and behavior pair.
// Rows are mutated by the progression service after every processed message
// and never deleted; reset clears progression but keeps the row for audit.
type BehaviorProfile struct {
	AgentID                     string            `bun:",pk"                    json:"agentId"`
	Behavior                    enum.BehaviorType `bun:",pk"                    json:"behavior"`
	UUID                        uuid.UUID         `bun:",notnull"               json:"uuid"`
	BaseIntensity               float64           `bun:",notnull"               json:"baseIntensity"`
	CurrentPhase                int               `bun:",notnull,default:1"     json:"currentPhase"`
	Volatility                  float64           `bun:",notnull"               json:"volatility"`
	EscalationRate              float64           `bun:",notnull"               json:"escalationRate"`
	DeEscalationRate            float64           `bun:",notnull"               json:"deEscalationRate"`
	DisplayThreshold            float64           `bun:",notnull"               json:"displayThreshold"`
	PhaseScore                  float64           `bun:",notnull,default:0"     json:"phaseScore"`
	NegativeRun                 int               `bun:",notnull,default:0"     json:"negativeRun"`
	PhaseStartedAt              time.Time         `bun:",notnull"               json:"phaseStartedAt"`
	InteractionsSincePhaseStart int               `bun:",notnull,default:0"     json:"interactionsSincePhaseStart"`
	PhaseHistory                []PhaseInterval   `bun:",type:jsonb"            json:"phaseHistory"`
	Version                     int64             `bun:",notnull,default:1"     json:"version"`
	CreatedAt                   time.Time         `bun:",notnull"               json:"createdAt"`
	UpdatedAt                   time.Time         `bun:",notnull"               json:"updatedAt"`
}

// ProgressionCounters aggregates interaction counts for one agent across all
// of its behaviors. Updated in the same transaction as the profile rows.
type ProgressionCounters struct {
	AgentID              string             `bun:",pk"                json:"agentId"`
	TotalInteractions    int64              `bun:",notnull,default:0" json:"totalInteractions"`
	PositiveInteractions int64              `bun:",notnull,default:0" json:"positiveInteractions"`
	NegativeInteractions int64              `bun:",notnull,default:0" json:"negativeInteractions"`
	CurrentIntensities   map[string]float64 `bun:",type:jsonb"        json:"currentIntensities"`
	Version              int64              `bun:",notnull,default:1" json:"version"`
	UpdatedAt            time.Time          `bun:",notnull"           json:"updatedAt"`
}

// Intensity returns the tracked intensity for a behavior, zero when absent.
func (c *ProgressionCounters) Intensity(behavior enum.BehaviorType) float64 {
	if c.CurrentIntensities == nil {
		return 0
	}
	return c.CurrentIntensities[string(behavior)]
}

// SetIntensity records the tracked intensity for a behavior.
func (c *ProgressionCounters) SetIntensity(behavior enum.BehaviorType, value float64) {
	if c.CurrentIntensities == nil {
		c.CurrentIntensities = make(map[string]float64)
	}
	c.CurrentIntensities[string(behavior)] = value
}
