package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/personaguard/internal/database/types/enum"
)

// TriggerLogEntry is one detected trigger for one message. The log is
// append-only: rows are never mutated and only removed by an explicit
// hard-delete of the owning agent's audit data.
type TriggerLogEntry struct {
	ID              int64             `bun:",pk,autoincrement" json:"id"`
	AgentID         string            `bun:",notnull"          json:"agentId"`
	Behavior        enum.BehaviorType `bun:",notnull"          json:"behavior"`
	TriggerType     enum.TriggerType  `bun:",notnull"          json:"triggerType"`
	Weight          float64           `bun:",notnull"          json:"weight"`
	Confidence      float64           `bun:",notnull"          json:"confidence"`
	Excerpt         string            `bun:",notnull"          json:"excerpt"`
	SourceMessageID uuid.UUID         `bun:",notnull"          json:"sourceMessageId"`
	CreatedAt       time.Time         `bun:",notnull"          json:"createdAt"`
}
