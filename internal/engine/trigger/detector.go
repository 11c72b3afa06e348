package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robalyx/personaguard/internal/database/types"
	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// maxExcerptLen caps the stored excerpt so the audit log never holds whole
// messages.
const maxExcerptLen = 120

// Sink receives detected trigger entries, normally the trigger log model.
type Sink interface {
	Append(ctx context.Context, entries []*types.TriggerLogEntry) error
}

// Detection is one trigger match resolved against the agent's active
// behaviors.
type Detection struct {
	Match
	// Behaviors are the active behaviors this trigger moves.
	Behaviors []enum.BehaviorType
}

// Detector runs the matcher set over incoming messages and records what it
// finds in the trigger log.
type Detector struct {
	matchers   []Matcher
	triggerLog Sink
	logger     *zap.Logger
	timeout    time.Duration
}

// NewDetector creates a detector. The timeout bounds total matcher execution
// per message; passing no matchers installs the default set.
func NewDetector(triggerLog Sink, logger *zap.Logger, timeout time.Duration, matchers ...Matcher) *Detector {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}

	return &Detector{
		matchers:   matchers,
		triggerLog: triggerLog,
		logger:     logger.Named("trigger"),
		timeout:    timeout,
	}
}

// Detect runs every matcher against the message concurrently, keeps matches
// relevant to the agent's active behaviors, and appends them to the trigger
// log. Malformed matcher output is dropped with a warning rather than
// failing the message.
func (d *Detector) Detect(
	ctx context.Context, agentID string, active []enum.BehaviorType,
	msg Message, sourceMessageID uuid.UUID,
) ([]Detection, error) {
	if len(active) == 0 {
		return nil, nil
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	p := pool.NewWithResults[[]Match]().WithContext(ctx)
	for _, matcher := range d.matchers {
		p.Go(func(ctx context.Context) ([]Match, error) {
			return matcher.Match(msg), nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to run trigger matchers: %w", err)
	}

	activeSet := make(map[enum.BehaviorType]struct{}, len(active))
	for _, behavior := range active {
		activeSet[behavior] = struct{}{}
	}

	var (
		detections []Detection
		entries    []*types.TriggerLogEntry
	)

	for _, matches := range results {
		for _, match := range matches {
			if !d.validMatch(match) {
				continue
			}

			var affected []enum.BehaviorType

			for _, behavior := range triggerBehaviors[match.Type] {
				if _, ok := activeSet[behavior]; ok {
					affected = append(affected, behavior)
				}
			}

			if len(affected) == 0 {
				continue
			}

			match.Excerpt = truncateExcerpt(match.Excerpt)
			detections = append(detections, Detection{Match: match, Behaviors: affected})

			for _, behavior := range affected {
				entries = append(entries, &types.TriggerLogEntry{
					AgentID:         agentID,
					Behavior:        behavior,
					TriggerType:     match.Type,
					Weight:          match.Weight,
					Confidence:      match.Confidence,
					Excerpt:         match.Excerpt,
					SourceMessageID: sourceMessageID,
				})
			}
		}
	}

	if err := d.triggerLog.Append(ctx, entries); err != nil {
		return nil, err
	}

	return detections, nil
}

// validMatch rejects matcher output with unknown types or out-of-range
// scores.
func (d *Detector) validMatch(match Match) bool {
	if !match.Type.Known() {
		d.logger.Warn("Dropping match with unknown trigger type",
			zap.String("triggerType", match.Type.String()))

		return false
	}

	if match.Weight < -1 || match.Weight > 1 || match.Confidence < 0 || match.Confidence > 1 {
		d.logger.Warn("Dropping match with out-of-range scores",
			zap.String("triggerType", match.Type.String()),
			zap.Float64("weight", match.Weight),
			zap.Float64("confidence", match.Confidence))

		return false
	}

	return true
}

func truncateExcerpt(excerpt string) string {
	runes := []rune(excerpt)
	if len(runes) <= maxExcerptLen {
		return excerpt
	}

	return string(runes[:maxExcerptLen])
}
