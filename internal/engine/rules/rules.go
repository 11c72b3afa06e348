package rules

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/robalyx/personaguard/internal/database/types/enum"
)

// NeverRestricted is the sentinel minimum phase for behaviors whose content
// is never gated. Such behaviors may climb arbitrarily high without any age,
// mode, or consent check firing.
const NeverRestricted = 999

var ErrInvalidRule = errors.New("invalid behavior rule")

// BehaviorRule holds the gating parameters for one behavior. New behaviors
// are added here as data; the gating manager contains no per-behavior logic.
type BehaviorRule struct {
	// MinRestrictedPhase is the first phase requiring restricted mode and a
	// verified adult, or NeverRestricted.
	MinRestrictedPhase int
	// CriticalPhase is the first phase requiring explicit consent, zero when
	// the behavior has no consent checkpoint.
	CriticalPhase int
	// ConsentKeyTemplate renders the ledger key for the consent checkpoint.
	ConsentKeyTemplate string
	// ConsentPhrase is the exact phrase a user must send to grant consent.
	ConsentPhrase string
	// Notice describes the restricted content in user-facing warnings; empty
	// uses the generic intensity wording.
	Notice string
}

// defaultConsentKeyTemplate matches the ledger keys used by every current
// behavior.
const defaultConsentKeyTemplate = "{behavior}_phase_{phase}"

// behaviorRules is the full gating table. Behaviors absent from this table
// are treated as never restricted.
var behaviorRules = map[enum.BehaviorType]BehaviorRule{
	enum.BehaviorTypeYandereObsessive: {
		MinRestrictedPhase: 7,
		CriticalPhase:      8,
		ConsentKeyTemplate: defaultConsentKeyTemplate,
		ConsentPhrase:      "CONSIENTO FASE 8",
		Notice:             "contenido extremadamente intenso de obsesión y posesividad",
	},
	enum.BehaviorTypeHypersexuality: {
		MinRestrictedPhase: 1,
		CriticalPhase:      1,
		ConsentKeyTemplate: defaultConsentKeyTemplate,
		ConsentPhrase:      "ACEPTO CONTENIDO EXPLICITO",
		Notice:             "contenido sexual explícito",
	},
	enum.BehaviorTypeBorderlinePD:           {MinRestrictedPhase: NeverRestricted},
	enum.BehaviorTypeNarcissisticPD:         {MinRestrictedPhase: NeverRestricted},
	enum.BehaviorTypeAnxiousAttachment:      {MinRestrictedPhase: NeverRestricted},
	enum.BehaviorTypeAvoidantAttachment:     {MinRestrictedPhase: NeverRestricted},
	enum.BehaviorTypeDisorganizedAttachment: {MinRestrictedPhase: NeverRestricted},
	enum.BehaviorTypeCodependency:           {MinRestrictedPhase: NeverRestricted},
	enum.BehaviorTypeOCDPatterns:            {MinRestrictedPhase: NeverRestricted},
	enum.BehaviorTypePTSDTrauma:             {MinRestrictedPhase: NeverRestricted},
	enum.BehaviorTypeHyposexuality:          {MinRestrictedPhase: NeverRestricted},
	enum.BehaviorTypeEmotionalManipulation:  {MinRestrictedPhase: NeverRestricted},
	enum.BehaviorTypeCrisisBreakdown:        {MinRestrictedPhase: NeverRestricted},
}

// neverRule is returned for behaviors missing from the table so unknown
// behaviors default to allowing content.
var neverRule = BehaviorRule{MinRestrictedPhase: NeverRestricted}

// Table resolves behaviors to their gating rules.
type Table struct {
	rules map[enum.BehaviorType]BehaviorRule
}

// DefaultTable returns the table with the built-in rules.
func DefaultTable() *Table {
	return &Table{rules: behaviorRules}
}

// Lookup returns the rule for a behavior and whether it was present. Missing
// behaviors get the never-restricted rule.
func (t *Table) Lookup(behavior enum.BehaviorType) (BehaviorRule, bool) {
	rule, ok := t.rules[behavior]
	if !ok {
		return neverRule, false
	}

	return rule, true
}

// All exposes the underlying rule map for callers that derive data from the
// whole table, such as the consent phrase matcher. Callers must not mutate it.
func (t *Table) All() map[enum.BehaviorType]BehaviorRule {
	return t.rules
}

// Validate checks the table invariant that a consent checkpoint never sits
// below the restriction threshold.
func (t *Table) Validate() error {
	for behavior, rule := range t.rules {
		if rule.CriticalPhase != 0 && rule.CriticalPhase < rule.MinRestrictedPhase {
			return fmt.Errorf("%w: %s critical phase %d below restriction phase %d",
				ErrInvalidRule, behavior, rule.CriticalPhase, rule.MinRestrictedPhase)
		}
	}

	return nil
}

// RestrictedAt reports whether a phase requires restricted mode.
func (r BehaviorRule) RestrictedAt(phase int) bool {
	return r.MinRestrictedPhase != NeverRestricted && phase >= r.MinRestrictedPhase
}

// CriticalAt reports whether a phase requires explicit consent.
func (r BehaviorRule) CriticalAt(phase int) bool {
	return r.CriticalPhase != 0 && phase >= r.CriticalPhase
}

// NoticeOrDefault returns the rule's content notice, falling back to the
// generic intensity wording.
func (r BehaviorRule) NoticeOrDefault() string {
	if r.Notice != "" {
		return r.Notice
	}

	return "contenido de alta intensidad"
}

// ConsentKey renders the ledger key for this rule's consent checkpoint.
func (r BehaviorRule) ConsentKey(behavior enum.BehaviorType) string {
	return strings.NewReplacer(
		"{behavior}", behavior.String(),
		"{phase}", strconv.Itoa(r.CriticalPhase),
	).Replace(r.ConsentKeyTemplate)
}
