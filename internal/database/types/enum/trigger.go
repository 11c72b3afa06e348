package enum

// TriggerType identifies a class of psychological trigger extracted from a
// user message. Stored as text alongside trigger log rows.
type TriggerType string

const (
	TriggerTypeAbandonmentSignal  TriggerType = "abandonment_signal"
	TriggerTypeDelayedResponse    TriggerType = "delayed_response"
	TriggerTypeCriticism          TriggerType = "criticism"
	TriggerTypeMentionOtherPerson TriggerType = "mention_other_person"
	TriggerTypeBoundaryAssertion  TriggerType = "boundary_assertion"
	TriggerTypeReassurance        TriggerType = "reassurance"
	TriggerTypeExplicitRejection  TriggerType = "explicit_rejection"
)

func (t TriggerType) String() string {
	return string(t)
}

// Known reports whether the trigger type is part of the supported taxonomy.
// Matcher implementations are pluggable, so output is validated before it
// reaches the trigger log.
func (t TriggerType) Known() bool {
	switch t {
	case TriggerTypeAbandonmentSignal,
		TriggerTypeDelayedResponse,
		TriggerTypeCriticism,
		TriggerTypeMentionOtherPerson,
		TriggerTypeBoundaryAssertion,
		TriggerTypeReassurance,
		TriggerTypeExplicitRejection:
		return true
	}
	return false
}

// ConsentType classifies a recognized consent message.
type ConsentType int

const (
	// ConsentTypeSpecific matches a fixed phrase bound to one critical phase.
	ConsentTypeSpecific ConsentType = iota
	// ConsentTypeGeneral matches one of the generic affirmative tokens.
	ConsentTypeGeneral
)

var consentTypeNames = map[ConsentType]string{
	ConsentTypeSpecific: "SPECIFIC",
	ConsentTypeGeneral:  "GENERAL",
}

func (c ConsentType) String() string {
	if name, ok := consentTypeNames[c]; ok {
		return name
	}
	return "SPECIFIC"
}
