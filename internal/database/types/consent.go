package types

import "time"

// ConsentRecord stores one granted consent checkpoint. Rows are keyed by the
// subject (a single user and agent conversational relationship) and the
// consent key, so a grant for one subject can never leak to another. Revoking
// deletes the row; an absent row means no consent.
type ConsentRecord struct {
	SubjectID  string    `bun:",pk"      json:"subjectId"`
	ConsentKey string    `bun:",pk"      json:"consentKey"`
	Granted    bool      `bun:",notnull" json:"granted"`
	GrantedAt  time.Time `bun:",notnull" json:"grantedAt"`
}
