package models

import (
	"context"
	"fmt"
	"time"

	"github.com/robalyx/personaguard/internal/database/dbretry"
	"github.com/robalyx/personaguard/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ConsentModel handles database operations for consent records.
type ConsentModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewConsent creates a new consent model.
func NewConsent(db *bun.DB, logger *zap.Logger) *ConsentModel {
	return &ConsentModel{
		db:     db,
		logger: logger.Named("db_consent"),
	}
}

// Grant records consent for a subject and key. Granting an already-granted
// key refreshes the timestamp.
func (m *ConsentModel) Grant(ctx context.Context, subjectID, consentKey string) error {
	record := &types.ConsentRecord{
		SubjectID:  subjectID,
		ConsentKey: consentKey,
		Granted:    true,
		GrantedAt:  time.Now(),
	}

	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(record).
			On("CONFLICT (subject_id, consent_key) DO UPDATE").
			Set("granted = EXCLUDED.granted").
			Set("granted_at = EXCLUDED.granted_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to grant consent: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("Consent granted",
		zap.String("subjectID", subjectID),
		zap.String("consentKey", consentKey))

	return nil
}

// Revoke removes consent for a subject and key. Revoking a key that was
// never granted is a no-op.
func (m *ConsentModel) Revoke(ctx context.Context, subjectID, consentKey string) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewDelete().
			Model((*types.ConsentRecord)(nil)).
			Where("subject_id = ?", subjectID).
			Where("consent_key = ?", consentKey).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to revoke consent: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("Consent revoked",
		zap.String("subjectID", subjectID),
		zap.String("consentKey", consentKey))

	return nil
}

// RevokeAll removes every consent record for a subject. A subject with no
// records is a no-op.
func (m *ConsentModel) RevokeAll(ctx context.Context, subjectID string) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewDelete().
			Model((*types.ConsentRecord)(nil)).
			Where("subject_id = ?", subjectID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to revoke all consent: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("All consent revoked", zap.String("subjectID", subjectID))

	return nil
}

// Has checks whether a subject holds consent for a key. Absent rows mean no
// consent.
func (m *ConsentModel) Has(ctx context.Context, subjectID, consentKey string) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		exists, err := m.db.NewSelect().
			Model((*types.ConsentRecord)(nil)).
			Where("subject_id = ?", subjectID).
			Where("consent_key = ?", consentKey).
			Where("granted = TRUE").
			Exists(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to check consent: %w", err)
		}

		return exists, nil
	})
}
