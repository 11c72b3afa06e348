package database

import (
	"github.com/robalyx/personaguard/internal/database/models"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	behavior   *models.BehaviorModel
	consent    *models.ConsentModel
	triggerLog *models.TriggerLogModel
	counters   *models.CountersModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		behavior:   models.NewBehavior(db, logger),
		consent:    models.NewConsent(db, logger),
		triggerLog: models.NewTriggerLog(db, logger),
		counters:   models.NewCounters(db, logger),
	}
}

// Behavior returns the behavior profile model repository.
func (r *Repository) Behavior() *models.BehaviorModel {
	return r.behavior
}

// Consent returns the consent model repository.
func (r *Repository) Consent() *models.ConsentModel {
	return r.consent
}

// TriggerLog returns the trigger log model repository.
func (r *Repository) TriggerLog() *models.TriggerLogModel {
	return r.triggerLog
}

// Counters returns the progression counters model repository.
func (r *Repository) Counters() *models.CountersModel {
	return r.counters
}
