// ABOUTME: Repository interfaces for the local nutrition store.
// ABOUTME: Narrow per-entity contracts plus the outbox, aggregated by Repository.
package storage

import (
	"context"
	"time"

	"github.com/harperreed/macros/internal/models"
)

// ProfileRepository reads and replaces the singleton profile.
type ProfileRepository interface {
	ReadProfile(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, p *models.UserProfile) error
}

// FoodLogRepository manages daily food log entries.
type FoodLogRepository interface {
	AddLog(ctx context.Context, e *models.FoodLogEntry) error
	GetLog(ctx context.Context, id int64) (*models.FoodLogEntry, error)
	ReadLogs(ctx context.Context, date string) ([]*models.FoodLogEntry, error)
	ReadLogsSince(ctx context.Context, date string) ([]*models.FoodLogEntry, error)
	DeleteLog(ctx context.Context, id int64) error
	DeleteLogsForDate(ctx context.Context, date string) (int, error)
}

// BodyStatRepository manages weigh-ins.
type BodyStatRepository interface {
	AddBodyStat(ctx context.Context, s *models.BodyStatEntry) error
	GetBodyStat(ctx context.Context, id int64) (*models.BodyStatEntry, error)
	ReadBodyStats(ctx context.Context) ([]*models.BodyStatEntry, error)
	DeleteBodyStat(ctx context.Context, id int64) error
}

// TemplateRepository manages meal templates.
type TemplateRepository interface {
	SaveTemplate(ctx context.Context, t *models.MealTemplate) error
	GetTemplate(ctx context.Context, id int64) (*models.MealTemplate, error)
	FindTemplate(ctx context.Context, name string) (*models.MealTemplate, error)
	ReadTemplates(ctx context.Context) ([]*models.MealTemplate, error)
	DeleteTemplate(ctx context.Context, id int64) error
}

// Outbox is the queue side of the store, as consumed by the sync engine.
type Outbox interface {
	PendingCount(ctx context.Context) (int, error)
	Unsynced(ctx context.Context, limit int) ([]*models.OutboxRecord, error)
	MarkSynced(ctx context.Context, id int64) error
	RecordFailure(ctx context.Context, id int64, msg string) error
}

// Repository is the full local store.
type Repository interface {
	ProfileRepository
	FoodLogRepository
	BodyStatRepository
	TemplateRepository
	Outbox

	ListOutbox(ctx context.Context, includeSynced bool, limit int) ([]*models.OutboxRecord, error)
	PurgeSynced(ctx context.Context, before time.Time) (int, error)

	// Export/Import
	GetAllData(ctx context.Context) (*ExportData, error)
	ImportData(ctx context.Context, data *ExportData) (*ImportSummary, error)

	Close() error
}

var (
	_ Repository = (*DB)(nil)
	_ Outbox     = (*DB)(nil)
)
