package ingest

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record is the audit row for one accepted resource event. The raw payload
// is kept verbatim so a corpus can be re-derived from the audit trail.
type Record struct {
	ID        string            `gorm:"primaryKey;column:id"`
	EventID   string            `gorm:"column:event_id"`
	Source    string            `gorm:"column:source"`
	Kind      string            `gorm:"column:resource_kind"`
	Payload   datatypes.JSONMap `gorm:"column:payload"`
	CreatedAt time.Time         `gorm:"column:created_at"`
}

func (Record) TableName() string {
	return "resource_events"
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Record{})
}

func (r *Repository) Create(ctx context.Context, rec *Record) error {
	rec.CreatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(rec).Error
}
