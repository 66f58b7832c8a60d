package summary

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SummaryModel is the persistence row for a rendered summary.
type SummaryModel struct {
	PatientID string    `gorm:"primaryKey;column:patient_id"`
	Text      string    `gorm:"column:summary"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SummaryModel) TableName() string {
	return "patient_summaries"
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&SummaryModel{})
}

// ReplaceAll swaps the persisted corpus for a freshly built one inside a
// single transaction. Summaries are regenerate-and-replace, never patched
// row by row.
func (r *Repository) ReplaceAll(ctx context.Context, corpus Corpus) error {
	now := time.Now().UTC()
	rows := make([]SummaryModel, 0, len(corpus))
	for _, s := range corpus {
		rows = append(rows, SummaryModel{
			PatientID: s.PatientID,
			Text:      s.Text,
			CreatedAt: now,
		})
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&SummaryModel{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
}

// LoadAll reads persisted summaries back in corpus (identifier) order.
func (r *Repository) LoadAll(ctx context.Context) (Corpus, error) {
	var rows []SummaryModel
	if err := r.db.WithContext(ctx).Order("patient_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	corpus := make(Corpus, 0, len(rows))
	for _, row := range rows {
		corpus = append(corpus, PatientSummary{PatientID: row.PatientID, Text: row.Text})
	}
	return corpus, nil
}
