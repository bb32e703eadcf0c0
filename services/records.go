package services

import (
	"context"
	"fmt"
	"time"

	"glassclass/models"

	"gorm.io/gorm"
)

// RecordStore is the append-only persistence for prediction records.
// There are no update or delete operations.
type RecordStore struct {
	db *gorm.DB
}

func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{db: db}
}

// Create inserts one record. The database assigns the id; CreatedAt is set to
// now when the caller left it zero.
func (s *RecordStore) Create(ctx context.Context, record *models.PredictionRecord) error {
	if record.ID != 0 {
		return fmt.Errorf("create prediction record: id %d already assigned", record.ID)
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("create prediction record: %w", err)
	}
	return nil
}

// ListAll returns every record, newest first.
func (s *RecordStore) ListAll(ctx context.Context) ([]models.PredictionRecord, error) {
	var rows []models.PredictionRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list prediction records: %w", err)
	}
	return rows, nil
}

// ListAllByIDAscending returns every record in insertion order, for export.
func (s *RecordStore) ListAllByIDAscending(ctx context.Context) ([]models.PredictionRecord, error) {
	var rows []models.PredictionRecord
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list prediction records by id: %w", err)
	}
	return rows, nil
}

// PageCursor is the position of the last row of a page in newest-first order.
// A zero ID compares on CreatedAt alone.
type PageCursor struct {
	CreatedAt time.Time
	ID        uint
}

// ListPage returns up to limit+1 records that sort after the cursor in
// (created_at DESC, id DESC) order. The extra row lets callers detect a
// further page.
func (s *RecordStore) ListPage(ctx context.Context, limit int, after *PageCursor) ([]models.PredictionRecord, error) {
	query := s.db.WithContext(ctx).Model(&models.PredictionRecord{}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1)
	switch {
	case after == nil:
	case after.ID == 0:
		query = query.Where("created_at < ?", after.CreatedAt)
	default:
		query = query.Where("created_at < ? OR (created_at = ? AND id < ?)", after.CreatedAt, after.CreatedAt, after.ID)
	}

	var rows []models.PredictionRecord
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list prediction page: %w", err)
	}
	return rows, nil
}

func (s *RecordStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.PredictionRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count prediction records: %w", err)
	}
	return n, nil
}
