package historyrepo

import (
	"context"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"

	"gorm.io/gorm"
)

// GormHistoryLedger implements HistoryLedger using GORM.
type GormHistoryLedger struct {
	db *gorm.DB
}

// NewGormHistoryLedger creates a new GORM history ledger.
func NewGormHistoryLedger(db *gorm.DB) *GormHistoryLedger {
	return &GormHistoryLedger{db: db}
}

// Append persists one ledger entry.
func (l *GormHistoryLedger) Append(ctx context.Context, entry *parcel.HistoryEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return l.db.WithContext(ctx).Create(&dto).Error
}

// AppendAll persists a batch of ledger entries in order.
func (l *GormHistoryLedger) AppendAll(ctx context.Context, entries []*parcel.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	dtos := make([]HistoryEntryDTO, 0, len(entries))
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(entry))
	}

	return l.db.WithContext(ctx).Create(&dtos).Error
}

// ListByParcel retrieves the full history of a parcel ordered by creation
// time ascending, ties broken by insertion order.
func (l *GormHistoryLedger) ListByParcel(ctx context.Context, parcelID kernel.UUID) ([]*parcel.HistoryEntry, error) {
	if err := parcelID.Validate(); err != nil {
		return nil, err
	}

	var dtos []HistoryEntryDTO
	if err := l.db.WithContext(ctx).
		Where("parcel_id = ?", parcelID.Bytes()).
		Order("created_at ASC, seq ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]*parcel.HistoryEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
