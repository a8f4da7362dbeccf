package parcelrepo

import (
	"context"
	"errors"
	"fmt"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormParcelRepository implements ParcelRepository using GORM.
type GormParcelRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormParcelRepository creates a new GORM parcel repository.
func NewGormParcelRepository(db *gorm.DB, tracker aggregateTracker) *GormParcelRepository {
	return &GormParcelRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new parcel to the database.
// A duplicate tracking number surfaces as a Conflict so the caller can
// regenerate and retry.
func (r *GormParcelRepository) Add(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("parcel", aggregate.TrackingNumber(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing parcel with an atomic version check. The write
// only lands when the stored row still carries the version the aggregate was
// loaded at; a zero-row update against an existing parcel means another
// writer got there first and surfaces as a Conflict.
func (r *GormParcelRepository) Update(ctx context.Context, aggregate *parcel.Parcel) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ParcelDTO{}).
		Where("id = ? AND version < ?", dto.ID, dto.Version).
		Select("*").Omit("id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&ParcelDTO{}).
			Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("parcel", aggregate.ID().String())
		}
		return errs.NewConflictErrorWithCause("parcel", aggregate.ID().String(),
			fmt.Errorf("stale version %d", dto.Version))
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a parcel by ID. Soft-deleted parcels are not returned.
func (r *GormParcelRepository) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ParcelDTO
	if err := r.db.WithContext(ctx).
		First(&dto, "id = ? AND deleted_at IS NULL", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("parcel", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByTrackingNumber retrieves a parcel by its public tracking number.
func (r *GormParcelRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*parcel.Parcel, error) {
	if err := parcel.ValidateTrackingNumber(trackingNumber); err != nil {
		return nil, err
	}

	var dto ParcelDTO
	if err := r.db.WithContext(ctx).
		First(&dto, "tracking_number = ? AND deleted_at IS NULL", trackingNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("parcel", trackingNumber)
		}
		return nil, err
	}

	return toDomain(dto)
}

// ExistsByTrackingNumber reports whether a tracking number is already issued.
// Soft-deleted parcels count: their numbers stay burned.
func (r *GormParcelRepository) ExistsByTrackingNumber(ctx context.Context, trackingNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ParcelDTO{}).
		Where("tracking_number = ?", trackingNumber).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// GetAllPendingUnassigned retrieves parcels awaiting a driver, oldest first.
// A limit of 0 means no limit.
func (r *GormParcelRepository) GetAllPendingUnassigned(ctx context.Context, limit int) ([]*parcel.Parcel, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND driver_id IS NULL AND deleted_at IS NULL", int(parcel.StatusPending)).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []ParcelDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetAllForDriver retrieves the parcels currently bound to a driver, newest first.
func (r *GormParcelRepository) GetAllForDriver(ctx context.Context, driverID kernel.UUID) ([]*parcel.Parcel, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ParcelDTO
	if err := r.db.WithContext(ctx).
		Where("driver_id = ? AND deleted_at IS NULL", driverID.Bytes()).
		Order("created_at DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetAllForAccount retrieves the parcels where the account is the sender or
// the recipient, newest first.
func (r *GormParcelRepository) GetAllForAccount(ctx context.Context, accountID kernel.UUID) ([]*parcel.Parcel, error) {
	if err := accountID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ParcelDTO
	if err := r.db.WithContext(ctx).
		Where("(sender_account_id = ? OR recipient_account_id = ?) AND deleted_at IS NULL",
			accountID.Bytes(), accountID.Bytes()).
		Order("created_at DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

func toDomainAll(dtos []ParcelDTO) ([]*parcel.Parcel, error) {
	parcels := make([]*parcel.Parcel, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		parcels = append(parcels, p)
	}

	return parcels, nil
}
