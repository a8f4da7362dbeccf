// Package notificationrepo persists in-app notifications, one row per
// interested account per lifecycle event. It backs the in-app channel of the
// notification fan-out and the notification feed read side.
package notificationrepo

import (
	"context"
	"errors"
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/notifications"
	"parcelflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationDTO represents the database structure for in-app notifications.
type NotificationDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountID      uuid.UUID `gorm:"type:uuid;index"`
	Kind           string
	ParcelID       uuid.UUID `gorm:"type:uuid;index"`
	TrackingNumber string
	Status         string
	Notes          string
	CreatedAt      time.Time `gorm:"index"`
	ReadAt         *time.Time
}

// TableName specifies the database table name for notifications.
func (NotificationDTO) TableName() string {
	return "notifications"
}

// Notification is the read-side shape of one stored notification.
type Notification struct {
	ID             kernel.UUID
	Kind           string
	ParcelID       kernel.UUID
	TrackingNumber string
	Status         string
	Notes          string
	CreatedAt      time.Time
	ReadAt         *time.Time
}

// GormNotificationStore implements notifications.NotificationStore using GORM.
// Unlike the transactional repositories it writes on its own connection: the
// in-app channel runs after commit and must not reopen the business
// transaction.
type GormNotificationStore struct {
	db *gorm.DB
}

// NewGormNotificationStore creates a new GORM notification store.
func NewGormNotificationStore(db *gorm.DB) *GormNotificationStore {
	return &GormNotificationStore{db: db}
}

// Add persists one notification row for the account.
func (s *GormNotificationStore) Add(ctx context.Context, accountID kernel.UUID, event notifications.ParcelEvent) error {
	if err := accountID.Validate(); err != nil {
		return err
	}

	dto := NotificationDTO{
		ID:             kernel.NewUUID().Bytes(),
		AccountID:      accountID.Bytes(),
		Kind:           event.Kind,
		ParcelID:       event.ParcelID.Bytes(),
		TrackingNumber: event.TrackingNumber,
		Status:         event.Status,
		Notes:          event.Notes,
		CreatedAt:      event.OccurredAt,
	}

	return s.db.WithContext(ctx).Create(&dto).Error
}

// ListForAccount retrieves an account's notifications, newest first, up to
// limit. A limit of 0 means no limit. When unreadOnly is set, rows already
// marked read are skipped.
func (s *GormNotificationStore) ListForAccount(
	ctx context.Context,
	accountID kernel.UUID,
	unreadOnly bool,
	limit int,
) ([]Notification, error) {
	if err := accountID.Validate(); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Where("account_id = ?", accountID.Bytes()).
		Order("created_at DESC")
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []NotificationDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	result := make([]Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toNotification(dto)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}

	return result, nil
}

// MarkRead stamps a notification as read. Marking an already-read row is a
// no-op. The account id scopes the write so one account cannot touch
// another's feed.
func (s *GormNotificationStore) MarkRead(ctx context.Context, accountID, notificationID kernel.UUID, now time.Time) error {
	if err := errors.Join(accountID.Validate(), notificationID.Validate()); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("id = ? AND account_id = ? AND read_at IS NULL", notificationID.Bytes(), accountID.Bytes()).
		Update("read_at", now)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&NotificationDTO{}).
			Where("id = ? AND account_id = ?", notificationID.Bytes(), accountID.Bytes()).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("notification", notificationID.String())
		}
	}

	return nil
}

func toNotification(dto NotificationDTO) (Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return Notification{}, err
	}

	parcelID, err := kernel.UUIDFromBytes(dto.ParcelID[:])
	if err != nil {
		return Notification{}, err
	}

	return Notification{
		ID:             id,
		Kind:           dto.Kind,
		ParcelID:       parcelID,
		TrackingNumber: dto.TrackingNumber,
		Status:         dto.Status,
		Notes:          dto.Notes,
		CreatedAt:      dto.CreatedAt,
		ReadAt:         dto.ReadAt,
	}, nil
}
