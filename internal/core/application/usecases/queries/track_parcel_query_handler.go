package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/core/ports"
	"parcelflow/internal/pkg/errs"

	"gorm.io/gorm"
)

// trackingSnapshotTTL bounds how stale a cached tracking snapshot may get.
// Every committed transition also invalidates the key, so the TTL only
// matters when invalidation is missed.
const trackingSnapshotTTL = 30 * time.Second

// TrackParcelQueryHandler serves the public tracking lookup. Snapshots are
// read through a cache keyed by tracking number; a cache failure on either
// side is logged and the lookup falls through to the database.
type TrackParcelQueryHandler struct {
	db     *gorm.DB
	cache  ports.TrackingCache
	logger *slog.Logger
}

// NewTrackParcelQueryHandler creates a handler for public tracking lookups.
// The cache may be nil, in which case every lookup hits the database.
func NewTrackParcelQueryHandler(db *gorm.DB, cache ports.TrackingCache, logger *slog.Logger) TrackParcelQueryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return TrackParcelQueryHandler{db: db, cache: cache, logger: logger}
}

// Handle executes the tracking lookup. Returns an ObjectNotFound error when
// no active parcel carries the number; soft-deleted parcels are invisible
// here like everywhere else.
func (h TrackParcelQueryHandler) Handle(
	ctx context.Context,
	query TrackParcelQuery,
) (TrackParcelQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return TrackParcelQueryResponse{}, err
	}

	if cached, ok := h.fromCache(ctx, query.TrackingNumber()); ok {
		return cached, nil
	}

	response, err := h.fromStore(ctx, query.TrackingNumber())
	if err != nil {
		return TrackParcelQueryResponse{}, err
	}

	h.toCache(ctx, response)
	return response, nil
}

func (h TrackParcelQueryHandler) fromCache(ctx context.Context, trackingNumber string) (TrackParcelQueryResponse, bool) {
	if h.cache == nil {
		return TrackParcelQueryResponse{}, false
	}

	payload, ok, err := h.cache.Get(ctx, trackingNumber)
	if err != nil {
		h.logger.Warn("tracking cache read failed",
			slog.String("tracking_number", trackingNumber),
			slog.String("error", err.Error()))
		return TrackParcelQueryResponse{}, false
	}
	if !ok {
		return TrackParcelQueryResponse{}, false
	}

	var response TrackParcelQueryResponse
	if err = json.Unmarshal(payload, &response); err != nil {
		h.logger.Warn("tracking cache payload is corrupt",
			slog.String("tracking_number", trackingNumber),
			slog.String("error", err.Error()))
		return TrackParcelQueryResponse{}, false
	}

	return response, true
}

func (h TrackParcelQueryHandler) toCache(ctx context.Context, response TrackParcelQueryResponse) {
	if h.cache == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}

	if err = h.cache.Set(ctx, response.TrackingNumber, payload, trackingSnapshotTTL); err != nil {
		h.logger.Warn("tracking cache write failed",
			slog.String("tracking_number", response.TrackingNumber),
			slog.String("error", err.Error()))
	}
}

func (h TrackParcelQueryHandler) fromStore(ctx context.Context, trackingNumber string) (TrackParcelQueryResponse, error) {
	var response TrackParcelQueryResponse
	var parcelID []byte
	var status int

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			pickup_address,
			delivery_address,
			estimated_pickup_at,
			actual_pickup_at,
			estimated_delivery_at,
			actual_delivery_at
		FROM parcels
		WHERE tracking_number = ? AND deleted_at IS NULL
	`, trackingNumber).Row()

	err := row.Scan(
		&parcelID,
		&status,
		&response.PickupAddress,
		&response.DeliveryAddress,
		&response.EstimatedPickupAt,
		&response.ActualPickupAt,
		&response.EstimatedDeliveryAt,
		&response.ActualDeliveryAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return TrackParcelQueryResponse{}, errs.NewObjectNotFoundError("parcel", trackingNumber)
		}
		return TrackParcelQueryResponse{}, err
	}

	response.TrackingNumber = trackingNumber
	response.Status = parcel.Status(status).String()

	history, err := h.historyFor(ctx, parcelID)
	if err != nil {
		return TrackParcelQueryResponse{}, err
	}
	response.History = history

	return response, nil
}

func (h TrackParcelQueryHandler) historyFor(ctx context.Context, parcelID []byte) ([]TrackParcelHistoryEntry, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			location_description,
			created_at
		FROM parcel_history
		WHERE parcel_id = ?
		ORDER BY created_at ASC, seq ASC
	`, parcelID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]TrackParcelHistoryEntry, 0)
	for rows.Next() {
		var entry TrackParcelHistoryEntry
		var status int

		if err = rows.Scan(&status, &entry.Location, &entry.CreatedAt); err != nil {
			return nil, err
		}

		entry.Status = parcel.Status(status).String()
		history = append(history, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return history, nil
}
