package queries

import (
	"context"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"
	"parcelflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetParcelHistoryQueryHandler reads the status ledger from the database.
// Entries survive the soft-deletion of their parcel, so no tombstone filter
// applies here; the existence check covers active parcels only.
type GetParcelHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetParcelHistoryQueryHandler creates a handler for ledger lookups.
func NewGetParcelHistoryQueryHandler(db *gorm.DB) GetParcelHistoryQueryHandler {
	return GetParcelHistoryQueryHandler{db: db}
}

// Handle executes the query to retrieve a parcel's full history, ordered by
// creation time ascending with ties broken by insertion order. Returns an
// ObjectNotFound error when the parcel does not exist.
func (h GetParcelHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetParcelHistoryQuery,
) ([]GetParcelHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var count int64
	if err := h.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM parcels WHERE id = ? AND deleted_at IS NULL
	`, query.ParcelID().Bytes()).Scan(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errs.NewObjectNotFoundError("parcel", query.ParcelID().String())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			actor_id,
			location_description,
			latitude,
			longitude,
			notes,
			created_at
		FROM parcel_history
		WHERE parcel_id = ?
		ORDER BY created_at ASC, seq ASC
	`, query.ParcelID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]GetParcelHistoryQueryResponse, 0)
	for rows.Next() {
		var entry GetParcelHistoryQueryResponse
		var id, actorID uuid.UUID
		var status int

		err = rows.Scan(
			&id,
			&status,
			&actorID,
			&entry.Location,
			&entry.Latitude,
			&entry.Longitude,
			&entry.Notes,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		entryID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		entry.ID = entryID

		entryActorID, actorErr := kernel.UUIDFromBytes(actorID[:])
		if actorErr != nil {
			return nil, actorErr
		}
		entry.ActorID = entryActorID

		entry.Status = parcel.Status(status).String()
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
