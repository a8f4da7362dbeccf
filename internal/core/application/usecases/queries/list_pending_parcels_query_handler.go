package queries

import (
	"context"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListPendingParcelsQueryHandler retrieves unassigned pending parcels from
// the database.
type ListPendingParcelsQueryHandler struct {
	db *gorm.DB
}

// NewListPendingParcelsQueryHandler creates a handler for pending parcel queries.
func NewListPendingParcelsQueryHandler(db *gorm.DB) ListPendingParcelsQueryHandler {
	return ListPendingParcelsQueryHandler{db: db}
}

// Handle executes the query to retrieve pending parcels with no driver
// bound, oldest first.
func (h ListPendingParcelsQueryHandler) Handle(
	ctx context.Context,
	query ListPendingParcelsQuery,
) ([]ListPendingParcelsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			id,
			tracking_number,
			sender_name,
			pickup_address,
			delivery_address,
			weight_kg,
			fee,
			created_at
		FROM parcels
		WHERE status = ? AND driver_id IS NULL AND deleted_at IS NULL
		ORDER BY created_at ASC
	`

	var rawQuery *gorm.DB
	if query.Limit() > 0 {
		rawQuery = h.db.WithContext(ctx).Raw(sql+" LIMIT ?", int(parcel.StatusPending), query.Limit())
	} else {
		rawQuery = h.db.WithContext(ctx).Raw(sql, int(parcel.StatusPending))
	}

	rows, err := rawQuery.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parcels := make([]ListPendingParcelsQueryResponse, 0)
	for rows.Next() {
		var resp ListPendingParcelsQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&resp.TrackingNumber,
			&resp.SenderName,
			&resp.PickupAddress,
			&resp.DeliveryAddress,
			&resp.WeightKg,
			&resp.Fee,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		parcelID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = parcelID

		parcels = append(parcels, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return parcels, nil
}
