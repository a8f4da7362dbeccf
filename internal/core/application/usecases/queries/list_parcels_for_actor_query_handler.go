package queries

import (
	"context"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListParcelsForActorQueryHandler retrieves parcels scoped to an actor from
// the database. Customer listings match on the account columns of either
// party side: an account that sends one parcel and receives another sees
// both, whichever role it authenticated with.
type ListParcelsForActorQueryHandler struct {
	db *gorm.DB
}

// NewListParcelsForActorQueryHandler creates a handler for actor-scoped
// parcel listings.
func NewListParcelsForActorQueryHandler(db *gorm.DB) ListParcelsForActorQueryHandler {
	return ListParcelsForActorQueryHandler{db: db}
}

// Handle executes the query to retrieve the actor's parcels, newest first.
func (h ListParcelsForActorQueryHandler) Handle(
	ctx context.Context,
	query ListParcelsForActorQuery,
) ([]ListParcelsForActorQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	const baseSQL = `
		SELECT
			id,
			tracking_number,
			status,
			sender_name,
			recipient_name,
			pickup_address,
			delivery_address,
			driver_id,
			fee,
			created_at
		FROM parcels
		WHERE deleted_at IS NULL
	`

	actor := query.Actor()
	var rawQuery *gorm.DB
	switch actor.Role() {
	case kernel.RoleDriver:
		rawQuery = h.db.WithContext(ctx).Raw(
			baseSQL+" AND driver_id = ? ORDER BY created_at DESC", actor.ID().Bytes())
	case kernel.RoleAdmin:
		rawQuery = h.db.WithContext(ctx).Raw(baseSQL + " ORDER BY created_at DESC")
	default:
		rawQuery = h.db.WithContext(ctx).Raw(
			baseSQL+" AND (sender_account_id = ? OR recipient_account_id = ?) ORDER BY created_at DESC",
			actor.ID().Bytes(), actor.ID().Bytes())
	}

	rows, err := rawQuery.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parcels := make([]ListParcelsForActorQueryResponse, 0)
	for rows.Next() {
		var resp ListParcelsForActorQueryResponse
		var id uuid.UUID
		var driverID *uuid.UUID
		var status int

		err = rows.Scan(
			&id,
			&resp.TrackingNumber,
			&status,
			&resp.SenderName,
			&resp.RecipientName,
			&resp.PickupAddress,
			&resp.DeliveryAddress,
			&driverID,
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

		if driverID != nil {
			dID, driverErr := kernel.UUIDFromBytes((*driverID)[:])
			if driverErr != nil {
				return nil, driverErr
			}
			resp.DriverID = &dID
		}

		resp.Status = parcel.Status(status).String()
		parcels = append(parcels, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return parcels, nil
}
