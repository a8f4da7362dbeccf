package http

import (
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime/types"
)

// Header names carrying the authenticated actor context. Credential
// verification happens at the edge (gateway or middleware); this adapter
// only parses the already-established identity.
const (
	headerActorID   = "X-Actor-Id"
	headerActorRole = "X-Actor-Role"
)

// PartyPayload describes a sender or recipient in a parcel registration.
// AccountID is optional: parcels can be addressed to anyone.
type PartyPayload struct {
	AccountID *string      `json:"accountId,omitempty"`
	Name      string       `json:"name"`
	Email     *types.Email `json:"email,omitempty"`
	Phone     *string      `json:"phone,omitempty"`
}

// CreateParcelRequest is the body of POST /parcels.
type CreateParcelRequest struct {
	Sender              PartyPayload `json:"sender"`
	Recipient           PartyPayload `json:"recipient"`
	PickupAddress       string       `json:"pickupAddress"`
	DeliveryAddress     string       `json:"deliveryAddress"`
	WeightKg            float64      `json:"weightKg"`
	EstimatedPickupAt   *time.Time   `json:"estimatedPickupAt,omitempty"`
	EstimatedDeliveryAt *time.Time   `json:"estimatedDeliveryAt,omitempty"`
}

// ParcelPartyResponse is the sender or recipient of a parcel as returned
// by the API.
type ParcelPartyResponse struct {
	AccountID *string `json:"accountId,omitempty"`
	Name      string  `json:"name"`
	Email     string  `json:"email,omitempty"`
	Phone     string  `json:"phone,omitempty"`
}

// ParcelResponse is the parcel state returned by every mutating endpoint,
// serialized from the aggregate as it was committed.
type ParcelResponse struct {
	ID                   string              `json:"id"`
	TrackingNumber       string              `json:"trackingNumber"`
	Status               string              `json:"status"`
	Sender               ParcelPartyResponse `json:"sender"`
	Recipient            ParcelPartyResponse `json:"recipient"`
	DriverID             *string             `json:"driverId,omitempty"`
	PickupAddress        string              `json:"pickupAddress"`
	DeliveryAddress      string              `json:"deliveryAddress"`
	WeightKg             float64             `json:"weightKg"`
	Fee                  float64             `json:"fee"`
	AssignedAt           *time.Time          `json:"assignedAt,omitempty"`
	EstimatedPickupAt    *time.Time          `json:"estimatedPickupAt,omitempty"`
	ActualPickupAt       *time.Time          `json:"actualPickupAt,omitempty"`
	EstimatedDeliveryAt  *time.Time          `json:"estimatedDeliveryAt,omitempty"`
	ActualDeliveryAt     *time.Time          `json:"actualDeliveryAt,omitempty"`
	DeliveredToRecipient bool                `json:"deliveredToRecipient"`
	Signature            string              `json:"signature,omitempty"`
	ConfirmedBy          string              `json:"confirmedBy,omitempty"`
	ConfirmedAt          *time.Time          `json:"confirmedAt,omitempty"`
	Version              int64               `json:"version"`
}

func parcelPartyResponse(party parcel.PartyRef) ParcelPartyResponse {
	response := ParcelPartyResponse{
		Name:  party.Name(),
		Email: party.Email(),
		Phone: party.Phone(),
	}
	if accountID := party.AccountID(); accountID != nil {
		id := accountID.String()
		response.AccountID = &id
	}
	return response
}

// parcelResponse serializes the committed aggregate state.
func parcelResponse(aggregate *parcel.Parcel) ParcelResponse {
	response := ParcelResponse{
		ID:                   aggregate.ID().String(),
		TrackingNumber:       aggregate.TrackingNumber(),
		Status:               aggregate.Status().String(),
		Sender:               parcelPartyResponse(aggregate.Sender()),
		Recipient:            parcelPartyResponse(aggregate.Recipient()),
		PickupAddress:        aggregate.PickupAddress(),
		DeliveryAddress:      aggregate.DeliveryAddress(),
		WeightKg:             aggregate.WeightKg(),
		Fee:                  aggregate.Fee(),
		AssignedAt:           aggregate.AssignedAt(),
		EstimatedPickupAt:    aggregate.EstimatedPickupAt(),
		ActualPickupAt:       aggregate.ActualPickupAt(),
		EstimatedDeliveryAt:  aggregate.EstimatedDeliveryAt(),
		ActualDeliveryAt:     aggregate.ActualDeliveryAt(),
		DeliveredToRecipient: aggregate.DeliveredToRecipient(),
		Signature:            aggregate.Signature(),
		ConfirmedBy:          aggregate.ConfirmedBy(),
		ConfirmedAt:          aggregate.ConfirmedAt(),
		Version:              aggregate.Version(),
	}
	if driverID := aggregate.Driver(); driverID != nil {
		id := driverID.String()
		response.DriverID = &id
	}
	return response
}

// AssignParcelRequest is the body of POST /parcels/{parcelId}/assign.
type AssignParcelRequest struct {
	DriverID string `json:"driverId"`
	Notes    string `json:"notes,omitempty"`
}

// BulkAssignItemPayload is one pairing within a bulk assignment.
type BulkAssignItemPayload struct {
	ParcelID string `json:"parcelId"`
	DriverID string `json:"driverId"`
}

// BulkAssignRequest is the body of POST /parcels/bulk-assign.
type BulkAssignRequest struct {
	Assignments []BulkAssignItemPayload `json:"assignments"`
	Notes       string                  `json:"notes,omitempty"`
}

// BulkAssignFailurePayload reports one item that could not be assigned.
type BulkAssignFailurePayload struct {
	ParcelID string `json:"parcelId"`
	DriverID string `json:"driverId"`
	Reason   string `json:"reason"`
}

// BulkAssignResponse is the per-item outcome of a bulk assignment.
type BulkAssignResponse struct {
	Assigned []string                   `json:"assigned"`
	Failed   []BulkAssignFailurePayload `json:"failed"`
}

// ReassignParcelRequest is the body of POST /parcels/{parcelId}/reassign.
type ReassignParcelRequest struct {
	NewDriverID string `json:"newDriverId"`
	Notes       string `json:"notes,omitempty"`
}

// UpdateStatusRequest is the body of PATCH /parcels/{parcelId}/status.
type UpdateStatusRequest struct {
	Status    string   `json:"status"`
	Location  string   `json:"location,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

// ConfirmDeliveryRequest is the body of POST /parcels/{parcelId}/confirm-delivery.
type ConfirmDeliveryRequest struct {
	Signature   string `json:"signature,omitempty"`
	ConfirmedBy string `json:"confirmedBy,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// CompleteParcelRequest is the body of POST /parcels/{parcelId}/complete.
type CompleteParcelRequest struct {
	Notes string `json:"notes,omitempty"`
}

// CancelParcelRequest is the body of POST /parcels/{parcelId}/cancel.
type CancelParcelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// NotificationResponse is one row of the in-app notification feed.
type NotificationResponse struct {
	ID             string     `json:"id"`
	Kind           string     `json:"kind"`
	ParcelID       string     `json:"parcelId"`
	TrackingNumber string     `json:"trackingNumber"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
}

// actorFromRequest parses the authenticated actor context from the request
// headers.
func actorFromRequest(ctx echo.Context) (kernel.Actor, error) {
	id, err := kernel.UUIDFromString(ctx.Request().Header.Get(headerActorID))
	if err != nil {
		return kernel.Actor{}, err
	}

	role, err := kernel.RoleFromString(ctx.Request().Header.Get(headerActorRole))
	if err != nil {
		return kernel.Actor{}, err
	}

	return kernel.NewActor(id, role)
}

// partyFromPayload converts an API party payload to a domain reference.
func partyFromPayload(payload PartyPayload) (parcel.PartyRef, error) {
	var email, phone string
	if payload.Email != nil {
		email = string(*payload.Email)
	}
	if payload.Phone != nil {
		phone = *payload.Phone
	}

	if payload.AccountID != nil {
		accountID, err := kernel.UUIDFromString(*payload.AccountID)
		if err != nil {
			return parcel.PartyRef{}, err
		}
		return parcel.NewRegisteredParty(accountID, payload.Name, email, phone)
	}

	return parcel.NewAnonymousParty(payload.Name, email, phone)
}
