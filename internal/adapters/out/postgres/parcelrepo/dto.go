// Package parcelrepo provides data transfer objects and mapping functions for
// parcel persistence. It implements the repository pattern for the parcel
// aggregate, handling the conversion between domain entities and database rows.
package parcelrepo

import (
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// ParcelDTO represents the database structure for persisting parcel aggregates.
// Indexed for the hot lookups: tracking number, status, driver binding, and
// the sender/recipient account columns backing the per-actor listings.
type ParcelDTO struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TrackingNumber       string     `gorm:"size:32;uniqueIndex"`
	Status               int        `gorm:"index"`
	Sender               PartyDTO   `gorm:"embedded;embeddedPrefix:sender_"`
	Recipient            PartyDTO   `gorm:"embedded;embeddedPrefix:recipient_"`
	DriverID             *uuid.UUID `gorm:"type:uuid;index"`
	PickupAddress        string
	DeliveryAddress      string
	WeightKg             float64
	Fee                  float64
	AssignedAt           *time.Time
	EstimatedPickupAt    *time.Time
	ActualPickupAt       *time.Time
	EstimatedDeliveryAt  *time.Time
	ActualDeliveryAt     *time.Time
	DeliveredToRecipient bool
	Signature            string
	ConfirmedBy          string
	ConfirmedAt          *time.Time
	Version              int64
	CreatedAt            time.Time  `gorm:"autoCreateTime;index"`
	DeletedAt            *time.Time `gorm:"index"`
}

// TableName specifies the database table name for parcel entities.
func (ParcelDTO) TableName() string {
	return "parcels"
}

// PartyDTO represents an embedded party reference within the parcel table.
// The account id is nullable: anonymous parties carry contact fields only.
type PartyDTO struct {
	AccountID *uuid.UUID `gorm:"type:uuid;index"`
	Name      string
	Email     string
	Phone     string
}

// fromDomain converts a parcel domain aggregate to its database representation.
func fromDomain(p *parcel.Parcel) ParcelDTO {
	var driverID *uuid.UUID
	if id := p.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	return ParcelDTO{
		ID:                   p.ID().Bytes(),
		TrackingNumber:       p.TrackingNumber(),
		Status:               int(p.Status()),
		Sender:               partyFromDomain(p.Sender()),
		Recipient:            partyFromDomain(p.Recipient()),
		DriverID:             driverID,
		PickupAddress:        p.PickupAddress(),
		DeliveryAddress:      p.DeliveryAddress(),
		WeightKg:             p.WeightKg(),
		Fee:                  p.Fee(),
		AssignedAt:           p.AssignedAt(),
		EstimatedPickupAt:    p.EstimatedPickupAt(),
		ActualPickupAt:       p.ActualPickupAt(),
		EstimatedDeliveryAt:  p.EstimatedDeliveryAt(),
		ActualDeliveryAt:     p.ActualDeliveryAt(),
		DeliveredToRecipient: p.DeliveredToRecipient(),
		Signature:            p.Signature(),
		ConfirmedBy:          p.ConfirmedBy(),
		ConfirmedAt:          p.ConfirmedAt(),
		Version:              p.Version(),
		DeletedAt:            p.DeletedAt(),
	}
}

func partyFromDomain(ref parcel.PartyRef) PartyDTO {
	var accountID *uuid.UUID
	if id := ref.AccountID(); id != nil {
		raw := id.Bytes()
		accountID = &raw
	}

	return PartyDTO{
		AccountID: accountID,
		Name:      ref.Name(),
		Email:     ref.Email(),
		Phone:     ref.Phone(),
	}
}

// toDomain converts a database DTO to a parcel domain aggregate.
// Reconstructs the complete aggregate including the driver binding,
// lifecycle timestamps, and the version token using RestoreParcel.
func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	sender, err := partyToDomain(dto.Sender)
	if err != nil {
		return nil, err
	}

	recipient, err := partyToDomain(dto.Recipient)
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}

		driverID = &dID
	}

	return parcel.RestoreParcel(
		id,
		dto.TrackingNumber,
		parcel.Status(dto.Status),
		sender,
		recipient,
		driverID,
		dto.PickupAddress,
		dto.DeliveryAddress,
		dto.WeightKg,
		dto.Fee,
		dto.AssignedAt,
		dto.EstimatedPickupAt,
		dto.ActualPickupAt,
		dto.EstimatedDeliveryAt,
		dto.ActualDeliveryAt,
		dto.DeliveredToRecipient,
		dto.Signature,
		dto.ConfirmedBy,
		dto.ConfirmedAt,
		dto.Version,
		dto.DeletedAt,
	)
}

func partyToDomain(dto PartyDTO) (parcel.PartyRef, error) {
	if dto.AccountID != nil {
		accountID, err := kernel.UUIDFromBytes((*dto.AccountID)[:])
		if err != nil {
			return parcel.PartyRef{}, err
		}
		return parcel.NewRegisteredParty(accountID, dto.Name, dto.Email, dto.Phone)
	}

	return parcel.NewAnonymousParty(dto.Name, dto.Email, dto.Phone)
}
