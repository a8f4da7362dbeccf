// Package historyrepo persists the append-only status ledger. Rows are
// insert-only: nothing in this package updates or deletes, and the entries of
// a soft-deleted parcel stay readable.
package historyrepo

import (
	"time"

	"parcelflow/internal/core/domain/model/kernel"
	"parcelflow/internal/core/domain/model/parcel"

	"github.com/google/uuid"
)

// HistoryEntryDTO represents the database structure for ledger rows.
// Seq is a monotonic insertion counter used as the tie-breaker when two
// entries share a created_at timestamp.
type HistoryEntryDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq                 int64     `gorm:"autoIncrement;uniqueIndex"`
	ParcelID            uuid.UUID `gorm:"type:uuid;index"`
	Status              int
	ActorID             uuid.UUID `gorm:"type:uuid"`
	LocationDescription string
	Latitude            *float64
	Longitude           *float64
	Notes               string
	CreatedAt           time.Time `gorm:"index"`
}

// TableName specifies the database table name for ledger rows.
func (HistoryEntryDTO) TableName() string {
	return "parcel_history"
}

// fromDomain converts a ledger entry to its database representation.
func fromDomain(entry *parcel.HistoryEntry) HistoryEntryDTO {
	dto := HistoryEntryDTO{
		ID:        entry.ID().Bytes(),
		ParcelID:  entry.ParcelID().Bytes(),
		Status:    int(entry.Status()),
		ActorID:   entry.ActorID().Bytes(),
		Notes:     entry.Notes(),
		CreatedAt: entry.CreatedAt(),
	}

	if loc := entry.Location(); loc != nil {
		dto.LocationDescription = loc.Description()
		if lat, lng, ok := loc.Coordinates(); ok {
			dto.Latitude = &lat
			dto.Longitude = &lng
		}
	}

	return dto
}

// toDomain converts a database DTO to a ledger entry.
func toDomain(dto HistoryEntryDTO) (*parcel.HistoryEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	parcelID, err := kernel.UUIDFromBytes(dto.ParcelID[:])
	if err != nil {
		return nil, err
	}

	actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.Location
	if dto.LocationDescription != "" {
		var loc kernel.Location
		if dto.Latitude != nil && dto.Longitude != nil {
			loc, err = kernel.NewLocationWithCoordinates(dto.LocationDescription, *dto.Latitude, *dto.Longitude)
		} else {
			loc, err = kernel.NewLocation(dto.LocationDescription)
		}
		if err != nil {
			return nil, err
		}
		location = &loc
	}

	return parcel.RestoreHistoryEntry(id, parcelID, parcel.Status(dto.Status), actorID,
		location, dto.Notes, dto.CreatedAt)
}
