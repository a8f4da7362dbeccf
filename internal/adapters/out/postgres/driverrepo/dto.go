// Package driverrepo provides data transfer objects and mapping functions for
// driver persistence.
package driverrepo

import (
	"parcelflow/internal/core/domain/model/driver"
	"parcelflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for persisting driver aggregates.
// Indexed on the availability flag for the candidate scan in auto-assignment.
type DriverDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string
	Email    string
	Phone    string
	IsActive bool `gorm:"index"`
	Version  int64
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver domain aggregate to its database representation.
func fromDomain(d *driver.Driver) DriverDTO {
	return DriverDTO{
		ID:       d.ID().Bytes(),
		Name:     d.Name(),
		Email:    d.Email(),
		Phone:    d.Phone(),
		IsActive: d.IsActive(),
		Version:  d.Version(),
	}
}

// toDomain converts a database DTO to a driver domain aggregate.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return driver.RestoreDriver(id, dto.Name, dto.Email, dto.Phone, dto.IsActive, dto.Version)
}
