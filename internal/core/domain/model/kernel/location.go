package kernel

import (
	"errors"
	"fmt"

	"parcelflow/internal/pkg/errs"
	"parcelflow/internal/pkg/guard"
)

const (
	// LocationMinLatitude is the minimum valid latitude in degrees.
	LocationMinLatitude = -90.0
	// LocationMaxLatitude is the maximum valid latitude in degrees.
	LocationMaxLatitude = 90.0
	// LocationMinLongitude is the minimum valid longitude in degrees.
	LocationMinLongitude = -180.0
	// LocationMaxLongitude is the maximum valid longitude in degrees.
	LocationMaxLongitude = 180.0
)

// ErrLocationIsNotConstructed is returned when attempting to use an improperly
// initialized Location. Locations must be created via NewLocation or
// NewLocationWithCoordinates.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation or NewLocationWithCoordinates constructors")

// Location is the optional place information attached to a status change:
// a free-text description (an address, a depot name, a driver's note of where
// the handoff happened) and, when the reporting device provides them,
// geographic coordinates.
//
// Location is an immutable value object. The zero value is invalid and fails
// validation; use the constructors.
//
// Example:
//
//	loc, err := kernel.NewLocationWithCoordinates("Central depot dock 4", 40.7128, -74.0060)
//	if err != nil {
//	    // Handle validation error
//	}
type Location struct { //nolint:recvcheck //using for validation
	description string
	latitude    *float64
	longitude   *float64
	guard       guard.ConstructorGuard
}

// NewLocation creates a Location carrying only a textual description.
// The description must be non-empty.
func NewLocation(description string) (Location, error) {
	if description == "" {
		return Location{}, errs.NewValueIsRequiredError("location description")
	}

	return Location{
		description: description,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// NewLocationWithCoordinates creates a Location with a description and
// geographic coordinates. Latitude must be within [-90, 90] and longitude
// within [-180, 180].
func NewLocationWithCoordinates(description string, latitude, longitude float64) (Location, error) {
	loc, err := NewLocation(description)
	if err != nil {
		return Location{}, err
	}

	if err = errors.Join(
		validateLatitude(latitude),
		validateLongitude(longitude),
	); err != nil {
		return Location{}, err
	}

	loc.latitude = &latitude
	loc.longitude = &longitude
	return loc, nil
}

// Description returns the free-text description of the location.
func (l Location) Description() string {
	return l.description
}

// Coordinates returns the latitude and longitude when present.
// The boolean reports whether coordinates were captured.
func (l Location) Coordinates() (latitude, longitude float64, ok bool) {
	if l.latitude == nil || l.longitude == nil {
		return 0, 0, false
	}
	return *l.latitude, *l.longitude, true
}

// String renders the location for logs and ledger display.
func (l Location) String() string {
	if lat, lng, ok := l.Coordinates(); ok {
		return fmt.Sprintf("%s (%.6f,%.6f)", l.description, lat, lng)
	}
	return l.description
}

// Validate checks that the location was created through a constructor.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func validateLatitude(latitude float64) error {
	if latitude < LocationMinLatitude || latitude > LocationMaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LocationMinLatitude, LocationMaxLatitude)
	}
	return nil
}

func validateLongitude(longitude float64) error {
	if longitude < LocationMinLongitude || longitude > LocationMaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LocationMinLongitude, LocationMaxLongitude)
	}
	return nil
}
