package parcel

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"

	"parcelflow/internal/pkg/errs"
)

const (
	// trackingNumberPrefix identifies tracking numbers issued by this system.
	trackingNumberPrefix = "PF"
	// trackingNumberLength is the number of random characters after the prefix.
	trackingNumberLength = 10
	// trackingNumberAlphabet excludes 0/O and 1/I to keep numbers readable
	// over the phone.
	trackingNumberAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
)

var trackingNumberPattern = regexp.MustCompile(
	fmt.Sprintf(`^%s-[%s]{%d}$`, trackingNumberPrefix, trackingNumberAlphabet, trackingNumberLength))

// GenerateTrackingNumber produces a new candidate tracking number of the form
// "PF-XXXXXXXXXX". Uniqueness is not guaranteed by generation alone: the
// caller must collision-check against storage and regenerate on collision.
func GenerateTrackingNumber() (string, error) {
	buf := make([]byte, trackingNumberLength)
	alphabetLen := big.NewInt(int64(len(trackingNumberAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("tracking number generation: %w", err)
		}
		buf[i] = trackingNumberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%s-%s", trackingNumberPrefix, string(buf)), nil
}

// ValidateTrackingNumber checks that a string has the issued tracking number
// shape. Used when reconstructing parcels from persistence and when parsing
// tracking lookups from external callers.
func ValidateTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber")
	}
	if !trackingNumberPattern.MatchString(trackingNumber) {
		return errs.NewValueIsInvalidErrorWithCause("trackingNumber",
			fmt.Errorf("%q does not match the issued format", trackingNumber))
	}
	return nil
}
