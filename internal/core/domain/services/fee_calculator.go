package services

// Fee calculation constants. Values are part of the public fee contract:
// changing any of them changes every newly created parcel's fee, but never a
// fee already fixed on an existing parcel.
const (
	// FeeBase is the flat component of every delivery fee.
	FeeBase = 50.0
	// FeePerKgRate is charged per kilogram of parcel weight.
	FeePerKgRate = 10.0
	// FeeMinDistance is the lower clamp of the distance component.
	FeeMinDistance = 20.0
	// FeeMaxDistance is the upper clamp of the distance component.
	FeeMaxDistance = 200.0
	// FeeComplexityRate scales the address-length heuristic.
	FeeComplexityRate = 15.0
)

// FeeCalculator computes the delivery fee at parcel creation.
//
// The fee is a pure, deterministic function of the weight and the two address
// strings: no network, no database, reproducible given identical inputs, and
// monotonic non-decreasing in weight.
//
//	fee = FeeBase + weightKg*FeePerKgRate + distanceFee
//	distanceFee = clamp(FeeMinDistance + (len(pickup)/10 + len(delivery)/10)*FeeComplexityRate,
//	                    FeeMinDistance, FeeMaxDistance)
//
// The distance component uses address length divided by ten as a documented
// stand-in heuristic for true distance. Replacing it with real geocoding is
// explicitly out of scope.
//
// Example:
//
//	calc := services.NewFeeCalculator()
//	fee := calc.Calculate(5, "12 Oak Lane.", "7 Elm Street")
//	// 50 + 5*10 + clamp(20 + (1.2+1.2)*15, 20, 200)
type FeeCalculator struct{}

// NewFeeCalculator creates a new FeeCalculator instance.
func NewFeeCalculator() FeeCalculator {
	return FeeCalculator{}
}

// Calculate returns the delivery fee for the given weight and addresses.
// Inputs are assumed validated by the parcel constructor; a non-positive
// weight simply contributes nothing.
func (FeeCalculator) Calculate(weightKg float64, pickupAddress, deliveryAddress string) float64 {
	weightFee := 0.0
	if weightKg > 0 {
		weightFee = weightKg * FeePerKgRate
	}

	complexity := float64(len(pickupAddress))/10 + float64(len(deliveryAddress))/10
	distanceFee := clamp(FeeMinDistance+complexity*FeeComplexityRate, FeeMinDistance, FeeMaxDistance)

	return FeeBase + weightFee + distanceFee
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
