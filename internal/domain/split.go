package domain

import "math"

// PlatformRate is the fraction of a donation kept by the platform when the
// donor opts in.
const PlatformRate = 0.10

// Split is the minor-unit division of a donation between the beneficiary and
// the platform. PlatformMinor + BeneficiaryMinor always equals TotalMinor.
type Split struct {
	TotalMinor       int64
	PlatformMinor    int64
	BeneficiaryMinor int64
}

// ComputeSplit converts a decimal currency amount into minor units and splits
// it between beneficiary and platform. The platform share is rounded, the
// beneficiary share is the remainder, so the sum never drifts from the total.
// Amounts that are not a positive number of at least one minor unit fail with
// ErrInvalidAmount.
func ComputeSplit(amount float64, donateToPlatform bool) (Split, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return Split{}, ErrInvalidAmount
	}

	total := int64(math.Round(amount * 100))
	if total <= 0 {
		return Split{}, ErrInvalidAmount
	}

	var platform int64
	if donateToPlatform {
		platform = int64(math.Round(float64(total) * PlatformRate))
	}

	return Split{
		TotalMinor:       total,
		PlatformMinor:    platform,
		BeneficiaryMinor: total - platform,
	}, nil
}
