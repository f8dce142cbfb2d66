package services

import (
	"fmt"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

const (
	// RecommendedMargin is the markup applied on top of the minimum price
	// to cover overhead and profit.
	RecommendedMargin = 1.2

	// ContractorShare is the fraction of the customer price paid out to the
	// contractor; the remaining 15% is the platform commission.
	ContractorShare = 0.85
)

// PriceValidation is the result of checking a user-proposed price against
// the statutory minimum. The message states the literal formula components
// so a human reviewer can act on it directly.
type PriceValidation struct {
	IsValid      bool
	MinimumPrice float64
	Difference   float64
	Message      string
}

// PriceCalculator is a pure domain service computing statutory-minimum-wage
// compliant prices from route metrics. It performs no I/O; all outputs are
// rounded to cents via kernel.RoundToCents.
//
// The minimum price formula is
//
//	startFee + distanceKm * perKm + durationMinutes/60 * hourlyRate
//
// with perKm and hourlyRate representing the configured wage floor.
type PriceCalculator struct {
	perKm      float64
	hourlyRate float64
	startFee   float64
}

// NewPriceCalculator creates a calculator with the configured rates.
// perKm and hourlyRate must be positive; startFee may be zero.
func NewPriceCalculator(perKm float64, hourlyRate float64, startFee float64) (PriceCalculator, error) {
	if perKm <= 0 {
		return PriceCalculator{}, errs.NewValueIsInvalidError("perKm")
	}
	if hourlyRate <= 0 {
		return PriceCalculator{}, errs.NewValueIsInvalidError("hourlyRate")
	}
	if startFee < 0 {
		return PriceCalculator{}, errs.NewValueIsInvalidError("startFee")
	}

	return PriceCalculator{
		perKm:      perKm,
		hourlyRate: hourlyRate,
		startFee:   startFee,
	}, nil
}

// DefaultPriceCalculator returns the calculator with the reference rates:
// 0.50 EUR/km, 22.50 EUR/h, no start fee.
func DefaultPriceCalculator() PriceCalculator {
	c, _ := NewPriceCalculator(0.50, 22.50, 0)
	return c
}

// MinimumPrice computes the wage-floor price for the given route metrics,
// rounded to cents. Distance and duration must be non-negative.
func (c PriceCalculator) MinimumPrice(distanceKm float64, durationMinutes int) (float64, error) {
	if distanceKm < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("distanceKm",
			fmt.Errorf("%f is negative", distanceKm))
	}
	if durationMinutes < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("durationMinutes",
			fmt.Errorf("%d is negative", durationMinutes))
	}

	price := c.startFee + distanceKm*c.perKm + float64(durationMinutes)/60.0*c.hourlyRate
	return kernel.RoundToCents(price), nil
}

// RecommendedPrice is the minimum price plus the standard 20% margin.
func (c PriceCalculator) RecommendedPrice(distanceKm float64, durationMinutes int) (float64, error) {
	minimum, err := c.MinimumPrice(distanceKm, durationMinutes)
	if err != nil {
		return 0, err
	}
	return kernel.RoundToCents(minimum * RecommendedMargin), nil
}

// ValidatePrice checks a proposed customer price against the minimum.
// The proposed price is valid iff it is at least the minimum price.
func (c PriceCalculator) ValidatePrice(
	proposedPrice float64,
	distanceKm float64,
	durationMinutes int,
) (PriceValidation, error) {
	minimum, err := c.MinimumPrice(distanceKm, durationMinutes)
	if err != nil {
		return PriceValidation{}, err
	}

	difference := kernel.RoundToCents(proposedPrice - minimum)
	formula := fmt.Sprintf("%.1f km * %.2f EUR/km + %d min / 60 * %.2f EUR/h",
		distanceKm, c.perKm, durationMinutes, c.hourlyRate)
	if c.startFee > 0 {
		formula = fmt.Sprintf("%.2f EUR start fee + %s", c.startFee, formula)
	}

	v := PriceValidation{
		IsValid:      proposedPrice >= minimum,
		MinimumPrice: minimum,
		Difference:   difference,
	}

	if v.IsValid {
		v.Message = fmt.Sprintf(
			"proposed price %.2f EUR meets the minimum of %.2f EUR (%s)",
			proposedPrice, minimum, formula)
	} else {
		v.Message = fmt.Sprintf(
			"proposed price %.2f EUR is %.2f EUR below the minimum of %.2f EUR (%s)",
			proposedPrice, -difference, minimum, formula)
	}

	return v, nil
}

// ContractorPrice derives the contractor payout from the customer price:
// a fixed 85% share, rounded to cents.
func (c PriceCalculator) ContractorPrice(customerPrice float64) (float64, error) {
	if customerPrice <= 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("customerPrice",
			fmt.Errorf("%f is not greater than 0", customerPrice))
	}
	return kernel.RoundToCents(customerPrice * ContractorShare), nil
}
