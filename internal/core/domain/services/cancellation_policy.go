package services

import (
	"fmt"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// PenaltyTier maps a lead-time threshold to a penalty fraction. A tier
// applies when hours-before-pickup is at least MinHours and no earlier
// tier matched.
type PenaltyTier struct {
	MinHours float64
	Fraction float64
}

// ContractorSettlement is the financial outcome of a contractor-side
// cancellation, computed once at the instant of cancellation.
type ContractorSettlement struct {
	Fraction        float64
	Penalty         float64
	AvailableBudget float64
}

// DefaultContractorTiers is the standard penalty schedule applied to the
// contractor price when the contractor cancels:
//
//	>= 24h before pickup  -> no penalty
//	[12h, 24h)            -> 50%
//	[2h, 12h)             -> 75%
//	< 2h                  -> 100%
func DefaultContractorTiers() []PenaltyTier {
	return []PenaltyTier{
		{MinHours: 24, Fraction: 0},
		{MinHours: 12, Fraction: 0.5},
		{MinHours: 2, Fraction: 0.75},
		{MinHours: 0, Fraction: 1.0},
	}
}

// DefaultCustomerTiers is the fee schedule applied to the customer price
// when the customer cancels a matched order. It mirrors the contractor
// schedule until a dedicated customer schedule is configured.
func DefaultCustomerTiers() []PenaltyTier {
	return DefaultContractorTiers()
}

// CancellationPolicy resolves penalty fractions from lead time and derives
// the settlement amounts. It is a pure domain service; all monetary
// outputs are rounded to cents.
//
// The two schedules are kept separate because the contractor penalty funds
// the re-assignment budget while the customer fee is plain revenue.
type CancellationPolicy struct {
	contractorTiers []PenaltyTier
	customerTiers   []PenaltyTier
}

// NewCancellationPolicy creates a policy from the two tier schedules.
// Each schedule must be non-empty, ordered by strictly descending MinHours,
// end with a MinHours of 0 so that every lead time resolves, and carry
// fractions within [0, 1].
func NewCancellationPolicy(contractorTiers []PenaltyTier, customerTiers []PenaltyTier) (CancellationPolicy, error) {
	if err := validateTiers("contractorTiers", contractorTiers); err != nil {
		return CancellationPolicy{}, err
	}
	if err := validateTiers("customerTiers", customerTiers); err != nil {
		return CancellationPolicy{}, err
	}

	return CancellationPolicy{
		contractorTiers: contractorTiers,
		customerTiers:   customerTiers,
	}, nil
}

// DefaultCancellationPolicy returns the policy with the standard schedules.
func DefaultCancellationPolicy() CancellationPolicy {
	p, _ := NewCancellationPolicy(DefaultContractorTiers(), DefaultCustomerTiers())
	return p
}

func validateTiers(paramName string, tiers []PenaltyTier) error {
	if len(tiers) == 0 {
		return errs.NewValueIsRequiredError(paramName)
	}

	for i, tier := range tiers {
		if tier.MinHours < 0 {
			return errs.NewValueIsInvalidErrorWithCause(paramName,
				fmt.Errorf("tier %d has negative MinHours %f", i, tier.MinHours))
		}
		if tier.Fraction < 0 || tier.Fraction > 1 {
			return errs.NewValueIsInvalidErrorWithCause(paramName,
				fmt.Errorf("tier %d has fraction %f outside [0, 1]", i, tier.Fraction))
		}
		if i > 0 && tier.MinHours >= tiers[i-1].MinHours {
			return errs.NewValueIsInvalidErrorWithCause(paramName,
				fmt.Errorf("tier %d breaks the descending MinHours order", i))
		}
	}

	if tiers[len(tiers)-1].MinHours != 0 {
		return errs.NewValueIsInvalidErrorWithCause(paramName,
			fmt.Errorf("last tier must have MinHours 0, got %f", tiers[len(tiers)-1].MinHours))
	}

	return nil
}

// resolveFraction walks the schedule top-down and returns the fraction of
// the first tier whose threshold the lead time meets. Negative lead times
// (pickup already started) fall through to the last tier.
func resolveFraction(tiers []PenaltyTier, hoursBeforePickup float64) float64 {
	for _, tier := range tiers {
		if hoursBeforePickup >= tier.MinHours {
			return tier.Fraction
		}
	}
	return tiers[len(tiers)-1].Fraction
}

// ContractorSettlementFor computes the contractor-side cancellation outcome.
// The penalty is the resolved fraction of the contractor price; the
// available budget for re-assignment is the customer price plus that
// penalty. The customer price itself never changes.
func (p CancellationPolicy) ContractorSettlementFor(
	customerPrice float64,
	contractorPrice float64,
	hoursBeforePickup float64,
) (ContractorSettlement, error) {
	if customerPrice <= 0 {
		return ContractorSettlement{}, errs.NewValueIsInvalidError("customerPrice")
	}
	if contractorPrice <= 0 {
		return ContractorSettlement{}, errs.NewValueIsInvalidError("contractorPrice")
	}

	fraction := resolveFraction(p.contractorTiers, hoursBeforePickup)
	penalty := kernel.RoundToCents(contractorPrice * fraction)

	return ContractorSettlement{
		Fraction:        fraction,
		Penalty:         penalty,
		AvailableBudget: kernel.RoundToCents(customerPrice + penalty),
	}, nil
}

// CustomerFeeFor computes the fee charged to a customer cancelling a matched
// order, as the resolved fraction of the customer price. Unmatched orders
// cancel free of charge; callers skip this for them.
func (p CancellationPolicy) CustomerFeeFor(
	customerPrice float64,
	hoursBeforePickup float64,
) (float64, error) {
	if customerPrice <= 0 {
		return 0, errs.NewValueIsInvalidError("customerPrice")
	}

	fraction := resolveFraction(p.customerTiers, hoursBeforePickup)
	return kernel.RoundToCents(customerPrice * fraction), nil
}
