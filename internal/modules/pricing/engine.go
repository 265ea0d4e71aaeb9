// README: Pure quote calculation: chargeable weight, tier pricing, levies, GST.
package pricing

import (
	"errors"
	"math"
)

// ErrInvalidInput marks negative quantities, weights, distances, waiting
// times, or prices. Zero values are legitimate mid-edit states and never
// trigger it.
var ErrInvalidInput = errors.New("pricing: invalid input")

// ActualWeightKg is quantity × weight per unit, with the nominal
// substitute weight when the "under 10kg" shortcut is ticked.
func (it Item) ActualWeightKg(nominalKg float64) float64 {
	qty := it.effectiveQuantity()
	if it.IsUnder10kg {
		return float64(qty) * nominalKg
	}
	return float64(qty) * it.WeightPerUnitKg
}

// VolumetricWeightKg is quantity × (L×W×H)/divisor, or 0 unless all
// three dimensions are present and positive.
func (it Item) VolumetricWeightKg(divisor float64) float64 {
	if it.LengthCm <= 0 || it.WidthCm <= 0 || it.HeightCm <= 0 {
		return 0
	}
	qty := it.effectiveQuantity()
	return float64(qty) * (it.LengthCm * it.WidthCm * it.HeightCm) / divisor
}

// Quantity defaults to 1 when the form has not filled it in yet.
func (it Item) effectiveQuantity() int {
	if it.Quantity == 0 {
		return 1
	}
	return it.Quantity
}

// ChargeableWeightKg sums actual and volumetric weight across items and
// returns the greater of the two totals. A bulky, light consignment is
// billed at its volumetric weight, never its physical weight.
func ChargeableWeightKg(items []Item, cfg Config) float64 {
	var actual, volumetric float64
	for _, it := range items {
		actual += it.ActualWeightKg(cfg.Under10kgNominalKg)
		volumetric += it.VolumetricWeightKg(cfg.VolumetricDivisor)
	}
	return math.Max(actual, volumetric)
}

// Calculate prices one consignment. It is pure and deterministic:
// identical input and config always produce an identical breakdown.
func Calculate(in QuoteInput, cfg Config) (Breakdown, error) {
	if err := validate(in); err != nil {
		return Breakdown{}, err
	}

	levyPercent := cfg.FuelLevyPercent
	if in.FuelLevyPercent != nil {
		levyPercent = *in.FuelLevyPercent
	}

	var b Breakdown

	switch {
	case in.UseCustomPrice && in.CustomPrice > 0:
		// Manual price replaces the whole computed subtotal; the
		// formula, the minimum floor, and the waiting fee are skipped.
		b.BasePrice = in.CustomPrice
		b.Subtotal = in.CustomPrice

	default:
		tier := resolveTier(in.Service, cfg)
		if tier.RequiresQuote {
			return Breakdown{RequiresQuote: true}, nil
		}

		b.ChargeableWeightKg = ChargeableWeightKg(in.Items, cfg)

		if in.Service == ServiceAfterHours {
			// Flat call-out fee: a fixed charge covers the first
			// included kilometres, each excess km at its own rate.
			// No multiplier or minimum applies.
			excessKm := math.Max(0, in.DistanceKm-cfg.AfterHoursIncludedKm)
			b.BasePrice = cfg.AfterHoursCallout
			b.DistanceCharge = excessKm * cfg.AfterHoursExcessRate
			b.Subtotal = b.BasePrice + b.DistanceCharge
		} else {
			b.DistanceCharge = in.DistanceKm * cfg.DistanceRatePerKm
			b.WeightCharge = b.ChargeableWeightKg * cfg.WeightRatePerKg
			b.BasePrice = cfg.BaseFee + b.DistanceCharge + b.WeightCharge
			tierPrice := b.BasePrice * tier.Multiplier
			b.Subtotal = math.Max(tierPrice, tier.Minimum)
		}

		b.WaitingCharge = float64(in.WaitingMinutes) * cfg.WaitingRatePerMinute
		b.Subtotal += b.WaitingCharge
	}

	b.FuelLevy = b.Subtotal * levyPercent / 100
	beforeGST := b.Subtotal + b.FuelLevy
	b.GST = beforeGST * cfg.GSTPercent / 100
	b.Total = beforeGST + b.GST

	b.round()
	return b, nil
}

func validate(in QuoteInput) error {
	if in.DistanceKm < 0 || in.WaitingMinutes < 0 || in.CustomPrice < 0 {
		return ErrInvalidInput
	}
	if in.FuelLevyPercent != nil && *in.FuelLevyPercent < 0 {
		return ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.Quantity < 0 || it.WeightPerUnitKg < 0 {
			return ErrInvalidInput
		}
		if it.LengthCm < 0 || it.WidthCm < 0 || it.HeightCm < 0 {
			return ErrInvalidInput
		}
	}
	return nil
}

// Unknown service types fall back to the standard tier rather than
// failing; the order forms occasionally submit stale values.
func resolveTier(svc ServiceType, cfg Config) TierConfig {
	if tier, ok := cfg.Tiers[svc]; ok {
		return tier
	}
	return cfg.Tiers[ServiceStandard]
}

// Rounding happens once, at the output boundary. Intermediate math
// stays at full float precision.
func (b *Breakdown) round() {
	b.BasePrice = round2(b.BasePrice)
	b.DistanceCharge = round2(b.DistanceCharge)
	b.WeightCharge = round2(b.WeightCharge)
	b.WaitingCharge = round2(b.WaitingCharge)
	b.Subtotal = round2(b.Subtotal)
	b.FuelLevy = round2(b.FuelLevy)
	b.GST = round2(b.GST)
	b.Total = round2(b.Total)
	b.ChargeableWeightKg = round2(b.ChargeableWeightKg)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
