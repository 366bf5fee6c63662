package nameserv

import (
	"math/big"

	"github.com/mvxns/nameserv/schema"
)

// checkedMul multiplies two unsigned values and fails instead of wrapping.
func checkedMul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	prod := a * b
	if prod/a != b {
		return 0, schema.ErrOverflow
	}
	return prod, nil
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, schema.ErrOverflow
	}
	return sum, nil
}

// durationSeconds converts a (period, unit) pair to seconds.
func durationSeconds(period uint64, unit string) (uint64, error) {
	unitSecs, ok := schema.UnitSeconds[unit]
	if !ok {
		return 0, schema.ErrInvalidDuration
	}
	if period == 0 {
		return 0, schema.ErrInvalidDuration
	}
	return checkedMul(period, unitSecs)
}

// annualFeeUsd picks the fee bucket for a name. The bucket is keyed by the
// leading label, lengths past the table collapse into the last bucket.
func annualFeeUsd(fee schema.RentalFee, name string) uint64 {
	label := splitLabels(name)[0]
	switch len(label) {
	case 1:
		return fee.OneLetter
	case 2:
		return fee.TwoLetter
	case 3:
		return fee.ThreeLetter
	case 4:
		return fee.FourLetter
	default:
		return fee.Other
	}
}

// rentPrice computes the rent for a name over secs in native base units:
// annual usd fee times seconds times rate, divided by seconds per year,
// truncating toward zero.
func rentPrice(fee schema.RentalFee, rate *big.Int, name string, secs uint64) (*big.Int, error) {
	if rate == nil || rate.Sign() <= 0 {
		return nil, schema.ErrNoRate
	}
	usdSecs, err := checkedMul(annualFeeUsd(fee, name), secs)
	if err != nil {
		return nil, err
	}
	price := new(big.Int).SetUint64(usdSecs)
	price.Mul(price, rate)
	return price.Div(price, big.NewInt(schema.YearInSeconds)), nil
}

// subDomainPrice converts the flat subdomain fee through the cached rate.
func subDomainPrice(rate *big.Int) (*big.Int, error) {
	if rate == nil || rate.Sign() <= 0 {
		return nil, schema.ErrNoRate
	}
	return new(big.Int).Mul(big.NewInt(schema.SubDomainCostUsdCents), rate), nil
}
