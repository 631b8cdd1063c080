package sle

import (
	"math/big"

	"github.com/shopspring/decimal"
)

func fromUint64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

// FormatUnits renders an integer amount of base units with the given number
// of decimals, e.g. FormatUnits(1500, 3) == "1.5".
func FormatUnits(amount uint64, decimals uint8) string {
	return fromUint64(amount).Shift(-int32(decimals)).String()
}

// ParseUnits is the inverse of FormatUnits. It fails when value has more
// fractional digits than decimals or does not fit in a uint64.
func ParseUnits(value string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, err
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.IsInteger() || scaled.IsNegative() {
		return 0, errInvalidUnits(value)
	}
	if scaled.GreaterThan(fromUint64(^uint64(0))) {
		return 0, errInvalidUnits(value)
	}
	return scaled.BigInt().Uint64(), nil
}

type errInvalidUnits string

func (e errInvalidUnits) Error() string { return "invalid token amount " + string(e) }
