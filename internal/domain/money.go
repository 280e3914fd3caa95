package domain

import "github.com/shopspring/decimal"

// Quantizer rounds monetary amounts to a fixed number of fractional
// digits using round-half-to-even. Every amount entering the ledger
// passes through the same Quantizer exactly once, at entry
// construction, so stored amounts are always exact multiples of the
// minimal unit.
type Quantizer struct {
	places int32
}

// NewQuantizer returns a Quantizer that keeps places fractional
// digits. Zero places means whole currency units. Negative values are
// clamped to zero.
func NewQuantizer(places int32) Quantizer {
	if places < 0 {
		places = 0
	}
	return Quantizer{places: places}
}

// Quantize rounds amount to the configured precision. It is
// idempotent: quantizing an already quantized amount returns an equal
// value.
func (q Quantizer) Quantize(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(q.places)
}

// Places reports how many fractional digits the quantizer keeps.
func (q Quantizer) Places() int32 {
	return q.places
}
