// internal/services/fees.go
package services

import (
	"github.com/shopspring/decimal"
)

// internationalFeeRate is the fixed 2.5% surcharge applied to every base
// price for international payment handling.
var internationalFeeRate = decimal.NewFromFloat(0.025)

type Fees struct {
	BaseAmount       float64 `json:"base_amount"`
	InternationalFee float64 `json:"international_fee"`
	Total            float64 `json:"total"`
}

// CalculateFees derives the total charge for a base price. Only the final
// total is rounded (2 decimals, half away from zero); the intermediate fee
// is kept exact so the invariant total == round(base * 1.025, 2) holds.
func CalculateFees(baseAmount float64) Fees {
	base := decimal.NewFromFloat(baseAmount)
	fee := base.Mul(internationalFeeRate)
	total := base.Add(fee).Round(2)

	return Fees{
		BaseAmount:       baseAmount,
		InternationalFee: fee.InexactFloat64(),
		Total:            total.InexactFloat64(),
	}
}
