// internal/services/fees_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cvtravel/visa-backend/internal/models"
)

func TestCalculateFeesKnownAmounts(t *testing.T) {
	// EASE assistance
	fees := CalculateFees(35.80)
	assert.Equal(t, 35.80, fees.BaseAmount)
	assert.Equal(t, 36.70, fees.Total)

	// Tourist visa assistance
	fees = CalculateFees(62.00)
	assert.Equal(t, 62.00, fees.BaseAmount)
	assert.Equal(t, 63.55, fees.Total)
}

func TestCalculateFeesSurchargeRate(t *testing.T) {
	fees := CalculateFees(100.00)
	assert.Equal(t, 2.50, fees.InternationalFee)
	assert.Equal(t, 102.50, fees.Total)
}

func TestCalculateFeesTotalInvariant(t *testing.T) {
	// total == round(base * 1.025, 2), rounded half away from zero at the
	// final step only. 1.00 and 120.20 land exactly on the half.
	cases := []struct {
		base  float64
		total float64
	}{
		{0.01, 0.01},
		{0.40, 0.41},
		{1.00, 1.03},
		{9.99, 10.24},
		{35.80, 36.70},
		{62.00, 63.55},
		{120.20, 123.21},
		{999.99, 1024.99},
		{12345.67, 12654.31},
	}
	for _, tc := range cases {
		fees := CalculateFees(tc.base)
		assert.Equal(t, tc.total, fees.Total, "base %.2f", tc.base)
	}
}

func TestCalculateFeesKeepsIntermediateExact(t *testing.T) {
	// 35.80 * 0.025 = 0.895; the surcharge is reported unrounded, only the
	// total carries the 2-decimal rounding.
	fees := CalculateFees(35.80)
	assert.InDelta(t, 0.895, fees.InternationalFee, 1e-9)
	assert.Equal(t, 36.70, fees.Total)
}

func TestBaseAmountFor(t *testing.T) {
	assert.Equal(t, EaseBaseAmount, BaseAmountFor(models.ApplicationTypeTourist))
	assert.Equal(t, VisaBaseAmount, BaseAmountFor(models.ApplicationTypeAgency))
}
