// internal/services/catalog.go
package services

import (
	"github.com/cvtravel/visa-backend/internal/i18n"
	"github.com/cvtravel/visa-backend/internal/models"
)

// Base prices in euros. Fixed per service, never user-editable.
const (
	EaseBaseAmount = 35.80
	VisaBaseAmount = 62.00
)

type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Fees        Fees    `json:"fees"`
}

// ServiceCatalog lists the two bookable services with names and
// descriptions localized for lang.
func ServiceCatalog(lang string) []Service {
	return []Service{
		{
			ID:          "ease",
			Name:        i18n.T(lang, i18n.KeyServiceEaseName),
			Description: i18n.T(lang, i18n.KeyServiceEaseDescription),
			Price:       EaseBaseAmount,
			Fees:        CalculateFees(EaseBaseAmount),
		},
		{
			ID:          "visa",
			Name:        i18n.T(lang, i18n.KeyServiceVisaName),
			Description: i18n.T(lang, i18n.KeyServiceVisaDescription),
			Price:       VisaBaseAmount,
			Fees:        CalculateFees(VisaBaseAmount),
		},
	}
}

// BaseAmountFor maps the application type to its service's fixed base price:
// tourists book EASE assistance, agencies book visa assistance.
func BaseAmountFor(appType models.ApplicationType) float64 {
	if appType == models.ApplicationTypeAgency {
		return VisaBaseAmount
	}
	return EaseBaseAmount
}
