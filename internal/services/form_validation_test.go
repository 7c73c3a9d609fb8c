// internal/services/form_validation_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvtravel/visa-backend/internal/utils"
)

func fieldsWithErrors(err error) map[string]bool {
	fields := make(map[string]bool)
	for _, ve := range utils.GetValidationErrors(err) {
		fields[ve.Field] = true
	}
	return fields
}

func TestTouristFormValid(t *testing.T) {
	assert.NoError(t, utils.ValidateStruct(validTouristForm()))
}

func TestTouristFormRejectsShortNames(t *testing.T) {
	form := validTouristForm()
	form.GivenNames = "A"

	err := utils.ValidateStruct(form)
	require.Error(t, err)
	assert.True(t, fieldsWithErrors(err)["givenNames"])
}

func TestTouristFormRejectsBadDates(t *testing.T) {
	form := validTouristForm()
	form.BirthDate = "12/04/1990"
	form.ArrivalDate = "2026-13-45"

	err := utils.ValidateStruct(form)
	require.Error(t, err)
	fields := fieldsWithErrors(err)
	assert.True(t, fields["birthDate"])
	assert.True(t, fields["arrivalDate"])
}

func TestTouristFormRejectsBadSex(t *testing.T) {
	form := validTouristForm()
	form.Sex = "X"

	err := utils.ValidateStruct(form)
	require.Error(t, err)
	assert.True(t, fieldsWithErrors(err)["sex"])
}

func TestTouristFormRequiresAcceptedTerms(t *testing.T) {
	form := validTouristForm()
	form.AcceptedTerms = false

	err := utils.ValidateStruct(form)
	require.Error(t, err)
	assert.True(t, fieldsWithErrors(err)["acceptedTerms"])
}

func TestTouristFormAggregatesAllFailures(t *testing.T) {
	form := validTouristForm()
	form.Email = "not-an-email"
	form.PassportNumber = "P1"
	form.AccommodationAddress = "x"

	err := utils.ValidateStruct(form)
	require.Error(t, err)
	fields := fieldsWithErrors(err)
	assert.True(t, fields["email"])
	assert.True(t, fields["passportNumber"])
	assert.True(t, fields["accommodationAddress"])
}

func TestAgencyFormValid(t *testing.T) {
	assert.NoError(t, utils.ValidateStruct(validAgencyForm()))
}

func TestAgencyFormRequiresAgencyFields(t *testing.T) {
	form := validAgencyForm()
	form.AgencyEmail = "not-an-email"
	form.AgencyPhone = "123"
	form.AgencyName = ""

	err := utils.ValidateStruct(form)
	require.Error(t, err)
	fields := fieldsWithErrors(err)
	assert.True(t, fields["agencyEmail"])
	assert.True(t, fields["agencyPhone"])
	assert.True(t, fields["agencyName"])
}

func TestAgencyFormStillValidatesTravelerFields(t *testing.T) {
	form := validAgencyForm()
	form.LastNames = ""

	err := utils.ValidateStruct(form)
	require.Error(t, err)
	assert.True(t, fieldsWithErrors(err)["lastNames"])
}
