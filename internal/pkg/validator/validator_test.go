package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name" validate:"required"`
	Email string  `json:"email" validate:"omitempty,email"`
	Siren *string `json:"siren" validate:"omitempty,siren"`
	Date  string  `json:"date" validate:"omitempty,date"`
}

func strPtr(s string) *string { return &s }

func TestValidateUsesJSONNames(t *testing.T) {
	errs := Validate(sample{Email: "nope", Siren: strPtr("12345"), Date: "31/12/2024"})
	assert.Equal(t, map[string]string{
		"name":  "required",
		"email": "email",
		"siren": "siren",
		"date":  "date",
	}, errs)
}

func TestValidateOK(t *testing.T) {
	assert.Nil(t, Validate(sample{Name: "Acme", Siren: strPtr("123456789"), Date: "2024-12-31"}))
	assert.Nil(t, Validate(sample{Name: "Acme"}))
	assert.Nil(t, Validate(sample{Name: "Acme", Siren: strPtr("")}))
}

func TestVar(t *testing.T) {
	assert.True(t, Var("jane@acme.fr", "required,email"))
	assert.False(t, Var("", "required,email"))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-03-01T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, 8, d.Hour())

	_, err = ParseDate("01/03/2024")
	assert.Error(t, err)

	none, err := ParseOptionalDate(strPtr("  "))
	require.NoError(t, err)
	assert.Nil(t, none)
}
