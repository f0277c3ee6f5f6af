package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "plain amount", input: "45.00", expected: "45"},
		{name: "negative amount", input: "-45.00", expected: "-45"},
		{name: "currency symbol", input: "$1,234.56", expected: "1234.56"},
		{name: "euro symbol", input: "€12.34", expected: "12.34"},
		{name: "thousands separator", input: "1,000", expected: "1000"},
		{name: "apostrophe separator", input: "1'000.50", expected: "1000.5"},
		{name: "parenthesized is negative", input: "(12.34)", expected: "-12.34"},
		{name: "whitespace", input: "  45.00  ", expected: "45"},
		{name: "currency code", input: "USD 99.00", expected: "99"},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := CleanAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, amount.String())
		})
	}
}

func TestParseInstitution(t *testing.T) {
	for _, institution := range Institutions {
		parsed, err := ParseInstitution(institution.String())
		require.NoError(t, err)
		assert.Equal(t, institution, parsed)
	}

	_, err := ParseInstitution("acme-bank")
	assert.Error(t, err)
}

func TestDefaultMappings(t *testing.T) {
	for _, institution := range Institutions {
		mapping := institution.DefaultMapping()
		assert.Equal(t, institution, mapping.Institution)
		assert.NotEmpty(t, mapping.DateColumn, "institution %s", institution)
		assert.NotEmpty(t, mapping.DescriptionColumn, "institution %s", institution)
		assert.NotEmpty(t, mapping.DateFormat, "institution %s", institution)

		// Exactly one amount strategy per institution.
		single := mapping.AmountColumn != ""
		paired := mapping.DebitColumn != "" || mapping.CreditColumn != ""
		assert.True(t, single != paired, "institution %s must use exactly one amount strategy", institution)
	}

	assert.True(t, InstitutionAmex.DefaultMapping().InvertAmount)
	assert.True(t, InstitutionBofA.DefaultMapping().UsesDebitCredit())
	assert.False(t, InstitutionChase.DefaultMapping().UsesDebitCredit())
}
