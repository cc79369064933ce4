package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  Category
		expectErr bool
	}{
		{"income", "INCOME", CategoryIncome, false},
		{"core", "CORE", CategoryCore, false},
		{"choice", "CHOICE", CategoryChoice, false},
		{"compound", "COMPOUND", CategoryCompound, false},
		{"excluded", "EXCLUDED", CategoryExcluded, false},
		{"lowercase rejected", "income", "", true},
		{"unknown rejected", "SAVINGS", "", true},
		{"empty rejected", "", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCategory(tc.input)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCategoryUnmarshalJSON(t *testing.T) {
	var c Category
	require.NoError(t, json.Unmarshal([]byte(`"COMPOUND"`), &c))
	assert.Equal(t, CategoryCompound, c)

	assert.Error(t, json.Unmarshal([]byte(`"Compound"`), &c))
	assert.Error(t, json.Unmarshal([]byte(`42`), &c))
}

func TestCategoryValid(t *testing.T) {
	for _, c := range AllCategories {
		assert.True(t, c.Valid(), c.String())
	}
	assert.False(t, Category("GROCERIES").Valid())
}
