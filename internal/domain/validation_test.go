package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Defaults(t *testing.T) {
	assert.True(t, Validate(DefaultPositionInput()).Valid())
}

func TestValidateField(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		value string
		want  string
	}{
		{"coin ok", FieldCoinName, "BTCUSDT", ""},
		{"coin empty", FieldCoinName, "", "Coin name is required"},
		{"coin 20 chars", FieldCoinName, strings.Repeat("A", 20), ""},
		{"coin 21 chars", FieldCoinName, strings.Repeat("A", 21), "Coin name must be less than 20 characters"},
		{"size empty", FieldPositionSize, "", "Position size must be a valid number"},
		{"size zero", FieldPositionSize, "0", "Position size must be greater than 0"},
		{"size negative", FieldPositionSize, "-5", "Position size must be greater than 0"},
		{"size lone minus", FieldPositionSize, "-", "Position size must be a valid number"},
		{"size trailing dot", FieldPositionSize, "5.", ""},
		{"entry garbage", FieldEntryPrice, "abc", "Entry price must be a valid number"},
		{"entry ok", FieldEntryPrice, "0.1665", ""},
		{"mark zero", FieldMarkPrice, "0.0", "Mark price must be greater than 0"},
		{"mark infinite", FieldMarkPrice, "Inf", "Mark price must be a valid number"},
		{"leverage ok", FieldLeverage, "10", ""},
		{"leverage max", FieldLeverage, "125", ""},
		{"leverage fractional", FieldLeverage, "0.5", ""},
		{"leverage zero", FieldLeverage, "0", "Leverage must be between 0 and 125"},
		{"leverage negative", FieldLeverage, "-1", "Leverage must be between 0 and 125"},
		{"leverage above max", FieldLeverage, "125.01", "Leverage must be between 0 and 125"},
		{"leverage empty", FieldLeverage, "", "Leverage must be a valid number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := DefaultPositionInput()
			if err := in.Set(tt.field, tt.value); err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, tt.want, ValidateField(tt.field, in))
		})
	}
}

func TestValidate_ReportsEveryInvalidField(t *testing.T) {
	in := PositionInput{Side: "sideways"}

	errs := Validate(in)

	assert.Len(t, errs, len(Fields))
	assert.Equal(t, "Side must be long or short", errs.Get(FieldSide))
	assert.Equal(t, "Coin name is required", errs.Get(FieldCoinName))
}

func TestAcceptNumericInput(t *testing.T) {
	accepted := []string{"", "-", "0", "12", "12.", ".5", "-0.25", "350000", "-."}
	rejected := []string{"1.2.3", "..", "1..", "--1", "1-", "abc", "1e5", "1,000", "+1", " 1", "1 "}

	for _, s := range accepted {
		assert.Truef(t, AcceptNumericInput(s), "expected %q to be accepted", s)
	}
	for _, s := range rejected {
		assert.Falsef(t, AcceptNumericInput(s), "expected %q to be rejected", s)
	}
}
