package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxCoinNameLength is the longest coin name accepted by the form
const MaxCoinNameLength = 20

// MaxLeverage is the highest leverage accepted by the form
const MaxLeverage = 125

var numericInputPattern = regexp.MustCompile(`^-?\d*\.?\d*$`)

// AcceptNumericInput decides whether a keystroke may update a numeric field.
// It guards characters only: "" and "-" pass here and fail later in validation.
func AcceptNumericInput(raw string) bool {
	if raw == "" {
		return true
	}
	return numericInputPattern.MatchString(raw) && strings.Count(raw, ".") <= 1
}

// ValidationErrors maps each invalid field to its message. Valid fields are absent.
type ValidationErrors map[Field]string

// Valid reports whether no field has an error
func (v ValidationErrors) Valid() bool {
	return len(v) == 0
}

// Get returns the message for a field, or "" when the field is valid
func (v ValidationErrors) Get(field Field) string {
	return v[field]
}

// Validate checks every field independently. It never fails; errors are advisory.
func Validate(input PositionInput) ValidationErrors {
	errs := make(ValidationErrors)
	for _, f := range Fields {
		if msg := ValidateField(f, input); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}

// ValidateField returns the first failing rule's message for one field, or "" when valid
func ValidateField(field Field, input PositionInput) string {
	switch field {
	case FieldCoinName:
		return validateCoinName(input.CoinName)
	case FieldPositionSize, FieldEntryPrice, FieldMarkPrice:
		return validatePositive(field, input.Get(field))
	case FieldLeverage:
		return validateLeverage(input.Leverage)
	case FieldSide:
		if !input.Side.IsValid() {
			return "Side must be long or short"
		}
	}
	return ""
}

func validateCoinName(raw string) string {
	if raw == "" {
		return "Coin name is required"
	}
	if utf8.RuneCountInString(raw) > MaxCoinNameLength {
		return "Coin name must be less than 20 characters"
	}
	return ""
}

func validatePositive(field Field, raw string) string {
	v, ok := strictNumber(raw)
	if !ok {
		return field.Label() + " must be a valid number"
	}
	if v <= 0 {
		return field.Label() + " must be greater than 0"
	}
	return ""
}

func validateLeverage(raw string) string {
	v, ok := strictNumber(raw)
	if !ok {
		return "Leverage must be a valid number"
	}
	if v <= 0 || v > MaxLeverage {
		return "Leverage must be between 0 and 125"
	}
	return ""
}

// strictNumber parses the whole trimmed value as a finite float
func strictNumber(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
