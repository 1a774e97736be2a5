package domain

import (
	"fmt"
	"strings"
)

// Side is the direction of a position
type Side string

// Side constants
const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// ParseSide converts a raw side value into a Side
func ParseSide(raw string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(raw))) {
	case SideLong:
		return SideLong, nil
	case SideShort:
		return SideShort, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSide, raw)
	}
}

// IsValid reports whether s is one of the two reachable sides
func (s Side) IsValid() bool {
	return s == SideLong || s == SideShort
}

// Label returns the display label used on the preview card
func (s Side) Label() string {
	if s == SideShort {
		return "Short"
	}
	return "Long"
}

// Field identifies one input of the position form
type Field string

// Field constants
const (
	FieldCoinName     Field = "coinName"
	FieldPositionSize Field = "positionSize"
	FieldEntryPrice   Field = "entryPrice"
	FieldMarkPrice    Field = "markPrice"
	FieldLeverage     Field = "leverage"
	FieldSide         Field = "side"
)

// Fields lists every form field in display order
var Fields = []Field{
	FieldCoinName,
	FieldPositionSize,
	FieldEntryPrice,
	FieldMarkPrice,
	FieldLeverage,
	FieldSide,
}

// ParseField resolves a field name sent by a client
func ParseField(raw string) (Field, error) {
	for _, f := range Fields {
		if string(f) == raw {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, raw)
}

// IsNumeric reports whether the field holds a number typed as raw text
func (f Field) IsNumeric() bool {
	switch f {
	case FieldPositionSize, FieldEntryPrice, FieldMarkPrice, FieldLeverage:
		return true
	}
	return false
}

// Label returns the human readable field name
func (f Field) Label() string {
	switch f {
	case FieldCoinName:
		return "Coin name"
	case FieldPositionSize:
		return "Position size"
	case FieldEntryPrice:
		return "Entry price"
	case FieldMarkPrice:
		return "Mark price"
	case FieldLeverage:
		return "Leverage"
	case FieldSide:
		return "Side"
	}
	return string(f)
}

// PositionInput holds the raw form values of a trading position.
// Numeric fields are kept as typed so partial input such as "0." survives re-renders.
type PositionInput struct {
	CoinName     string `json:"coinName"`
	PositionSize string `json:"positionSize"`
	EntryPrice   string `json:"entryPrice"`
	MarkPrice    string `json:"markPrice"`
	Leverage     string `json:"leverage"`
	Side         Side   `json:"side"`
}

// Default form values used when a session starts
const (
	DefaultCoinName     = "POPCATUSDT"
	DefaultPositionSize = "350000"
	DefaultEntryPrice   = "0.1665"
	DefaultMarkPrice    = "0.1856"
	DefaultLeverage     = "10"
	DefaultSide         = SideLong
)

// DefaultPositionInput returns the initial form state
func DefaultPositionInput() PositionInput {
	return PositionInput{
		CoinName:     DefaultCoinName,
		PositionSize: DefaultPositionSize,
		EntryPrice:   DefaultEntryPrice,
		MarkPrice:    DefaultMarkPrice,
		Leverage:     DefaultLeverage,
		Side:         DefaultSide,
	}
}

// Get returns the raw value of a field
func (p *PositionInput) Get(field Field) string {
	switch field {
	case FieldCoinName:
		return p.CoinName
	case FieldPositionSize:
		return p.PositionSize
	case FieldEntryPrice:
		return p.EntryPrice
	case FieldMarkPrice:
		return p.MarkPrice
	case FieldLeverage:
		return p.Leverage
	case FieldSide:
		return string(p.Side)
	}
	return ""
}

// Set stores the raw text of a field without any validation.
// The side field goes through SetSide and is rejected here.
func (p *PositionInput) Set(field Field, raw string) error {
	switch field {
	case FieldCoinName:
		p.CoinName = raw
	case FieldPositionSize:
		p.PositionSize = raw
	case FieldEntryPrice:
		p.EntryPrice = raw
	case FieldMarkPrice:
		p.MarkPrice = raw
	case FieldLeverage:
		p.Leverage = raw
	default:
		return fmt.Errorf("%w: %q is not a text field", ErrUnknownField, field)
	}
	return nil
}

// SetSide switches the position side. Selecting the current side is a no-op.
func (p *PositionInput) SetSide(side Side) error {
	if !side.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}
	p.Side = side
	return nil
}

// DirectionSign returns -1 for short positions and +1 otherwise
func (p *PositionInput) DirectionSign() float64 {
	if p.Side == SideShort {
		return -1
	}
	return 1
}
