package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DerivedMetrics are the figures shown on the preview card.
// They are recomputed from PositionInput on every change and never stored.
type DerivedMetrics struct {
	Quantity      float64 `json:"quantity"`
	DirectionSign float64 `json:"directionSign"`
	Notional      float64 `json:"notional"`
	Margin        float64 `json:"margin"`
	UnrealizedPnl float64 `json:"unrealizedPnl"`
	PnlPercent    float64 `json:"pnlPercent"`
}

// NumericInput is the zero-fallback numeric view of a PositionInput
type NumericInput struct {
	PositionSize float64
	EntryPrice   float64
	MarkPrice    float64
	Leverage     float64
}

// Numbers parses the numeric fields leniently
func (p *PositionInput) Numbers() NumericInput {
	return NumericInput{
		PositionSize: ParseFloatOrZero(p.PositionSize),
		EntryPrice:   ParseFloatOrZero(p.EntryPrice),
		MarkPrice:    ParseFloatOrZero(p.MarkPrice),
		Leverage:     ParseFloatOrZero(p.Leverage),
	}
}

// leading numeric prefix, same shape a browser's parseFloat accepts
var floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseFloatOrZero strips thousands separators and parses the longest numeric prefix.
// Anything that does not yield a finite number becomes 0.
func ParseFloatOrZero(raw string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return 0
	}
	m := floatPrefix.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ComputeMetrics derives notional, margin and unrealized P&L from the raw form values.
// It is total: empty or malformed values count as zero and no step divides by zero.
func ComputeMetrics(input PositionInput) DerivedMetrics {
	n := input.Numbers()

	quantity := n.PositionSize
	direction := input.DirectionSign()
	priceDiff := n.MarkPrice - n.EntryPrice

	// no P&L until both prices and a size are present
	var pnl float64
	if n.EntryPrice != 0 && n.MarkPrice != 0 && quantity != 0 {
		pnl = priceDiff * quantity * direction
	}

	var notional float64
	if n.EntryPrice != 0 && quantity != 0 {
		notional = n.EntryPrice * quantity
	}

	var margin float64
	if notional != 0 && n.Leverage != 0 {
		margin = notional / n.Leverage
	}

	var pnlPercent float64
	if margin != 0 {
		pnlPercent = (pnl / margin) * 100
	}

	return DerivedMetrics{
		Quantity:      quantity,
		DirectionSign: direction,
		Notional:      finiteOrZero(notional),
		Margin:        finiteOrZero(margin),
		UnrealizedPnl: finiteOrZero(pnl),
		PnlPercent:    finiteOrZero(pnlPercent),
	}
}

// products of huge inputs can overflow; keep the output JSON-safe
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
