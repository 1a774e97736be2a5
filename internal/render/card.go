package render

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"positioncard/internal/domain"
)

// Card colours
const (
	ColorLong     = "#59A97F"
	ColorShort    = "#CB5165"
	ColorProfit   = "#25B773"
	ColorLoss     = "#CB5165"
	ColorLiqPrice = "#D1A44A"
	ColorMuted    = "#737373"
	ColorBorder   = "#262626"
	ColorButton   = "#404040"
	ColorPill     = "#141A1C"
)

const placeholder = "--"

var printer = message.NewPrinter(language.English)

// CardView is the formatted content of the preview card.
// The HTML preview and the PNG export both draw from it.
type CardView struct {
	CoinName      string
	SideLabel     string
	SideColor     string
	IsLong        bool
	LeverageLabel string
	PnlText       string
	PnlColor      string
	PositionSize  string
	EntryPrice    string
	MarkPrice     string
	LiqPrice      string
}

// NewCardView formats a preview for display
func NewCardView(p domain.Preview) CardView {
	n := p.Input.Numbers()
	m := p.Metrics

	v := CardView{
		CoinName:      p.Input.CoinName,
		SideLabel:     p.Input.Side.Label(),
		SideColor:     ColorLong,
		IsLong:        p.Input.Side != domain.SideShort,
		LeverageLabel: "Cross " + strconv.FormatFloat(roundHalfUp(n.Leverage), 'f', 0, 64) + "x",
		PnlText:       FormatFixed(m.UnrealizedPnl) + " (" + FormatFixed(m.PnlPercent) + "%)",
		PnlColor:      ColorProfit,
		PositionSize:  placeholder,
		EntryPrice:    formatRaw(n.EntryPrice),
		MarkPrice:     formatRaw(n.MarkPrice),
		LiqPrice:      placeholder,
	}

	if v.CoinName == "" {
		v.CoinName = "-"
	}
	if !v.IsLong {
		v.SideColor = ColorShort
	}
	if m.UnrealizedPnl < 0 {
		v.PnlColor = ColorLoss
	}
	if n.PositionSize != 0 {
		v.PositionSize = FormatGrouped(n.PositionSize)
	}

	return v
}

// FormatFixed renders a value with two decimals and thousands separators
func FormatFixed(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// FormatGrouped renders a value with thousands separators and up to three decimals
func FormatGrouped(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

func formatRaw(v float64) string {
	if v == 0 {
		return placeholder
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// roundHalfUp rounds halves towards positive infinity, so -2.5 becomes -2
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
