package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"positioncard/internal/domain"
)

func TestNewCardView_Defaults(t *testing.T) {
	v := NewCardView(domain.NewPreview(domain.DefaultPositionInput()))

	assert.Equal(t, "POPCATUSDT", v.CoinName)
	assert.Equal(t, "Long", v.SideLabel)
	assert.Equal(t, ColorLong, v.SideColor)
	assert.Equal(t, "Cross 10x", v.LeverageLabel)
	assert.Equal(t, "6,685.00 (114.71%)", v.PnlText)
	assert.Equal(t, ColorProfit, v.PnlColor)
	assert.Equal(t, "350,000", v.PositionSize)
	assert.Equal(t, "0.1665", v.EntryPrice)
	assert.Equal(t, "0.1856", v.MarkPrice)
	assert.Equal(t, "--", v.LiqPrice)
}

func TestNewCardView_ShortLoss(t *testing.T) {
	in := domain.DefaultPositionInput()
	in.Side = domain.SideShort
	in.Leverage = "12.6"

	v := NewCardView(domain.NewPreview(in))

	assert.Equal(t, "Short", v.SideLabel)
	assert.Equal(t, ColorShort, v.SideColor)
	assert.Equal(t, ColorLoss, v.PnlColor)
	assert.Equal(t, "Cross 13x", v.LeverageLabel)
	assert.Contains(t, v.PnlText, "-6,685.00")
}

func TestNewCardView_Placeholders(t *testing.T) {
	in := domain.PositionInput{Side: domain.SideLong}

	v := NewCardView(domain.NewPreview(in))

	assert.Equal(t, "-", v.CoinName)
	assert.Equal(t, "--", v.PositionSize)
	assert.Equal(t, "--", v.EntryPrice)
	assert.Equal(t, "--", v.MarkPrice)
	assert.Equal(t, "0.00 (0.00%)", v.PnlText)
	assert.Equal(t, "Cross 0x", v.LeverageLabel)
}

func TestNewCardView_LeverageRounding(t *testing.T) {
	tests := []struct {
		leverage string
		want     string
	}{
		{"10", "Cross 10x"},
		{"2.5", "Cross 3x"},
		{"2.4", "Cross 2x"},
		{"-2.5", "Cross -2x"},
		{"-2.6", "Cross -3x"},
		{"-0.4", "Cross 0x"},
	}

	for _, tt := range tests {
		t.Run(tt.leverage, func(t *testing.T) {
			in := domain.DefaultPositionInput()
			in.Leverage = tt.leverage

			v := NewCardView(domain.NewPreview(in))

			assert.Equal(t, tt.want, v.LeverageLabel)
		})
	}
}
