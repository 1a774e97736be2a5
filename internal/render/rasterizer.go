package render

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"

	"positioncard/internal/domain"
)

// Card geometry in CSS pixels, scaled by the pixel ratio when drawn
const (
	CardWidth  = 460.0
	CardHeight = 252.0

	cardRadius = 26.0
	padX       = 20.0
	innerX     = padX + 18.0
)

// Rasterizer draws the preview card to PNG
type Rasterizer struct {
	regular *truetype.Font
	medium  *truetype.Font
}

// NewRasterizer creates a new Rasterizer using the embedded Go fonts
func NewRasterizer() (*Rasterizer, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "parse regular font")
	}
	medium, err := truetype.Parse(gomedium.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "parse medium font")
	}
	return &Rasterizer{regular: regular, medium: medium}, nil
}

// Rasterize renders the preview card against opts.Background at opts.PixelRatio
func (r *Rasterizer) Rasterize(ctx context.Context, p domain.Preview, opts domain.ExportOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "rasterize")
	}

	bg, err := ParseHexColor(opts.Background)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	k := opts.PixelRatio
	if k <= 0 {
		return nil, errors.Errorf("invalid pixel ratio %v", k)
	}

	dc := gg.NewContext(int(CardWidth*k+0.5), int(CardHeight*k+0.5))
	c := &canvas{dc: dc, k: k, r: r}

	dc.SetColor(bg)
	dc.Clear()
	c.drawCard(NewCardView(p))

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "rasterize")
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(err, "encode png")
	}
	return buf.Bytes(), nil
}

// ParseHexColor parses #rgb or #rrggbb
func ParseHexColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 || !strings.HasPrefix(strings.TrimSpace(s), "#") {
		return nil, fmt.Errorf("invalid hex colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

type canvas struct {
	dc *gg.Context
	k  float64
	r  *Rasterizer
}

func (c *canvas) face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size * c.k, DPI: 72, Hinting: font.HintingFull})
}

func (c *canvas) color(hex string) {
	col, err := ParseHexColor(hex)
	if err != nil {
		col = color.White
	}
	c.dc.SetColor(col)
}

func (c *canvas) roundRect(x, y, w, h, radius float64) {
	c.dc.DrawRoundedRectangle(x*c.k, y*c.k, w*c.k, h*c.k, radius*c.k)
}

func (c *canvas) hline(x1, x2, y, width float64) {
	c.dc.SetLineWidth(width * c.k)
	c.dc.DrawLine(x1*c.k, y*c.k, x2*c.k, y*c.k)
	c.dc.Stroke()
}

// text draws s with its baseline at y; ax is 0 for left, 0.5 for centre, 1 for right alignment
func (c *canvas) text(s string, f *truetype.Font, size, x, y, ax float64) float64 {
	c.dc.SetFontFace(c.face(f, size))
	w, _ := c.dc.MeasureString(s)
	c.dc.DrawString(s, x*c.k-w*ax, y*c.k)
	return w / c.k
}

func (c *canvas) drawCard(v CardView) {
	r := c.r
	w := CardWidth - 1

	// body and outline
	c.roundRect(0.5, 0.5, w, CardHeight-1, cardRadius)
	c.color("#000000")
	c.dc.FillPreserve()
	c.color(ColorBorder)
	c.dc.SetLineWidth(c.k)
	c.dc.Stroke()

	// top graphic
	c.color(ColorBorder)
	c.hline(padX, w-padX, 18, 1)
	c.color("#FFFFFF")
	c.roundRect(padX+120, 16.2, 100, 1.8, 0.9)
	c.dc.Fill()

	// header
	c.color("#FFFFFF")
	c.roundRect(innerX, 34, 19, 19, 3.5)
	c.dc.Fill()
	c.color("#000000")
	c.dc.SetLineWidth(2 * c.k)
	c.dc.MoveTo((innerX+5)*c.k, 44*c.k)
	c.dc.LineTo((innerX+8)*c.k, 47*c.k)
	c.dc.LineTo((innerX+14)*c.k, 40*c.k)
	c.dc.Stroke()

	c.color("#FFFFFF")
	tw := c.text("All Markets", r.regular, 14, innerX+29, 48, 0)
	fx := innerX + 29 + tw + 22
	for i := 0; i < 3; i++ {
		c.roundRect(fx+7, 37+float64(i)*5, 9, 1.6, 0.8)
		c.dc.Fill()
	}
	c.roundRect(fx+1.5, 36, 1.6, 12, 0.8)
	c.dc.Fill()
	c.text("Close All", r.medium, 14.5, w-innerX, 48, 1)

	c.color(ColorBorder)
	c.hline(padX, w-padX, 70, 1)

	// coin, side and leverage
	c.color("#FFFFFF")
	nw := c.text(v.CoinName, r.medium, 16.6, innerX, 102, 0)
	c.dc.SetFontFace(c.face(r.regular, 15))
	sw, _ := c.dc.MeasureString(v.SideLabel)
	pillX := innerX + nw + 8
	c.color(ColorPill)
	c.roundRect(pillX, 87, sw/c.k+14, 21, 10.5)
	c.dc.Fill()
	c.color(v.SideColor)
	c.text(v.SideLabel, r.regular, 15, pillX+7, 102.5, 0)
	c.color("#FFFFFF")
	c.text(v.LeverageLabel, r.regular, 12, innerX, 122, 0)

	// unrealized pnl
	c.color(ColorMuted)
	c.text("Unrealized P&L", r.regular, 11, w-innerX, 98, 1)
	c.color(v.PnlColor)
	c.text(v.PnlText, r.medium, 17, w-innerX, 120, 1)

	// stats row
	type stat struct {
		label, value, color string
	}
	stats := []stat{
		{"Position Size", v.PositionSize, "#FFFFFF"},
		{"Entry Price", v.EntryPrice, "#FFFFFF"},
		{"Mark Price", v.MarkPrice, "#FFFFFF"},
		{"Estimated Liq. Price", v.LiqPrice, ColorLiqPrice},
	}
	span := (w - 2*innerX) / float64(len(stats))
	for i, s := range stats {
		x, ax := innerX+float64(i)*span, 0.0
		if i == len(stats)-1 {
			x, ax = w-innerX, 1.0
		}
		c.color(ColorMuted)
		c.text(s.label, r.regular, 11.5, x, 160, ax)
		c.color(s.color)
		c.text(s.value, r.regular, 14, x, 180, ax)
	}

	// action buttons
	labels := []string{"Set TP/SL", "Trailing Stop", "Close By"}
	gap := 12.0
	bw := (w - 2*innerX - gap*float64(len(labels)-1)) / float64(len(labels))
	for i, label := range labels {
		bx := innerX + float64(i)*(bw+gap)
		c.color(ColorButton)
		c.roundRect(bx, 200, bw, 30, 15)
		c.dc.SetLineWidth(c.k)
		c.dc.Stroke()
		c.color("#FFFFFF")
		c.text(label, r.medium, 14.5, bx+bw/2, 220, 0.5)
	}
}
