package domain

import "context"

// Preview is the state rendered on the preview card
type Preview struct {
	Input   PositionInput
	Metrics DerivedMetrics
}

// NewPreview computes the metrics for an input
func NewPreview(input PositionInput) Preview {
	return Preview{
		Input:   input,
		Metrics: ComputeMetrics(input),
	}
}

// ExportOptions controls how the preview card is rasterized
type ExportOptions struct {
	Background string  // hex colour, e.g. "#000"
	PixelRatio float64 // resolution multiplier
}

// Rasterizer turns a preview into an encoded image.
// Implementations must honour ctx deadlines; any error is treated as an export failure.
type Rasterizer interface {
	Rasterize(ctx context.Context, preview Preview, opts ExportOptions) ([]byte, error)
}

// MarkPriceService defines the interface for fetching live mark prices
type MarkPriceService interface {
	GetMarkPrice(ctx context.Context, symbol string) (float64, error)
}
