package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"positioncard/internal/domain"
	"positioncard/internal/logger"
	"positioncard/internal/render"
	"positioncard/internal/service"
)

type renderOptions struct {
	input      domain.PositionInput
	side       string
	out        string
	background string
	pixelRatio float64
}

func newRenderCmd() *cobra.Command {
	opts := renderOptions{input: domain.DefaultPositionInput()}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a preview card to a PNG file without starting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.input.CoinName, "coin", domain.DefaultCoinName, "coin name")
	f.StringVar(&opts.input.PositionSize, "size", domain.DefaultPositionSize, "position size")
	f.StringVar(&opts.input.EntryPrice, "entry", domain.DefaultEntryPrice, "entry price")
	f.StringVar(&opts.input.MarkPrice, "mark", domain.DefaultMarkPrice, "mark price")
	f.StringVar(&opts.input.Leverage, "leverage", domain.DefaultLeverage, "leverage")
	f.StringVar(&opts.side, "side", string(domain.DefaultSide), "long or short")
	f.StringVarP(&opts.out, "out", "o", "", "output file (default {coin}_position.png)")
	f.StringVar(&opts.background, "background", "#000", "background colour")
	f.Float64Var(&opts.pixelRatio, "pixel-ratio", 2, "pixel ratio")

	return cmd
}

func runRender(ctx context.Context, opts renderOptions) error {
	log := logger.New(os.Stderr, logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	input := opts.input
	if err := input.SetSide(domain.Side(opts.side)); err != nil {
		return err
	}
	for _, field := range domain.Fields {
		if field.IsNumeric() && !domain.AcceptNumericInput(input.Get(field)) {
			return fmt.Errorf("%s: %q is not a number", field.Label(), input.Get(field))
		}
	}

	// Validation is advisory here as in the form
	for field, msg := range domain.Validate(input) {
		log.Warnf("%s: %s", field, msg)
	}

	rasterizer, err := render.NewRasterizer()
	if err != nil {
		return err
	}

	exports := service.NewExportService(nil, rasterizer, domain.ExportOptions{
		Background: opts.background,
		PixelRatio: opts.pixelRatio,
	}, 0, log)

	export, err := exports.ExportInput(ctx, "cli", input)
	if err != nil {
		return err
	}

	out := opts.out
	if out == "" {
		out = export.Filename
	}
	if err := os.WriteFile(out, export.PNG, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	log.Infof("[OK] Wrote %s", out)
	return nil
}
