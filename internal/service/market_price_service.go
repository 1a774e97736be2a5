package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2/futures"

	"positioncard/internal/domain"
)

// MarketPriceService fetches live mark prices from Binance USDⓈ-M futures
type MarketPriceService struct {
	client  *futures.Client
	timeout time.Duration
}

// NewMarketPriceService creates a new MarketPriceService.
// Only public endpoints are used, so no API keys are needed.
func NewMarketPriceService(baseURL string, timeout time.Duration) *MarketPriceService {
	client := futures.NewClient("", "")
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	return &MarketPriceService{
		client:  client,
		timeout: timeout,
	}
}

// GetMarkPrice fetches the current mark price for a symbol such as POPCATUSDT
func (s *MarketPriceService) GetMarkPrice(ctx context.Context, symbol string) (float64, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return 0, fmt.Errorf("%w: empty symbol", domain.ErrMarkPriceUnavailable)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	tickers, err := s.client.NewPremiumIndexService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to fetch %s from Binance: %v", domain.ErrMarkPriceUnavailable, symbol, err)
	}
	if len(tickers) == 0 {
		return 0, fmt.Errorf("%w: no price data returned for symbol %s", domain.ErrMarkPriceUnavailable, symbol)
	}

	price, err := strconv.ParseFloat(tickers[0].MarkPrice, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: could not parse price '%s': %v", domain.ErrMarkPriceUnavailable, tickers[0].MarkPrice, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("%w: non-positive mark price for %s", domain.ErrMarkPriceUnavailable, symbol)
	}

	return price, nil
}
