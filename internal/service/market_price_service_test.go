package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"positioncard/internal/domain"
)

func TestMarketPriceService_GetMarkPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fapi/v1/premiumIndex", r.URL.Path)
		assert.Equal(t, "POPCATUSDT", r.URL.Query().Get("symbol"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"symbol":"POPCATUSDT","markPrice":"0.18560000","indexPrice":"0.18550000","lastFundingRate":"0.0001","nextFundingTime":1700000000000,"time":1700000000000}]`))
	}))
	defer srv.Close()

	svc := NewMarketPriceService(srv.URL, time.Second)

	price, err := svc.GetMarkPrice(context.Background(), "popcatusdt")
	require.NoError(t, err)
	assert.Equal(t, 0.1856, price)
}

func TestMarketPriceService_Failures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer srv.Close()

	svc := NewMarketPriceService(srv.URL, time.Second)

	_, err := svc.GetMarkPrice(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrMarkPriceUnavailable)

	_, err = svc.GetMarkPrice(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrMarkPriceUnavailable)
}
