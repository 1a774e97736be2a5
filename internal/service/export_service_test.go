package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"positioncard/internal/domain"
	"positioncard/internal/infra"
	"positioncard/internal/logger"
)

type fakeRasterizer struct {
	calls   int32
	err     error
	delay   time.Duration
	gotOpts domain.ExportOptions
	gotCoin string
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, p domain.Preview, opts domain.ExportOptions) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	f.gotOpts = opts
	f.gotCoin = p.Input.CoinName
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return []byte("png"), nil
}

func newExportService(r domain.Rasterizer, timeout time.Duration) (*ExportService, *infra.SessionStore) {
	store := infra.NewSessionStore(time.Minute)
	opts := domain.ExportOptions{Background: "#000", PixelRatio: 2}
	return NewExportService(store, r, opts, timeout, logger.Discard()), store
}

func TestExportService_Export(t *testing.T) {
	r := &fakeRasterizer{}
	svc, store := newExportService(r, time.Second)
	id := uuid.New()
	store.GetOrCreate(id)

	exp, err := svc.Export(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "POPCATUSDT_position.png", exp.Filename)
	assert.Equal(t, []byte("png"), exp.PNG)
	assert.Equal(t, 2.0, r.gotOpts.PixelRatio)
	assert.Equal(t, "#000", r.gotOpts.Background)
	assert.Equal(t, "POPCATUSDT", r.gotCoin)
}

func TestExportService_FailureLeavesStateUntouched(t *testing.T) {
	r := &fakeRasterizer{err: errors.New("canvas tainted")}
	svc, store := newExportService(r, time.Second)
	id := uuid.New()
	sess := store.GetOrCreate(id)
	before := sess.Snapshot()

	_, err := svc.Export(context.Background(), id)
	require.Error(t, err)

	var exportErr *domain.ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Equal(t, "POPCATUSDT_position.png", exportErr.Filename)
	assert.ErrorIs(t, err, domain.ErrExportFailed)
	assert.Equal(t, before, sess.Snapshot())

	// a manual retry invokes the rasterizer again
	r.err = nil
	_, err = svc.Export(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&r.calls))
}

func TestExportService_Timeout(t *testing.T) {
	r := &fakeRasterizer{delay: time.Second}
	svc, store := newExportService(r, 20*time.Millisecond)
	id := uuid.New()
	store.GetOrCreate(id)

	_, err := svc.Export(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrExportFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExportService_UnknownSession(t *testing.T) {
	svc, _ := newExportService(&fakeRasterizer{}, time.Second)

	_, err := svc.Export(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestExportService_CollapsesConcurrentExports(t *testing.T) {
	r := &fakeRasterizer{delay: 100 * time.Millisecond}
	svc, store := newExportService(r, time.Second)
	id := uuid.New()
	store.GetOrCreate(id)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Export(context.Background(), id)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Less(t, atomic.LoadInt32(&r.calls), int32(5))
}

func TestExportService_CancelledCallerDoesNotFailOthers(t *testing.T) {
	r := &fakeRasterizer{delay: 150 * time.Millisecond}
	svc, store := newExportService(r, time.Second)
	id := uuid.New()
	store.GetOrCreate(id)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Export(ctxA, id)
		errA <- err
	}()

	// let A start the render before B joins it
	time.Sleep(30 * time.Millisecond)

	type result struct {
		export *Export
		err    error
	}
	resB := make(chan result, 1)
	go func() {
		exp, err := svc.Export(context.Background(), id)
		resB <- result{exp, err}
	}()

	time.Sleep(30 * time.Millisecond)
	cancelA()

	err := <-errA
	assert.ErrorIs(t, err, domain.ErrExportFailed)
	assert.ErrorIs(t, err, context.Canceled)

	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, []byte("png"), b.export.PNG)
	assert.Equal(t, int32(1), atomic.LoadInt32(&r.calls))
}

func TestExportFilename(t *testing.T) {
	tests := []struct {
		coin string
		want string
	}{
		{"POPCATUSDT", "POPCATUSDT_position.png"},
		{"", DefaultExportFilename},
		{"   ", DefaultExportFilename},
		{"../etc/passwd", "etc_passwd_position.png"},
		{"BTC/USDT", "BTC_USDT_position.png"},
		{"1000PEPE", "1000PEPE_position.png"},
		{"..", DefaultExportFilename},
	}

	for _, tt := range tests {
		t.Run(tt.coin, func(t *testing.T) {
			assert.Equal(t, tt.want, ExportFilename(tt.coin))
		})
	}
}
