package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"positioncard/internal/domain"
	"positioncard/internal/logger"
)

// DefaultExportFilename is used when the coin name leaves nothing usable for a filename
const DefaultExportFilename = "position.png"

// Export is a rasterized preview card ready for download
type Export struct {
	ID       uuid.UUID
	Filename string
	PNG      []byte
}

// ExportService renders the current preview of a session through a Rasterizer
type ExportService struct {
	sessions   domain.SessionRepository
	rasterizer domain.Rasterizer
	options    domain.ExportOptions
	timeout    time.Duration
	log        logger.Logger

	group singleflight.Group
}

// NewExportService creates a new ExportService
func NewExportService(
	sessions domain.SessionRepository,
	rasterizer domain.Rasterizer,
	options domain.ExportOptions,
	timeout time.Duration,
	log logger.Logger,
) *ExportService {
	return &ExportService{
		sessions:   sessions,
		rasterizer: rasterizer,
		options:    options,
		timeout:    timeout,
		log:        log.WithPrefix("module", "export"),
	}
}

// Export rasterizes the session's current preview. The form state is only read.
// Identical exports already in flight for the same session share one result.
func (s *ExportService) Export(ctx context.Context, sessionID uuid.UUID) (*Export, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return s.ExportInput(ctx, sessionID.String(), sess.Snapshot())
}

// ExportInput rasterizes an input snapshot; key scopes de-duplication.
// The shared render never sees a caller's cancellation, only the export timeout,
// so one caller giving up does not fail the others.
func (s *ExportService) ExportInput(ctx context.Context, key string, input domain.PositionInput) (*Export, error) {
	filename := ExportFilename(input.CoinName)
	flightKey := fmt.Sprintf("%s|%+v", key, input)

	ch := s.group.DoChan(flightKey, func() (interface{}, error) {
		return s.rasterize(context.WithoutCancel(ctx), filename, input)
	})

	select {
	case <-ctx.Done():
		return nil, &domain.ExportError{Filename: filename, Err: errors.WithStack(ctx.Err())}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		export := res.Val.(*Export)
		if res.Shared {
			s.log.Debugf("Export %s shared with a concurrent request", export.ID)
		}
		return export, nil
	}
}

func (s *ExportService) rasterize(ctx context.Context, filename string, input domain.PositionInput) (*Export, error) {
	id := uuid.New()
	log := s.log.WithPrefix("export_id", id)
	start := time.Now()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	data, err := s.rasterizer.Rasterize(ctx, domain.NewPreview(input), s.options)
	if err == nil && len(data) == 0 {
		err = errors.New("rasterizer returned an empty image")
	}
	if err != nil {
		if !hasStack(err) {
			err = errors.WithStack(err)
		}
		log.Error("[ERROR] Screenshot failed:", err)
		return nil, &domain.ExportError{Filename: filename, Err: err}
	}

	log.Infof("[OK] Exported %s (%d bytes) in %s", filename, len(data), time.Since(start))
	return &Export{ID: id, Filename: filename, PNG: data}, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ExportFilename builds "{coinName}_position.png". Characters that are unsafe in a
// filename become "_"; a name with nothing usable falls back to DefaultExportFilename.
func ExportFilename(coinName string) string {
	name := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(coinName), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return DefaultExportFilename
	}
	return name + "_position.png"
}

func hasStack(err error) bool {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	_, ok := err.(stackTracer)
	return ok
}
