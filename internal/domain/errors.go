package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField         = errors.New("unknown form field")
	ErrInvalidSide          = errors.New("side must be long or short")
	ErrSessionNotFound      = errors.New("session not found")
	ErrMarkPriceUnavailable = errors.New("mark price unavailable")
	ErrExportFailed         = errors.New("export failed")
)

// ExportError reports a failed rasterization of the preview card.
// It never affects the form state and the export may be retried.
type ExportError struct {
	Filename string
	Err      error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Filename, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Is lets callers match any export failure with errors.Is(err, ErrExportFailed)
func (e *ExportError) Is(target error) bool {
	return target == ErrExportFailed
}
