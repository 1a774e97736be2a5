package usecase

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"positioncard/internal/domain"
	"positioncard/internal/logger"
)

// FormView is everything the preview needs after a change
type FormView struct {
	Input   domain.PositionInput    `json:"input"`
	Errors  domain.ValidationErrors `json:"errors"`
	Metrics domain.DerivedMetrics   `json:"metrics"`

	// Rejected is set when a keystroke failed the numeric character filter
	// and the stored value was left unchanged
	Rejected bool `json:"rejected,omitempty"`
}

// Preview returns the preview part of the view
func (v FormView) Preview() domain.Preview {
	return domain.Preview{Input: v.Input, Metrics: v.Metrics}
}

// FormService applies field edits to a session's form state and recomputes the view
type FormService struct {
	sessions     domain.SessionRepository
	priceService domain.MarkPriceService
	log          logger.Logger
}

// NewFormService creates a new FormService
func NewFormService(
	sessions domain.SessionRepository,
	priceService domain.MarkPriceService,
	log logger.Logger,
) *FormService {
	return &FormService{
		sessions:     sessions,
		priceService: priceService,
		log:          log.WithPrefix("module", "form"),
	}
}

// View returns the current state of a session, starting one with defaults if needed
func (s *FormService) View(sessionID uuid.UUID) FormView {
	return buildView(s.sessions.GetOrCreate(sessionID).Snapshot(), false)
}

// Edit stores the raw text of one field. For numeric fields a keystroke that fails the
// character filter is dropped silently. Validation is reported but never blocks the edit.
func (s *FormService) Edit(sessionID uuid.UUID, field domain.Field, raw string) (FormView, error) {
	if field == domain.FieldSide {
		side, err := domain.ParseSide(raw)
		if err != nil {
			return FormView{}, err
		}
		return s.SetSide(sessionID, side)
	}

	sess := s.sessions.GetOrCreate(sessionID)

	if field.IsNumeric() && !domain.AcceptNumericInput(raw) {
		s.log.Debugf("Rejected keystroke for %s: %q", field, raw)
		return buildView(sess.Snapshot(), true), nil
	}

	input, err := sess.Update(func(in *domain.PositionInput) error {
		return in.Set(field, raw)
	})
	if err != nil {
		return FormView{}, err
	}
	return buildView(input, false), nil
}

// SetSide switches between long and short; re-selecting the current side changes nothing
func (s *FormService) SetSide(sessionID uuid.UUID, side domain.Side) (FormView, error) {
	input, err := s.sessions.GetOrCreate(sessionID).Update(func(in *domain.PositionInput) error {
		return in.SetSide(side)
	})
	if err != nil {
		return FormView{}, err
	}
	return buildView(input, false), nil
}

// Reset restores the default values
func (s *FormService) Reset(sessionID uuid.UUID) FormView {
	input, _ := s.sessions.GetOrCreate(sessionID).Update(func(in *domain.PositionInput) error {
		*in = domain.DefaultPositionInput()
		return nil
	})
	return buildView(input, false)
}

// Snapshot returns a copy of the session's raw input
func (s *FormService) Snapshot(sessionID uuid.UUID) domain.PositionInput {
	return s.sessions.GetOrCreate(sessionID).Snapshot()
}

// FillMarkPrice looks up the live mark price for the session's coin and enters it
// into the mark price field. A failed lookup leaves the form untouched.
func (s *FormService) FillMarkPrice(ctx context.Context, sessionID uuid.UUID) (FormView, error) {
	coin := s.Snapshot(sessionID).CoinName

	price, err := s.priceService.GetMarkPrice(ctx, coin)
	if err != nil {
		s.log.Warnf("Mark price lookup for %q failed: %v", coin, err)
		return FormView{}, err
	}

	s.log.Infof("Filled mark price for %s: %v", coin, price)
	return s.Edit(sessionID, domain.FieldMarkPrice, strconv.FormatFloat(price, 'f', -1, 64))
}

func buildView(input domain.PositionInput, rejected bool) FormView {
	return FormView{
		Input:    input,
		Errors:   domain.Validate(input),
		Metrics:  domain.ComputeMetrics(input),
		Rejected: rejected,
	}
}
