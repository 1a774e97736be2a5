package dto

import (
	"positioncard/internal/domain"
	"positioncard/internal/render"
	"positioncard/internal/usecase"
)

// FieldInput is the request body for a single field edit
type FieldInput struct {
	Value string `json:"value" form:"value"`
}

// SideInput is the request body for a side switch
type SideInput struct {
	Side string `json:"side" form:"side"`
}

// FieldViewModel represents one form input in the template
type FieldViewModel struct {
	Name        string
	Label       string
	Value       string
	Placeholder string
	Error       string
	Numeric     bool
	OOB         bool // rendered as an out-of-band swap
}

// FormViewModel represents the data structure for the form and preview templates
type FormViewModel struct {
	Fields   []FieldViewModel
	Side     string
	Card     render.CardView
	Filename string
	Toast    string
}

var placeholders = map[domain.Field]string{
	domain.FieldCoinName:     "e.g. POPCATUSDT",
	domain.FieldPositionSize: "e.g. 350000",
	domain.FieldEntryPrice:   "e.g. 0.1665",
	domain.FieldMarkPrice:    "e.g. 0.1856",
	domain.FieldLeverage:     "e.g. 10",
}

var labels = map[domain.Field]string{
	domain.FieldCoinName:     "Coin Name",
	domain.FieldPositionSize: "Position Size",
	domain.FieldEntryPrice:   "Entry Price",
	domain.FieldMarkPrice:    "Mark Price",
	domain.FieldLeverage:     "Leverage (x)",
}

// NewFormViewModel maps a form view to template data. The input of a rejected
// keystroke is marked for an out-of-band swap so the browser reverts it.
func NewFormViewModel(v usecase.FormView, edited domain.Field, filename string) FormViewModel {
	vm := FormViewModel{
		Side:     string(v.Input.Side),
		Card:     render.NewCardView(v.Preview()),
		Filename: filename,
	}

	for _, f := range domain.Fields {
		if f == domain.FieldSide {
			continue
		}
		vm.Fields = append(vm.Fields, FieldViewModel{
			Name:        string(f),
			Label:       labels[f],
			Value:       v.Input.Get(f),
			Placeholder: placeholders[f],
			Error:       v.Errors.Get(f),
			Numeric:     f.IsNumeric(),
			OOB:         v.Rejected && f == edited,
		})
	}
	return vm
}

// PositionOutput represents the form state in API responses
type PositionOutput struct {
	Input    domain.PositionInput    `json:"input"`
	Errors   domain.ValidationErrors `json:"errors"`
	Valid    bool                    `json:"valid"`
	Metrics  domain.DerivedMetrics   `json:"metrics"`
	Rejected bool                    `json:"rejected"`
	Filename string                  `json:"filename"`
}

// NewPositionOutput maps a form view to the API shape
func NewPositionOutput(v usecase.FormView, filename string) PositionOutput {
	return PositionOutput{
		Input:    v.Input,
		Errors:   v.Errors,
		Valid:    v.Errors.Valid(),
		Metrics:  v.Metrics,
		Rejected: v.Rejected,
		Filename: filename,
	}
}

// MarkPriceOutput represents a mark price lookup in API responses
type MarkPriceOutput struct {
	Symbol    string  `json:"symbol"`
	MarkPrice float64 `json:"mark_price"`
}
