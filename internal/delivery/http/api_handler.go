package http

import (
	"errors"

	"github.com/labstack/echo/v4"

	"positioncard/internal/delivery/http/dto"
	"positioncard/internal/domain"
	"positioncard/internal/logger"
	"positioncard/internal/middleware"
	"positioncard/internal/service"
	"positioncard/internal/usecase"
)

// APIHandler exposes the form state as JSON
type APIHandler struct {
	forms        *usecase.FormService
	exports      *service.ExportService
	priceService domain.MarkPriceService
	log          logger.Logger
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(
	forms *usecase.FormService,
	exports *service.ExportService,
	priceService domain.MarkPriceService,
	log logger.Logger,
) *APIHandler {
	return &APIHandler{
		forms:        forms,
		exports:      exports,
		priceService: priceService,
		log:          log.WithPrefix("module", "api"),
	}
}

// GetPosition returns the form state, validation and derived metrics
// GET /api/position
func (h *APIHandler) GetPosition(c echo.Context) error {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return err
	}
	return h.respond(c, h.forms.View(sessionID))
}

// UpdateField stores the raw value of one field
// PUT /api/position/fields/:field
func (h *APIHandler) UpdateField(c echo.Context) error {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return err
	}

	field, err := domain.ParseField(c.Param("field"))
	if err != nil {
		return BadRequestResponse(c, err.Error())
	}

	var req dto.FieldInput
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request body")
	}

	view, err := h.forms.Edit(sessionID, field, req.Value)
	if err != nil {
		return h.fail(c, err)
	}
	return h.respond(c, view)
}

// UpdateSide switches the position side
// PUT /api/position/side
func (h *APIHandler) UpdateSide(c echo.Context) error {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return err
	}

	var req dto.SideInput
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request body")
	}

	side, err := domain.ParseSide(req.Side)
	if err != nil {
		return h.fail(c, err)
	}

	view, err := h.forms.SetSide(sessionID, side)
	if err != nil {
		return h.fail(c, err)
	}
	return h.respond(c, view)
}

// ResetPosition restores the default values
// POST /api/position/reset
func (h *APIHandler) ResetPosition(c echo.Context) error {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return err
	}
	return h.respond(c, h.forms.Reset(sessionID))
}

// ExportPosition downloads the preview card of an existing session as PNG
// GET /api/position/export
func (h *APIHandler) ExportPosition(c echo.Context) error {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return err
	}

	// unlike the page link, the API never exports a session it has not seen
	export, err := h.exports.Export(c.Request().Context(), sessionID)
	if err != nil {
		return h.fail(c, err)
	}
	return sendPNG(c, export)
}

// GetMarkPrice returns the live mark price of a futures symbol
// GET /api/market/mark-price/:symbol
func (h *APIHandler) GetMarkPrice(c echo.Context) error {
	symbol := c.Param("symbol")

	price, err := h.priceService.GetMarkPrice(c.Request().Context(), symbol)
	if err != nil {
		return h.fail(c, err)
	}

	return SuccessResponse(c, dto.MarkPriceOutput{
		Symbol:    symbol,
		MarkPrice: price,
	})
}

func (h *APIHandler) respond(c echo.Context, view usecase.FormView) error {
	return SuccessResponse(c, dto.NewPositionOutput(view, service.ExportFilename(view.Input.CoinName)))
}

// fail maps domain errors to HTTP responses
func (h *APIHandler) fail(c echo.Context, err error) error {
	var exportErr *domain.ExportError

	switch {
	case errors.Is(err, domain.ErrUnknownField), errors.Is(err, domain.ErrInvalidSide):
		return BadRequestResponse(c, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		return NotFoundResponse(c, err.Error())
	case errors.Is(err, domain.ErrMarkPriceUnavailable):
		return BadGatewayResponse(c, "Failed to fetch mark price", err)
	case errors.As(err, &exportErr):
		return InternalServerErrorResponse(c, "Failed to export "+exportErr.Filename, exportErr.Err)
	default:
		h.log.Errorf("Unhandled error: %v", err)
		return InternalServerErrorResponse(c, "Internal error", err)
	}
}

// RegisterAPIRoutes registers the JSON API routes
func RegisterAPIRoutes(e *echo.Echo, handler *APIHandler, sessionMiddleware echo.MiddlewareFunc) {
	api := e.Group("/api")

	position := api.Group("/position", sessionMiddleware)
	{
		position.GET("", handler.GetPosition)
		position.PUT("/fields/:field", handler.UpdateField)
		position.PUT("/side", handler.UpdateSide)
		position.POST("/reset", handler.ResetPosition)
		position.GET("/export", handler.ExportPosition)
	}

	market := api.Group("/market")
	{
		market.GET("/mark-price/:symbol", handler.GetMarkPrice)
	}
}
