package http

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"positioncard/internal/delivery/http/dto"
	"positioncard/internal/domain"
	"positioncard/internal/logger"
	"positioncard/internal/middleware"
	"positioncard/internal/service"
	"positioncard/internal/usecase"
)

// WebHandler serves the page and the HTMX fragments that keep the preview live
type WebHandler struct {
	templates *template.Template
	forms     *usecase.FormService
	exports   *service.ExportService
	log       logger.Logger
}

// NewWebHandler creates a new WebHandler
func NewWebHandler(
	templates *template.Template,
	forms *usecase.FormService,
	exports *service.ExportService,
	log logger.Logger,
) *WebHandler {
	return &WebHandler{
		templates: templates,
		forms:     forms,
		exports:   exports,
		log:       log.WithPrefix("module", "web"),
	}
}

// GET / - Render the form and preview
func (h *WebHandler) HandleIndex(c echo.Context) error {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return err
	}

	view := h.forms.View(sessionID)
	vm := dto.NewFormViewModel(view, "", service.ExportFilename(view.Input.CoinName))
	return h.render(c, "index", vm)
}

// POST /form/fields/:field - Apply one keystroke and return the refreshed fragments
func (h *WebHandler) HandleFieldEdit(c echo.Context) error {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return err
	}

	field, err := domain.ParseField(c.Param("field"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	view, err := h.forms.Edit(sessionID, field, c.FormValue("value"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return h.renderUpdate(c, view, field, false, "")
}

// POST /form/side/:side - Switch between long and short
func (h *WebHandler) HandleSide(c echo.Context) error {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return err
	}

	side, err := domain.ParseSide(c.Param("side"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.forms.SetSide(sessionID, side)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return h.renderUpdate(c, view, domain.FieldSide, false, "")
}

// POST /form/reset - Restore the default values
func (h *WebHandler) HandleReset(c echo.Context) error {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return err
	}

	return h.renderUpdate(c, h.forms.Reset(sessionID), "", true, "")
}

// POST /form/mark-price - Fill the mark price from the exchange
func (h *WebHandler) HandleMarkPrice(c echo.Context) error {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return err
	}

	view, err := h.forms.FillMarkPrice(c.Request().Context(), sessionID)
	if err != nil {
		// non-blocking: keep the form as it is and show a notice
		return h.renderUpdate(c, h.forms.View(sessionID), "", false, "Could not fetch the live mark price for this coin.")
	}

	return h.renderUpdate(c, view, domain.FieldMarkPrice, true, "")
}

// GET /export - Download the preview card as PNG
func (h *WebHandler) HandleExport(c echo.Context) error {
	sessionID, err := middleware.GetSessionID(c)
	if err != nil {
		return err
	}

	input := h.forms.Snapshot(sessionID)
	export, err := h.exports.ExportInput(c.Request().Context(), sessionID.String(), input)
	if err != nil {
		if !errors.Is(err, domain.ErrExportFailed) {
			h.log.Warnf("Export for session %s failed: %v", sessionID, err)
		}
		// 204 keeps the browser on the page and the form untouched
		return c.NoContent(http.StatusNoContent)
	}

	return sendPNG(c, export)
}

func (h *WebHandler) renderUpdate(c echo.Context, view usecase.FormView, edited domain.Field, refreshAll bool, toast string) error {
	vm := dto.NewFormViewModel(view, edited, service.ExportFilename(view.Input.CoinName))
	vm.Toast = toast
	if refreshAll {
		for i := range vm.Fields {
			vm.Fields[i].OOB = true
		}
	}
	return h.render(c, "form_update", vm)
}

func (h *WebHandler) render(c echo.Context, name string, data interface{}) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return h.templates.ExecuteTemplate(c.Response().Writer, name, data)
}

func sendPNG(c echo.Context, export *service.Export) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)
	return c.Blob(http.StatusOK, "image/png", export.PNG)
}

// RegisterWebRoutes registers all web routes (HTML pages and fragments)
func RegisterWebRoutes(e *echo.Echo, handler *WebHandler, sessionMiddleware echo.MiddlewareFunc) {
	e.GET("/", handler.HandleIndex, sessionMiddleware)

	form := e.Group("/form", sessionMiddleware)
	{
		form.POST("/fields/:field", handler.HandleFieldEdit)
		form.POST("/side/:side", handler.HandleSide)
		form.POST("/reset", handler.HandleReset)
		form.POST("/mark-price", handler.HandleMarkPrice)
	}

	e.GET("/export", handler.HandleExport, sessionMiddleware)
}
