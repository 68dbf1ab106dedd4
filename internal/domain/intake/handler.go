package intake

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/claimflow/claimflow/internal/platform/ai"
	"github.com/claimflow/claimflow/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	role := auth.RequireRole("admin", "analyst")
	api.POST("/intake/enrich", h.Enrich, role)
}

func (h *Handler) Enrich(c echo.Context) error {
	var in EnrichInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	out, err := h.svc.Enrich(c.Request().Context(), in)
	if err != nil {
		var be *ai.BackendError
		if errors.As(err, &be) {
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}
