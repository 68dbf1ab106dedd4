package insights

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/claimflow/claimflow/internal/domain/claims"
	"github.com/claimflow/claimflow/internal/platform/auth"
)

type Handler struct {
	dispatcher *Dispatcher
	tracker    *Tracker
	gen        *Generator
	resolver   *claims.Service
}

func NewHandler(dispatcher *Dispatcher, tracker *Tracker, gen *Generator, resolver *claims.Service) *Handler {
	return &Handler{dispatcher: dispatcher, tracker: tracker, gen: gen, resolver: resolver}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := auth.RequireRole("admin", "analyst", "medical_advisor")

	ins := api.Group("/claims/:id/insights")
	ins.GET("", h.GetInsights, read)
	ins.POST("/refresh", h.Refresh, read)
	ins.POST("/:kind/accept", h.Accept, read)
	ins.POST("/:kind/override", h.Override, read)
	ins.POST("/:kind/cancel-override", h.CancelOverride, read)

	api.POST("/tools/criticality", h.CriticalityTool, read)
}

func (h *Handler) resolve(c echo.Context) (*claims.Claim, error) {
	claim, err := h.resolver.Resolve(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, claims.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "claim not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return claim, nil
}

func kindParam(c echo.Context) (Kind, error) {
	kind := Kind(c.Param("kind"))
	if !kind.Valid() {
		return "", echo.NewHTTPError(http.StatusBadRequest, "unknown insight kind: "+c.Param("kind"))
	}
	return kind, nil
}

func feedbackStatus(err error) error {
	var te *TransitionError
	switch {
	case errors.As(err, &te):
		return echo.NewHTTPError(http.StatusConflict, te.Error())
	case errors.Is(err, ErrJustificationRequired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) GetInsights(c echo.Context) error {
	claim, err := h.resolve(c)
	if err != nil {
		return err
	}
	views, err := h.dispatcher.Snapshot(c.Request().Context(), claim.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) Refresh(c echo.Context) error {
	claim, err := h.resolve(c)
	if err != nil {
		return err
	}
	if err := h.dispatcher.RefreshAll(c.Request().Context(), claim.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	views, err := h.dispatcher.Snapshot(c.Request().Context(), claim.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Handler) Accept(c echo.Context) error {
	claim, err := h.resolve(c)
	if err != nil {
		return err
	}
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	fb, err := h.tracker.Accept(c.Request().Context(), claim.ID, kind)
	if err != nil {
		return feedbackStatus(err)
	}
	return c.JSON(http.StatusOK, fb)
}

type overrideRequest struct {
	Justification string `json:"justification"`
}

func (h *Handler) Override(c echo.Context) error {
	claim, err := h.resolve(c)
	if err != nil {
		return err
	}
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	var req overrideRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	fb, err := h.tracker.Override(c.Request().Context(), claim.ID, kind, strings.TrimSpace(req.Justification))
	if err != nil {
		return feedbackStatus(err)
	}
	return c.JSON(http.StatusOK, fb)
}

func (h *Handler) CancelOverride(c echo.Context) error {
	claim, err := h.resolve(c)
	if err != nil {
		return err
	}
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	fb, err := h.tracker.CancelOverride(c.Request().Context(), claim.ID, kind)
	if err != nil {
		return feedbackStatus(err)
	}
	return c.JSON(http.StatusOK, fb)
}

// criticalityToolRequest carries comma-separated codes or terms, the way the
// standalone checker form submits them.
type criticalityToolRequest struct {
	DiagnosisInformation string `json:"diagnosisInformation"`
	ProcedureInformation string `json:"procedureOrInterventionInformation"`
}

func splitTerms(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// CriticalityTool runs a one-off criticality assessment outside any claim.
func (h *Handler) CriticalityTool(c echo.Context) error {
	var req criticalityToolRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in := CriticalityInput{
		DiagnosisInformation: splitTerms(req.DiagnosisInformation),
		ProcedureInformation: splitTerms(req.ProcedureInformation),
	}
	if len(in.DiagnosisInformation) == 0 || len(in.ProcedureInformation) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "diagnosis and procedure information are both required")
	}
	res := h.gen.Criticality(c.Request().Context(), in, "")
	return c.JSON(http.StatusOK, res)
}
