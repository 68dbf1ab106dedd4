package knowledge

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/claimflow/claimflow/internal/platform/auth"
	"github.com/claimflow/claimflow/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := auth.RequireRole("admin", "analyst", "medical_advisor")
	write := auth.RequireRole("admin", "medical_advisor")

	concepts := api.Group("/concepts")
	concepts.GET("", h.ListConcepts, read)
	concepts.GET("/:id", h.GetConcept, read)
	concepts.POST("", h.CreateConcept, write)
	concepts.PUT("/:id", h.UpdateConcept, write)
	concepts.DELETE("/:id", h.DeleteConcept, write)

	pairings := api.Group("/pairings")
	pairings.GET("", h.ListPairings, read)
	pairings.GET("/:id", h.GetPairing, read)
	pairings.POST("", h.CreatePairing, write)
	pairings.PUT("/:id", h.UpdatePairing, write)

	findings := api.Group("/critical-findings")
	findings.GET("", h.ListFindings, read)
	findings.GET("/:id", h.GetFinding, read)
	findings.POST("", h.CreateFinding, write)
}

func notFoundStatus(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrConceptNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "medical concept not found")
	case errors.Is(err, ErrPairingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "clinical pairing not found")
	case errors.Is(err, ErrFindingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "critical finding not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// -- concepts --

func (h *Handler) CreateConcept(c echo.Context) error {
	var concept MedicalConcept
	if err := c.Bind(&concept); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateConcept(c.Request().Context(), &concept); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, concept)
}

func (h *Handler) GetConcept(c echo.Context) error {
	concept, err := h.svc.GetConcept(c.Request().Context(), c.Param("id"))
	if err != nil {
		return notFoundStatus(err)
	}
	return c.JSON(http.StatusOK, concept)
}

func (h *Handler) UpdateConcept(c echo.Context) error {
	var concept MedicalConcept
	if err := c.Bind(&concept); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	concept.ID = c.Param("id")
	if err := h.svc.UpdateConcept(c.Request().Context(), &concept); err != nil {
		if errors.Is(err, ErrConceptNotFound) {
			return notFoundStatus(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, concept)
}

func (h *Handler) DeleteConcept(c echo.Context) error {
	if err := h.svc.DeleteConcept(c.Request().Context(), c.Param("id")); err != nil {
		return notFoundStatus(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListConcepts(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListConcepts(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- pairings --

func (h *Handler) CreatePairing(c echo.Context) error {
	var p ClinicalPairing
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreatePairing(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPairing(c echo.Context) error {
	p, err := h.svc.GetPairing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return notFoundStatus(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePairing(c echo.Context) error {
	var p ClinicalPairing
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = c.Param("id")
	if err := h.svc.UpdatePairing(c.Request().Context(), &p); err != nil {
		if errors.Is(err, ErrPairingNotFound) {
			return notFoundStatus(err)
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPairings(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPairings(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- findings --

func (h *Handler) CreateFinding(c echo.Context) error {
	var f CriticalFinding
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if f.Source == "" {
		f.Source = SourceManualEntry
	}
	if err := h.svc.RecordFinding(c.Request().Context(), &f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) GetFinding(c echo.Context) error {
	f, err := h.svc.GetFinding(c.Request().Context(), c.Param("id"))
	if err != nil {
		return notFoundStatus(err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *Handler) ListFindings(c echo.Context) error {
	if claimID := c.QueryParam("claim_id"); claimID != "" {
		items, err := h.svc.ListFindingsByClaim(c.Request().Context(), claimID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, items)
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListFindings(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
