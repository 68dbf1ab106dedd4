package review

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/claimflow/claimflow/internal/domain/claims"
	"github.com/claimflow/claimflow/internal/platform/auth"
)

type Handler struct {
	svc      *Service
	resolver *claims.Service
}

func NewHandler(svc *Service, resolver *claims.Service) *Handler {
	return &Handler{svc: svc, resolver: resolver}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	role := auth.RequireRole("admin", "analyst", "medical_advisor")

	api.GET("/claims/:id/review", h.GetReview, role)
	api.PUT("/claims/:id/review", h.SubmitReview, role)
	api.GET("/review/options", h.Options, role)
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

func (h *Handler) GetReview(c echo.Context) error {
	claim, err := h.resolve(c)
	if err != nil {
		return err
	}
	review, err := h.svc.Get(c.Request().Context(), claim.ID)
	if err != nil {
		if errors.Is(err, ErrNoReview) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, review)
}

func (h *Handler) SubmitReview(c echo.Context) error {
	claim, err := h.resolve(c)
	if err != nil {
		return err
	}
	var sub Submission
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	reviewer := auth.ReviewerFromContext(c.Request().Context())
	out, err := h.svc.Submit(c.Request().Context(), claim.ID, sub, reviewer)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, out)
}

// Options lists the selectable statuses and flags for the review form.
func (h *Handler) Options(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"statuses": claims.AllReviewStatuses,
		"flags":    claims.AllReviewFlags,
	})
}
