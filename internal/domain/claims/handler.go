package claims

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/claimflow/claimflow/internal/platform/auth"
	"github.com/claimflow/claimflow/pkg/pagination"
)

// Regenerator re-runs insight generation for a claim. Implemented by the
// insights dispatcher; declared here so the claims handler can trigger
// regeneration after a medical summary edit without importing it.
type Regenerator interface {
	RefreshAll(ctx context.Context, claimID uuid.UUID) error
}

type Handler struct {
	svc   *Service
	regen Regenerator
	log   zerolog.Logger
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// SetRegenerator attaches the insight dispatcher invoked after medical
// summary edits.
func (h *Handler) SetRegenerator(r Regenerator) { h.regen = r }

// SetLogger attaches the handler's logger.
func (h *Handler) SetLogger(log zerolog.Logger) { h.log = log }

func (h *Handler) RegisterRoutes(api *echo.Group) {
	role := auth.RequireRole("admin", "analyst", "medical_advisor")

	g := api.Group("/claims", role)
	g.GET("", h.ListClaims)
	g.GET("/recent", h.RecentClaims)
	g.GET("/flagged", h.FlaggedClaims)
	g.GET("/:id", h.GetClaim)
	g.POST("", h.CreateClaim)
	g.PUT("/:id", h.UpdateClaim)
	g.PUT("/:id/medical-summary", h.UpdateMedicalSummary)
}

func (h *Handler) CreateClaim(c echo.Context) error {
	var claim Claim
	if err := c.Bind(&claim); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &claim); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, claim)
}

func (h *Handler) GetClaim(c echo.Context) error {
	claim, err := h.svc.Resolve(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "claim not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, claim)
}

func (h *Handler) ListClaims(c echo.Context) error {
	ctx := c.Request().Context()
	pg := pagination.FromContext(c)

	var (
		items []*Claim
		total int
		err   error
	)
	switch {
	case c.QueryParam("status") != "":
		items, total, err = h.svc.ListByStatus(ctx, ClaimStatus(c.QueryParam("status")), pg.Limit, pg.Offset)
	case c.QueryParam("risk") != "":
		items, total, err = h.svc.ListByRiskLevel(ctx, RiskLevel(c.QueryParam("risk")), pg.Limit, pg.Offset)
	case c.QueryParam("batch_id") != "":
		items, total, err = h.svc.ListByBatch(ctx, c.QueryParam("batch_id"), pg.Limit, pg.Offset)
	default:
		items, total, err = h.svc.List(ctx, pg.Limit, pg.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) RecentClaims(c echo.Context) error {
	n := pagination.FromContext(c).Limit
	items, err := h.svc.Recent(c.Request().Context(), n)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) FlaggedClaims(c echo.Context) error {
	n := pagination.FromContext(c).Limit
	items, err := h.svc.Flagged(c.Request().Context(), n)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateClaim(c echo.Context) error {
	existing, err := h.svc.Resolve(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "claim not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	var claim Claim
	if err := c.Bind(&claim); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	claim.ID = existing.ID
	claim.ClaimNumber = existing.ClaimNumber
	if err := h.svc.Update(c.Request().Context(), &claim); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, claim)
}

type medicalSummaryRequest struct {
	MedicalRecordSummary string `json:"medicalRecordSummary"`
}

type medicalSummaryResponse struct {
	Claim *Claim `json:"claim"`
	// InsightsRegenerated is false when the post-edit refresh could not
	// store its records or reset feedback; stale verdicts may survive.
	InsightsRegenerated bool   `json:"insightsRegenerated"`
	RegenerationError   string `json:"regenerationError,omitempty"`
}

// UpdateMedicalSummary edits the claim's medical record summary and, when a
// dispatcher is attached, regenerates all insights since every generator
// prompt consumes the summary. Generation failures do not fail the edit (the
// dispatcher stores fallback results), but a refresh that cannot persist its
// records or reset feedback is reported, not swallowed.
func (h *Handler) UpdateMedicalSummary(c echo.Context) error {
	existing, err := h.svc.Resolve(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "claim not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	var req medicalSummaryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	user := auth.ReviewerFromContext(c.Request().Context())
	claim, err := h.svc.UpdateMedicalSummary(c.Request().Context(), existing.ID, req.MedicalRecordSummary, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := medicalSummaryResponse{Claim: claim}
	if h.regen != nil {
		if err := h.regen.RefreshAll(c.Request().Context(), claim.ID); err != nil {
			h.log.Error().Err(err).Str("claim", claim.ClaimNumber).
				Msg("insight regeneration failed after medical summary edit")
			resp.RegenerationError = err.Error()
			return c.JSON(http.StatusMultiStatus, resp)
		}
		resp.InsightsRegenerated = true
	}
	return c.JSON(http.StatusOK, resp)
}
