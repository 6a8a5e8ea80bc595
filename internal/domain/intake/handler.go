package intake

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinexa/intake/pkg/pagination"
)

// SessionHeader identifies the patient session a submission flow belongs to.
// Clients without one are assigned a fresh session id in the response.
const SessionHeader = "X-Session-ID"

type Handler struct {
	svc   *Service
	flows *FlowRegistry
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, flows: NewFlowRegistry()}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Submission surface
	api.POST("/intakes", h.Submit)
	api.POST("/intakes/reset", h.Reset)
	api.GET("/flow", h.GetFlow)

	// Dashboard surface
	api.GET("/intakes", h.ListIntakes)
	api.GET("/intakes/stats", h.GetStats)
	api.GET("/intakes/:id", h.GetIntake)
}

// sessionFlow resolves the request's submission flow from the session
// header, minting a session id when the client has none.
func (h *Handler) sessionFlow(c echo.Context) *Flow {
	sid := c.Request().Header.Get(SessionHeader)
	if sid == "" {
		sid = uuid.NewString()
	}
	c.Response().Header().Set(SessionHeader, sid)
	return h.flows.Get(sid)
}

type submitRequest struct {
	Symptoms string `json:"symptoms"`
}

// Submit runs a submission attempt. Empty input is inert (200, flow still
// Idle); an analysis failure maps to 502 with the user-safe message; a
// concurrent submission on the same session maps to 409.
func (h *Handler) Submit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	flow := h.sessionFlow(c)
	snap, err := h.svc.Submit(c.Request().Context(), flow, req.Symptoms)
	if err != nil {
		if errors.Is(err, ErrSubmissionInFlight) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	switch snap.State {
	case FlowSucceeded:
		return c.JSON(http.StatusCreated, snap)
	case FlowFailed:
		return c.JSON(http.StatusBadGateway, snap)
	default:
		return c.JSON(http.StatusOK, snap)
	}
}

// Reset returns the session's flow to Idle. Any in-flight analysis is not
// aborted; its result will be discarded when it resolves.
func (h *Handler) Reset(c echo.Context) error {
	flow := h.sessionFlow(c)
	flow.Reset()
	return c.JSON(http.StatusOK, flow.Snapshot())
}

func (h *Handler) GetFlow(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessionFlow(c).Snapshot())
}

// ListIntakes serves the dashboard list: optional case-insensitive q filter
// over record id and brief summary, newest first, paginated.
func (h *Handler) ListIntakes(c echo.Context) error {
	records, err := h.svc.Records(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	filtered := NewestFirst(Filter(records, c.QueryParam("q")))
	pg := pagination.FromContext(c)
	return c.JSON(http.StatusOK, pagination.NewResponse(pagination.Window(filtered, pg), len(filtered), pg.Limit, pg.Offset))
}

// GetStats serves the aggregate counters, always computed over the full
// store, never a filtered subset.
func (h *Handler) GetStats(c echo.Context) error {
	records, err := h.svc.Records(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, Stats(records))
}

func (h *Handler) GetIntake(c echo.Context) error {
	records, err := h.svc.Records(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	rec := SelectDetail(records, c.Param("id"))
	if rec == nil {
		return echo.NewHTTPError(http.StatusNotFound, "intake record not found")
	}
	return c.JSON(http.StatusOK, rec)
}
