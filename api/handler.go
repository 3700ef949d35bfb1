package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/healthlog/adherence"
	"github.com/tidepool-org/healthlog/errors"
	"github.com/tidepool-org/healthlog/insights"
	"github.com/tidepool-org/healthlog/report"
	"github.com/tidepool-org/healthlog/store"
	"github.com/tidepool-org/healthlog/timeline"
	"github.com/tidepool-org/healthlog/vitals"
)

type Handler struct {
	vitals    vitals.Service
	insights  insights.Service
	timeline  timeline.Repository
	adherence adherence.Service
	report    report.Service
	logger    *zap.SugaredLogger
}

type Params struct {
	fx.In

	Vitals    vitals.Service
	Insights  insights.Service
	Timeline  timeline.Repository
	Adherence adherence.Service
	Report    report.Service
	Logger    *zap.SugaredLogger
}

func NewHandler(p Params) *Handler {
	return &Handler{
		vitals:    p.Vitals,
		insights:  p.Insights,
		timeline:  p.Timeline,
		adherence: p.Adherence,
		report:    p.Report,
		logger:    p.Logger,
	}
}

// RegisterHandlers adds the routes of the service to the router
func RegisterHandlers(router *echo.Echo, h *Handler) {
	router.POST("/v1/zones/classify", h.ClassifyVital)

	users := router.Group("/v1/users/:userId")
	users.GET("/vitals", h.ListVitals)
	users.POST("/vitals", h.CreateVital)
	users.GET("/vitals/events", h.ListZoneEvents)
	users.GET("/vitals/summaries", h.ListMonthlySummaries)
	users.GET("/vitals/:observationId", h.GetVital)
	users.PATCH("/vitals/:observationId", h.PatchVital)
	users.DELETE("/vitals/:observationId", h.DeleteVital)

	users.GET("/timeline", h.ListTimeline)
	users.POST("/timeline/refresh", h.RefreshTimeline)
	users.DELETE("/timeline/:entryId", h.DeleteTimelineEntry)

	users.GET("/adherence", h.ListAdherence)
	users.POST("/adherence/taken", h.MarkMedicationTaken)
	users.GET("/adherence/streaks", h.GetAdherenceStreaks)

	users.GET("/report", h.GetReport)
}

func pagination(c echo.Context) (store.Pagination, error) {
	page := store.DefaultPagination()
	err := echo.QueryParamsBinder(c).
		Int("offset", &page.Offset).
		Int("limit", &page.Limit).
		BindError()
	if err != nil {
		return page, badRequest(err)
	}
	return page.Normalize(), nil
}

// timeRange binds the optional "from" and "to" query parameters
func timeRange(c echo.Context) (from *time.Time, to *time.Time, err error) {
	var f, t time.Time
	err = echo.QueryParamsBinder(c).
		Time("from", &f, time.RFC3339).
		Time("to", &t, time.RFC3339).
		BindError()
	if err != nil {
		return nil, nil, badRequest(err)
	}
	if !f.IsZero() {
		from = &f
	}
	if !t.IsZero() {
		to = &t
	}
	return from, to, nil
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %w", errors.BadRequest, err)
}

func bind(c echo.Context, dest any) error {
	if err := c.Bind(dest); err != nil {
		return badRequest(fmt.Errorf("invalid request body"))
	}
	return nil
}

func noContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
