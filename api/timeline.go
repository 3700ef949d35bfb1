package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tidepool-org/healthlog/deletions"
	"github.com/tidepool-org/healthlog/insights"
	"github.com/tidepool-org/healthlog/timeline"
)

// (GET /v1/users/{userId}/timeline)
func (h *Handler) ListTimeline(c echo.Context) error {
	page, err := pagination(c)
	if err != nil {
		return err
	}
	from, to, err := timeRange(c)
	if err != nil {
		return err
	}

	filter := &timeline.Filter{
		UserId:   c.Param("userId"),
		DateFrom: from,
		DateTo:   to,
	}
	if category := c.QueryParam("category"); category != "" {
		cat := timeline.Category(category)
		filter.Category = &cat
	}

	entries, err := h.timeline.List(c.Request().Context(), filter, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// RefreshTimeline derives the zone events and monthly summaries of the user and merges
// them into the timeline
// (POST /v1/users/{userId}/timeline/refresh)
func (h *Handler) RefreshTimeline(c echo.Context) error {
	options := insights.RefreshOptions{}
	err := echo.QueryParamsBinder(c).
		Bool("prune", &options.Prune).
		BindError()
	if err != nil {
		return badRequest(err)
	}

	result, err := h.insights.Refresh(c.Request().Context(), c.Param("userId"), options)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// (DELETE /v1/users/{userId}/timeline/{entryId})
func (h *Handler) DeleteTimelineEntry(c echo.Context) error {
	userId := c.Param("userId")
	err := h.timeline.Remove(c.Request().Context(), userId, c.Param("entryId"), deletions.Metadata{
		DeletedByUserId: &userId,
	})
	if err != nil {
		return err
	}
	return noContent(c)
}
