package api

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tidepool-org/healthlog/deletions"
	"github.com/tidepool-org/healthlog/vitals"
)

// (GET /v1/users/{userId}/vitals)
func (h *Handler) ListVitals(c echo.Context) error {
	page, err := pagination(c)
	if err != nil {
		return err
	}
	from, to, err := timeRange(c)
	if err != nil {
		return err
	}

	list, err := h.vitals.List(c.Request().Context(), &vitals.Filter{
		UserId:         c.Param("userId"),
		RecordedAtFrom: from,
		RecordedAtTo:   to,
	}, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// (POST /v1/users/{userId}/vitals)
func (h *Handler) CreateVital(c echo.Context) error {
	observation := vitals.Observation{}
	if err := bind(c, &observation); err != nil {
		return err
	}
	observation.Id = nil
	observation.UserId = c.Param("userId")

	created, err := h.vitals.Create(c.Request().Context(), observation)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, created)
}

// (GET /v1/users/{userId}/vitals/{observationId})
func (h *Handler) GetVital(c echo.Context) error {
	observation, err := h.vitals.Get(c.Request().Context(), c.Param("userId"), c.Param("observationId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, observation)
}

// (PATCH /v1/users/{userId}/vitals/{observationId})
func (h *Handler) PatchVital(c echo.Context) error {
	patch, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return badRequest(err)
	}

	observation, err := h.vitals.Patch(c.Request().Context(), c.Param("userId"), c.Param("observationId"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, observation)
}

// (DELETE /v1/users/{userId}/vitals/{observationId})
func (h *Handler) DeleteVital(c echo.Context) error {
	userId := c.Param("userId")
	err := h.vitals.Remove(c.Request().Context(), userId, c.Param("observationId"), deletions.Metadata{
		DeletedByUserId: &userId,
	})
	if err != nil {
		return err
	}
	return noContent(c)
}

// (GET /v1/users/{userId}/vitals/events)
func (h *Handler) ListZoneEvents(c echo.Context) error {
	events, err := h.insights.ZoneEvents(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// (GET /v1/users/{userId}/vitals/summaries)
func (h *Handler) ListMonthlySummaries(c echo.Context) error {
	summaries, err := h.insights.MonthlySummaries(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summaries)
}
