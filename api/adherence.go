package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tidepool-org/healthlog/adherence"
)

// (GET /v1/users/{userId}/adherence)
func (h *Handler) ListAdherence(c echo.Context) error {
	page, err := pagination(c)
	if err != nil {
		return err
	}

	days, err := h.adherence.List(c.Request().Context(), c.Param("userId"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, days)
}

// (POST /v1/users/{userId}/adherence/taken)
func (h *Handler) MarkMedicationTaken(c echo.Context) error {
	medication := adherence.Medication{}
	if err := bind(c, &medication); err != nil {
		return err
	}

	result, err := h.adherence.MarkTaken(c.Request().Context(), c.Param("userId"), medication)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// (GET /v1/users/{userId}/adherence/streaks)
func (h *Handler) GetAdherenceStreaks(c echo.Context) error {
	streak, err := h.adherence.Streaks(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, streak)
}
