package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tidepool-org/healthlog/report"
)

// GetReport renders the vitals, timeline and adherence of the user as a spreadsheet
// (GET /v1/users/{userId}/report)
func (h *Handler) GetReport(c echo.Context) error {
	userId := c.Param("userId")
	file, err := h.report.Generate(c.Request().Context(), userId)
	if err != nil {
		return err
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, report.ContentType)
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "healthlog-"+userId+".xlsx"))
	res.WriteHeader(http.StatusOK)
	return file.Write(res)
}
