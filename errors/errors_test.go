package errors_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/healthlog/errors"
)

var _ = Describe("CustomHTTPErrorHandler", func() {
	handle := func(err error) (int, errors.Response) {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		errors.CustomHTTPErrorHandler(err, c)

		response := errors.Response{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &response)).To(Succeed())
		return rec.Code, response
	}

	It("renders wrapped http errors", func() {
		code, response := handle(fmt.Errorf("observation %w", errors.NotFound))
		Expect(code).To(Equal(http.StatusNotFound))
		Expect(response).To(Equal(errors.Response{Code: http.StatusNotFound, Message: "observation not found"}))
	})

	It("renders echo errors", func() {
		code, response := handle(echo.NewHTTPError(http.StatusBadRequest, "invalid offset"))
		Expect(code).To(Equal(http.StatusBadRequest))
		Expect(response.Message).To(Equal("invalid offset"))
	})

	It("hides the message of unexpected errors", func() {
		code, response := handle(fmt.Errorf("connection reset by peer"))
		Expect(code).To(Equal(http.StatusInternalServerError))
		Expect(response.Message).To(Equal("Internal Server Error"))
	})

	It("maps errors to status codes", func() {
		Expect(errors.StatusCode(fmt.Errorf("day %w", errors.BadRequest))).To(Equal(http.StatusBadRequest))
		Expect(errors.StatusCode(fmt.Errorf("boom"))).To(Equal(http.StatusInternalServerError))
	})
})
