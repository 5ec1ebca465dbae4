package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ErrorDetail is the body of every non-2xx response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

func respondError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, NewErrorResponse(code, message))
}

func badRequest(c echo.Context, message string) error {
	return respondError(c, http.StatusBadRequest, "bad_request", message)
}

// queryLimit reads ?limit, falling back to def when absent or not a positive
// integer. Repositories clamp the upper bound.
func queryLimit(c echo.Context, def int) int {
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		return v
	}
	return def
}
