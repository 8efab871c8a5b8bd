package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/kgview/pkg/server/dto"
	"github.com/soundprediction/kgview/pkg/transport"
	"github.com/soundprediction/kgview/pkg/types"
)

// invalidInput are the errors caused by the request rather than the data.
var invalidInput = []error{
	types.ErrInvalidSourceType,
	types.ErrInvalidDateRange,
	types.ErrInvalidTheme,
	types.ErrInvalidPageRequest,
	types.ErrInvalidNodeType,
}

// statusFor maps an operation error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrNodeNotFound):
		return http.StatusNotFound, "not_found"
	case isInvalidInput(err):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, transport.ErrCircuitOpen):
		return http.StatusServiceUnavailable, "circuit_open"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	}
	return http.StatusBadGateway, "operation_failed"
}

func isInvalidInput(err error) bool {
	for _, target := range invalidInput {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeError writes err with its mapped status. The message is the
// operation error text, verbatim.
func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	writeErrorJSON(c, status, code, types.ErrorMessage(err))
}

func writeErrorJSON(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    status,
		State:   types.StatusError,
	})
}
