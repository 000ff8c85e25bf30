package api

import (
	"errors"
	"net/http"

	"fjacquet/finance-peres/internal/insights"
	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/syncerror"

	"github.com/gin-gonic/gin"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var (
		transportErr *syncerror.TransportError
		statusErr    *syncerror.StatusError
		payloadErr   *syncerror.PayloadError
	)
	switch {
	case errors.Is(err, syncerror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, syncerror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, syncerror.ErrNothingToCopy):
		return http.StatusConflict
	case errors.Is(err, insights.ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, syncerror.ErrRemoteNotConfigured),
		errors.As(err, &transportErr),
		errors.As(err, &statusErr),
		errors.As(err, &payloadErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, logger logging.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).Error("Request failed")
	} else {
		logger.WithError(err).Debug("Request rejected")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
