package rest

import (
	"context"
	"errors"
	"net/http"

	ierr "go-firestore-deals/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func statusOf(err error) int {
	var partial *ierr.PartialBatchFailure
	switch {
	case errors.As(err, &partial):
		return http.StatusBadGateway
	case errors.Is(err, ierr.ValidationError):
		return http.StatusBadRequest
	case errors.Is(err, ierr.NotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, ierr.StoreError):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msgf("%s %s failed", c.Request.Method, c.FullPath())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
