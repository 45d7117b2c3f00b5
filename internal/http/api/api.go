package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/zonecast/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/zonecast/internal/model"
)

type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string { return e.Message }

func BadRequest(msg string) *APIError {
	return &APIError{Code: http.StatusBadRequest, Message: msg}
}

// FromError maps domain errors onto HTTP status codes.
func FromError(err error) *APIError {
	switch {
	case errors.Is(err, model.ErrInvalid):
		return &APIError{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, model.ErrNotFound):
		return &APIError{Code: http.StatusNotFound, Message: err.Error()}
	default:
		log.Error().Err(err).Msg("[api] internal error")
		return &APIError{Code: http.StatusInternalServerError, Message: "internal server error"}
	}
}

type HandlerFuncWithAuth func(ctx *gin.Context, operator string) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

// ResolveEndpointWithAuth passes the authenticated operator to h and
// responds with status on success.
func ResolveEndpointWithAuth(status int, h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx, middleware.GetCurrentSubject(ctx))
		respond(ctx, status, result, apiErr)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		respond(ctx, http.StatusOK, result, apiErr)
	}
}

func respond(ctx *gin.Context, status int, result any, apiErr *APIError) {
	if apiErr != nil {
		ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}
	if result == nil {
		ctx.Status(http.StatusNoContent)
		return
	}
	ctx.JSON(status, result)
}
