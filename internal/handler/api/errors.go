package api

import (
	"errors"
	"net/http"

	"github.com/YongHui-X/ecoplate-sub000/internal/handler/httperr"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/commands"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// abortWithCommandError translates allocation-engine sentinels into HTTP
// responses. Unrecognized errors stay opaque 500s; the cause travels on
// the gin error stack for the request log.
func abortWithCommandError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrListingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Listing not found", nil)
	case errors.Is(err, commands.ErrLockerNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Locker not found", nil)
	case errors.Is(err, commands.ErrOrderNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
	case errors.Is(err, commands.ErrListingUnavailable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Listing is not available", nil)
	case errors.Is(err, commands.ErrNoCompartmentsAvailable):
		httperr.AbortWithError(c, http.StatusConflict, err, "No compartments available at this locker", nil)
	case errors.Is(err, commands.ErrOrderStateConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), nil)
	case errors.Is(err, commands.ErrIdempotencyConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Idempotency key reused with different parameters", nil)
	case errors.Is(err, commands.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "Request is currently being processed", nil)
	case errors.Is(err, commands.ErrActionNotAllowed):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Action not allowed for this user", nil)
	case errors.Is(err, commands.ErrPinMismatch):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Pickup pin does not match", nil)
	case errors.Is(err, commands.ErrSelfPurchase):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Cannot reserve your own listing", nil)
	case errors.Is(err, commands.ErrValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Validation failed", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func abortWithQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queries.ErrOrderNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
	case errors.Is(err, queries.ErrNotificationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Notification not found", nil)
	case errors.Is(err, queries.ErrInvalidRole):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Role must be buyer or seller", nil)
	case errors.Is(err, queries.ErrInvalidSearchArea):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid search coordinates or radius", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
