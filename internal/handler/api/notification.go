package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "github.com/YongHui-X/ecoplate-sub000/internal/handler/dto/response"
	"github.com/YongHui-X/ecoplate-sub000/internal/handler/httperr"
	"github.com/YongHui-X/ecoplate-sub000/internal/handler/middleware"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	queries queries.NotificationQueries
}

func NewNotificationHandler(qs queries.NotificationQueries) *NotificationHandler {
	return &NotificationHandler{queries: qs}
}

// @Summary List notifications
// @Description List the caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.NotificationResponse
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	notifications, err := h.queries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		abortWithQueryError(c, err)
		return
	}

	response := make([]*resdto.NotificationResponse, len(notifications))
	for i, n := range notifications {
		response[i] = resdto.FromNotification(n)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Mark notification read
// @Description Mark one of the caller's notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httperr.AbortWithError(c, http.StatusBadRequest, errors.New("invalid notification id"), "Invalid notification ID format", nil)
		return
	}

	if err := h.queries.MarkRead(c.Request.Context(), userID, id); err != nil {
		abortWithQueryError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
