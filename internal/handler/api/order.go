package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "github.com/YongHui-X/ecoplate-sub000/internal/handler/dto/request"
	resdto "github.com/YongHui-X/ecoplate-sub000/internal/handler/dto/response"
	"github.com/YongHui-X/ecoplate-sub000/internal/handler/httperr"
	"github.com/YongHui-X/ecoplate-sub000/internal/handler/middleware"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/commands"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errIdempotencyKeyRequired = errors.New("Idempotency-Key header required")

type OrderHandler struct {
	commands commands.OrderCommands
	queries  queries.OrderQueries
}

func NewOrderHandler(cmds commands.OrderCommands, qs queries.OrderQueries) *OrderHandler {
	return &OrderHandler{commands: cmds, queries: qs}
}

// @Summary Reserve a listing
// @Description Reserve a listing for locker delivery, claiming a compartment
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.ReserveOrderRequest true "Reservation request"
// @Success 201 {object} resdto.OrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /orders [post]
func (h *OrderHandler) Reserve(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	idempotencyKey, err := idempotencyKeyHeader(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	var req reqdto.ReserveOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.commands.Reserve(c.Request.Context(), commands.ReserveParams{
		ListingID: req.ListingID,
		LockerID:  req.LockerID,
		BuyerID:   userID,
	}, idempotencyKey)
	if err != nil {
		abortWithCommandError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromOrderEntity(result.Order))
}

// @Summary Pay for an order
// @Description Buyer pays for a pending reservation before the deadline
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/pay [post]
func (h *OrderHandler) Pay(c *gin.Context) {
	h.transition(c, func(userID, orderID int64) (any, error) {
		o, err := h.commands.Pay(c.Request.Context(), userID, orderID)
		if err != nil {
			return nil, err
		}
		return resdto.FromOrderEntity(o), nil
	})
}

// @Summary Schedule courier pickup
// @Description Seller picks the courier pickup time for a paid order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body reqdto.SchedulePickupRequest true "Pickup schedule"
// @Success 200 {object} resdto.OrderResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /orders/{id}/schedule [post]
func (h *OrderHandler) Schedule(c *gin.Context) {
	var req reqdto.SchedulePickupRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}
	h.transition(c, func(userID, orderID int64) (any, error) {
		o, err := h.commands.SchedulePickup(c.Request.Context(), userID, orderID, req.PickupTime)
		if err != nil {
			return nil, err
		}
		return resdto.FromOrderEntity(o), nil
	})
}

// @Summary Confirm courier pickup
// @Description Seller confirms the parcel was handed to the courier
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/confirm-pickup [post]
func (h *OrderHandler) ConfirmPickup(c *gin.Context) {
	h.transition(c, func(userID, orderID int64) (any, error) {
		o, err := h.commands.ConfirmPickup(c.Request.Context(), userID, orderID)
		if err != nil {
			return nil, err
		}
		return resdto.FromOrderEntity(o), nil
	})
}

// @Summary Deliver parcel to locker
// @Description Courier callback: parcel loaded into a compartment, pin armed
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/deliver [post]
func (h *OrderHandler) Deliver(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	// Courier service accounts authenticate through the same JWT issuer;
	// the transition itself is actor-less. The response never carries the
	// pin.
	o, err := h.commands.DeliverToLocker(c.Request.Context(), orderID)
	if err != nil {
		abortWithCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderEntity(o))
}

// @Summary Verify pickup pin
// @Description Buyer presents the pin at the locker to collect the parcel
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body reqdto.VerifyPinRequest true "Pickup pin"
// @Success 200 {object} resdto.OrderResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/verify-pin [post]
func (h *OrderHandler) VerifyPin(c *gin.Context) {
	var req reqdto.VerifyPinRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Pin must be exactly 6 digits", nil)
		return
	}
	h.transition(c, func(userID, orderID int64) (any, error) {
		o, err := h.commands.VerifyPin(c.Request.Context(), userID, orderID, req.Pin)
		if err != nil {
			return nil, err
		}
		return resdto.FromOrderEntity(o), nil
	})
}

// @Summary Cancel an order
// @Description Either participant cancels a non-terminal order with a reason
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body reqdto.CancelOrderRequest true "Cancellation reason"
// @Success 200 {object} resdto.OrderResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req reqdto.CancelOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Cancellation reason required", nil)
		return
	}
	h.transition(c, func(userID, orderID int64) (any, error) {
		o, err := h.commands.Cancel(c.Request.Context(), userID, orderID, req.Reason)
		if err != nil {
			return nil, err
		}
		return resdto.FromOrderEntity(o), nil
	})
}

// @Summary Get order
// @Description Get order detail; only participants can see it
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 404 {object} httperr.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), userID, orderID)
	if err != nil {
		abortWithQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

// @Summary List my orders
// @Description List the caller's orders as buyer or as seller
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param role query string true "buyer or seller"
// @Success 200 {array} resdto.OrderListResponse
// @Failure 400 {object} httperr.Response
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	role := queries.Role(c.Query("role"))
	items, err := h.queries.ListByUser(c.Request.Context(), userID, role)
	if err != nil {
		abortWithQueryError(c, err)
		return
	}

	response := make([]*resdto.OrderListResponse, len(items))
	for i, item := range items {
		response[i] = resdto.FromOrderListItem(item)
	}
	c.JSON(http.StatusOK, response)
}

// transition factors the shared shape of the actor-bound state changes:
// resolve the caller, parse the id, run the command, map the error.
func (h *OrderHandler) transition(c *gin.Context, run func(userID, orderID int64) (any, error)) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	body, err := run(userID, orderID)
	if err != nil {
		abortWithCommandError(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}

func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		httperr.AbortWithError(c, http.StatusBadRequest, errors.New("invalid order id"), "Invalid order ID format", nil)
		return 0, false
	}
	return id, true
}

func idempotencyKeyHeader(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errIdempotencyKeyRequired
	}
	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}
	return key, nil
}
