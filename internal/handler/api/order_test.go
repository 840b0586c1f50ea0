package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/YongHui-X/ecoplate-sub000/internal/domain/order"
	"github.com/YongHui-X/ecoplate-sub000/internal/handler/api"
	resdto "github.com/YongHui-X/ecoplate-sub000/internal/handler/dto/response"
	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/errs"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/commands"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	buyerID  int64 = 10
	sellerID int64 = 20
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// stubCommands answers only the calls a test configures; anything else is
// a test bug.
type stubCommands struct {
	reserve func(commands.ReserveParams, uuid.UUID) (*commands.ReserveResult, error)
	pay     func(actorID, orderID int64) (*order.Order, error)
	cancel  func(actorID, orderID int64, reason string) (*order.Order, error)
}

func (s *stubCommands) Reserve(_ context.Context, p commands.ReserveParams, key uuid.UUID) (*commands.ReserveResult, error) {
	return s.reserve(p, key)
}

func (s *stubCommands) Pay(_ context.Context, actorID, orderID int64) (*order.Order, error) {
	return s.pay(actorID, orderID)
}

func (s *stubCommands) Cancel(_ context.Context, actorID, orderID int64, reason string) (*order.Order, error) {
	return s.cancel(actorID, orderID, reason)
}

func (s *stubCommands) SchedulePickup(context.Context, int64, int64, time.Time) (*order.Order, error) {
	panic("not configured")
}

func (s *stubCommands) ConfirmPickup(context.Context, int64, int64) (*order.Order, error) {
	panic("not configured")
}

func (s *stubCommands) DeliverToLocker(context.Context, int64) (*order.Order, error) {
	panic("not configured")
}

func (s *stubCommands) VerifyPin(context.Context, int64, int64, string) (*order.Order, error) {
	panic("not configured")
}

func (s *stubCommands) ExpireDue(context.Context) (int, error) {
	panic("not configured")
}

type stubQueries struct {
	getByID func(actorID, id int64) (*queries.OrderView, error)
}

func (s *stubQueries) GetByID(_ context.Context, actorID, id int64) (*queries.OrderView, error) {
	return s.getByID(actorID, id)
}

func (s *stubQueries) ListByUser(_ context.Context, _ int64, role queries.Role) ([]*queries.OrderListItem, error) {
	if !role.IsValid() {
		return nil, queries.ErrInvalidRole
	}
	return nil, nil
}

func newRouter(cmds commands.OrderCommands, qs queries.OrderQueries) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	// stand-in for the auth middleware
	router.Use(func(c *gin.Context) {
		c.Set("user_id", buyerID)
	})

	h := api.NewOrderHandler(cmds, qs)
	router.POST("/orders", h.Reserve)
	router.GET("/orders", h.List)
	router.GET("/orders/:id", h.Get)
	router.POST("/orders/:id/pay", h.Pay)
	router.POST("/orders/:id/cancel", h.Cancel)
	return router
}

func perform(t *testing.T, router *gin.Engine, method, url string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func testOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewReservation(
		base, 1, 2, buyerID, sellerID,
		order.MustMoney(1000), order.MustMoney(200),
		30*time.Minute,
	)
	require.NoError(t, err)
	o.SetID(5)
	return o
}

func TestReserveEndpoint(t *testing.T) {
	t.Run("201 on a fresh reservation", func(t *testing.T) {
		o := testOrder(t)
		cmds := &stubCommands{
			reserve: func(p commands.ReserveParams, _ uuid.UUID) (*commands.ReserveResult, error) {
				assert.Equal(t, int64(1), p.ListingID)
				assert.Equal(t, int64(2), p.LockerID)
				assert.Equal(t, buyerID, p.BuyerID)
				return &commands.ReserveResult{Order: o}, nil
			},
		}
		router := newRouter(cmds, &stubQueries{})

		rec := perform(t, router, http.MethodPost, "/orders",
			gin.H{"listing_id": 1, "locker_id": 2},
			map[string]string{"Idempotency-Key": uuid.NewString()})

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp resdto.OrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(5), resp.ID)
		assert.Equal(t, int64(1200), resp.TotalPriceCents)
		assert.Nil(t, resp.PickupPin)
	})

	t.Run("200 on an idempotent replay", func(t *testing.T) {
		o := testOrder(t)
		cmds := &stubCommands{
			reserve: func(commands.ReserveParams, uuid.UUID) (*commands.ReserveResult, error) {
				return &commands.ReserveResult{Order: o, Replayed: true}, nil
			},
		}
		router := newRouter(cmds, &stubQueries{})

		rec := perform(t, router, http.MethodPost, "/orders",
			gin.H{"listing_id": 1, "locker_id": 2},
			map[string]string{"Idempotency-Key": uuid.NewString()})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("400 without an idempotency key", func(t *testing.T) {
		router := newRouter(&stubCommands{}, &stubQueries{})

		rec := perform(t, router, http.MethodPost, "/orders",
			gin.H{"listing_id": 1, "locker_id": 2}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("400 on non-positive ids", func(t *testing.T) {
		router := newRouter(&stubCommands{}, &stubQueries{})

		rec := perform(t, router, http.MethodPost, "/orders",
			gin.H{"listing_id": 0, "locker_id": 2},
			map[string]string{"Idempotency-Key": uuid.NewString()})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("409 when no compartment is free", func(t *testing.T) {
		cmds := &stubCommands{
			reserve: func(commands.ReserveParams, uuid.UUID) (*commands.ReserveResult, error) {
				return nil, commands.ErrNoCompartmentsAvailable
			},
		}
		router := newRouter(cmds, &stubQueries{})

		rec := perform(t, router, http.MethodPost, "/orders",
			gin.H{"listing_id": 1, "locker_id": 2},
			map[string]string{"Idempotency-Key": uuid.NewString()})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestPayEndpoint(t *testing.T) {
	t.Run("409 carries the actual status", func(t *testing.T) {
		stateErr := &order.StateError{Action: "pay for", Current: order.StatusPaid}
		cmds := &stubCommands{
			pay: func(int64, int64) (*order.Order, error) {
				return nil, errs.Mark(stateErr, commands.ErrOrderStateConflict)
			},
		}
		router := newRouter(cmds, &stubQueries{})

		rec := perform(t, router, http.MethodPost, "/orders/5/pay", nil, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "paid")
	})

	t.Run("403 for the wrong actor", func(t *testing.T) {
		cmds := &stubCommands{
			pay: func(int64, int64) (*order.Order, error) {
				return nil, commands.ErrActionNotAllowed
			},
		}
		router := newRouter(cmds, &stubQueries{})

		rec := perform(t, router, http.MethodPost, "/orders/5/pay", nil, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("400 on a malformed id", func(t *testing.T) {
		router := newRouter(&stubCommands{}, &stubQueries{})

		rec := perform(t, router, http.MethodPost, "/orders/abc/pay", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCancelEndpoint(t *testing.T) {
	t.Run("400 without a reason", func(t *testing.T) {
		router := newRouter(&stubCommands{}, &stubQueries{})

		rec := perform(t, router, http.MethodPost, "/orders/5/cancel", gin.H{}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("200 with the cancelled order", func(t *testing.T) {
		o := testOrder(t)
		require.NoError(t, o.Cancel(buyerID, "changed my mind", base))
		cmds := &stubCommands{
			cancel: func(_, _ int64, reason string) (*order.Order, error) {
				assert.Equal(t, "changed my mind", reason)
				return o, nil
			},
		}
		router := newRouter(cmds, &stubQueries{})

		rec := perform(t, router, http.MethodPost, "/orders/5/cancel",
			gin.H{"reason": "changed my mind"}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "cancelled")
	})
}

func TestGetEndpoint(t *testing.T) {
	t.Run("404 for an invisible order", func(t *testing.T) {
		qs := &stubQueries{
			getByID: func(int64, int64) (*queries.OrderView, error) {
				return nil, queries.ErrOrderNotFound
			},
		}
		router := newRouter(&stubCommands{}, qs)

		rec := perform(t, router, http.MethodGet, "/orders/5", nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("200 passes the view through", func(t *testing.T) {
		qs := &stubQueries{
			getByID: func(actorID, id int64) (*queries.OrderView, error) {
				assert.Equal(t, buyerID, actorID)
				return &queries.OrderView{ID: id, BuyerID: buyerID, SellerID: sellerID, Status: "paid"}, nil
			},
		}
		router := newRouter(&stubCommands{}, qs)

		rec := perform(t, router, http.MethodGet, "/orders/5", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp resdto.OrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		want := resdto.OrderResponse{ID: 5, BuyerID: buyerID, SellerID: sellerID, Status: "paid"}
		assert.Empty(t, cmp.Diff(want, resp))
	})
}

func TestListEndpoint(t *testing.T) {
	router := newRouter(&stubCommands{}, &stubQueries{})

	rec := perform(t, router, http.MethodGet, "/orders?role=admin", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = perform(t, router, http.MethodGet, "/orders?role=buyer", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
