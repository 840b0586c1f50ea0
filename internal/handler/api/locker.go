package api

import (
	"net/http"

	reqdto "github.com/YongHui-X/ecoplate-sub000/internal/handler/dto/request"
	resdto "github.com/YongHui-X/ecoplate-sub000/internal/handler/dto/response"
	"github.com/YongHui-X/ecoplate-sub000/internal/handler/httperr"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type LockerHandler struct {
	queries queries.LockerQueries
}

func NewLockerHandler(qs queries.LockerQueries) *LockerHandler {
	return &LockerHandler{queries: qs}
}

// @Summary List active lockers
// @Description List all lockers currently accepting deliveries
// @Tags lockers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.LockerResponse
// @Router /lockers [get]
func (h *LockerHandler) List(c *gin.Context) {
	lockers, err := h.queries.ListActive(c.Request.Context())
	if err != nil {
		abortWithQueryError(c, err)
		return
	}

	response := make([]*resdto.LockerResponse, len(lockers))
	for i, lv := range lockers {
		response[i] = resdto.FromLockerView(lv)
	}
	c.JSON(http.StatusOK, response)
}

// @Summary List nearby lockers
// @Description List active lockers within a radius of a point, nearest first
// @Tags lockers
// @Produce json
// @Security BearerAuth
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius_km query number false "Search radius in km (default 5)"
// @Success 200 {array} resdto.NearbyLockerResponse
// @Failure 400 {object} httperr.Response
// @Router /lockers/nearby [get]
func (h *LockerHandler) ListNearby(c *gin.Context) {
	var q reqdto.NearbyLockersQuery
	if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "lat and lng query parameters required", nil)
		return
	}

	lockers, err := h.queries.ListNearby(c.Request.Context(), *q.Lat, *q.Lng, q.Radius())
	if err != nil {
		abortWithQueryError(c, err)
		return
	}

	response := make([]*resdto.NearbyLockerResponse, len(lockers))
	for i, lv := range lockers {
		response[i] = resdto.FromNearbyLockerView(lv)
	}
	c.JSON(http.StatusOK, response)
}
