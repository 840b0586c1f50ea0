package middleware

import (
	"log/slog"
	"net/http"

	"github.com/YongHui-X/ecoplate-sub000/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the most recent public error collected on the
// context for handlers that returned without writing a body themselves.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if resp, ok := lastPublicError(c); ok {
			c.JSON(resp.Status, resp)
			return
		}

		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(http.StatusInternalServerError,
			httperr.NewResponse(http.StatusInternalServerError, "Internal server error", nil))
	}
}

func lastPublicError(c *gin.Context) (httperr.Response, bool) {
	for i := len(c.Errors) - 1; i >= 0; i-- {
		e := c.Errors[i]
		if !e.IsType(gin.ErrorTypePublic) {
			continue
		}
		if resp, ok := e.Meta.(httperr.Response); ok {
			return resp, true
		}
	}
	return httperr.Response{}, false
}

// CustomRecovery turns panics into a generic 500 instead of killing the
// connection; the cause goes to the log only.
func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("recovered from panic",
					"error", r,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					httperr.NewResponse(http.StatusInternalServerError, "Internal server error", nil))
			}
		}()
		c.Next()
	}
}
