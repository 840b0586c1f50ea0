// Package httperr is the single shape every handler error takes on the
// wire: {"error":{"message":...},"detail":...}.
package httperr

import "github.com/gin-gonic/gin"

type ErrorBody struct {
	Message string `json:"message"`
}

type Response struct {
	Status int       `json:"-"`
	Error  ErrorBody `json:"error"`
	Detail any       `json:"detail,omitempty"`
}

func NewResponse(status int, msg string, detail any) Response {
	return Response{
		Status: status,
		Error:  ErrorBody{Message: msg},
		Detail: detail,
	}
}

// AbortWithError writes the public body and also records the original
// error on the gin context so the request logger sees the cause, not
// just the sanitized message.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("httperr: nil error")
	}

	resp := NewResponse(status, msg, detail)
	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
