// Package httpapi serves the catalog over HTTP as a read-only JSON API.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope for every API reply.
type Response struct {
	Meta Meta `json:"meta"`
	Data any  `json:"data,omitempty"`
}

// Meta carries the status code and message for a reply.
type Meta struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Success writes a 200 reply with the given payload.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Meta: Meta{
			Code:    200,
			Message: "OK",
		},
		Data: data,
	})
}

// Error writes an error reply with the given HTTP code and message.
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, Response{
		Meta: Meta{
			Code:    httpCode,
			Message: message,
		},
	})
}

// BadRequest writes a 400 reply.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound writes a 404 reply.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}
