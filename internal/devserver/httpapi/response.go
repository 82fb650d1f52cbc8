// Package httpapi serves the development backend's REST routes with gin.
// Every answer uses the platform envelope {code, message, data} with HTTP
// 200; failures are told apart by code.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope codes, shared with the production backend.
const (
	CodeSuccess            = 0
	CodeInvalidParams      = 10001
	CodeUnauthorized       = 10002
	CodeServerError        = 10005
	CodeInvalidCredentials = 10101
	CodeInvalidToken       = 10104
)

type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: CodeSuccess, Message: "success", Data: data})
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{Code: code, Message: message})
}

// abort is fail for middleware: later handlers do not run.
func abort(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(http.StatusOK, Response{Code: code, Message: message})
}
