package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/study-upc/studyclient/internal/logging"
)

// NewRouter mounts every route under the configured base path.
func NewRouter(h *Handler, logger logging.Logger) *gin.Engine {
	if logger == nil {
		logger = logging.Nop{}
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/health", h.Health)

	api := r.Group(h.config.BasePath)
	api.POST("/auth/login", h.Login)
	api.GET("/system/upload-config", h.UploadConfig)

	authed := api.Group("", jwtAuth([]byte(h.config.SecretKey), h.revoked))
	authed.POST("/auth/logout", h.Logout)
	authed.POST("/materials/upload-authorize", h.AuthorizeUpload)

	return r
}
