package httpapi

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/study-upc/studyclient/internal/client/models"
	"github.com/study-upc/studyclient/internal/client/upload"
	"github.com/study-upc/studyclient/internal/devserver/auth"
	"github.com/study-upc/studyclient/internal/devserver/config"
	"github.com/study-upc/studyclient/internal/devserver/storage"
	"github.com/study-upc/studyclient/internal/logging"
)

const (
	roleStudent = "student"
	roleAdmin   = "admin"
)

// Handler holds the route handlers and the little state the dev backend
// keeps in memory.
type Handler struct {
	config    *config.Config
	presigner storage.Presigner
	logger    logging.Logger
	revoked   *revocations
	now       func() time.Time

	mu    sync.Mutex
	users map[string]int64
}

func NewHandler(cfg *config.Config, presigner storage.Presigner, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Handler{
		config:    cfg,
		presigner: presigner,
		logger:    logger,
		revoked:   newRevocations(),
		now:       time.Now,
		users:     map[string]int64{},
	}
}

// userID hands out stable ids per username for the lifetime of the process.
func (h *Handler) userID(username string) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, ok := h.users[username]
	if !ok {
		id = int64(len(h.users) + 1)
		h.users[username] = id
	}
	return id
}

func (h *Handler) Health(c *gin.Context) {
	success(c, gin.H{"status": "ok"})
}

// Login accepts any username with the configured dev password.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, CodeInvalidParams, err.Error())
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password != h.config.DevPassword {
		fail(c, CodeInvalidCredentials, "invalid username or password")
		return
	}

	role := roleStudent
	if h.config.IsAdmin(req.Username) {
		role = roleAdmin
	}
	id := h.userID(req.Username)

	ttl := h.config.AccessTokenValidityDuration
	token, err := auth.GenerateToken(id, req.Username, role, []byte(h.config.SecretKey), ttl)
	if err != nil {
		h.logger.Error(c.Request.Context(), "failed to sign token", "error", err)
		fail(c, CodeServerError, "could not issue token")
		return
	}

	h.logger.Info(c.Request.Context(), "login", "username", req.Username, "role", role)
	success(c, models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(ttl.Seconds()),
		User:        models.UserInfo{ID: id, Username: req.Username, Role: role},
	})
}

// Logout revokes the caller's token.
func (h *Handler) Logout(c *gin.Context) {
	claims := claimsFrom(c)
	token := c.GetString(ctxToken)

	until := h.now().Add(h.config.AccessTokenValidityDuration)
	if claims != nil && claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	h.revoked.revoke(token, until)
	success(c, nil)
}

func (h *Handler) uploadConfig() models.UploadConfig {
	types := h.config.AllowedTypes
	return models.UploadConfig{
		MaxSize:      h.config.MaxUploadSize,
		AllowedTypes: types,
		MaxSizeMB:    h.config.MaxUploadSize / 1024 / 1024,
		Accept:       "." + strings.Join(types, ",."),
	}
}

func (h *Handler) UploadConfig(c *gin.Context) {
	success(c, h.uploadConfig())
}

// AuthorizeUpload checks the announced file against the upload policy and
// answers with a presigned PUT URL and the key the object will live under.
func (h *Handler) AuthorizeUpload(c *gin.Context) {
	var req models.UploadAuthorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, CodeInvalidParams, err.Error())
		return
	}
	if err := h.validateUpload(req); err != nil {
		fail(c, CodeInvalidParams, err.Error())
		return
	}

	claims := claimsFrom(c)
	var uid int64
	if claims != nil {
		uid = claims.UserID
	}

	ext := upload.Extension(req.FileName)
	key := storage.NewStorageKey(uid, ext, h.now())
	mime, _ := upload.MIMEForExtension(ext)

	url, err := h.presigner.PresignPut(c.Request.Context(), key, mime)
	if err != nil {
		h.logger.Error(c.Request.Context(), "presign failed", "key", key, "error", err)
		fail(c, CodeServerError, "could not authorize upload")
		return
	}

	h.logger.Info(c.Request.Context(), "upload authorized", "key", key, "size", req.FileSize)
	success(c, models.UploadTicket{UploadURL: url, FileKey: key})
}

func (h *Handler) validateUpload(req models.UploadAuthorizeRequest) error {
	if strings.TrimSpace(req.FileName) == "" {
		return fmt.Errorf("file_name is required")
	}
	if req.FileSize <= 0 {
		return fmt.Errorf("file_size must be positive")
	}
	if req.FileSize > h.config.MaxUploadSize {
		return fmt.Errorf("file exceeds the %d MB limit", h.config.MaxUploadSize/1024/1024)
	}

	ext := upload.Extension(req.FileName)
	mime, known := upload.MIMEForExtension(ext)
	allowed := slices.ContainsFunc(h.config.AllowedTypes, func(t string) bool {
		return strings.EqualFold(strings.TrimPrefix(t, "."), strings.TrimPrefix(ext, "."))
	})
	if !known || !allowed {
		return fmt.Errorf("file type %q is not allowed", ext)
	}
	if req.MimeType != "" && req.MimeType != mime {
		return fmt.Errorf("mime_type %q does not match %s", req.MimeType, ext)
	}
	return nil
}
