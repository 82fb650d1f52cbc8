package httpapi

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/study-upc/studyclient/internal/common"
	"github.com/study-upc/studyclient/internal/devserver/auth"
	"github.com/study-upc/studyclient/internal/logging"
)

const (
	ctxClaims    = "claims"
	ctxToken     = "token"
	ctxRequestID = "request_id"

	requestIDHeader = "X-Request-ID"
)

// revocations remembers tokens ended by logout until they would have
// expired anyway.
type revocations struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func newRevocations() *revocations {
	return &revocations{tokens: map[string]time.Time{}}
}

func (r *revocations) revoke(token string, until time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for t, exp := range r.tokens {
		if exp.Before(now) {
			delete(r.tokens, t)
		}
	}
	r.tokens[token] = until
}

func (r *revocations) revoked(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tokens[token]
	return ok
}

// jwtAuth requires a valid, unrevoked bearer token and stores its claims on
// the context.
func jwtAuth(secret []byte, revoked *revocations) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeader)
		if header == "" {
			abort(c, CodeUnauthorized, "missing access token")
			return
		}
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			abort(c, CodeUnauthorized, "malformed authorization header")
			return
		}

		claims, err := auth.ParseToken(token, secret)
		switch {
		case errors.Is(err, common.ErrTokenExpired):
			abort(c, CodeInvalidToken, "token expired")
			return
		case err != nil:
			abort(c, CodeInvalidToken, "invalid token")
			return
		case revoked.revoked(token):
			abort(c, CodeInvalidToken, "token revoked")
			return
		}

		c.Set(ctxClaims, claims)
		c.Set(ctxToken, token)
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// requestLogger tags each request with an id and logs it once it is done.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(ctxRequestID, id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		logger.Info(c.Request.Context(), "request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
