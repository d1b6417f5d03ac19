package middleware

import (
	"net/http"

	"shareit/internal/handler/httperr"
	"shareit/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SharerUserIDHeader carries the caller identity set by the gateway in
// front of this service. The service trusts it as-is.
const SharerUserIDHeader = "X-Sharer-User-Id"

const ctxUserIDKey = "user_id"

type IdentityMiddleware struct{}

func NewIdentityMiddleware() *IdentityMiddleware {
	return &IdentityMiddleware{}
}

// RequireUser rejects requests that do not carry a parseable caller id.
func (m *IdentityMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(SharerUserIDHeader)
		if raw == "" {
			httperr.AbortWithError(c, http.StatusBadRequest,
				errs.New("missing caller header"), "X-Sharer-User-Id header is required", nil)
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest,
				errs.Wrap(err, "malformed caller header"), "X-Sharer-User-Id header is invalid", nil)
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Next()
	}
}

// OptionalUser parses the caller id when present but never rejects.
// Item detail views use it to decide whether booking summaries show.
func (m *IdentityMiddleware) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(SharerUserIDHeader)
		if raw == "" {
			c.Next()
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ctxUserIDKey, userID)
		c.Next()
	}
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}
