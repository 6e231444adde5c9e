package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/akmovies/internal/admin"
	"github.com/stwalsh4118/akmovies/internal/auth"
	"github.com/stwalsh4118/akmovies/internal/config"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/models"
)

const (
	identityKey = "identity"
	accessKey   = "admin_access"

	userUpsertTimeout = 2 * time.Second
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorBody{Error: code, Message: message})
}

// UserStore persists user profiles
type UserStore interface {
	Upsert(ctx context.Context, user *models.User) error
}

// Authenticator verifies bearer tokens and records users the first time this
// process sees them
type Authenticator struct {
	verifier *auth.Verifier
	users    UserStore
	seen     sync.Map
}

// NewAuthenticator creates an authenticator. users may be nil.
func NewAuthenticator(verifier *auth.Verifier, users UserStore) *Authenticator {
	return &Authenticator{verifier: verifier, users: users}
}

// Authenticate attaches the caller identity when a bearer token is sent.
// Requests without a token pass through anonymously; a bad token is a 401.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, err := auth.BearerToken(header)
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "Malformed Authorization header")
			return
		}
		claims, err := a.verifier.Parse(token)
		if err != nil {
			logger.Log.Debug().
				Err(err).
				Str("request_id", RequestIDFrom(c)).
				Msg("Rejected bearer token")
			abort(c, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		id := claims.Identity()
		c.Set(identityKey, id)
		a.recordUser(c.Request.Context(), id)
		c.Next()
	}
}

func (a *Authenticator) recordUser(ctx context.Context, id *auth.Identity) {
	if a.users == nil {
		return
	}
	if _, loaded := a.seen.LoadOrStore(id.UserID, struct{}{}); loaded {
		return
	}

	var photo *string
	if id.Picture != "" {
		photo = &id.Picture
	}
	ctx, cancel := context.WithTimeout(ctx, userUpsertTimeout)
	defer cancel()

	if err := a.users.Upsert(ctx, models.NewUser(id.UserID, id.Name, id.Email, photo)); err != nil {
		a.seen.Delete(id.UserID)
		logger.Log.Warn().
			Err(err).
			Str("user_id", id.UserID).
			Msg("Failed to record user profile")
	}
}

// IdentityFrom returns the authenticated caller, if any
func IdentityFrom(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*auth.Identity)
	return id, ok && id != nil
}

// SetIdentity attaches id to the request. Used by tests and internal tooling.
func SetIdentity(c *gin.Context, id *auth.Identity) {
	c.Set(identityKey, id)
}

// RequireUser rejects anonymous requests with 401
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c); !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects callers that fail the admin access check with 403 and
// the denial reason
func RequireAdmin(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		access := admin.ValidateAccess(id, ok, cfg)
		c.Set(accessKey, access)
		if !access.IsAdmin {
			status, code := http.StatusForbidden, "forbidden"
			if !ok {
				status, code = http.StatusUnauthorized, "unauthorized"
			}
			logger.Log.Warn().
				Str("reason", access.Reason).
				Str("path", c.Request.URL.Path).
				Str("request_id", RequestIDFrom(c)).
				Msg("Admin access denied")
			abort(c, status, code, access.Reason)
			return
		}
		c.Next()
	}
}

// AccessFrom returns the admin access decision made by RequireAdmin
func AccessFrom(c *gin.Context) (admin.Access, bool) {
	v, ok := c.Get(accessKey)
	if !ok {
		return admin.Access{}, false
	}
	access, ok := v.(admin.Access)
	return access, ok
}
