package admin

import (
	"github.com/stwalsh4118/akmovies/internal/auth"
	"github.com/stwalsh4118/akmovies/internal/config"
)

// Access denial reasons
const (
	ReasonNotAuthenticated = "Not authenticated"
	ReasonUserNotFound     = "User not found"
	ReasonNoEmail          = "No email associated with account"
	ReasonEmailNotVerified = "Email not verified"
	ReasonNotAuthorized    = "Not authorized"
	ReasonAuthorized       = "Authorized"
)

// Access is the outcome of an admin access check
type Access struct {
	IsAdmin bool   `json:"isAdmin"`
	Reason  string `json:"reason"`
}

// ValidateAccess decides whether the caller may use admin features. A nil
// identity on an authenticated request means the user record is missing.
// An email explicitly marked unverified is refused when the config requires
// verification; an unknown verification state is allowed.
func ValidateAccess(id *auth.Identity, authenticated bool, cfg *config.AuthConfig) Access {
	if !authenticated {
		return Access{Reason: ReasonNotAuthenticated}
	}
	if id == nil {
		return Access{Reason: ReasonUserNotFound}
	}
	if id.Email == "" {
		return Access{Reason: ReasonNoEmail}
	}
	if cfg.RequireVerifiedEmail && id.EmailVerified != nil && !*id.EmailVerified {
		return Access{Reason: ReasonEmailNotVerified}
	}
	if !cfg.IsAdminEmail(id.Email) {
		return Access{Reason: ReasonNotAuthorized}
	}
	return Access{IsAdmin: true, Reason: ReasonAuthorized}
}
