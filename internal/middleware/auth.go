// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/forgeworks/makerspace-backend/internal/core"
	"github.com/forgeworks/makerspace-backend/internal/permission"
)

const (
	UserIDKey      contextKey = "user_id"
	CampusIDKey    contextKey = "campus_id"
	PermissionsKey contextKey = "permissions"
	ClaimsKey      contextKey = "jwt_claims"
)

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

type AccessTokenClaims struct {
	UserID   string
	CampusID string
}

// PermissionSource resolves the effective permission set for a user.
type PermissionSource interface {
	PermissionsFor(ctx context.Context, userID string) (permission.Set, error)
}

func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, CampusIDKey, claims.CampusID)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Gate enforces resolved role permissions on authenticated routes.
type Gate struct {
	source PermissionSource
}

func NewGate(source PermissionSource) *Gate {
	return &Gate{source: source}
}

// Require resolves the caller's permission set and rejects the request
// unless every required tag is present. Superuser passes every check;
// lockout (without superuser) fails every check, even an empty one.
func (g *Gate) Require(
	tags ...permission.Tag,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			resolved, err := g.source.PermissionsFor(r.Context(), userID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					core.JSONError(w, core.NotFoundError("user not found"))
					return
				}
				core.InternalServerError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), PermissionsKey, resolved)

			if resolved.IsSuperuser() {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if resolved.IsLockedOut() {
				core.JSONError(w, core.ForbiddenError(
					"user access has been disabled by an administrator",
				))
				return
			}

			if !resolved.HasAll(tags...) {
				core.JSONError(
					w,
					core.ForbiddenError("user lacks required permissions"),
				)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireNone gates a route on authentication and lockout only.
func (g *Gate) RequireNone() func(http.Handler) http.Handler {
	return g.Require()
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func GetCampusID(ctx context.Context) string {
	if id, ok := ctx.Value(CampusIDKey).(string); ok {
		return id
	}
	return ""
}

// GetPermissions returns the permission set resolved by the Gate for
// this request, or nil on ungated routes.
func GetPermissions(ctx context.Context) permission.Set {
	if perms, ok := ctx.Value(PermissionsKey).(permission.Set); ok {
		return perms
	}
	return nil
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*AccessTokenClaims); ok {
		return claims
	}
	return nil
}

func IsAuthenticated(ctx context.Context) bool {
	return GetUserID(ctx) != ""
}
