package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"niseko/config"
	"niseko/infras/jwt"
	"niseko/infras/otel"
	"niseko/permissions"
	"niseko/shared/constant"
	"niseko/shared/failure"
	"niseko/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type contextKey string

// ctxKeyInternal marks requests authenticated with the service API key.
const ctxKeyInternal contextKey = "internal"

// AuthRole authenticates callers and enforces the route rule table.
// Chain order is APIKey, Auth, RBAC.
type AuthRole interface {
	APIKey(http.Handler) http.Handler
	Auth(http.Handler) http.Handler
	RBAC(http.Handler) http.Handler
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	rules      *permissions.Table
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, rules *permissions.Table, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		rules:      rules,
		cfg:        cfg,
	}
}

func isInternal(ctx context.Context) bool {
	internal, _ := ctx.Value(ctxKeyInternal).(bool)

	return internal
}

// rule resolves the chi route pattern for the request and looks it up.
func (m *authRoleImpl) rule(r *http.Request) (permissions.Rule, bool) {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || m.rules == nil {
		return permissions.Rule{}, false
	}

	pattern := rctx.Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path)

	return m.rules.Find(r.Method, pattern)
}

func reject(w http.ResponseWriter, scope otel.Scope, err error) {
	scope.TraceError(err)
	response.WithError(w, err)
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, jwt.ErrInvalidClaim):
		return "Invalid token claims"
	case errors.Is(err, jwt.ErrInvalidToken):
		return "Invalid token"
	default:
		return "Token validation failed"
	}
}

// APIKey lets internal services through with X-API-Key. Requests without the
// header continue to token authentication.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		key := r.Header.Get(constant.RequestHeaderAPIKey)
		if key == constant.Empty {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(w, r)

			return
		}

		scope.SetAttribute("http.source", "internal")

		expected := m.cfg.App.APIKey
		if expected == constant.Empty || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			reject(w, scope, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyInternal, true)))
	})
}

// Auth validates the bearer access token and stores its claims on the context.
// Staff tokens carry an email; guest tokens only carry the guest id and role.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		if isInternal(ctx) {
			next.ServeHTTP(w, r)

			return
		}

		if rule, ok := m.rule(r); ok && rule.Public {
			next.ServeHTTP(w, r)

			return
		}

		header := r.Header.Get(constant.RequestHeaderAuthorization)
		if header == constant.Empty {
			reject(w, scope, failure.Unauthorized("Missing authorization header"))

			return
		}

		token, err := jwt.ExtractTokenFromHeader(header)
		if err != nil {
			reject(w, scope, failure.Unauthorized("Invalid authorization header format"))

			return
		}

		claims, err := m.jwtService.ValidateToken(token, jwt.AccessToken)
		if err != nil {
			reject(w, scope, failure.Unauthorized(tokenErrorMessage(err)))

			return
		}

		if claims.UserID == constant.Empty || claims.Role == constant.Empty {
			log.Warn().Str("token_id", claims.TokenID).Msg("access token without subject or role")
			reject(w, scope, failure.Unauthorized("Invalid token claims"))

			return
		}

		scope.SetAttributes(map[string]any{
			"auth.subject": claims.UserID,
			"auth.role":    claims.Role,
		})

		ctx = r.Context()
		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RBAC checks the caller's role against the route rule. Routes without a rule
// fall through so chi can answer 404 or 405.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if isInternal(ctx) {
			next.ServeHTTP(w, r)

			return
		}

		if m.rules == nil {
			reject(w, scope, failure.ForbiddenError)

			return
		}

		rule, ok := m.rule(r)
		if m.rules.Disabled || !ok {
			next.ServeHTTP(w, r)

			return
		}

		role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
		if !rule.Allows(role) {
			scope.SetAttributes(map[string]any{
				"user_role":     role,
				"allowed_roles": rule.Roles,
			})
			reject(w, scope, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r)
	})
}
