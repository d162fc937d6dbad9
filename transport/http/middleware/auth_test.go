package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"niseko/config"
	"niseko/infras/jwt"
	jwtMocks "niseko/infras/jwt/mocks"
	otelMocks "niseko/infras/otel/mocks"
	"niseko/permissions"
	"niseko/shared/constant"
	"niseko/transport/http/middleware"
)

func newRouter(t *testing.T) (*jwtMocks.MockJWT, http.Handler) {
	t.Helper()

	jwtService := jwtMocks.NewMockJWT(gomock.NewController(t))

	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	m := middleware.NewAuthRoleMiddleware(jwtService, otelMocks.NewOtel(), permissions.Get(), cfg)

	echo := func(w http.ResponseWriter, r *http.Request) {
		user, _ := r.Context().Value(constant.ContextKeyUserID).(string)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(user))
	}

	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		r.Use(m.APIKey, m.Auth, m.RBAC)
		r.Get("/rooms", echo)
		r.Get("/guests/me/session", echo)
		r.Get("/guests/{guestId}", echo)
		r.Delete("/tasks/{id}", echo)
	})

	return jwtService, router
}

func bearer(req *http.Request, token string) *http.Request {
	req.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+token)

	return req
}

func TestAuthRole(t *testing.T) {
	tests := []struct {
		name     string
		request  func() *http.Request
		claims   *jwt.Claims
		tokenErr error
		wantCode int
		wantBody string
	}{
		{
			name:     "public route without token",
			request:  func() *http.Request { return httptest.NewRequest(http.MethodGet, "/v1/rooms", nil) },
			wantCode: http.StatusOK,
		},
		{
			name:     "missing header",
			request:  func() *http.Request { return httptest.NewRequest(http.MethodGet, "/v1/guests/g-1", nil) },
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			request: func() *http.Request {
				return bearer(httptest.NewRequest(http.MethodGet, "/v1/guests/g-1", nil), "old")
			},
			tokenErr: jwt.ErrExpiredToken,
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "staff reads guest",
			request: func() *http.Request {
				return bearer(httptest.NewRequest(http.MethodGet, "/v1/guests/g-1", nil), "staff")
			},
			claims:   &jwt.Claims{UserID: "staff-1", Role: constant.RoleStaff},
			wantCode: http.StatusOK,
			wantBody: "staff-1",
		},
		{
			name: "guest cannot read other guests",
			request: func() *http.Request {
				return bearer(httptest.NewRequest(http.MethodGet, "/v1/guests/g-2", nil), "guest")
			},
			claims:   &jwt.Claims{UserID: "g-1", Role: constant.RoleGuest},
			wantCode: http.StatusForbidden,
		},
		{
			name: "guest reads own session",
			request: func() *http.Request {
				return bearer(httptest.NewRequest(http.MethodGet, "/v1/guests/me/session", nil), "guest")
			},
			claims:   &jwt.Claims{UserID: "g-1", Role: constant.RoleGuest},
			wantCode: http.StatusOK,
			wantBody: "g-1",
		},
		{
			name: "staff cannot delete tasks",
			request: func() *http.Request {
				return bearer(httptest.NewRequest(http.MethodDelete, "/v1/tasks/t-1", nil), "staff")
			},
			claims:   &jwt.Claims{UserID: "staff-1", Role: constant.RoleStaff},
			wantCode: http.StatusForbidden,
		},
		{
			name: "claims without role",
			request: func() *http.Request {
				return bearer(httptest.NewRequest(http.MethodGet, "/v1/guests/g-1", nil), "odd")
			},
			claims:   &jwt.Claims{UserID: "someone"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "internal api key",
			request: func() *http.Request {
				req := httptest.NewRequest(http.MethodDelete, "/v1/tasks/t-1", nil)
				req.Header.Set(constant.RequestHeaderAPIKey, "internal-key")

				return req
			},
			wantCode: http.StatusOK,
		},
		{
			name: "wrong api key",
			request: func() *http.Request {
				req := httptest.NewRequest(http.MethodDelete, "/v1/tasks/t-1", nil)
				req.Header.Set(constant.RequestHeaderAPIKey, "guess")

				return req
			},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService, router := newRouter(t)

			if tt.claims != nil || tt.tokenErr != nil {
				jwtService.EXPECT().ValidateToken(gomock.Any(), jwt.AccessToken).Return(tt.claims, tt.tokenErr)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, tt.request())

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
