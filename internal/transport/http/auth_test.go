package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macaraegjami/mobile-backend/internal/domain"
)

type stubAuth struct {
	principal domain.Principal
	err       error
}

func (s *stubAuth) Authenticate(context.Context, string) (domain.Principal, error) {
	if s.err != nil {
		return domain.Principal{}, s.err
	}
	return s.principal, nil
}

func TestRequireAuth_MissingToken(t *testing.T) {
	handler := RequireAuth(&stubAuth{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/holds/mine", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	handler := RequireAuth(&stubAuth{err: domain.ErrInvalidToken})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/holds/mine", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, codeUnauthorized, decodeErr(t, rec).Code)
}

func TestRequireAuth_PrincipalReachesHandler(t *testing.T) {
	want := domain.Principal{UserID: "user-1", Role: domain.RoleStaff}
	var got domain.Principal

	handler := RequireAuth(&stubAuth{principal: want})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = principalFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/holds/mine", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, want, got)
}
