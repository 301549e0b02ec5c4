package mware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medx-platform/medx-api/internal/http-server/mware"
	"github.com/medx-platform/medx-api/internal/lib/jwt"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
)

type mockLoader struct {
	profile *models.User
	err     error
	calls   int
}

func (m *mockLoader) EnsureCurrentByUID(_ context.Context, _ string) (*models.User, error) {
	m.calls++
	return m.profile, m.err
}

func TestJWTMiddleware(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)

	t.Run("valid token populates context", func(t *testing.T) {
		token, err := maker.GenerateToken("student1", models.RoleStudent, "u1")
		require.NoError(t, err)

		var gotUser, gotRole, gotUID string
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			gotUser, _ = r.Context().Value(mware.UserKey).(string)
			gotRole, _ = r.Context().Value(mware.RoleKey).(string)
			gotUID, _ = r.Context().Value(mware.UIDKey).(string)
		})

		req := httptest.NewRequest(http.MethodGet, "/content", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		mware.JWTMiddleware(maker, sl.Discard())(next).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "student1", gotUser)
		assert.Equal(t, models.RoleStudent, gotRole)
		assert.Equal(t, "u1", gotUID)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			t.Fatal("next handler should not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/content", nil)
		w := httptest.NewRecorder()

		mware.JWTMiddleware(maker, sl.Discard())(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			t.Fatal("next handler should not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/content", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()

		mware.JWTMiddleware(maker, sl.Discard())(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalJWTMiddleware(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)

	t.Run("valid token populates context", func(t *testing.T) {
		token, err := maker.GenerateToken("student1", models.RoleStudent, "u1")
		require.NoError(t, err)

		var gotUID string
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			gotUID, _ = r.Context().Value(mware.UIDKey).(string)
		})

		req := httptest.NewRequest(http.MethodPost, "/feedback", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		mware.OptionalJWTMiddleware(maker, sl.Discard())(next).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u1", gotUID)
	})

	t.Run("missing header passes through anonymously", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			called = true
			_, ok := r.Context().Value(mware.UIDKey).(string)
			assert.False(t, ok)
		})

		req := httptest.NewRequest(http.MethodPost, "/feedback", nil)
		w := httptest.NewRecorder()

		mware.OptionalJWTMiddleware(maker, sl.Discard())(next).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	})

	t.Run("garbage token treated as anonymous", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			called = true
			_, ok := r.Context().Value(mware.UIDKey).(string)
			assert.False(t, ok)
		})

		req := httptest.NewRequest(http.MethodPost, "/feedback", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()

		mware.OptionalJWTMiddleware(maker, sl.Discard())(next).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	})
}

func TestEntitlementRefresh(t *testing.T) {
	t.Run("profile stored in context", func(t *testing.T) {
		loader := &mockLoader{profile: &models.User{UID: "u1", IsPremium: true}}

		var got *models.User
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got, _ = mware.Profile(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/content", nil)
		req = req.WithContext(context.WithValue(req.Context(), mware.UIDKey, "u1"))
		w := httptest.NewRecorder()

		mware.EntitlementRefresh(loader, sl.Discard())(next).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, got)
		assert.True(t, got.IsPremium)
		assert.Equal(t, 1, loader.calls)
	})

	t.Run("missing uid rejected", func(t *testing.T) {
		loader := &mockLoader{}
		next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			t.Fatal("next handler should not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/content", nil)
		w := httptest.NewRecorder()

		mware.EntitlementRefresh(loader, sl.Discard())(next).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 0, loader.calls)
	})
}

func TestRequireAdmin(t *testing.T) {
	next := func(called *bool) http.HandlerFunc {
		return func(_ http.ResponseWriter, _ *http.Request) {
			*called = true
		}
	}

	t.Run("admin passes", func(t *testing.T) {
		called := false
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req = req.WithContext(context.WithValue(req.Context(), mware.ProfileKey,
			&models.User{UID: "a1", Role: models.RoleAdmin}))
		w := httptest.NewRecorder()

		mware.RequireAdmin(sl.Discard())(next(&called)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	})

	t.Run("student forbidden", func(t *testing.T) {
		called := false
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req = req.WithContext(context.WithValue(req.Context(), mware.ProfileKey,
			&models.User{UID: "u1", Role: models.RoleStudent}))
		w := httptest.NewRecorder()

		mware.RequireAdmin(sl.Discard())(next(&called)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, called)
	})

	t.Run("no profile forbidden", func(t *testing.T) {
		called := false
		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		w := httptest.NewRecorder()

		mware.RequireAdmin(sl.Discard())(next(&called)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, called)
	})
}
