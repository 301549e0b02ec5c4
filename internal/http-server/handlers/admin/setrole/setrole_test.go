package setrole_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medx-platform/medx-api/internal/http-server/handlers/admin/setrole"
	"github.com/medx-platform/medx-api/internal/http-server/mware"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
	admin "github.com/medx-platform/medx-api/internal/services/admin"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

type mockRoleSetter struct {
	SetRoleFunc func(ctx context.Context, actor *models.User, userUID, role string) error
}

func (m *mockRoleSetter) SetRole(ctx context.Context, actor *models.User, userUID, role string) error {
	return m.SetRoleFunc(ctx, actor, userUID, role)
}

func newRequest(t *testing.T, uid, body string, actor *models.User) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin/users/"+uid+"/role", strings.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("uid", uid)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if actor != nil {
		ctx = context.WithValue(ctx, mware.ProfileKey, actor)
	}
	return req.WithContext(ctx)
}

func TestSetRoleHandler(t *testing.T) {
	actor := &models.User{UID: "admin-1", Role: models.RoleAdmin}

	t.Run("success", func(t *testing.T) {
		mock := &mockRoleSetter{SetRoleFunc: func(_ context.Context, gotActor *models.User, userUID, role string) error {
			require.Equal(t, "admin-1", gotActor.UID)
			require.Equal(t, "u2", userUID)
			require.Equal(t, models.RoleAdmin, role)
			return nil
		}}

		w := httptest.NewRecorder()
		setrole.New(context.Background(), sl.Discard(), mock).
			ServeHTTP(w, newRequest(t, "u2", `{"role": "admin"}`, actor))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("self demotion conflict", func(t *testing.T) {
		mock := &mockRoleSetter{SetRoleFunc: func(_ context.Context, _ *models.User, _, _ string) error {
			return admin.ErrSelfDemotion
		}}

		w := httptest.NewRecorder()
		setrole.New(context.Background(), sl.Discard(), mock).
			ServeHTTP(w, newRequest(t, "admin-1", `{"role": "student"}`, actor))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown user not found", func(t *testing.T) {
		mock := &mockRoleSetter{SetRoleFunc: func(_ context.Context, _ *models.User, _, _ string) error {
			return repository.ErrNotFound
		}}

		w := httptest.NewRecorder()
		setrole.New(context.Background(), sl.Discard(), mock).
			ServeHTTP(w, newRequest(t, "ghost", `{"role": "student"}`, actor))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		mock := &mockRoleSetter{SetRoleFunc: func(_ context.Context, _ *models.User, _, _ string) error {
			t.Fatal("SetRole should not be called for invalid role")
			return nil
		}}

		w := httptest.NewRecorder()
		setrole.New(context.Background(), sl.Discard(), mock).
			ServeHTTP(w, newRequest(t, "u2", `{"role": "superuser"}`, actor))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
