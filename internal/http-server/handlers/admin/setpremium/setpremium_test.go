package setpremium_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medx-platform/medx-api/internal/http-server/handlers/admin/setpremium"
	"github.com/medx-platform/medx-api/internal/http-server/mware"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

type mockPremiumSetter struct {
	SetPremiumFunc func(ctx context.Context, actor *models.User, userUID string, premium bool, months int) (*models.User, error)
}

func (m *mockPremiumSetter) SetPremium(ctx context.Context, actor *models.User, userUID string, premium bool, months int) (*models.User, error) {
	return m.SetPremiumFunc(ctx, actor, userUID, premium, months)
}

func newRequest(t *testing.T, uid, body string, actor *models.User) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/admin/users/"+uid+"/premium", strings.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("uid", uid)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if actor != nil {
		ctx = context.WithValue(ctx, mware.ProfileKey, actor)
	}
	return req.WithContext(ctx)
}

func TestSetPremiumHandler(t *testing.T) {
	actor := &models.User{UID: "admin-1", Role: models.RoleAdmin}

	t.Run("premium granted", func(t *testing.T) {
		mock := &mockPremiumSetter{SetPremiumFunc: func(_ context.Context, gotActor *models.User, userUID string, premium bool, months int) (*models.User, error) {
			require.Equal(t, "admin-1", gotActor.UID)
			require.Equal(t, "u2", userUID)
			require.True(t, premium)
			require.Equal(t, 3, months)
			return &models.User{UID: "u2", IsPremium: true}, nil
		}}

		w := httptest.NewRecorder()
		setpremium.New(context.Background(), sl.Discard(), mock).
			ServeHTTP(w, newRequest(t, "u2", `{"premium": true, "months": 3}`, actor))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"is_premium":true`)
	})

	t.Run("unknown user not found", func(t *testing.T) {
		mock := &mockPremiumSetter{SetPremiumFunc: func(_ context.Context, _ *models.User, _ string, _ bool, _ int) (*models.User, error) {
			return nil, repository.ErrNotFound
		}}

		w := httptest.NewRecorder()
		setpremium.New(context.Background(), sl.Discard(), mock).
			ServeHTTP(w, newRequest(t, "ghost", `{"premium": true}`, actor))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
