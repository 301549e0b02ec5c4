package submit_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medx-platform/medx-api/internal/http-server/handlers/feedback/submit"
	"github.com/medx-platform/medx-api/internal/http-server/mware"
	"github.com/medx-platform/medx-api/internal/lib/jwt"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
)

type mockSubmitter struct {
	SubmitFunc func(ctx context.Context, message string, userUID, email *string) (string, error)
}

func (m *mockSubmitter) Submit(ctx context.Context, message string, userUID, email *string) (string, error) {
	return m.SubmitFunc(ctx, message, userUID, email)
}

func TestSubmitHandler(t *testing.T) {
	t.Run("anonymous feedback accepted", func(t *testing.T) {
		mock := &mockSubmitter{SubmitFunc: func(_ context.Context, message string, userUID, email *string) (string, error) {
			require.Equal(t, "The platform is really helpful!", message)
			assert.Nil(t, userUID)
			assert.Nil(t, email)
			return "f1", nil
		}}

		body := `{"message": "The platform is really helpful!"}`
		req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(body))
		w := httptest.NewRecorder()

		submit.New(context.Background(), sl.Discard(), mock).ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "f1")
	})

	t.Run("authenticated feedback carries user uid", func(t *testing.T) {
		maker := jwt.NewJWTMaker("test-secret", time.Hour)
		token, err := maker.GenerateToken("student1", models.RoleStudent, "u1")
		require.NoError(t, err)

		var gotUID *string
		mock := &mockSubmitter{SubmitFunc: func(_ context.Context, _ string, userUID, _ *string) (string, error) {
			gotUID = userUID
			return "f2", nil
		}}

		body := `{"message": "Please add more premium anatomy books."}`
		req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handler := mware.OptionalJWTMiddleware(maker, sl.Discard())(
			submit.New(context.Background(), sl.Discard(), mock))
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, gotUID)
		assert.Equal(t, "u1", *gotUID)
	})

	t.Run("too short message rejected", func(t *testing.T) {
		mock := &mockSubmitter{SubmitFunc: func(_ context.Context, _ string, _, _ *string) (string, error) {
			t.Fatal("Submit should not be called for invalid request")
			return "", nil
		}}

		body := `{"message": "short"}`
		req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(body))
		w := httptest.NewRecorder()

		submit.New(context.Background(), sl.Discard(), mock).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("broken json rejected", func(t *testing.T) {
		mock := &mockSubmitter{SubmitFunc: func(_ context.Context, _ string, _, _ *string) (string, error) {
			t.Fatal("Submit should not be called for broken request")
			return "", nil
		}}

		req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader("{broken"))
		w := httptest.NewRecorder()

		submit.New(context.Background(), sl.Discard(), mock).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
