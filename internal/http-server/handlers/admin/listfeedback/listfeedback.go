// Package listfeedback предоставляет HTTP‑обработчик списка отзывов
// для консоли администратора.
package listfeedback

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/medx-platform/medx-api/internal/http-server/mware"
	"github.com/medx-platform/medx-api/internal/http-server/response"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
)

// FeedbackLister определяет контракт административного сервиса для списка отзывов.
type FeedbackLister interface {
	ListFeedback(ctx context.Context, actor *models.User, limit, offset int) ([]*models.FeedbackItem, error)
}

// New возвращает HTTP‑обработчик GET /admin/feedback.
func New(ctx context.Context, log *slog.Logger, lister FeedbackLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.listfeedback.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		limit := 50
		offset := 0
		if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
			limit = v
		}
		if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
			offset = v
		}

		actor, _ := mware.Profile(r.Context())
		items, err := lister.ListFeedback(ctx, actor, limit, offset)
		if err != nil {
			log.Error("failed to list feedback", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list feedback"))
			return
		}

		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"feedback":       items,
			"feedback_count": len(items),
		}))
	}
}
