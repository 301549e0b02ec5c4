// Package deletefeedback предоставляет HTTP‑обработчик удаления отзыва.
package deletefeedback

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/medx-platform/medx-api/internal/http-server/mware"
	"github.com/medx-platform/medx-api/internal/http-server/response"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

// FeedbackDeleter определяет контракт административного сервиса для удаления отзыва.
type FeedbackDeleter interface {
	DeleteFeedback(ctx context.Context, actor *models.User, id string) error
}

// New возвращает HTTP‑обработчик DELETE /admin/feedback/{id}.
func New(ctx context.Context, log *slog.Logger, deleter FeedbackDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.deletefeedback.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("missing feedback id in url")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("missing feedback id"))
			return
		}

		actor, _ := mware.Profile(r.Context())
		if err := deleter.DeleteFeedback(ctx, actor, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("feedback not found"))
				return
			}
			log.Error("failed to delete feedback", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to delete feedback"))
			return
		}
		log.Info("deleted feedback", slog.String("id", id))

		render.JSON(w, r, response.OK())
	}
}
