// Package feedbackstatus предоставляет HTTP‑обработчик смены статуса отзыва.
package feedbackstatus

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/medx-platform/medx-api/internal/http-server/mware"
	"github.com/medx-platform/medx-api/internal/http-server/response"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

// StatusUpdater определяет контракт административного сервиса для смены статуса отзыва.
type StatusUpdater interface {
	UpdateFeedbackStatus(ctx context.Context, actor *models.User, id, status string) error
}

// New возвращает HTTP‑обработчик PATCH /admin/feedback/{id}.
func New(ctx context.Context, log *slog.Logger, updater StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.feedbackstatus.New"

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

		var dummyReq models.DummyFeedbackStatus

		if err := render.DecodeJSON(r.Body, &dummyReq); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err := validator.New().Struct(dummyReq); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		actor, _ := mware.Profile(r.Context())
		if err := updater.UpdateFeedbackStatus(ctx, actor, id, dummyReq.Status); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("feedback not found"))
				return
			}
			log.Error("failed to update feedback status", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update feedback status"))
			return
		}
		log.Info("updated feedback status",
			slog.String("id", id), slog.String("status", dummyReq.Status))

		render.JSON(w, r, response.OK())
	}
}
