// Package submit предоставляет HTTP‑обработчик приёма отзыва.
// Маршрут открытый: отзыв может быть анонимным. Если запрос пришёл
// с валидным JWT, отзыв привязывается к пользователю.
package submit

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/medx-platform/medx-api/internal/http-server/mware"
	"github.com/medx-platform/medx-api/internal/http-server/response"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
)

// Submitter определяет контракт сервиса отзывов для приёма нового отзыва.
type Submitter interface {
	Submit(ctx context.Context, message string, userUID, email *string) (string, error)
}

// New возвращает HTTP‑обработчик POST /feedback.
func New(ctx context.Context, log *slog.Logger, submitter Submitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.feedback.submit.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var dummyReq models.DummyFeedbackItem

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

		var userUID, email *string
		if uid, ok := r.Context().Value(mware.UIDKey).(string); ok && uid != "" {
			userUID = &uid
		}
		if dummyReq.Email != "" {
			email = &dummyReq.Email
		}

		id, err := submitter.Submit(ctx, dummyReq.Message, userUID, email)
		if err != nil {
			log.Error("failed to submit feedback", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to submit feedback"))
			return
		}
		log.Info("feedback accepted", slog.String("id", id))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"id": id,
		}))
	}
}
