// Package update предоставляет HTTP‑обработчик смены отображаемого имени
// в личном кабинете. Логин и почта через этот маршрут не меняются.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/medx-platform/medx-api/internal/http-server/mware"
	"github.com/medx-platform/medx-api/internal/http-server/response"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

// NameUpdater определяет контракт сервиса для смены отображаемого имени.
type NameUpdater interface {
	UpdateDisplayName(ctx context.Context, userUID, displayName string) (*models.User, error)
}

// New возвращает HTTP‑обработчик PATCH /account.
func New(ctx context.Context, log *slog.Logger, updater NameUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.account.update.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		uid, ok := r.Context().Value(mware.UIDKey).(string)
		if !ok || uid == "" {
			log.Error("missing user uid in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}

		var dummyReq models.DummyUpdateAccount

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

		user, err := updater.UpdateDisplayName(ctx, uid, dummyReq.DisplayName)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("user not found"))
				return
			}
			log.Error("failed to update display name", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update display name"))
			return
		}
		log.Info("display name updated", slog.String("user_uid", uid))

		render.JSON(w, r, response.StatusOKWithData(user))
	}
}
