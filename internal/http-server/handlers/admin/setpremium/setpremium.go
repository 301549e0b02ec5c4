// Package setpremium предоставляет HTTP‑обработчик включения и выключения
// premium-подписки пользователя администратором.
package setpremium

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

// PremiumSetter определяет контракт административного сервиса для смены подписки.
type PremiumSetter interface {
	SetPremium(ctx context.Context, actor *models.User, userUID string, premium bool, months int) (*models.User, error)
}

type dummySetPremium struct {
	Premium bool `json:"premium"`
	Months  int  `json:"months"`
}

// New возвращает HTTP‑обработчик POST /admin/users/{uid}/premium.
func New(ctx context.Context, log *slog.Logger, setter PremiumSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.setpremium.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		uid := chi.URLParam(r, "uid")
		if uid == "" {
			log.Error("missing user uid in url")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("missing user uid"))
			return
		}

		var dummyReq dummySetPremium

		if err := render.DecodeJSON(r.Body, &dummyReq); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		actor, _ := mware.Profile(r.Context())
		user, err := setter.SetPremium(ctx, actor, uid, dummyReq.Premium, dummyReq.Months)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("user not found"))
				return
			}
			log.Error("failed to set premium flag", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to set premium"))
			return
		}
		log.Info("premium flag updated",
			slog.String("user_uid", uid), slog.Bool("premium", dummyReq.Premium))

		render.JSON(w, r, response.StatusOKWithData(user))
	}
}
