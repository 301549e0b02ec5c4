// Package setrole предоставляет HTTP‑обработчик смены роли пользователя.
// Администратор не может снять роль администратора с самого себя.
package setrole

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
	admin "github.com/medx-platform/medx-api/internal/services/admin"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

// RoleSetter определяет контракт административного сервиса для смены роли.
type RoleSetter interface {
	SetRole(ctx context.Context, actor *models.User, userUID, role string) error
}

type dummySetRole struct {
	Role string `json:"role" validate:"required,oneof=student admin"`
}

// New возвращает HTTP‑обработчик POST /admin/users/{uid}/role.
func New(ctx context.Context, log *slog.Logger, setter RoleSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.setrole.New"

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

		var dummyReq dummySetRole

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
		if err := setter.SetRole(ctx, actor, uid, dummyReq.Role); err != nil {
			if errors.Is(err, admin.ErrSelfDemotion) {
				log.Info("self-demotion attempt blocked", slog.String("user_uid", uid))
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("admin cannot demote themselves"))
				return
			}
			if errors.Is(err, repository.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("user not found"))
				return
			}
			log.Error("failed to set role", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to set role"))
			return
		}
		log.Info("role updated",
			slog.String("user_uid", uid), slog.String("role", dummyReq.Role))

		render.JSON(w, r, response.OK())
	}
}
