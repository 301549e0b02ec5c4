// Package listusers предоставляет HTTP‑обработчик списка пользователей
// для консоли администратора.
package listusers

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

// UserLister определяет контракт административного сервиса для списка пользователей.
type UserLister interface {
	ListUsers(ctx context.Context, actor *models.User, limit, offset int) ([]*models.User, error)
}

// New возвращает HTTP‑обработчик GET /admin/users.
func New(ctx context.Context, log *slog.Logger, lister UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.listusers.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		limit, offset := pagination(r)

		actor, _ := mware.Profile(r.Context())
		users, err := lister.ListUsers(ctx, actor, limit, offset)
		if err != nil {
			log.Error("failed to list users", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list users"))
			return
		}

		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"users":       users,
			"users_count": len(users),
		}))
	}
}

func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
