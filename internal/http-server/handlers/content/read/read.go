// Package read предоставляет HTTP‑обработчик чтения одного материала.
// Для premium-материала проверяется действующая подписка пользователя;
// при отказе ссылка на файл не возвращается.
package read

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
	entitlement "github.com/medx-platform/medx-api/internal/services/entitlement"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

// Getter определяет контракт каталога для получения материала по ID.
type Getter interface {
	Get(ctx context.Context, id string) (*models.ContentItem, error)
}

// New возвращает HTTP‑обработчик GET /content/{level}/{id}.
func New(ctx context.Context, log *slog.Logger, getter Getter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.content.read.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("missing content id in url")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("missing content id"))
			return
		}

		item, err := getter.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("content not found"))
				return
			}
			log.Error("failed to get content", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get content"))
			return
		}

		profile, _ := mware.Profile(r.Context())
		if !entitlement.CanAccess(item, profile) {
			log.Info("premium content access denied", slog.String("id", id))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("premium subscription required"))
			return
		}

		render.JSON(w, r, response.StatusOKWithData(item))
	}
}
