// Package deletecontent предоставляет HTTP‑обработчик окончательного
// удаления материала из каталога.
package deletecontent

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

// ContentDeleter определяет контракт административного сервиса для удаления материала.
type ContentDeleter interface {
	DeleteContent(ctx context.Context, actor *models.User, id string) error
}

// New возвращает HTTP‑обработчик DELETE /admin/content/{id}.
func New(ctx context.Context, log *slog.Logger, deleter ContentDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.deletecontent.New"

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

		actor, _ := mware.Profile(r.Context())
		if err := deleter.DeleteContent(ctx, actor, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("content not found"))
				return
			}
			log.Error("failed to delete content", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to delete content"))
			return
		}
		log.Info("deleted content item", slog.String("id", id))

		render.JSON(w, r, response.OK())
	}
}
