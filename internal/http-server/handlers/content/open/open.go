// Package open предоставляет HTTP‑обработчик учёта открытия материала.
// Счётчик инкрементируется атомарно на стороне хранилища.
package open

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

// Opener определяет контракт каталога для учёта открытия материала.
type Opener interface {
	Get(ctx context.Context, id string) (*models.ContentItem, error)
	RecordOpen(ctx context.Context, id string) error
}

// New возвращает HTTP‑обработчик POST /content/{level}/{id}/open.
func New(ctx context.Context, log *slog.Logger, opener Opener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.content.open.New"

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

		item, err := opener.Get(ctx, id)
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
			log.Info("premium content open denied", slog.String("id", id))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("premium subscription required"))
			return
		}

		if err := opener.RecordOpen(ctx, id); err != nil {
			log.Error("failed to record content open", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to record open"))
			return
		}
		log.Info("recorded content open", slog.String("id", id))

		render.JSON(w, r, response.OK())
	}
}
