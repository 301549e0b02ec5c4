// Package movetier предоставляет HTTP‑обработчик переноса материала между
// free и premium. Частично применённый перенос возвращает отдельную ошибку
// для ручного разрешения, а не маскируется под обычный сбой.
package movetier

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
	catalog "github.com/medx-platform/medx-api/internal/services/catalog"
	"github.com/medx-platform/medx-api/internal/storage/repository"
)

// TierMover определяет контракт административного сервиса для переноса материала.
type TierMover interface {
	MoveContentTier(ctx context.Context, actor *models.User, id string, newPremium bool) (*models.ContentItem, error)
}

type dummyMoveTier struct {
	Premium bool `json:"premium"`
}

// New возвращает HTTP‑обработчик POST /admin/content/{id}/tier.
func New(ctx context.Context, log *slog.Logger, mover TierMover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.movetier.New"

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

		var dummyReq dummyMoveTier

		if err := render.DecodeJSON(r.Body, &dummyReq); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		actor, _ := mware.Profile(r.Context())
		item, err := mover.MoveContentTier(ctx, actor, id, dummyReq.Premium)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("content not found"))
			case errors.Is(err, catalog.ErrReconcileNeeded):
				log.Error("tier move needs manual reconciliation", sl.Err(err))
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("tier move partially applied, manual reconciliation needed"))
			default:
				log.Error("failed to move content tier", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to move content tier"))
			}
			return
		}
		log.Info("moved content tier",
			slog.String("id", id), slog.Bool("premium", dummyReq.Premium))

		render.JSON(w, r, response.StatusOKWithData(item))
	}
}
