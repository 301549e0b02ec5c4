// Package list предоставляет HTTP‑обработчик листинга материалов одной
// партиции уровень+тариф. Premium-партиция доступна только пользователю
// с действующей подпиской.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/medx-platform/medx-api/internal/http-server/mware"
	"github.com/medx-platform/medx-api/internal/http-server/response"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
)

// Lister определяет контракт каталога для получения списка материалов.
type Lister interface {
	List(ctx context.Context, level int, premium bool) ([]*models.ContentItem, error)
}

// New возвращает HTTP‑обработчик GET /content/{level}?tier=.
func New(ctx context.Context, log *slog.Logger, lister Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.content.list.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		level, err := strconv.Atoi(chi.URLParam(r, "level"))
		if err != nil || (level != models.Level100 && level != models.Level200) {
			log.Error("invalid level in url")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid level"))
			return
		}

		premium := r.URL.Query().Get("tier") == "premium"

		if premium {
			profile, ok := mware.Profile(r.Context())
			if !ok || !profile.IsPremium {
				log.Info("premium listing denied", slog.Int("level", level))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("premium subscription required"))
				return
			}
		}

		items, err := lister.List(ctx, level, premium)
		if err != nil {
			log.Error("failed to list content", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list content"))
			return
		}
		log.Info("listed content partition",
			slog.String("partition", models.PartitionKey(level, premium)),
			slog.Int("count", len(items)))

		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"items":       items,
			"items_count": len(items),
		}))
	}
}
