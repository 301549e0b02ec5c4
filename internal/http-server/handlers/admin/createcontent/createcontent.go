// Package createcontent предоставляет HTTP‑обработчик добавления нового
// материала в каталог. FilePath — ссылка на файл во внешнем хранилище.
package createcontent

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

// ContentCreator определяет контракт административного сервиса для добавления материала.
type ContentCreator interface {
	CreateContent(ctx context.Context, actor *models.User, item models.ContentItem) (string, error)
}

// New возвращает HTTP‑обработчик POST /admin/content.
func New(ctx context.Context, log *slog.Logger, creator ContentCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.createcontent.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var dummyReq models.DummyContentItem

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

		item := models.ContentItem{
			Title:       dummyReq.Title,
			Description: dummyReq.Description,
			Author:      dummyReq.Author,
			Level:       dummyReq.Level,
			IsPremium:   dummyReq.IsPremium,
			FilePath:    dummyReq.FilePath,
		}
		if actor != nil {
			item.CreatorUID = actor.UID
		}

		id, err := creator.CreateContent(ctx, actor, item)
		if err != nil {
			log.Error("failed to create content", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create content"))
			return
		}
		log.Info("created content item", slog.String("id", id))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"id": id,
		}))
	}
}
