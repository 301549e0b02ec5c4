// Package help предоставляет HTTP‑обработчик вопросов к помощнику.
// Пустой вопрос и сбой языковой модели не являются ошибками HTTP:
// клиент в обоих случаях получает фиксированный текст ответа.
package help

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/medx-platform/medx-api/internal/http-server/response"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
)

// Helper определяет контракт помощника.
type Helper interface {
	AskHelp(ctx context.Context, question string) (string, error)
}

// New возвращает HTTP‑обработчик POST /assistant/help.
func New(ctx context.Context, log *slog.Logger, helper Helper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.assistant.help.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var dummyReq models.DummyHelpRequest

		if err := render.DecodeJSON(r.Body, &dummyReq); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		answer, err := helper.AskHelp(ctx, dummyReq.Question)
		if err != nil {
			log.Error("help request failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to answer question"))
			return
		}

		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"answer": answer,
		}))
	}
}
