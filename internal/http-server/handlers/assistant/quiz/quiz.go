// Package quiz предоставляет HTTP‑обработчик генерации квиза по тексту
// учебного материала.
package quiz

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/medx-platform/medx-api/internal/http-server/response"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
	assistant "github.com/medx-platform/medx-api/internal/services/assistant"
)

// Generator определяет контракт генератора квизов.
type Generator interface {
	GenerateQuiz(ctx context.Context, sourceText string) ([]models.QuizQuestion, error)
}

// New возвращает HTTP‑обработчик POST /assistant/quiz.
func New(ctx context.Context, log *slog.Logger, generator Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.assistant.quiz.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var dummyReq models.DummyQuizRequest

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

		questions, err := generator.GenerateQuiz(ctx, dummyReq.SourceText)
		if err != nil {
			switch {
			case errors.Is(err, assistant.ErrEmptyInput):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("source text is empty"))
			case errors.Is(err, assistant.ErrGeneration):
				log.Error("quiz generation produced invalid output", sl.Err(err))
				render.Status(r, http.StatusBadGateway)
				render.JSON(w, r, response.Error("failed to generate a valid quiz, try again"))
			default:
				log.Error("quiz generation failed", sl.Err(err))
				render.Status(r, http.StatusBadGateway)
				render.JSON(w, r, response.Error("failed to generate quiz"))
			}
			return
		}
		log.Info("generated quiz", slog.Int("questions", len(questions)))

		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"quiz": questions,
		}))
	}
}
