// Package resetpassword предоставляет HTTP‑обработчик запроса
// восстановления пароля. Ответ одинаков для известных и неизвестных
// адресов, чтобы не раскрывать зарегистрированные email.
package resetpassword

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/medx-platform/medx-api/internal/http-server/response"
	"github.com/medx-platform/medx-api/internal/lib/sl"
)

// ResetRequester определяет контракт сервиса восстановления пароля.
type ResetRequester interface {
	RequestPasswordReset(ctx context.Context, email string) error
}

type dummyResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// New возвращает HTTP‑обработчик POST /reset-password.
func New(ctx context.Context, log *slog.Logger, requester ResetRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.resetpassword.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var dummyReq dummyResetRequest

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

		if err := requester.RequestPasswordReset(ctx, dummyReq.Email); err != nil {
			log.Error("failed to request password reset", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to request password reset"))
			return
		}

		render.JSON(w, r, response.OK())
	}
}
