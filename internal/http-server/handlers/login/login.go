// Package login предоставляет HTTP‑обработчик входа пользователя.
package login

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
	auth "github.com/medx-platform/medx-api/internal/services/auth"
)

// Authenticator определяет контракт сервиса аутентификации.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (token, role string, err error)
}

// New возвращает HTTP‑обработчик POST /login.
// Неверный логин и неверный пароль дают одинаковый ответ.
func New(ctx context.Context, log *slog.Logger, authenticator Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.login.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var dummyReq models.DummyLoginUser

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

		token, role, err := authenticator.Login(ctx, dummyReq.Username, dummyReq.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				log.Info("login rejected", slog.String("username", dummyReq.Username))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid credentials"))
				return
			}
			log.Error("failed to login user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to login"))
			return
		}
		log.Info("user logged in", slog.String("username", dummyReq.Username))

		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"token": token,
			"role":  role,
		}))
	}
}
