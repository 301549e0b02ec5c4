// Package mware содержит HTTP middleware: проверку JWT, актуализацию
// premium-статуса профиля, проверку роли администратора и ограничение
// частоты запросов.
package mware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/medx-platform/medx-api/internal/http-server/response"
	"github.com/medx-platform/medx-api/internal/lib/jwt"
	"github.com/medx-platform/medx-api/internal/lib/sl"
	"github.com/medx-platform/medx-api/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserKey — ключ для имени пользователя в контексте
	UserKey Key = "username"
	// RoleKey — ключ для роли пользователя в контексте
	RoleKey Key = "role"
	// UIDKey — ключ для UID пользователя в контексте
	UIDKey Key = "user_uid"
	// ProfileKey — ключ для актуального профиля пользователя в контексте
	ProfileKey Key = "profile"
)

// ProfileLoader загружает профиль пользователя и снимает истёкшую подписку.
type ProfileLoader interface {
	EnsureCurrentByUID(ctx context.Context, userUID string) (*models.User, error)
}

// JWTMiddleware проверяет JWT в заголовке Authorization и кладёт имя
// пользователя, роль и UID из claims в контекст запроса.
func JWTMiddleware(jwtMaker jwt.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const op = "mware.JWTMiddleware"

			log = log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := jwtMaker.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), UserKey, claims.Username)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			ctx = context.WithValue(ctx, UIDKey, claims.UserUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWTMiddleware кладёт данные из claims в контекст, если запрос
// пришёл с валидным JWT, и пропускает запрос дальше без них в остальных
// случаях. Используется на открытых маршрутах, где авторизация не
// обязательна, но известный пользователь должен быть привязан к действию.
func OptionalJWTMiddleware(jwtMaker jwt.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const op = "mware.OptionalJWTMiddleware"

			if !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := jwtMaker.ParseToken(tokenStr)
			if err != nil {
				log.Info("ignoring invalid token on open route",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), UserKey, claims.Username)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			ctx = context.WithValue(ctx, UIDKey, claims.UserUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EntitlementRefresh загружает профиль пользователя по UID из контекста.
// Истёкшая premium-подписка снимается при первом же запросе после
// истечения, поэтому обработчики всегда видят актуальный профиль.
func EntitlementRefresh(loader ProfileLoader, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "mware.EntitlementRefresh"

			log = log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			uid, ok := r.Context().Value(UIDKey).(string)
			if !ok || uid == "" {
				log.Error("missing user uid in context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			profile, err := loader.EnsureCurrentByUID(r.Context(), uid)
			if err != nil {
				log.Error("failed to load user profile", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			ctx := context.WithValue(r.Context(), ProfileKey, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin пропускает запрос дальше только при актуальной роли admin
// из загруженного профиля.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "mware.RequireAdmin"

			log = log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			profile, ok := r.Context().Value(ProfileKey).(*models.User)
			if !ok || profile == nil || profile.Role != models.RoleAdmin {
				log.Error("forbidden: admin role required")
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Profile возвращает актуальный профиль пользователя из контекста запроса.
func Profile(ctx context.Context) (*models.User, bool) {
	profile, ok := ctx.Value(ProfileKey).(*models.User)
	return profile, ok && profile != nil
}

var limiter = rate.NewLimiter(20, 40)

// RateLimitMiddleware ограничивает частоту запросов к API.
func RateLimitMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Error("too many requests")
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
