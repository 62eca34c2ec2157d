// Package middlewarectx содержит middleware HTTP-сервера: проверку session-токенов
// identity-провайдера, добавление пользователя в контекст запроса и ограничение
// частоты запросов.
package middlewarectx

import (
	"context"
	"crypto/rsa"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"

	"github.com/worknowjob/worknow-api/internal/http/response"
	"github.com/worknowjob/worknow-api/internal/lib/sl"
)

// Key тип ключа контекста запроса.
type Key string

// UserKey — ключ контекста с clerk_user_id аутентифицированного пользователя.
const UserKey Key = "clerk_user_id"

// TokenVerifier проверяет session-токен и возвращает идентификатор пользователя.
type TokenVerifier interface {
	Verify(tokenStr string) (string, error)
}

// ClerkVerifier проверяет RS256 session-токены публичным ключом инстанса.
type ClerkVerifier struct {
	publicKey *rsa.PublicKey
}

// NewClerkVerifier парсит PEM-ключ инстанса identity-провайдера.
func NewClerkVerifier(pemKey string) (*ClerkVerifier, error) {
	const op = "middlewarectx.NewClerkVerifier"

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &ClerkVerifier{publicKey: key}, nil
}

// Verify проверяет подпись и срок действия токена, возвращает subject.
func (v *ClerkVerifier) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.publicKey, nil
	})
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}

// AuthMiddleware возвращает middleware, которое проверяет session-токен
// в заголовке Authorization и кладёт clerk_user_id в контекст запроса.
func AuthMiddleware(verifier TokenVerifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))

				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			clerkUserID, err := verifier.Verify(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))

				return
			}

			ctx := context.WithValue(r.Context(), UserKey, clerkUserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware пропускает запросы без токена, но кладёт
// clerk_user_id в контекст, если валидный токен передан. Используется
// на маршрутах, где от аутентификации зависит только полнота данных.
func OptionalAuthMiddleware(verifier TokenVerifier, _ *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
				if clerkUserID, err := verifier.Verify(tokenStr); err == nil {
					ctx := context.WithValue(r.Context(), UserKey, clerkUserID)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
