package middleware

import (
	"net/http"
	"strings"

	"edunewshub/internal/logger"
	"edunewshub/internal/repository"
	"edunewshub/internal/reqctx"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// JWTAuth проверяет Bearer-токен и кладёт user_id в контекст. Роль в токене
// не хранится: она разрешается по профилю на каждый запрос, чтобы смена
// роли действовала без перевыпуска токена.
func JWTAuth(secret string, profiles repository.ProfileRepo, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			logger.WithCtx(r.Context()).Warn("JWTAuth: отсутствует access token")
			http.Error(w, "Отсутствует access token", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или просроченный токен", zap.Error(err))
			http.Error(w, "Неверный или просроченный токен", http.StatusUnauthorized)
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			logger.WithCtx(r.Context()).Warn("JWTAuth: недопустимый payload", zap.Any("claims", claims))
			http.Error(w, "Недопустимый payload", http.StatusUnauthorized)
			return
		}

		role := profiles.GetRole(r.Context(), userID)

		ctx := reqctx.WithUserID(r.Context(), userID)
		ctx = reqctx.WithRole(ctx, role)

		logger.WithCtx(ctx).Info("JWTAuth: токен валиден",
			zap.String("user_id", userID), zap.String("role", role))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
