package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/avmakarov/DrivingSchool-BookingService/internal/api/handlers"
)

type contextKey string

// userIDKey ключ для userID в контексте запроса
const userIDKey contextKey = "userID"

// userIDHeader заголовок с ID аутентифицированного пользователя.
// Аутентификация выполняется внешним провайдером, сервис доверяет заголовку
const userIDHeader = "X-User-ID"

// Auth извлекает ID пользователя из заголовка и кладёт его в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(userIDHeader)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок X-User-ID")
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "некорректный заголовок X-User-ID")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает ID пользователя из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
