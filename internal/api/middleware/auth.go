package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

// GuideIDHeader заголовок с ID гида, проставляемый шлюзом после аутентификации
const GuideIDHeader = "X-Guide-ID"

type contextKey string

const guideIDKey contextKey = "guide_id"

// Auth требует заголовок X-Guide-ID и кладёт ID гида в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		guideID, err := strconv.ParseInt(r.Header.Get(GuideIDHeader), 10, 64)
		if err != nil || guideID <= 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"code":    "unauthorized",
				"message": "отсутствует или некорректен заголовок " + GuideIDHeader,
			})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithGuideID(r.Context(), guideID)))
	})
}

// WithGuideID кладёт ID гида в контекст
func WithGuideID(ctx context.Context, guideID int64) context.Context {
	return context.WithValue(ctx, guideIDKey, guideID)
}

// GetGuideID достаёт ID гида из контекста
func GetGuideID(ctx context.Context) (int64, bool) {
	guideID, ok := ctx.Value(guideIDKey).(int64)
	return guideID, ok
}
