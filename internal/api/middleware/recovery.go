package middleware

import (
	"net/http"
	"runtime"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/api/handlers"
)

// Recovery перехватывает панику в обработчике и отвечает 500
func Recovery(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					var stack [4096]byte
					n := runtime.Stack(stack[:], false)
					logger.Error("Recovery: panic in %s %s, request_id=%s: %v\n%s",
						r.Method, r.URL.Path, GetRequestID(r.Context()), rec, stack[:n])
					handlers.RespondInternalError(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
