package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"

	"github.com/iudanet/txtpresence/pkg/api"
)

// RecoveryMiddleware turns a handler panic into a logged 500 response.
// http.ErrAbortHandler is passed through so that net/http aborts the
// connection quietly.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.Error("Panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"locator", locatorOf(r),
					"stack", string(debug.Stack()),
				)

				// После upgrade соединение принадлежит websocket, ответ писать нельзя
				if r.Header.Get("Upgrade") != "" {
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(api.ErrorResponse{
					Error: http.StatusText(http.StatusInternalServerError),
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// locatorOf возвращает документ маршрута, пустую строку вне /documents и /ws
func locatorOf(r *http.Request) string {
	return mux.Vars(r)["locator"]
}
