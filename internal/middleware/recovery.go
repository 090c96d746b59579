package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"mc-exchange-api/pkg/apierror"
)

// Recovery converts panics into a generic server_error response with no
// detail leak. The stack goes to the log only.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC: %v\n%s", err, debug.Stack())

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write(apierror.ServerError().ToJSON())
			}
		}()

		next.ServeHTTP(w, r)
	})
}
