package api

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lan-dot-party/gurtdns/internal/config"
	"github.com/lan-dot-party/gurtdns/internal/logger"
)

const authRealm = "gurtdns admin"

// requestLogger counts every request and logs it at trace level.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			httpRequests.WithLabelValues(r.Method, strconv.Itoa(code)).Inc()

			logger.Trace(log, "HTTP request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", code),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", time.Since(start)),
			)
		})
	}
}

// basicAuth rejects requests whose credentials do not match auth.
func basicAuth(auth config.AuthConfig, log *zap.Logger) func(http.Handler) http.Handler {
	wantUser, wantPass := []byte(auth.Username), []byte(auth.Password)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			// both comparisons always run
			userOK := subtle.ConstantTimeCompare([]byte(user), wantUser)
			passOK := subtle.ConstantTimeCompare([]byte(pass), wantPass)
			if ok && userOK&passOK == 1 {
				next.ServeHTTP(w, r)
				return
			}

			if ok {
				log.Warn("Rejected admin credentials",
					zap.String("user", user),
					zap.String("remote", r.RemoteAddr),
				)
			}
			w.Header().Set("WWW-Authenticate", `Basic realm="`+authRealm+`"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		})
	}
}
