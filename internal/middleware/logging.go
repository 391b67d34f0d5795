// internal/middleware/logging.go
package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// LogMiddleware logs method, path, duration, and peer for every request.
func LogMiddleware(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
				"remote":   r.RemoteAddr,
			}).Info("HTTP request")
		})
	}
}

// LogWebSocketConnect records a subscriber attaching to a room stream.
func LogWebSocketConnect(logger *logrus.Logger, remoteAddr, code string) {
	logger.WithFields(logrus.Fields{
		"remote": remoteAddr,
		"room":   code,
	}).Info("WebSocket connected")
}

// LogWebSocketDisconnect records a subscriber detaching, with the error that
// ended the connection if any.
func LogWebSocketDisconnect(logger *logrus.Logger, remoteAddr, code string, err error) {
	fields := logrus.Fields{
		"remote": remoteAddr,
		"room":   code,
	}
	if err != nil {
		fields["error"] = err
	}
	logger.WithFields(fields).Info("WebSocket disconnected")
}
