package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/RemoteState/secondlife-server/utils"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// corsOptions setting up routes for cors
func corsOptions(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "Cache-Control", "Pragma"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})
}

// Recovery turns a panicking handler into a 500 error envelope.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				logrus.WithFields(logrus.Fields{
					"method":     r.Method,
					"requestURI": r.URL.RequestURI(),
					"stacktrace": string(debug.Stack()),
				}).Errorf("Request Panic err: %v", p)

				utils.RespondError(w, http.StatusInternalServerError, errors.New(fmt.Sprint(p)), "There was an internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs every served request when debug logging is on.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !logrus.IsLevelEnabled(logrus.DebugLevel) {
			next.ServeHTTP(w, r)
			return
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		now := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logrus.WithFields(logrus.Fields{
			"delay":          time.Since(now).String(),
			"method":         r.Method,
			"uri":            r.URL.RequestURI(),
			"status":         status,
			"responseLength": ww.BytesWritten(),
		}).Debug("request served")
	})
}

// CommonMiddlewares middleware common for all routes
func CommonMiddlewares(allowedOrigins []string) chi.Middlewares {
	return chi.Chain(
		RequestLogger,
		corsOptions(allowedOrigins).Handler,
		Recovery,
	)
}
