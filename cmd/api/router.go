package main

import (
	"context"
	"net/http"
	"time"

	"GoLoyalty/internal/common"
	"GoLoyalty/internal/wire"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func newRouter(app *wire.Application) *mux.Router {
	router := mux.NewRouter()

	router.Use(corsMiddleware)
	router.Use(loggingMiddleware(app.Logger))
	router.Use(app.Metrics.Middleware)

	router.Handle("/metrics", app.Metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", healthCheckHandler(app.DB)).Methods(http.MethodGet)
	app.Notifications.RegisterPublicRoutes(api)

	secured := api.NewRoute().Subrouter()
	secured.Use(common.AuthMiddleware(app.Tokens))
	app.Notifications.RegisterRoutes(secured)
	app.Activities.RegisterRoutes(secured)

	return router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(log logrus.FieldLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("request handled")
		})
	}
}

func healthCheckHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := "healthy", http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		common.WriteJSON(w, code, map[string]string{
			"status":  status,
			"service": "goloyalty-notifications",
		})
	}
}
