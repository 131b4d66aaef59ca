package server

import (
	"net/http"
	"time"

	"github.com/abinashpathak707-web/kishore-general-store/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"log/slog"
)

// NewRouter wires HTTP routes and middleware.
func NewRouter(
	logger *slog.Logger,
	health handler.HealthHandler,
	products handler.ProductHandler,
	customers handler.CustomerHandler,
	bills handler.BillHandler,
	dashboard handler.DashboardHandler,
	assistant handler.AssistantHandler,
	settings handler.SettingsHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(MetricsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	health.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	products.RegisterRoutes(r)
	customers.RegisterRoutes(r)
	bills.RegisterRoutes(r)
	dashboard.RegisterRoutes(r)
	assistant.RegisterRoutes(r)
	settings.RegisterRoutes(r)

	return r
}
