package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"activitysignup/internal/delivery/http/controllers"
	"activitysignup/web"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(activityController *controllers.ActivityController, healthController *controllers.HealthController) *http.ServeMux {
	mux := http.NewServeMux()

	// API Routes
	mux.HandleFunc("GET /activities", activityController.ListActivities)
	mux.HandleFunc("POST /activities/{name}/signup", activityController.Signup)
	mux.HandleFunc("DELETE /activities/{name}/participants", activityController.Unregister)

	// Frontend
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(web.Static())))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/", http.StatusTemporaryRedirect)
	})

	// Ops
	mux.HandleFunc("GET /healthz", healthController.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
