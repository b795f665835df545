package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the JSON API under /api plus the static and operational endpoints
func setupRoutes(r chi.Router, handlers *routeHandlers, uploadDir string, metrics *httpMetrics) {
	r.Route("/api", func(r chi.Router) {
		// Employee Handler endpoints
		r.Post("/employees", handlers.employeeHandler.createEmployee())
		r.Get("/employees", handlers.employeeHandler.getAllEmployees())
		r.Get("/employees/{id}", handlers.employeeHandler.getEmployee())
		r.Put("/employees/{id}", handlers.employeeHandler.updateEmployee())
		r.Delete("/employees/{id}", handlers.employeeHandler.deleteEmployee())

		// Upload endpoints
		r.Post("/projects/upload", handlers.uploadHandler.uploadImage())
		r.Post("/projects/create-with-upload", handlers.uploadHandler.createProjectWithUpload())

		// Project Handler endpoints
		r.Post("/projects", handlers.projectHandler.createProject())
		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{id}", handlers.projectHandler.getProject())
		r.Put("/projects/{id}", handlers.projectHandler.updateProject())
		r.Delete("/projects/{id}", handlers.projectHandler.deleteProject())
	})

	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	r.Get("/health", handlers.healthHandler.health())
	r.Handle("/metrics", metrics.handler())
}
