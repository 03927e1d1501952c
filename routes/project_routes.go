package routes

import (
	"collabmatch_server/controllers"
	"collabmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterProjectRoutes sets up routes for project operations under /api/projects
func RegisterProjectRoutes(r *mux.Router, projectService *services.ProjectService, discoveryService *services.DiscoveryService) {
	controller := controllers.NewProjectController(projectService, discoveryService)

	projectRouter := r.PathPrefix("/api/projects").Subrouter()

	projectRouter.HandleFunc("", controller.HandleAddProject).Methods("POST")
	projectRouter.HandleFunc("/discover", controller.HandleDiscoverProjects).Methods("GET")
	projectRouter.HandleFunc("/{projectId}", controller.HandleGetProject).Methods("GET")
}
