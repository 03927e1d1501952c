package controllers

import (
	"encoding/json"
	"net/http"

	"collabmatch_server/models"
	"collabmatch_server/services"

	"github.com/gorilla/mux"
)

// ProjectController handles HTTP requests for projects
type ProjectController struct {
	ProjectService   *services.ProjectService
	DiscoveryService *services.DiscoveryService
}

// NewProjectController creates a new ProjectController instance
func NewProjectController(projectService *services.ProjectService, discoveryService *services.DiscoveryService) *ProjectController {
	return &ProjectController{ProjectService: projectService, DiscoveryService: discoveryService}
}

// HandleAddProject stores a new project
func (pc *ProjectController) HandleAddProject(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}
	if project.Title == "" || project.Creator == "" || project.Category == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "title, creator, and category are required")
		return
	}

	saved, err := pc.ProjectService.AddProject(r.Context(), project)
	if err != nil {
		respondServiceError(w, err, "Server error while saving project")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"project": saved,
	})
}

// HandleGetProject fetches a project by ID
func (pc *ProjectController) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectId"]

	project, err := pc.ProjectService.GetProject(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, err, "Server error while fetching project")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"project": project,
	})
}

// HandleDiscoverProjects ranks open projects for the requesting user
func (pc *ProjectController) HandleDiscoverProjects(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}
	limit := queryInt(r, "limit", 10)

	entries, err := pc.DiscoveryService.DiscoverProjects(r.Context(), userID, limit)
	if err != nil {
		respondServiceError(w, err, "Server error while discovering projects")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"projects": entries,
	})
}
