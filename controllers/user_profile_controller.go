package controllers

import (
	"encoding/json"
	"net/http"

	"collabmatch_server/models"
	"collabmatch_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles HTTP requests for user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new UserProfileController instance
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// HandleAddUserProfile stores a new user profile
func (upc *UserProfileController) HandleAddUserProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}
	if profile.UserID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}

	saved, err := upc.UserProfileService.AddUserProfile(r.Context(), profile)
	if err != nil {
		respondServiceError(w, err, "Server error while saving profile")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"profile": saved,
	})
}

// HandleGetUserProfile fetches a user profile by ID
func (upc *UserProfileController) HandleGetUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := upc.UserProfileService.GetUserProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Server error while fetching profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": profile,
	})
}

// HandleDeleteUserProfile removes a user profile
func (upc *UserProfileController) HandleDeleteUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := upc.UserProfileService.DeleteUserProfile(r.Context(), userID); err != nil {
		respondServiceError(w, err, "Server error while deleting profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Profile deleted",
	})
}
