package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"collabmatch_server/services"

	"github.com/gorilla/mux"
)

// MatchController handles HTTP requests for the match lifecycle
type MatchController struct {
	MatchService     *services.MatchService
	DiscoveryService *services.DiscoveryService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService, discoveryService *services.DiscoveryService) *MatchController {
	return &MatchController{MatchService: matchService, DiscoveryService: discoveryService}
}

// HandleDiscover returns scored candidates for the requesting user
func (mc *MatchController) HandleDiscover(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}
	limit := queryInt(r, "limit", 10)

	entries, err := mc.DiscoveryService.Discover(r.Context(), userID, limit)
	if err != nil {
		respondServiceError(w, err, "Server error while discovering matches")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"matches": entries,
	})
}

// HandleLike records a like and reports whether it completed a mutual match
func (mc *MatchController) HandleLike(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID       string `json:"userId"`
		TargetUserID string `json:"targetUserId"`
		ProjectID    string `json:"projectId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}
	if request.UserID == "" || request.TargetUserID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "userId and targetUserId are required")
		return
	}

	_, isMutual, err := mc.MatchService.ProcessLike(r.Context(), request.UserID, request.TargetUserID, request.ProjectID)
	if err != nil {
		respondServiceError(w, err, "Server error while processing like")
		return
	}

	message := "Like sent successfully"
	if isMutual {
		message = "It's a match!"
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  message,
		"liked":    request.TargetUserID,
		"isMutual": isMutual,
	})
}

// HandlePass records a pass
func (mc *MatchController) HandlePass(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID       string `json:"userId"`
		TargetUserID string `json:"targetUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid request payload")
		return
	}
	if request.UserID == "" || request.TargetUserID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "userId and targetUserId are required")
		return
	}

	_, err := mc.MatchService.ProcessPass(r.Context(), request.UserID, request.TargetUserID)
	if err != nil {
		respondServiceError(w, err, "Server error while processing pass")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"passed":  request.TargetUserID,
	})
}

// HandleLikedMe lists users who liked the requester without a like back yet
func (mc *MatchController) HandleLikedMe(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}

	entries, pagination, err := mc.MatchService.GetLikedMe(r.Context(), userID, queryInt(r, "page", 1), queryInt(r, "limit", 20))
	if err != nil {
		respondServiceError(w, err, "Server error while fetching likes")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"users":      entries,
		"pagination": pagination,
	})
}

// HandleMyMatches lists the requester's matches by status
func (mc *MatchController) HandleMyMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}
	status := r.URL.Query().Get("status")
	if status == "" {
		status = "mutual"
	}

	summaries, pagination, err := mc.MatchService.GetMyMatches(r.Context(), userID, status, queryInt(r, "page", 1), queryInt(r, "limit", 20))
	if err != nil {
		respondServiceError(w, err, "Server error while fetching matches")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"matches":    summaries,
		"pagination": pagination,
	})
}

// HandleStats returns aggregate matching statistics for the requester
func (mc *MatchController) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}

	stats, err := mc.MatchService.GetStats(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err, "Server error while fetching stats")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}

// HandleStartConversation flips the conversation flag on a mutual match
func (mc *MatchController) HandleStartConversation(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "userId is required")
		return
	}

	match, err := mc.MatchService.StartConversation(r.Context(), matchID, request.UserID)
	if err != nil {
		respondServiceError(w, err, "Server error while starting conversation")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Conversation started successfully",
		"match":   match,
	})
}

// HandleAddFeedback appends feedback from a participant
func (mc *MatchController) HandleAddFeedback(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	var request struct {
		UserID  string `json:"userId"`
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "userId and rating are required")
		return
	}

	err := mc.MatchService.AddFeedback(r.Context(), matchID, request.UserID, request.Rating, request.Comment)
	if err != nil {
		respondServiceError(w, err, "Server error while adding feedback")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Feedback added successfully",
	})
}

// queryInt reads an integer query parameter, falling back on absence or junk
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
