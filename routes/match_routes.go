package routes

import (
	"collabmatch_server/controllers"
	"collabmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for the match lifecycle under /api/matches
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, discoveryService *services.DiscoveryService) {
	controller := controllers.NewMatchController(matchService, discoveryService)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()

	matchRouter.HandleFunc("/discover", controller.HandleDiscover).Methods("GET")
	matchRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
	matchRouter.HandleFunc("/pass", controller.HandlePass).Methods("POST")
	matchRouter.HandleFunc("/liked-me", controller.HandleLikedMe).Methods("GET")
	matchRouter.HandleFunc("/my-matches", controller.HandleMyMatches).Methods("GET")
	matchRouter.HandleFunc("/stats", controller.HandleStats).Methods("GET")
	matchRouter.HandleFunc("/{matchId}/start-conversation", controller.HandleStartConversation).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/feedback", controller.HandleAddFeedback).Methods("POST")
}
