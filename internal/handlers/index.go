package handlers

import (
	"net/http"
)

// Endpoint is one line of the service index.
type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Auth        bool   `json:"auth"`
	Description string `json:"description"`
}

// Endpoints lists the public surface served at GET /.
var Endpoints = []Endpoint{
	{"POST", "/register", false, "create an account {username,password}"},
	{"POST", "/login", false, "start a session {username,password}"},
	{"GET", "/check-session", false, "report whether the session cookie is live"},
	{"GET", "/logout", false, "end the session"},
	{"GET", "/api/user", true, "current username"},
	{"GET", "/api/search/pokemon?name=", true, "look up a Pokémon"},
	{"GET", "/api/search/digimon?name=", true, "look up a Digimon"},
	{"GET", "/api/history", true, "your 10 most recent searches"},
	{"POST", "/api/update-password", true, "change password {newPassword}"},
}

// Index describes the API.
func Index(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"name":      "monster-mashup",
		"message":   "Pokémon vs Digimon lookup API",
		"endpoints": Endpoints,
	})
}
