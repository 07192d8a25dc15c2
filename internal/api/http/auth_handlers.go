package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/klexam/portal/internal/auth"
)

// POST /auth/login  { "username": "...", "password": "..." }
func LoginHandler(a *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(req.Username)
		role, ok := auth.Check(username, req.Password)
		if !ok {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, err := a.IssueJWT(username, role)
		if err != nil {
			http.Error(w, "issue token", 500)
			return
		}
		writeJSON(w, 200, map[string]string{
			"access_token": tok,
			"username":     username,
			"role":         role,
		})
	}
}
