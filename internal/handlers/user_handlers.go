package handlers

import (
	"encoding/json"
	"net/http"

	"server-swamp/internal/utils"
)

// RegisterRequest represents a request to create a new account
type RegisterRequest struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// LoginRequest represents a credentials exchange
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token on success
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
	UserID  string `json:"userId,omitempty"`
	Role    string `json:"role,omitempty"`
}

// HandleRegister creates a new email/password account
func (s *Server) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request format", http.StatusBadRequest)
			return
		}

		profile, err := s.Auth.Register(r.Context(), req.DisplayName, req.Email, req.Password)
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusCreated, map[string]interface{}{
			"userId":      profile.ID.String(),
			"email":       profile.Email,
			"displayName": profile.DisplayName,
			"role":        profile.Role,
		})
	}
}

// HandleLogin exchanges credentials for a session token
func (s *Server) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request format", http.StatusBadRequest)
			return
		}

		profile, err := s.Auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if utils.IsErrorCode(err, utils.ErrInvalidCredentials) {
				s.respondJSON(w, http.StatusUnauthorized, LoginResponse{
					Success: false,
					Error:   "Invalid credentials",
				})
				return
			}
			s.respondError(w, err)
			return
		}

		token, err := s.JWT.GenerateToken(profile.ID, profile.Email, profile.VerifiedEmail)
		if err != nil {
			s.respondError(w, utils.NewAppError(utils.ErrInvalidToken, "Failed to issue token", err))
			return
		}

		s.respondJSON(w, http.StatusOK, LoginResponse{
			Success: true,
			Token:   token,
			UserID:  profile.ID.String(),
			Role:    string(profile.Role),
		})
	}
}

// HandleProfile returns the authenticated user's own profile
func (s *Server) HandleProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.Metrics.IncrementRequests()

		profile, err := s.MongoDB.GetUserProfile(r.Context(), actorID(r))
		if err != nil {
			s.respondError(w, err)
			return
		}

		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"userId":        profile.ID.String(),
			"email":         profile.Email,
			"displayName":   profile.DisplayName,
			"role":          profile.Role,
			"verifiedEmail": profile.VerifiedEmail,
			"createdAt":     profile.CreatedAt,
		})
	}
}
