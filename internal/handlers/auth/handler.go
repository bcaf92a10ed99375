package auth

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/codetrack/judged/internal/core/ports/primary"
	"gitlab.com/codetrack/judged/internal/handlers/response"
)

// TokenRequest carries the operator API key
type TokenRequest struct {
	Key string `json:"key"`
}

// TokenResponse carries a short-lived admin bearer token
type TokenResponse struct {
	Token string `json:"token"`
}

// AuthHandler exchanges the operator API key for an admin token
type AuthHandler struct {
	authService primary.AdminAuthService
	logger      primary.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService primary.AdminAuthService, logger primary.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the API routes for AuthHandler
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/admin/token", h.IssueToken).Methods("POST")
}

// IssueToken handles operator key exchange requests
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "Invalid request", StatusCode: http.StatusBadRequest})
		return
	}

	if err := h.authService.VerifyAdminKey(r.Context(), req.Key); err != nil {
		h.logger.Warn("Rejected admin key", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Invalid key", StatusCode: http.StatusUnauthorized})
		return
	}

	token, err := h.authService.GenerateAdminToken(r.Context())
	if err != nil {
		h.logger.Error("Failed to generate token", "error", err)
		response.WriteError(w, response.ErrorMessage{Message: "Failed to generate token", StatusCode: http.StatusInternalServerError})
		return
	}

	response.WriteSuccess(w, TokenResponse{Token: token})
}
