package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/HarshalBhogawade/project-management-backend/apperr"
	"github.com/HarshalBhogawade/project-management-backend/logging"
	"github.com/HarshalBhogawade/project-management-backend/models"
	"github.com/HarshalBhogawade/project-management-backend/services"
	"github.com/HarshalBhogawade/project-management-backend/utils"
)

type AuthHandler struct {
	UserService *services.UserService
}

func NewAuthHandler(userService *services.UserService) *AuthHandler {
	return &AuthHandler{UserService: userService}
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.New(apperr.Validation, "invalid request data"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Name, req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered with role %s", user.Email, user.Role)
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "user registered successfully",
	})
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.New(apperr.Validation, "invalid request data"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, err)
		return
	}

	user, token, err := h.UserService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: USER_SIGNED_IN, Description: User %s signed in", user.Email)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "signed in successfully",
		"token":   token,
	})
}
