package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/convene-events/server/internal/api/respond"
	"github.com/convene-events/server/internal/domain/users"
)

type AuthHandler struct {
	Users *users.Service
}

func NewAuthHandler(service *users.Service) *AuthHandler {
	return &AuthHandler{Users: service}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.Users.Register(r.Context(), users.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		writeRegisterError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully. Check your email for confirmation.",
		"user":    user.Public(),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	token, user, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidInput):
			respond.Error(w, r, http.StatusBadRequest, "Email and password are required", err)
		case errors.Is(err, users.ErrInvalidCredentials):
			respond.Error(w, r, http.StatusUnauthorized, "Invalid email or password", err)
		default:
			respond.Internal(w, r, err)
		}
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    user.Public(),
	})
}

func writeRegisterError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, users.ErrInvalidInput):
		respond.Error(w, r, http.StatusBadRequest, "Email, password, and name are required", err)
	case errors.Is(err, users.ErrInvalidEmail):
		respond.Error(w, r, http.StatusBadRequest, "Invalid email format", err)
	case errors.Is(err, users.ErrWeakPassword):
		respond.Error(w, r, http.StatusBadRequest, "Password must be at least 6 characters long", err)
	case errors.Is(err, users.ErrEmailTaken):
		respond.Error(w, r, http.StatusConflict, "Email already registered", err)
	default:
		respond.Internal(w, r, err)
	}
}
