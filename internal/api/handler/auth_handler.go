package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"restaurant_api/internal/api/middleware"
	"restaurant_api/internal/app/service"
	"restaurant_api/internal/common"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/register", h.register)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Get("/me", h.me)
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		// Unknown user and wrong password answer identically.
		common.RespondWithError(w, http.StatusBadRequest, "Username or password is incorrect")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.NewResponse(http.StatusOK, resp))
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.authService.Register(r.Context(), req); err != nil {
		if errors.Is(err, service.ErrDuplicateUser) {
			common.RespondWithError(w, http.StatusBadRequest, "Username already exists")
			return
		}
		log.Printf("register failed: %v", err)
		common.RespondWithError(w, http.StatusBadRequest, "Error while registering")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.NewResponse(http.StatusOK, nil))
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	user, err := h.authService.Profile(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.NewResponse(http.StatusOK, user))
}
