package verification

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"inkwell/infrastructure"
	"inkwell/internal/auth"
)

type JSONHandler struct {
	controller *Controller
}

func NewJSONHandler(controller *Controller) *JSONHandler {
	return &JSONHandler{controller: controller}
}

func (h *JSONHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	acct, _, err := h.controller.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		http.Error(w, err.Error(), infrastructure.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(acct)
}

func (h *JSONHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("token_key")
	acct, err := h.controller.RedeemEmailVerification(r.Context(), key)
	if err != nil {
		http.Error(w, err.Error(), infrastructure.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(acct)
}

func (h *JSONHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, _, err := h.controller.Resend(r.Context(), req.Email); err != nil {
		http.Error(w, err.Error(), infrastructure.HTTPStatus(err))
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *JSONHandler) RequestEmailUpdate(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		NewEmail string `json:"new_email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.controller.RequestEmailUpdate(r.Context(), claims.AccountID, req.NewEmail); err != nil {
		http.Error(w, err.Error(), infrastructure.HTTPStatus(err))
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *JSONHandler) VerifyEmailUpdate(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("token_key")
	acct, err := h.controller.RedeemEmailUpdate(r.Context(), key)
	if err != nil {
		http.Error(w, err.Error(), infrastructure.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(acct)
}

func (h *JSONHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.controller.RequestPasswordReset(r.Context(), req.Email); err != nil {
		http.Error(w, err.Error(), infrastructure.HTTPStatus(err))
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *JSONHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TokenKey    string `json:"token_key"`
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	acct, err := h.controller.RedeemPasswordReset(r.Context(), req.TokenKey, req.NewPassword)
	if err != nil {
		http.Error(w, err.Error(), infrastructure.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(acct)
}

// SetupJSONVerificationRoutes mounts the account-lifecycle endpoints.
func SetupJSONVerificationRoutes(r *mux.Router, h *JSONHandler, authService *auth.Service) {
	r.HandleFunc("/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/auth/verify-email", h.VerifyEmail).Methods("GET")
	r.HandleFunc("/auth/resend-verification", h.ResendVerification).Methods("POST")
	r.HandleFunc("/auth/update-email", authService.RequireAuth(h.RequestEmailUpdate)).Methods("POST")
	r.HandleFunc("/auth/verify-email-update", h.VerifyEmailUpdate).Methods("GET")
	r.HandleFunc("/auth/reset-password", h.RequestPasswordReset).Methods("POST")
	r.HandleFunc("/auth/verify-password-reset", h.ConfirmPasswordReset).Methods("POST")
}
