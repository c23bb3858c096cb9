package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"inkwell/infrastructure"
	"inkwell/internal/account"
	"inkwell/internal/auth"
)

// AccountHandler serves the user profile endpoints. It lives here rather
// than in the account package because it needs the auth claims to pick
// between the public and the owner view.
type AccountHandler struct {
	service *account.Service
}

func NewAccountHandler(service *account.Service) *AccountHandler {
	return &AccountHandler{service: service}
}

// publicProfile is what anonymous readers and non-admins see of a user.
type publicProfile struct {
	Username string       `json:"username"`
	Role     account.Role `json:"role"`
	Bio      string       `json:"bio"`
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	acct, err := h.service.Get(r.Context(), username)
	if err != nil {
		http.Error(w, err.Error(), infrastructure.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok &&
		(claims.AccountID == acct.ID || claims.Role == account.RoleAdmin) {
		_ = json.NewEncoder(w).Encode(acct)
		return
	}
	_ = json.NewEncoder(w).Encode(publicProfile{
		Username: acct.Username,
		Role:     acct.Role,
		Bio:      acct.Bio,
	})
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Bio *string `json:"bio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	target, err := h.service.Get(r.Context(), username)
	if err != nil {
		http.Error(w, err.Error(), infrastructure.HTTPStatus(err))
		return
	}
	if claims.AccountID != target.ID && claims.Role != account.RoleAdmin {
		http.Error(w, "insufficient permissions", http.StatusForbidden)
		return
	}

	acct, err := h.service.UpdateProfile(r.Context(), username, account.UpdateProfileInput{
		Bio: req.Bio,
	})
	if err != nil {
		http.Error(w, err.Error(), infrastructure.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(acct)
}

// UpdateRole assigns a role. The route is gated to admins by the role
// middleware, so no ownership check happens here.
func (h *AccountHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	var req struct {
		Role account.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	acct, err := h.service.UpdateProfile(r.Context(), username, account.UpdateProfileInput{
		Role: &req.Role,
	})
	if err != nil {
		http.Error(w, err.Error(), infrastructure.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(acct)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	target, err := h.service.Get(r.Context(), username)
	if err != nil {
		http.Error(w, err.Error(), infrastructure.HTTPStatus(err))
		return
	}
	if claims.AccountID != target.ID && claims.Role != account.RoleAdmin {
		http.Error(w, "insufficient permissions", http.StatusForbidden)
		return
	}

	if err := h.service.Delete(r.Context(), username); err != nil {
		http.Error(w, err.Error(), infrastructure.HTTPStatus(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
