package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"inkwell/internal/account"
	"inkwell/internal/auth"
	"inkwell/internal/verification"
)

type Server struct {
	router *mux.Router
}

func NewServer(
	logger *slog.Logger,
	authService *auth.Service,
	authHandler *auth.JSONHandler,
	verificationHandler *verification.JSONHandler,
	accountHandler *AccountHandler,
) *Server {
	router := mux.NewRouter()
	router.Use(RequestLogger(logger))
	router.Use(RateLimit(10))

	auth.SetupJSONAuthRoutes(router, authHandler)
	verification.SetupJSONVerificationRoutes(router, verificationHandler, authService)

	// Anyone may view a profile; claims, when present, unlock the owner and
	// admin view.
	router.HandleFunc("/users/{username}", authService.OptionalAuth(accountHandler.Get)).Methods("GET")
	router.HandleFunc("/users/{username}", authService.RequireAuth(accountHandler.Update)).Methods("PUT")
	router.HandleFunc("/users/{username}/role",
		authService.RequireRole(accountHandler.UpdateRole, account.RoleAdmin)).Methods("PUT")
	router.HandleFunc("/users/{username}", authService.RequireAuth(accountHandler.Delete)).Methods("DELETE")

	return &Server{router: router}
}

func (s *Server) Handler() http.Handler {
	return s.router
}
