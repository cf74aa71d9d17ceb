package http

import (
	"net/http"

	"github.com/gusgusz/projeto14-mywallet-back/internal/middleware"
	"github.com/gusgusz/projeto14-mywallet-back/internal/models"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter constructs and returns an HTTP handler that serves the wallet
// API.
//
// Parameters:
//
//	authHandler   - handler for sign-up, sign-in and sign-out
//	ledgerHandler - handler for the transaction ledger
//	resolver      - resolves bearer tokens for the protected group
//	logger        - structured logger for request logging middleware
//
// Routes:
//
//	GET    /health             → liveness probe
//	POST   /sign-up            → authHandler.SignUp
//	POST   /sign-in            → authHandler.SignIn
//	POST   /sign-out           → authHandler.SignOut         (bearer)
//	POST   /accounts           → ledgerHandler.Create        (bearer)
//	POST   /new-in, /new-out   → ledgerHandler.CreateOfType  (bearer)
//	GET    /accounts           → ledgerHandler.List          (bearer)
//	GET    /accounts/balance   → ledgerHandler.Balance       (bearer)
//	PUT    /accounts/{title}   → ledgerHandler.Update        (bearer)
//	DELETE /accounts/{title}   → ledgerHandler.Delete        (bearer)
//
// Middleware chain (applied in order):
//  1. RequestID, Recoverer : request correlation, panic to 500
//  2. WithRequestLogging(logger) : logs every request
//  3. CORS : any origin
//  4. BearerAuth (protected group) : runs before the body is read
//  5. AllowContentType("application/json") on routes with a body
func NewRouter(
	authHandler *AuthHandler,
	ledgerHandler *LedgerHandler,
	resolver middleware.TokenResolver,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	jsonOnly := chiMiddleware.AllowContentType("application/json")

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public endpoints
	r.With(jsonOnly).Post("/sign-up", authHandler.SignUp)
	r.With(jsonOnly).Post("/sign-in", authHandler.SignIn)

	// Protected group: requires a live bearer session
	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(resolver, logger))

		r.Post("/sign-out", authHandler.SignOut)

		r.With(jsonOnly).Post("/new-in", ledgerHandler.CreateOfType(models.TypeIn))
		r.With(jsonOnly).Post("/new-out", ledgerHandler.CreateOfType(models.TypeOut))

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", ledgerHandler.List)
			r.With(jsonOnly).Post("/", ledgerHandler.Create)
			r.Get("/balance", ledgerHandler.Balance)
			r.With(jsonOnly).Put("/{title}", ledgerHandler.Update)
			r.Delete("/{title}", ledgerHandler.Delete)
		})
	})

	return r
}
