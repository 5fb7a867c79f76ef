package api

import (
	"fmt"
	"time"

	"github.com/gorilla/mux"

	"github.com/flightdeck/aeromatch/internal/billing"
	"github.com/flightdeck/aeromatch/internal/config"
	"github.com/flightdeck/aeromatch/internal/db"
	"github.com/flightdeck/aeromatch/internal/docstore"
	"github.com/flightdeck/aeromatch/internal/jobs"
	"github.com/flightdeck/aeromatch/internal/profile"
	"github.com/flightdeck/aeromatch/internal/repository/sqlite"
	"github.com/flightdeck/aeromatch/internal/requests"
)

// SetupRoutes builds the router and every handler behind it. The worker pool
// is passed in so request creation can enqueue notification jobs.
func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB, pool *jobs.WorkerPool) (*mux.Router, error) {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(database)

	cutoff, err := cfg.FoundingCutoff()
	if err != nil {
		return nil, fmt.Errorf("premium cutoff: %w", err)
	}

	processor, err := billing.NewProcessor(repo, cfg.Billing.WebhookSecret, cfg.SignatureCheckDisabled(), logger)
	if err != nil {
		return nil, fmt.Errorf("billing processor: %w", err)
	}
	checkout := billing.NewClient(cfg.Billing.APIBaseURL, cfg.Billing.APIKey, 15*time.Second, logger)
	store := docstore.NewClient(cfg.Storage, logger)
	grants := profile.NewGrantService(repo, cutoff, logger)
	requestSvc := requests.NewService(repo, repo, repo, jobs.NewNotifier(pool), logger)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, repo, cfg.JWTSecret, cfg.TokenDuration)
	techniciansHandler := NewTechniciansHandler(repo, repo)
	availabilityHandler := NewAvailabilityHandler(repo)
	searchHandler := NewSearchHandler(repo, repo, repo)
	requestsHandler := NewRequestsHandler(requestSvc, repo, repo, repo)
	ratingsHandler := NewRatingsHandler(repo, repo)
	documentsHandler := NewDocumentsHandler(repo, store)
	profileHandler := NewProfileHandler(repo, repo, repo, grants)
	billingHandler := NewBillingHandler(processor, checkout, repo, repo, cfg.Billing.PremiumPriceID)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")
	r.HandleFunc("/webhooks/billing", billingHandler.Webhook).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Technician profile
	apiV1.HandleFunc("/technicians/me", techniciansHandler.GetOwnProfile).Methods("GET")
	apiV1.HandleFunc("/technicians/me", techniciansHandler.UpdateOwnProfile).Methods("PUT")
	apiV1.HandleFunc("/technicians/{id:[0-9]+}", techniciansHandler.GetTechnician).Methods("GET")

	// Availability
	apiV1.HandleFunc("/availability", availabilityHandler.CreateSlot).Methods("POST")
	apiV1.HandleFunc("/availability", availabilityHandler.ListSlots).Methods("GET")
	apiV1.HandleFunc("/availability/{id:[0-9]+}", availabilityHandler.DeleteSlot).Methods("DELETE")

	// Search
	apiV1.HandleFunc("/search/technicians", searchHandler.SearchTechnicians).Methods("POST")

	// Job requests
	apiV1.HandleFunc("/job-requests", requestsHandler.CreateRequest).Methods("POST")
	apiV1.HandleFunc("/job-requests", requestsHandler.ListRequests).Methods("GET")
	apiV1.HandleFunc("/job-requests/{id:[0-9]+}", requestsHandler.GetRequest).Methods("GET")
	apiV1.HandleFunc("/job-requests/{id:[0-9]+}", requestsHandler.TransitionRequest).Methods("PATCH")
	apiV1.HandleFunc("/job-requests/{id:[0-9]+}/rating", ratingsHandler.RateRequest).Methods("PUT")

	// Documents
	apiV1.HandleFunc("/documents", documentsHandler.Upload).Methods("POST")
	apiV1.HandleFunc("/documents", documentsHandler.List).Methods("GET")

	// Profile completion and premium
	apiV1.HandleFunc("/profile/completion", profileHandler.GetCompletion).Methods("GET")
	apiV1.HandleFunc("/premium/founding-claim", profileHandler.ClaimFoundingGrant).Methods("POST")

	// Billing
	apiV1.HandleFunc("/billing/checkout", billingHandler.CreateCheckout).Methods("POST")
	apiV1.HandleFunc("/billing/subscription", billingHandler.GetSubscription).Methods("GET")

	return r, nil
}
