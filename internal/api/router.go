package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rs/zerolog"

	"fundhub/internal/api/handler"
	"fundhub/internal/api/middleware"
	"fundhub/internal/app/service"
	"fundhub/internal/common/security"
)

func NewRouter(
	jwt *security.JWT,
	authService *service.AuthService,
	campaignService *service.CampaignService,
	donationService *service.DonationService,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the bearer token when present and puts claims in context.
	// Authentication is only enforced on the routes that opt in.
	r.Use(jwtauth.Verifier(jwt.TokenAuth()))

	auth := middleware.Authenticator(logger)

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(authService, logger)
	r.Route("/auth", func(router chi.Router) {
		authHandler.RegisterRoutes(router, auth)
	})

	campaignHandler := handler.NewCampaignHandler(campaignService)
	r.Route("/campaigns", func(router chi.Router) {
		campaignHandler.RegisterRoutes(router, auth)
	})

	donationHandler := handler.NewDonationHandler(donationService)
	r.Route("/donations", func(router chi.Router) {
		donationHandler.RegisterRoutes(router, auth)
	})

	return r
}
