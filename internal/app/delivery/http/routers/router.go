package routers

import (
	"time"

	"paygate-service/internal/app/config"
	"paygate-service/internal/app/delivery/http/middlewares"
	"paygate-service/internal/app/services/core/payments"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	paymentController *payments.PaymentController,
	webhookController *payments.WebhookController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))
	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))

	router.Route(internalConfig.App.EndpointPrefix, func(r chi.Router) {
		r.Route("/payments", func(r chi.Router) {
			// Merchant-facing surface: authenticated and rate limited per key.
			r.Use(middlewares.APIKeyAuth)
			r.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second))
			attachPaymentRouter(r, paymentController)
		})

		r.Route("/webhooks", func(r chi.Router) {
			// Gateway-facing surface: no API key, gateways cannot send one.
			attachWebhookRouter(r, webhookController)
		})
	})
}
