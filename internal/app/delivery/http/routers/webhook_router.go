package routers

import (
	"paygate-service/internal/app/services/core/payments"

	"github.com/go-chi/chi/v5"
)

func attachWebhookRouter(router chi.Router, webhookController *payments.WebhookController) {
	router.Post("/{provider}/payment", webhookController.OnPaymentEvent)
	router.Post("/{provider}/refund", webhookController.OnRefundEvent)
}
