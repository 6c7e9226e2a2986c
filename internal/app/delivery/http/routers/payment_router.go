package routers

import (
	"paygate-service/internal/app/services/core/payments"

	"github.com/go-chi/chi/v5"
)

func attachPaymentRouter(router chi.Router, paymentController *payments.PaymentController) {
	router.Post("/{provider}/orders", paymentController.PreOrder)
	router.Get("/{provider}/orders/{transactionSn}", paymentController.QueryTransactionOrder)
	router.Post("/{provider}/orders/{transactionSn}/refunds", paymentController.TransactionOrderRefund)
	router.Get("/{provider}/orders/{transactionSn}/refunds/{transactionRefundSn}", paymentController.QueryTransactionOrderRefund)
}
