package providers

import (
	"paygate-service/internal/app/models"
	"paygate-service/internal/pkg/exceptions"
	"paygate-service/internal/pkg/money"
)

// ReconcileRefund maps a successfully refunded amount against the order
// total. Equal means fully refunded, less means partially refunded, and
// more is a data-integrity failure rather than a state.
func ReconcileRefund(transactionSn string, orderAmount, refundedAmount money.Money) (models.TransactionState, error) {
	if refundedAmount.GreaterThan(orderAmount) {
		return models.TransactionStateUnknown, exceptions.ErrRefundExceedsOrder(transactionSn)
	}
	if refundedAmount.Equal(orderAmount) {
		return models.TransactionStateRefunded, nil
	}
	return models.TransactionStatePartialRefund, nil
}
