package requests

import (
	"paygate-service/internal/pkg/money"
)

// RefundEvent is an inbound refund webhook, with the same trust model as
// PaymentEvent: declared values are cross-checked against the expectation
// before any cryptographic work.
type RefundEvent struct {
	TransactionRefundSn string      `json:"transaction_refund_sn" validate:"required"`
	OrderAmount         money.Money `json:"order_amount" validate:"money_positive"`
	RefundAmount        money.Money `json:"refund_amount" validate:"money_positive"`
	RawPayload          []byte      `json:"-"`
}
