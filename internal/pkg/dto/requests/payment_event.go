package requests

import (
	"paygate-service/internal/pkg/money"
)

// PaymentEvent is an inbound payment webhook. RawPayload is the
// provider-native body exactly as delivered (form-encoded for Alipay, XML
// for WeChat). TransactionSn and OrderAmount are the caller-side
// expectation and are used only for cross-checking: a notification that
// disagrees with them is rejected before signature verification.
type PaymentEvent struct {
	TransactionSn string      `json:"transaction_sn" validate:"required"`
	OrderAmount   money.Money `json:"order_amount" validate:"money_positive"`
	RawPayload    []byte      `json:"-"`
}
