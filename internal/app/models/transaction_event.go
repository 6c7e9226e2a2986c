package models

import (
	"time"

	"paygate-service/internal/pkg/money"
)

type TransactionEventKind string

const (
	TransactionEventPayment TransactionEventKind = "payment"
	TransactionEventRefund  TransactionEventKind = "refund"
)

// TransactionEvent is published to the event queue after an inbound
// notification has been verified and translated. Downstream consumers own
// the durable effects (crediting an order, closing a refund).
type TransactionEvent struct {
	ID                     string               `json:"id"`
	Provider               string               `json:"provider"`
	Kind                   TransactionEventKind `json:"kind"`
	TransactionSn          string               `json:"transaction_sn"`
	OutTransactionSn       string               `json:"out_transaction_sn,omitempty"`
	TransactionRefundSn    string               `json:"transaction_refund_sn,omitempty"`
	OutTransactionRefundSn string               `json:"out_transaction_refund_sn,omitempty"`
	State                  TransactionState     `json:"state"`
	OrderAmount            money.Money          `json:"order_amount"`
	BuyerPayAmount         money.Money          `json:"buyer_pay_amount,omitempty"`
	RefundAmount           money.Money          `json:"refund_amount,omitempty"`
	OccurredAt             time.Time            `json:"occurred_at"`
}
