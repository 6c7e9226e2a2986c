package requests

import (
	"paygate-service/internal/pkg/money"
)

type TransactionOrderRefund struct {
	TransactionSn               string           `json:"transaction_sn" validate:"required"`
	OutTransactionSn            string           `json:"out_transaction_sn" validate:"required"`
	TransactionRefundSn         string           `json:"transaction_refund_sn" validate:"required"`
	RefundAmount                money.Money      `json:"refund_amount" validate:"money_positive"`
	OrderAmount                 money.Money      `json:"order_amount" validate:"money_positive"`
	AsynchronousNotificationUrl string           `json:"asynchronous_notification_url" validate:"required,url"`
	RefundReason                string           `json:"refund_reason,omitempty"`
	ContextVariables            ContextVariables `json:"context_variables,omitempty"`
}
