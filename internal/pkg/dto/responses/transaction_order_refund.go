package responses

import (
	"paygate-service/internal/app/models"
	"paygate-service/internal/pkg/money"
)

type TransactionOrderRefund struct {
	TransactionSn          string                  `json:"transaction_sn"`
	TransactionRefundSn    string                  `json:"transaction_refund_sn"`
	OutTransactionRefundSn string                  `json:"out_transaction_refund_sn,omitempty"`
	RefundAmount           money.Money             `json:"refund_amount"`
	OrderAmount            money.Money             `json:"order_amount"`
	TransactionState       models.TransactionState `json:"transaction_state"`
	UseSandboxEnv          bool                    `json:"use_sandbox_env"`
	RawResponse            *RawResponse            `json:"raw_response,omitempty"`
}

func (r *TransactionOrderRefund) IsFullRefund() bool {
	return r.OrderAmount.Equal(r.RefundAmount)
}
