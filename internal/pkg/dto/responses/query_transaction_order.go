package responses

import (
	"paygate-service/internal/app/models"
	"paygate-service/internal/pkg/money"
)

type QueryTransactionOrder struct {
	TransactionSn    string                  `json:"transaction_sn"`
	OutTransactionSn string                  `json:"out_transaction_sn,omitempty"`
	OrderAmount      money.Money             `json:"order_amount"`
	BuyerPayAmount   money.Money             `json:"buyer_pay_amount"`
	ReceiptAmount    money.Money             `json:"receipt_amount"`
	PayerAccount     string                  `json:"payer_account,omitempty"`
	TransactionState models.TransactionState `json:"transaction_state"`
	UseSandboxEnv    bool                    `json:"use_sandbox_env"`
	RawResponse      *RawResponse            `json:"raw_response,omitempty"`
}
