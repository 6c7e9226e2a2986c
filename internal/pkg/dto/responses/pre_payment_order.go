package responses

import (
	"paygate-service/internal/app/models"
	"paygate-service/internal/pkg/money"
)

// PrePaymentOrder echoes the identity and amount of a created order.
// Result is the plugin-specific presentation artifact: a scannable code
// payload for QR flows, or nothing for synchronous auth-code capture.
type PrePaymentOrder struct {
	TransactionSn    string                  `json:"transaction_sn"`
	OutTransactionSn string                  `json:"out_transaction_sn,omitempty"`
	OrderAmount      money.Money             `json:"order_amount"`
	TransactionState models.TransactionState `json:"transaction_state,omitempty"`
	Result           interface{}             `json:"result,omitempty"`
	UseSandboxEnv    bool                    `json:"use_sandbox_env"`
	RawResponse      *RawResponse            `json:"raw_response,omitempty"`
}

// QrCodePayResult is the presentation artifact of a QR pre-order.
type QrCodePayResult struct {
	CodeContent   string `json:"code_content"`
	TransactionSn string `json:"transaction_sn"`
}
