package requests

// QueryTransactionOrder fetches the current state of a payment transaction.
// OutTransactionSn may be absent before the gateway has assigned one.
type QueryTransactionOrder struct {
	TransactionSn    string `json:"transaction_sn" validate:"required"`
	OutTransactionSn string `json:"out_transaction_sn,omitempty"`
}
