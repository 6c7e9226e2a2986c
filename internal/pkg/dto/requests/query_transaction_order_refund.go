package requests

type QueryTransactionOrderRefund struct {
	TransactionSn          string `json:"transaction_sn" validate:"required"`
	OutTransactionSn       string `json:"out_transaction_sn,omitempty"`
	TransactionRefundSn    string `json:"transaction_refund_sn" validate:"required"`
	OutTransactionRefundSn string `json:"out_transaction_refund_sn,omitempty"`
}
