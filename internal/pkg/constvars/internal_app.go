package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	// Query parameters carried on notification URLs so an inbound webhook can
	// be cross-checked against the transaction the caller expects.
	ParamTransactionSn          = "transaction_sn"
	ParamTransactionRefundSn    = "transaction_refund_sn"
	ParamOutTransactionSn       = "out_transaction_sn"
	ParamOutTransactionRefundSn = "out_transaction_refund_sn"
	ParamOrderAmount            = "order_amount"
	ParamRefundAmount           = "refund_amount"
	ParamCurrency               = "currency"
)
