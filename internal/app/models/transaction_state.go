package models

// TransactionState is the gateway-independent lifecycle state of a payment
// or refund. Translators are total: provider codes that are not explicitly
// mapped resolve to TransactionStateUnknown, never to an error.
type TransactionState string

const (
	TransactionStateClosed        TransactionState = "CLOSED"
	TransactionStateWaitPay       TransactionState = "WAIT_PAY"
	TransactionStatePaying        TransactionState = "PAYING"
	TransactionStateCompleted     TransactionState = "COMPLETED"
	TransactionStateFailed        TransactionState = "FAILED"
	TransactionStateWaitRefund    TransactionState = "WAIT_REFUND"
	TransactionStatePartialRefund TransactionState = "PARTIAL_REFUND"
	TransactionStateRefunded      TransactionState = "REFUNDED"
	TransactionStateRefundFailed  TransactionState = "REFUND_FAILED"
	TransactionStateUnknown       TransactionState = "UNKNOWN"
)

// Known reports whether s is one of the canonical states.
func (s TransactionState) Known() bool {
	switch s {
	case TransactionStateClosed, TransactionStateWaitPay, TransactionStatePaying,
		TransactionStateCompleted, TransactionStateFailed, TransactionStateWaitRefund,
		TransactionStatePartialRefund, TransactionStateRefunded,
		TransactionStateRefundFailed, TransactionStateUnknown:
		return true
	}
	return false
}

// Terminal reports whether the state ends its lifecycle. TransactionStateUnknown
// is terminal for reporting purposes only: callers must treat it as
// "re-query later", not as success or failure.
func (s TransactionState) Terminal() bool {
	switch s {
	case TransactionStateCompleted, TransactionStateClosed, TransactionStateFailed,
		TransactionStateRefunded, TransactionStatePartialRefund,
		TransactionStateRefundFailed, TransactionStateUnknown:
		return true
	}
	return false
}
