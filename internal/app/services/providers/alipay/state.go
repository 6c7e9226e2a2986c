package alipay

import (
	"paygate-service/internal/app/models"
	"paygate-service/internal/pkg/constvars"
	"paygate-service/internal/pkg/money"
)

// TranslateTradeState maps an Alipay trade status to the canonical state.
// TRADE_CLOSED only means CLOSED when nothing was paid: a closed trade with
// a captured amount is in refund territory the trade status cannot express,
// so it resolves to UNKNOWN. Unmapped statuses also resolve to UNKNOWN.
func TranslateTradeState(status constvars.AlipayTradeState, buyerPayAmount money.Money) models.TransactionState {
	switch status {
	case constvars.AlipayTradeStateWaitBuyerPay:
		return models.TransactionStatePaying
	case constvars.AlipayTradeStateSuccess, constvars.AlipayTradeStateFinished:
		return models.TransactionStateCompleted
	case constvars.AlipayTradeStateClosed:
		if buyerPayAmount.IsZero() {
			return models.TransactionStateClosed
		}
		return models.TransactionStateUnknown
	default:
		return models.TransactionStateUnknown
	}
}
