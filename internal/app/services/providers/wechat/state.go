package wechat

import (
	"paygate-service/internal/app/models"
	"paygate-service/internal/app/services/providers"
	"paygate-service/internal/pkg/constvars"
	"paygate-service/internal/pkg/money"
)

// TranslateTradeState maps a WeChat v2 trade state to the canonical state.
// Unmapped states resolve to UNKNOWN.
func TranslateTradeState(state constvars.WechatTradeState) models.TransactionState {
	switch state {
	case constvars.WechatTradeStateSuccess:
		return models.TransactionStateCompleted
	case constvars.WechatTradeStateRefund:
		return models.TransactionStateWaitRefund
	case constvars.WechatTradeStateNotPay:
		return models.TransactionStateWaitPay
	case constvars.WechatTradeStateClosed, constvars.WechatTradeStateRevoked:
		return models.TransactionStateClosed
	case constvars.WechatTradeStateUserPaying:
		return models.TransactionStatePaying
	case constvars.WechatTradeStatePayError:
		return models.TransactionStateFailed
	default:
		return models.TransactionStateUnknown
	}
}

// TranslateRefundStatus maps a per-record refund status. A settled refund is
// reconciled against the order total; a closed or reverted refund is a
// failure, not a lifecycle state of the payment.
func TranslateRefundStatus(status constvars.WechatRefundStatus, transactionSn string, orderAmount, refundAmount money.Money) (models.TransactionState, error) {
	switch status {
	case constvars.WechatRefundStatusSuccess:
		return providers.ReconcileRefund(transactionSn, orderAmount, refundAmount)
	case constvars.WechatRefundStatusProcessing:
		return models.TransactionStateWaitRefund, nil
	case constvars.WechatRefundStatusClosed, constvars.WechatRefundStatusChange:
		return models.TransactionStateRefundFailed, nil
	default:
		return models.TransactionStateUnknown, nil
	}
}
