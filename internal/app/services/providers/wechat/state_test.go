package wechat

import (
	"testing"

	"paygate-service/internal/app/models"
	"paygate-service/internal/pkg/constvars"
	"paygate-service/internal/pkg/money"

	"github.com/stretchr/testify/assert"
)

func TestTranslateTradeState(t *testing.T) {
	cases := []struct {
		state    constvars.WechatTradeState
		expected models.TransactionState
	}{
		{constvars.WechatTradeStateSuccess, models.TransactionStateCompleted},
		{constvars.WechatTradeStateRefund, models.TransactionStateWaitRefund},
		{constvars.WechatTradeStateNotPay, models.TransactionStateWaitPay},
		{constvars.WechatTradeStateClosed, models.TransactionStateClosed},
		{constvars.WechatTradeStateRevoked, models.TransactionStateClosed},
		{constvars.WechatTradeStateUserPaying, models.TransactionStatePaying},
		{constvars.WechatTradeStatePayError, models.TransactionStateFailed},
		{"ACCEPT", models.TransactionStateUnknown},
	}
	for _, c := range cases {
		t.Run(string(c.state), func(t *testing.T) {
			assert.Equal(t, c.expected, TranslateTradeState(c.state))
		})
	}
}

func TestTranslateRefundStatus(t *testing.T) {
	order := money.MustNew(10000, "CNY")

	t.Run("settled full refund", func(t *testing.T) {
		state, err := TranslateRefundStatus(constvars.WechatRefundStatusSuccess, "SN-1", order, money.MustNew(10000, "CNY"))
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStateRefunded, state)
	})

	t.Run("settled partial refund", func(t *testing.T) {
		state, err := TranslateRefundStatus(constvars.WechatRefundStatusSuccess, "SN-1", order, money.MustNew(4000, "CNY"))
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStatePartialRefund, state)
	})

	t.Run("settled refund exceeding order fails", func(t *testing.T) {
		_, err := TranslateRefundStatus(constvars.WechatRefundStatusSuccess, "SN-1", order, money.MustNew(20000, "CNY"))
		assert.Error(t, err)
	})

	t.Run("processing refund is still waiting", func(t *testing.T) {
		state, err := TranslateRefundStatus(constvars.WechatRefundStatusProcessing, "SN-1", order, money.MustNew(4000, "CNY"))
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStateWaitRefund, state)
	})

	t.Run("closed refund failed", func(t *testing.T) {
		state, err := TranslateRefundStatus(constvars.WechatRefundStatusClosed, "SN-1", order, money.MustNew(4000, "CNY"))
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStateRefundFailed, state)
	})

	t.Run("reverted refund failed", func(t *testing.T) {
		state, err := TranslateRefundStatus(constvars.WechatRefundStatusChange, "SN-1", order, money.MustNew(4000, "CNY"))
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStateRefundFailed, state)
	})

	t.Run("unmapped status resolves to unknown", func(t *testing.T) {
		state, err := TranslateRefundStatus("PENDING", "SN-1", order, money.MustNew(4000, "CNY"))
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStateUnknown, state)
	})
}
