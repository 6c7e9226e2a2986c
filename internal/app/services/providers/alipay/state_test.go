package alipay

import (
	"testing"

	"paygate-service/internal/app/models"
	"paygate-service/internal/pkg/constvars"
	"paygate-service/internal/pkg/money"

	"github.com/stretchr/testify/assert"
)

func TestTranslateTradeState(t *testing.T) {
	zero := money.MustNew(0, "CNY")
	paid := money.MustNew(500, "CNY")

	t.Run("waiting buyer resolves to paying", func(t *testing.T) {
		assert.Equal(t, models.TransactionStatePaying, TranslateTradeState(constvars.AlipayTradeStateWaitBuyerPay, zero))
	})

	t.Run("success resolves to completed", func(t *testing.T) {
		assert.Equal(t, models.TransactionStateCompleted, TranslateTradeState(constvars.AlipayTradeStateSuccess, paid))
	})

	t.Run("finished resolves to completed", func(t *testing.T) {
		assert.Equal(t, models.TransactionStateCompleted, TranslateTradeState(constvars.AlipayTradeStateFinished, paid))
	})

	t.Run("closed without payment resolves to closed", func(t *testing.T) {
		assert.Equal(t, models.TransactionStateClosed, TranslateTradeState(constvars.AlipayTradeStateClosed, zero))
	})

	t.Run("closed with payment resolves to unknown", func(t *testing.T) {
		assert.Equal(t, models.TransactionStateUnknown, TranslateTradeState(constvars.AlipayTradeStateClosed, paid))
	})

	t.Run("unmapped status resolves to unknown", func(t *testing.T) {
		assert.Equal(t, models.TransactionStateUnknown, TranslateTradeState("TRADE_PENDING", zero))
	})
}
