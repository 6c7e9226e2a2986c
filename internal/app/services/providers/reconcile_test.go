package providers

import (
	"net/url"
	"testing"

	"paygate-service/internal/app/models"
	"paygate-service/internal/pkg/exceptions"
	"paygate-service/internal/pkg/money"

	"github.com/stretchr/testify/assert"
)

func TestReconcileRefund(t *testing.T) {
	order := money.MustNew(10000, "CNY")

	t.Run("refund equal to order is refunded", func(t *testing.T) {
		state, err := ReconcileRefund("SN-1", order, money.MustNew(10000, "CNY"))
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStateRefunded, state)
	})

	t.Run("refund below order is partial", func(t *testing.T) {
		state, err := ReconcileRefund("SN-1", order, money.MustNew(2500, "CNY"))
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStatePartialRefund, state)
	})

	t.Run("refund above order is an integrity failure", func(t *testing.T) {
		_, err := ReconcileRefund("SN-1", order, money.MustNew(10001, "CNY"))
		assert.Error(t, err)
		assert.True(t, exceptions.IsGatewayRequestFailed(err))
	})
}

func TestAppendExpectationParams(t *testing.T) {
	t.Run("parameters added to query", func(t *testing.T) {
		result := AppendExpectationParams("https://merchant.example.com/webhooks/alipay/payment", map[string]string{
			"transaction_sn": "SN-1",
			"order_amount":   "100.00",
		})
		parsed, err := url.Parse(result)
		assert.NoError(t, err)
		assert.Equal(t, "SN-1", parsed.Query().Get("transaction_sn"))
		assert.Equal(t, "100.00", parsed.Query().Get("order_amount"))
	})

	t.Run("existing query preserved", func(t *testing.T) {
		result := AppendExpectationParams("https://merchant.example.com/notify?tenant=acme", map[string]string{
			"transaction_sn": "SN-1",
		})
		parsed, err := url.Parse(result)
		assert.NoError(t, err)
		assert.Equal(t, "acme", parsed.Query().Get("tenant"))
		assert.Equal(t, "SN-1", parsed.Query().Get("transaction_sn"))
	})

	t.Run("unparsable url returned untouched", func(t *testing.T) {
		broken := "https://merchant.example.com/notify\x00"
		assert.Equal(t, broken, AppendExpectationParams(broken, map[string]string{"transaction_sn": "SN-1"}))
	})
}
