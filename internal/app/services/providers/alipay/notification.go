package alipay

import (
	"fmt"
	"net/url"

	"paygate-service/internal/pkg/exceptions"
	"paygate-service/internal/pkg/money"
)

// Notification parameter names of the Alipay asynchronous notify protocol.
const (
	notifyParamOutTradeNo     = "out_trade_no"
	notifyParamTradeNo        = "trade_no"
	notifyParamTradeStatus    = "trade_status"
	notifyParamTotalAmount    = "total_amount"
	notifyParamBuyerPayAmount = "buyer_pay_amount"
	notifyParamReceiptAmount  = "receipt_amount"
	notifyParamBuyerLogonID   = "buyer_logon_id"
	notifyParamOutBizNo       = "out_biz_no"
	notifyParamRefundFee      = "refund_fee"
	notifyParamSign           = "sign"
)

// parseNotification decodes the form-encoded notify body into a flat
// parameter map.
func parseNotification(raw []byte) (map[string]string, error) {
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, exceptions.ErrNotificationMismatch("", "notification body is not form encoded")
	}
	params := make(map[string]string, len(values))
	for key := range values {
		params[key] = values.Get(key)
	}
	return params, nil
}

// verifySignature runs after parameter consistency has been established.
func (p *Plugin) verifySignature(params map[string]string, transactionSn string) error {
	ok, err := p.signer.Verify(params, params[notifyParamSign])
	if err != nil {
		return exceptions.ErrSignatureVerificationFailed(err, transactionSn)
	}
	if !ok {
		return exceptions.ErrSignatureVerificationFailed(nil, transactionSn)
	}
	return nil
}

// parseAmount reads a decimal amount field in the expectation's currency.
// Missing fields fall back to the supplied default.
func parseAmount(params map[string]string, name, currency string, fallback money.Money) (money.Money, error) {
	text := params[name]
	if text == "" {
		return fallback, nil
	}
	parsed, err := money.ParseText(text, currency)
	if err != nil {
		return money.Money{}, exceptions.ErrNotificationMismatch("", fmt.Sprintf("field %s is not a money amount", name))
	}
	return parsed, nil
}
