package alipay

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"paygate-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
)

// Open API method names used by this plugin.
const (
	methodTradePrecreate = "alipay.trade.precreate"
	methodTradePay       = "alipay.trade.pay"
	methodTradeQuery     = "alipay.trade.query"
	methodTradeRefund    = "alipay.trade.refund"
	methodRefundQuery    = "alipay.trade.fastpay.refund.query"
)

const (
	openAPIVersion  = "1.0"
	timestampLayout = "2006-01-02 15:04:05"

	// codeSuccess is the gateway-level code for an accepted business request.
	codeSuccess = "10000"
)

// buildRequestParams assembles the signed top-level parameter set of one
// Open API call. bizContent is serialized into the biz_content field before
// signing.
func (p *Plugin) buildRequestParams(method, notifyUrl string, bizContent interface{}) (url.Values, error) {
	content, err := json.Marshal(bizContent)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	params := map[string]string{
		"app_id":      p.config.AppID,
		"method":      method,
		"charset":     p.config.Charset,
		"sign_type":   p.config.SignType,
		"timestamp":   time.Now().Format(timestampLayout),
		"version":     openAPIVersion,
		"biz_content": string(content),
	}
	if notifyUrl != "" {
		params["notify_url"] = notifyUrl
	}

	sign, err := p.signer.Sign(params)
	if err != nil {
		return nil, err
	}
	params["sign"] = sign

	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	return values, nil
}

// parseEnvelope extracts the method-named response object from a gateway
// answer and flattens its fields to strings. Nested objects and arrays are
// kept as their raw JSON text so callers can decode them further.
func parseEnvelope(body []byte, method string) (map[string]string, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}

	key := strings.ReplaceAll(method, ".", "_") + "_response"
	inner, ok := outer[key]
	if !ok {
		return nil, exceptions.ErrCannotParseJSON(fmt.Errorf("missing %s object", key))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(inner, &fields); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}

	flat := make(map[string]string, len(fields))
	for name, raw := range fields {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			flat[name] = text
			continue
		}
		flat[name] = string(raw)
	}
	return flat, nil
}

// envelopeError converts a non-success envelope into a gateway request
// failure carrying the most specific code and message available.
func envelopeError(transactionSn string, envelope map[string]string) error {
	code := envelope["sub_code"]
	msg := envelope["sub_msg"]
	if code == "" {
		code = envelope["code"]
	}
	if msg == "" {
		msg = envelope["msg"]
	}
	return exceptions.ErrGatewayRequestFailed(transactionSn, code, msg)
}

func envelopeSucceeded(envelope map[string]string) bool {
	return envelope["code"] == codeSuccess
}
