package wechat

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"paygate-service/internal/app/contracts"
	"paygate-service/internal/app/models"
	"paygate-service/internal/app/services/providers"
	"paygate-service/internal/app/services/shared/signature"
	"paygate-service/internal/pkg/constvars"
	"paygate-service/internal/pkg/dto/requests"
	"paygate-service/internal/pkg/dto/responses"
	"paygate-service/internal/pkg/exceptions"
	"paygate-service/internal/pkg/money"
	"paygate-service/internal/pkg/utils"

	"go.uber.org/zap"
)

const (
	pathUnifiedOrder = "pay/unifiedorder"
	pathOrderQuery   = "pay/orderquery"
	pathRefund       = "secapi/pay/refund"
	pathRefundQuery  = "pay/refundquery"

	tradeTypeNative = "NATIVE"

	resultSuccess = "SUCCESS"
	resultFail    = "FAIL"

	bodyMaxLen       = 127
	expireTimeLayout = "20060102150405"
	defaultClientIP  = "127.0.0.1"
)

// Plugin integrates the WeChat Pay v2 merchant API over its flat-XML wire
// format.
type Plugin struct {
	config  *Config
	signer  contracts.SignatureService
	client  contracts.ProviderClient
	log     *zap.Logger
	sandbox bool
}

func NewPlugin(config *Config, client contracts.ProviderClient, log *zap.Logger) (*Plugin, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	signer, err := signature.NewSecretSignatureService(config.MchKey, config.SignType)
	if err != nil {
		return nil, err
	}
	return &Plugin{
		config:  config,
		signer:  signer,
		client:  client,
		log:     log,
		sandbox: config.UseSandboxEnv || utils.IsSandboxEndpoint(config.ServiceUrl, SandboxMarker),
	}, nil
}

func (p *Plugin) Provider() string {
	return constvars.ProviderWechat
}

func (p *Plugin) PreOrder(ctx context.Context, request *requests.PrePaymentOrder) (*responses.PrePaymentOrder, error) {
	notifyUrl := providers.AppendExpectationParams(request.AsynchronousNotificationUrl, map[string]string{
		constvars.ParamTransactionSn: request.TransactionSn,
		constvars.ParamOrderAmount:   request.OrderAmount.DecimalText(),
		constvars.ParamCurrency:      request.OrderAmount.Currency,
	})

	clientIP := request.RequestSourceIp
	if clientIP == "" {
		clientIP = defaultClientIP
	}

	params := p.baseParams()
	params["body"] = utils.SanitizeDescription(p.bodyOf(request), bodyMaxLen)
	params["out_trade_no"] = request.TransactionSn
	params["total_fee"] = strconv.FormatInt(request.OrderAmount.Amount, 10)
	params["fee_type"] = request.OrderAmount.Currency
	params["spbill_create_ip"] = clientIP
	params["notify_url"] = notifyUrl
	params["trade_type"] = tradeTypeNative
	params["time_expire"] = utils.FormatExpireTime(request.EffectiveValidity(), expireTimeLayout)
	if request.SceneInfo != "" {
		params["scene_info"] = request.SceneInfo
	}

	answer, err := p.call(ctx, pathUnifiedOrder, params, request.TransactionSn)
	if err != nil {
		return nil, err
	}

	p.log.Info("wechat pre-order created",
		zap.String(constvars.LoggingProviderKey, constvars.ProviderWechat),
		zap.String(constvars.LoggingTransactionSnKey, request.TransactionSn),
	)

	return &responses.PrePaymentOrder{
		TransactionSn:    request.TransactionSn,
		OrderAmount:      request.OrderAmount,
		TransactionState: models.TransactionStateWaitPay,
		Result: &responses.QrCodePayResult{
			CodeContent:   answer["code_url"],
			TransactionSn: request.TransactionSn,
		},
		UseSandboxEnv: p.sandbox,
		RawResponse:   responses.NewRawResponse(constvars.ProviderWechat, answer),
	}, nil
}

func (p *Plugin) QueryTransactionOrder(ctx context.Context, request *requests.QueryTransactionOrder) (*responses.QueryTransactionOrder, error) {
	params := p.baseParams()
	params["out_trade_no"] = request.TransactionSn
	if request.OutTransactionSn != "" {
		params["transaction_id"] = request.OutTransactionSn
	}

	answer, err := p.call(ctx, pathOrderQuery, params, request.TransactionSn)
	if err != nil {
		return nil, err
	}

	orderAmount, err := parseFee(answer, "total_fee", money.Money{Currency: constvars.DefaultCurrency})
	if err != nil {
		return nil, err
	}
	buyerPayAmount, err := parseFee(answer, "cash_fee", orderAmount)
	if err != nil {
		return nil, err
	}

	return &responses.QueryTransactionOrder{
		TransactionSn:    request.TransactionSn,
		OutTransactionSn: answer["transaction_id"],
		OrderAmount:      orderAmount,
		BuyerPayAmount:   buyerPayAmount,
		ReceiptAmount:    orderAmount,
		PayerAccount:     answer["openid"],
		TransactionState: TranslateTradeState(constvars.WechatTradeState(answer["trade_state"])),
		UseSandboxEnv:    p.sandbox,
		RawResponse:      responses.NewRawResponse(constvars.ProviderWechat, answer),
	}, nil
}

func (p *Plugin) TransactionOrderRefund(ctx context.Context, request *requests.TransactionOrderRefund) (*responses.TransactionOrderRefund, error) {
	notifyUrl := providers.AppendExpectationParams(request.AsynchronousNotificationUrl, map[string]string{
		constvars.ParamTransactionRefundSn: request.TransactionRefundSn,
		constvars.ParamOrderAmount:         request.OrderAmount.DecimalText(),
		constvars.ParamRefundAmount:        request.RefundAmount.DecimalText(),
		constvars.ParamCurrency:            request.RefundAmount.Currency,
	})

	params := p.baseParams()
	params["out_trade_no"] = request.TransactionSn
	params["transaction_id"] = request.OutTransactionSn
	params["out_refund_no"] = request.TransactionRefundSn
	params["total_fee"] = strconv.FormatInt(request.OrderAmount.Amount, 10)
	params["refund_fee"] = strconv.FormatInt(request.RefundAmount.Amount, 10)
	params["notify_url"] = notifyUrl
	if request.RefundReason != "" {
		params["refund_desc"] = utils.SanitizeDescription(request.RefundReason, bodyMaxLen)
	}

	answer, err := p.call(ctx, pathRefund, params, request.TransactionSn)
	if err != nil {
		return nil, err
	}

	p.log.Info("wechat refund accepted",
		zap.String(constvars.LoggingProviderKey, constvars.ProviderWechat),
		zap.String(constvars.LoggingTransactionSnKey, request.TransactionSn),
		zap.String(constvars.LoggingRefundSnKey, request.TransactionRefundSn),
	)

	return &responses.TransactionOrderRefund{
		TransactionSn:          request.TransactionSn,
		TransactionRefundSn:    request.TransactionRefundSn,
		OutTransactionRefundSn: answer["refund_id"],
		RefundAmount:           request.RefundAmount,
		OrderAmount:            request.OrderAmount,
		TransactionState:       models.TransactionStateWaitRefund,
		UseSandboxEnv:          p.sandbox,
		RawResponse:            responses.NewRawResponse(constvars.ProviderWechat, answer),
	}, nil
}

func (p *Plugin) QueryTransactionOrderRefund(ctx context.Context, request *requests.QueryTransactionOrderRefund) (*responses.TransactionOrderRefund, error) {
	params := p.baseParams()
	params["out_trade_no"] = request.TransactionSn
	params["out_refund_no"] = request.TransactionRefundSn

	answer, err := p.call(ctx, pathRefundQuery, params, request.TransactionSn)
	if err != nil {
		return nil, err
	}

	orderAmount, err := parseFee(answer, "total_fee", money.Money{Currency: constvars.DefaultCurrency})
	if err != nil {
		return nil, err
	}

	// The answer carries indexed refund records. Prefer the record matching
	// the queried refund serial; otherwise take the first one.
	index := refundRecordIndex(answer, request.TransactionRefundSn)
	refundAmount, err := parseFee(answer, fmt.Sprintf("refund_fee_%d", index), money.Money{Currency: orderAmount.Currency})
	if err != nil {
		return nil, err
	}

	state, err := TranslateRefundStatus(
		constvars.WechatRefundStatus(answer[fmt.Sprintf("refund_status_%d", index)]),
		request.TransactionSn, orderAmount, refundAmount,
	)
	if err != nil {
		return nil, err
	}

	return &responses.TransactionOrderRefund{
		TransactionSn:          request.TransactionSn,
		TransactionRefundSn:    request.TransactionRefundSn,
		OutTransactionRefundSn: answer[fmt.Sprintf("refund_id_%d", index)],
		RefundAmount:           refundAmount,
		OrderAmount:            orderAmount,
		TransactionState:       state,
		UseSandboxEnv:          p.sandbox,
		RawResponse:            responses.NewRawResponse(constvars.ProviderWechat, answer),
	}, nil
}

func (p *Plugin) OnPaymentEvent(ctx context.Context, event *requests.PaymentEvent) (*responses.QueryTransactionOrder, error) {
	params, err := decodeXMLMap(event.RawPayload)
	if err != nil {
		return nil, err
	}

	if declared := params["out_trade_no"]; declared != event.TransactionSn {
		return nil, exceptions.ErrNotificationMismatch(event.TransactionSn,
			fmt.Sprintf("declared transactionSn = %s", declared))
	}
	declaredAmount, err := parseFee(params, "total_fee", money.Money{Currency: event.OrderAmount.Currency})
	if err != nil {
		return nil, err
	}
	if !declaredAmount.Equal(event.OrderAmount) {
		return nil, exceptions.ErrNotificationMismatch(event.TransactionSn,
			fmt.Sprintf("declared amount = %s, expected = %s", declaredAmount, event.OrderAmount))
	}

	ok, err := p.signer.Verify(params, params["sign"])
	if err != nil {
		return nil, exceptions.ErrSignatureVerificationFailed(err, event.TransactionSn)
	}
	if !ok {
		return nil, exceptions.ErrSignatureVerificationFailed(nil, event.TransactionSn)
	}

	// A payment notification is a verdict, not a state machine: both protocol
	// and business codes must say SUCCESS for the payment to count.
	state := models.TransactionStateFailed
	if params["return_code"] == resultSuccess && params["result_code"] == resultSuccess {
		state = models.TransactionStateCompleted
	}

	buyerPayAmount, err := parseFee(params, "cash_fee", event.OrderAmount)
	if err != nil {
		return nil, err
	}

	p.log.Info("wechat payment notification verified",
		zap.String(constvars.LoggingProviderKey, constvars.ProviderWechat),
		zap.String(constvars.LoggingTransactionSnKey, event.TransactionSn),
		zap.String(constvars.LoggingStateKey, string(state)),
	)

	return &responses.QueryTransactionOrder{
		TransactionSn:    event.TransactionSn,
		OutTransactionSn: params["transaction_id"],
		OrderAmount:      event.OrderAmount,
		BuyerPayAmount:   buyerPayAmount,
		ReceiptAmount:    event.OrderAmount,
		PayerAccount:     params["openid"],
		TransactionState: state,
		UseSandboxEnv:    p.sandbox,
		RawResponse:      responses.NewRawResponse(constvars.ProviderWechat, params),
	}, nil
}

func (p *Plugin) OnRefundEvent(ctx context.Context, event *requests.RefundEvent) (*responses.TransactionOrderRefund, error) {
	outer, err := decodeXMLMap(event.RawPayload)
	if err != nil {
		return nil, err
	}
	if outer["return_code"] != resultSuccess {
		return nil, exceptions.ErrNotificationMismatch(event.TransactionRefundSn,
			fmt.Sprintf("notification return_code = %s", outer["return_code"]))
	}

	// The refund detail travels encrypted; a payload that fails to open with
	// our merchant key was not produced by the gateway.
	plaintext, err := decryptReqInfo(outer["req_info"], p.config.MchKey)
	if err != nil {
		return nil, exceptions.ErrSignatureVerificationFailed(err, event.TransactionRefundSn)
	}
	detail, err := decodeXMLMap(plaintext)
	if err != nil {
		return nil, err
	}

	if declared := detail["out_refund_no"]; declared != event.TransactionRefundSn {
		return nil, exceptions.ErrNotificationMismatch(event.TransactionRefundSn,
			fmt.Sprintf("declared refundSn = %s", declared))
	}
	declaredRefund, err := parseFee(detail, "refund_fee", money.Money{Currency: event.RefundAmount.Currency})
	if err != nil {
		return nil, err
	}
	if !declaredRefund.Equal(event.RefundAmount) {
		return nil, exceptions.ErrNotificationMismatch(event.TransactionRefundSn,
			fmt.Sprintf("declared refund amount = %s, expected = %s", declaredRefund, event.RefundAmount))
	}

	state, err := TranslateRefundStatus(
		constvars.WechatRefundStatus(detail["refund_status"]),
		detail["out_trade_no"], event.OrderAmount, event.RefundAmount,
	)
	if err != nil {
		return nil, err
	}

	p.log.Info("wechat refund notification verified",
		zap.String(constvars.LoggingProviderKey, constvars.ProviderWechat),
		zap.String(constvars.LoggingRefundSnKey, event.TransactionRefundSn),
		zap.String(constvars.LoggingStateKey, string(state)),
	)

	return &responses.TransactionOrderRefund{
		TransactionSn:          detail["out_trade_no"],
		TransactionRefundSn:    event.TransactionRefundSn,
		OutTransactionRefundSn: detail["refund_id"],
		RefundAmount:           event.RefundAmount,
		OrderAmount:            event.OrderAmount,
		TransactionState:       state,
		UseSandboxEnv:          p.sandbox,
		RawResponse:            responses.NewRawResponse(constvars.ProviderWechat, detail),
	}, nil
}

func (p *Plugin) WebhookAck(succeeded bool) *responses.WebhookAck {
	code := resultSuccess
	msg := "OK"
	if !succeeded {
		code = resultFail
		msg = "PROCESSING FAILED"
	}
	return &responses.WebhookAck{
		ContentType: constvars.MIMETextXMLCharsetUTF8,
		Body: string(encodeXMLMap(map[string]string{
			"return_code": code,
			"return_msg":  msg,
		})),
	}
}

func (p *Plugin) baseParams() map[string]string {
	params := map[string]string{
		"appid":     p.config.AppID,
		"mch_id":    p.config.MchID,
		"nonce_str": strings.ReplaceAll(utils.GenerateRequestID(), "-", ""),
		"sign_type": p.config.SignType,
	}
	if p.config.SubAppID != "" {
		params["sub_appid"] = p.config.SubAppID
	}
	if p.config.SubMchID != "" {
		params["sub_mch_id"] = p.config.SubMchID
	}
	return params
}

// call signs and sends one request, then enforces both the protocol and the
// business result codes of the answer.
func (p *Plugin) call(ctx context.Context, path string, params map[string]string, transactionSn string) (map[string]string, error) {
	sign, err := p.signer.Sign(params)
	if err != nil {
		return nil, err
	}
	params["sign"] = sign

	answer, err := p.client.Execute(ctx, &contracts.ProviderRequest{
		Path:        path,
		ContentType: constvars.MIMETextXMLCharsetUTF8,
		Body:        encodeXMLMap(params),
	})
	if err != nil {
		return nil, err
	}

	decoded, err := decodeXMLMap(answer.Body)
	if err != nil {
		return nil, err
	}
	if decoded["return_code"] != resultSuccess {
		return nil, exceptions.ErrGatewayRequestFailed(transactionSn, decoded["return_code"], decoded["return_msg"])
	}
	if decoded["result_code"] != resultSuccess {
		return nil, exceptions.ErrGatewayRequestFailed(transactionSn, decoded["err_code"], decoded["err_code_des"])
	}
	return decoded, nil
}

func (p *Plugin) bodyOf(request *requests.PrePaymentOrder) string {
	if request.Description != "" {
		return request.Description
	}
	return request.Subject
}

// parseFee reads an integer minor-unit fee field, keeping the fallback's
// currency. Missing fields yield the fallback.
func parseFee(params map[string]string, name string, fallback money.Money) (money.Money, error) {
	text := params[name]
	if text == "" {
		return fallback, nil
	}
	amount, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return money.Money{}, exceptions.ErrNotificationMismatch("", fmt.Sprintf("field %s is not a fee", name))
	}
	currency := fallback.Currency
	if currency == "" {
		currency = constvars.DefaultCurrency
	}
	return money.New(amount, currency)
}

// refundRecordIndex picks the indexed record matching the refund serial, or
// record zero when no record declares it.
func refundRecordIndex(answer map[string]string, transactionRefundSn string) int {
	count, err := strconv.Atoi(answer["refund_count"])
	if err != nil || count <= 0 {
		return 0
	}
	for i := 0; i < count; i++ {
		if answer[fmt.Sprintf("out_refund_no_%d", i)] == transactionRefundSn {
			return i
		}
	}
	return 0
}
