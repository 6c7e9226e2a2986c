package alipay

import (
	"context"
	"fmt"

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
	ackSuccess = "success"
	ackFailure = "failure"

	subjectMaxLen = 256
	bodyMaxLen    = 128

	// sceneBarCode is the default capture scene of the auth-code variant.
	sceneBarCode = "bar_code"

	// codeUserPaying means the buyer still has to confirm on their device.
	codeUserPaying = "10003"
)

// Plugin integrates the Alipay Open API. The same implementation backs two
// registered providers: the QR pre-create flow and the synchronous
// auth-code capture flow.
type Plugin struct {
	provider string
	config   *Config
	signer   contracts.SignatureService
	client   contracts.ProviderClient
	log      *zap.Logger
	sandbox  bool
	authCode bool
}

func NewPlugin(config *Config, client contracts.ProviderClient, log *zap.Logger) (*Plugin, error) {
	return newPlugin(constvars.ProviderAlipay, config, client, log, false)
}

// NewAuthCodePlugin captures with a buyer-presented auth code instead of
// returning a scannable QR payload.
func NewAuthCodePlugin(config *Config, client contracts.ProviderClient, log *zap.Logger) (*Plugin, error) {
	return newPlugin(constvars.ProviderAlipayAuthCode, config, client, log, true)
}

func newPlugin(provider string, config *Config, client contracts.ProviderClient, log *zap.Logger, authCode bool) (*Plugin, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	signer, err := signature.NewRSASignatureService(config.RsaPrivateKey, config.RsaPublicKey, config.SignType)
	if err != nil {
		return nil, err
	}
	return &Plugin{
		provider: provider,
		config:   config,
		signer:   signer,
		client:   client,
		log:      log,
		sandbox:  utils.IsSandboxEndpoint(config.ServiceUrl, SandboxMarker),
		authCode: authCode,
	}, nil
}

func (p *Plugin) Provider() string {
	return p.provider
}

func (p *Plugin) PreOrder(ctx context.Context, request *requests.PrePaymentOrder) (*responses.PrePaymentOrder, error) {
	if p.authCode {
		return p.preOrderAuthCode(ctx, request)
	}
	return p.preOrderQrCode(ctx, request)
}

func (p *Plugin) preOrderQrCode(ctx context.Context, request *requests.PrePaymentOrder) (*responses.PrePaymentOrder, error) {
	notifyUrl := providers.AppendExpectationParams(request.AsynchronousNotificationUrl, map[string]string{
		constvars.ParamTransactionSn: request.TransactionSn,
		constvars.ParamOrderAmount:   request.OrderAmount.DecimalText(),
		constvars.ParamCurrency:      request.OrderAmount.Currency,
	})

	bizContent := map[string]string{
		"out_trade_no":    request.TransactionSn,
		"total_amount":    request.OrderAmount.DecimalText(),
		"subject":         utils.SanitizeDescription(p.subjectOf(request), subjectMaxLen),
		"body":            utils.SanitizeDescription(request.Description, bodyMaxLen),
		"timeout_express": fmt.Sprintf("%dm", int(request.EffectiveValidity().Minutes())),
	}

	envelope, err := p.execute(ctx, methodTradePrecreate, notifyUrl, bizContent, request.TransactionSn)
	if err != nil {
		return nil, err
	}

	p.log.Info("alipay pre-order created",
		zap.String(constvars.LoggingProviderKey, p.provider),
		zap.String(constvars.LoggingTransactionSnKey, request.TransactionSn),
	)

	return &responses.PrePaymentOrder{
		TransactionSn:    request.TransactionSn,
		OrderAmount:      request.OrderAmount,
		TransactionState: models.TransactionStateWaitPay,
		Result: &responses.QrCodePayResult{
			CodeContent:   envelope["qr_code"],
			TransactionSn: request.TransactionSn,
		},
		UseSandboxEnv: p.sandbox,
		RawResponse:   responses.NewRawResponse(p.provider, envelope),
	}, nil
}

func (p *Plugin) preOrderAuthCode(ctx context.Context, request *requests.PrePaymentOrder) (*responses.PrePaymentOrder, error) {
	authCode := request.ContextVariables.GetString(requests.ContextVariableAuthCode)
	if authCode == "" {
		return nil, exceptions.ErrMissingRequestField(requests.ContextVariableAuthCode)
	}
	scene := request.ContextVariables.GetString(requests.ContextVariableScene)
	if scene == "" {
		scene = sceneBarCode
	}

	bizContent := map[string]string{
		"out_trade_no": request.TransactionSn,
		"total_amount": request.OrderAmount.DecimalText(),
		"subject":      utils.SanitizeDescription(p.subjectOf(request), subjectMaxLen),
		"body":         utils.SanitizeDescription(request.Description, bodyMaxLen),
		"auth_code":    authCode,
		"scene":        scene,
	}

	values, err := p.buildRequestParams(methodTradePay, "", bizContent)
	if err != nil {
		return nil, err
	}
	answer, err := p.client.Execute(ctx, &contracts.ProviderRequest{
		ContentType: constvars.MIMEApplicationForm,
		Body:        []byte(values.Encode()),
	})
	if err != nil {
		return nil, err
	}
	envelope, err := parseEnvelope(answer.Body, methodTradePay)
	if err != nil {
		return nil, err
	}

	state := models.TransactionStateUnknown
	switch envelope["code"] {
	case codeSuccess:
		state = models.TransactionStateCompleted
	case codeUserPaying:
		state = models.TransactionStatePaying
	default:
		return nil, envelopeError(request.TransactionSn, envelope)
	}

	return &responses.PrePaymentOrder{
		TransactionSn:    request.TransactionSn,
		OutTransactionSn: envelope[notifyParamTradeNo],
		OrderAmount:      request.OrderAmount,
		TransactionState: state,
		UseSandboxEnv:    p.sandbox,
		RawResponse:      responses.NewRawResponse(p.provider, envelope),
	}, nil
}

func (p *Plugin) QueryTransactionOrder(ctx context.Context, request *requests.QueryTransactionOrder) (*responses.QueryTransactionOrder, error) {
	bizContent := map[string]string{
		"out_trade_no": request.TransactionSn,
	}
	if request.OutTransactionSn != "" {
		bizContent["trade_no"] = request.OutTransactionSn
	}

	envelope, err := p.execute(ctx, methodTradeQuery, "", bizContent, request.TransactionSn)
	if err != nil {
		return nil, err
	}

	orderAmount, err := parseAmount(envelope, notifyParamTotalAmount, constvars.DefaultCurrency, money.Money{Currency: constvars.DefaultCurrency})
	if err != nil {
		return nil, err
	}
	buyerPayAmount, err := parseAmount(envelope, notifyParamBuyerPayAmount, constvars.DefaultCurrency, money.Money{Currency: constvars.DefaultCurrency})
	if err != nil {
		return nil, err
	}
	receiptAmount, err := parseAmount(envelope, notifyParamReceiptAmount, constvars.DefaultCurrency, money.Money{Currency: constvars.DefaultCurrency})
	if err != nil {
		return nil, err
	}

	return &responses.QueryTransactionOrder{
		TransactionSn:    request.TransactionSn,
		OutTransactionSn: envelope[notifyParamTradeNo],
		OrderAmount:      orderAmount,
		BuyerPayAmount:   buyerPayAmount,
		ReceiptAmount:    receiptAmount,
		PayerAccount:     envelope[notifyParamBuyerLogonID],
		TransactionState: TranslateTradeState(constvars.AlipayTradeState(envelope[notifyParamTradeStatus]), buyerPayAmount),
		UseSandboxEnv:    p.sandbox,
		RawResponse:      responses.NewRawResponse(p.provider, envelope),
	}, nil
}

func (p *Plugin) TransactionOrderRefund(ctx context.Context, request *requests.TransactionOrderRefund) (*responses.TransactionOrderRefund, error) {
	bizContent := map[string]string{
		"out_trade_no":   request.TransactionSn,
		"trade_no":       request.OutTransactionSn,
		"refund_amount":  request.RefundAmount.DecimalText(),
		"out_request_no": request.TransactionRefundSn,
		"refund_reason":  utils.SanitizeDescription(request.RefundReason, bodyMaxLen),
	}

	notifyUrl := providers.AppendExpectationParams(request.AsynchronousNotificationUrl, map[string]string{
		constvars.ParamTransactionRefundSn: request.TransactionRefundSn,
		constvars.ParamOrderAmount:         request.OrderAmount.DecimalText(),
		constvars.ParamRefundAmount:        request.RefundAmount.DecimalText(),
		constvars.ParamCurrency:            request.RefundAmount.Currency,
	})

	envelope, err := p.execute(ctx, methodTradeRefund, notifyUrl, bizContent, request.TransactionSn)
	if err != nil {
		return nil, err
	}

	p.log.Info("alipay refund accepted",
		zap.String(constvars.LoggingProviderKey, p.provider),
		zap.String(constvars.LoggingTransactionSnKey, request.TransactionSn),
		zap.String(constvars.LoggingRefundSnKey, request.TransactionRefundSn),
	)

	return &responses.TransactionOrderRefund{
		TransactionSn:          request.TransactionSn,
		TransactionRefundSn:    request.TransactionRefundSn,
		OutTransactionRefundSn: envelope[notifyParamTradeNo],
		RefundAmount:           request.RefundAmount,
		OrderAmount:            request.OrderAmount,
		TransactionState:       models.TransactionStateWaitRefund,
		UseSandboxEnv:          p.sandbox,
		RawResponse:            responses.NewRawResponse(p.provider, envelope),
	}, nil
}

func (p *Plugin) QueryTransactionOrderRefund(ctx context.Context, request *requests.QueryTransactionOrderRefund) (*responses.TransactionOrderRefund, error) {
	bizContent := map[string]string{
		"out_trade_no":   request.TransactionSn,
		"out_request_no": request.TransactionRefundSn,
	}

	envelope, err := p.execute(ctx, methodRefundQuery, "", bizContent, request.TransactionSn)
	if err != nil {
		return nil, err
	}

	orderAmount, err := parseAmount(envelope, notifyParamTotalAmount, constvars.DefaultCurrency, money.Money{Currency: constvars.DefaultCurrency})
	if err != nil {
		return nil, err
	}
	refundAmount, err := parseAmount(envelope, "refund_amount", constvars.DefaultCurrency, money.Money{Currency: constvars.DefaultCurrency})
	if err != nil {
		return nil, err
	}

	// An envelope without a refund amount means the refund request has not
	// been settled yet.
	state := models.TransactionStateWaitRefund
	if !refundAmount.IsZero() {
		state, err = providers.ReconcileRefund(request.TransactionSn, orderAmount, refundAmount)
		if err != nil {
			return nil, err
		}
	}

	return &responses.TransactionOrderRefund{
		TransactionSn:          request.TransactionSn,
		TransactionRefundSn:    request.TransactionRefundSn,
		OutTransactionRefundSn: envelope[notifyParamTradeNo],
		RefundAmount:           refundAmount,
		OrderAmount:            orderAmount,
		TransactionState:       state,
		UseSandboxEnv:          p.sandbox,
		RawResponse:            responses.NewRawResponse(p.provider, envelope),
	}, nil
}

func (p *Plugin) OnPaymentEvent(ctx context.Context, event *requests.PaymentEvent) (*responses.QueryTransactionOrder, error) {
	params, err := parseNotification(event.RawPayload)
	if err != nil {
		return nil, err
	}

	if declared := params[notifyParamOutTradeNo]; declared != event.TransactionSn {
		return nil, exceptions.ErrNotificationMismatch(event.TransactionSn,
			fmt.Sprintf("declared transactionSn = %s", declared))
	}
	currency := event.OrderAmount.Currency
	declaredAmount, err := parseAmount(params, notifyParamTotalAmount, currency, money.Money{Currency: currency})
	if err != nil {
		return nil, err
	}
	if !declaredAmount.Equal(event.OrderAmount) {
		return nil, exceptions.ErrNotificationMismatch(event.TransactionSn,
			fmt.Sprintf("declared amount = %s, expected = %s", declaredAmount, event.OrderAmount))
	}

	if err := p.verifySignature(params, event.TransactionSn); err != nil {
		return nil, err
	}

	// Alipay omits buyer_pay_amount on some notification variants; the
	// verified order amount is the best available value then.
	buyerPayAmount, err := parseAmount(params, notifyParamBuyerPayAmount, currency, event.OrderAmount)
	if err != nil {
		return nil, err
	}
	receiptAmount, err := parseAmount(params, notifyParamReceiptAmount, currency, money.Money{Currency: currency})
	if err != nil {
		return nil, err
	}

	state := TranslateTradeState(constvars.AlipayTradeState(params[notifyParamTradeStatus]), buyerPayAmount)
	p.log.Info("alipay payment notification verified",
		zap.String(constvars.LoggingProviderKey, p.provider),
		zap.String(constvars.LoggingTransactionSnKey, event.TransactionSn),
		zap.String(constvars.LoggingStateKey, string(state)),
	)

	return &responses.QueryTransactionOrder{
		TransactionSn:    event.TransactionSn,
		OutTransactionSn: params[notifyParamTradeNo],
		OrderAmount:      event.OrderAmount,
		BuyerPayAmount:   buyerPayAmount,
		ReceiptAmount:    receiptAmount,
		PayerAccount:     params[notifyParamBuyerLogonID],
		TransactionState: state,
		UseSandboxEnv:    p.sandbox,
		RawResponse:      responses.NewRawResponse(p.provider, params),
	}, nil
}

func (p *Plugin) OnRefundEvent(ctx context.Context, event *requests.RefundEvent) (*responses.TransactionOrderRefund, error) {
	params, err := parseNotification(event.RawPayload)
	if err != nil {
		return nil, err
	}

	if declared := params[notifyParamOutBizNo]; declared != event.TransactionRefundSn {
		return nil, exceptions.ErrNotificationMismatch(event.TransactionRefundSn,
			fmt.Sprintf("declared refundSn = %s", declared))
	}
	currency := event.RefundAmount.Currency
	declaredRefund, err := parseAmount(params, notifyParamRefundFee, currency, money.Money{Currency: currency})
	if err != nil {
		return nil, err
	}
	if !declaredRefund.Equal(event.RefundAmount) {
		return nil, exceptions.ErrNotificationMismatch(event.TransactionRefundSn,
			fmt.Sprintf("declared refund amount = %s, expected = %s", declaredRefund, event.RefundAmount))
	}

	if err := p.verifySignature(params, event.TransactionRefundSn); err != nil {
		return nil, err
	}

	// Alipay only notifies settled refunds, so the state comes straight from
	// reconciling the refunded amount against the order total.
	state, err := providers.ReconcileRefund(params[notifyParamOutTradeNo], event.OrderAmount, event.RefundAmount)
	if err != nil {
		return nil, err
	}

	return &responses.TransactionOrderRefund{
		TransactionSn:          params[notifyParamOutTradeNo],
		TransactionRefundSn:    event.TransactionRefundSn,
		OutTransactionRefundSn: params[notifyParamTradeNo],
		RefundAmount:           event.RefundAmount,
		OrderAmount:            event.OrderAmount,
		TransactionState:       state,
		UseSandboxEnv:          p.sandbox,
		RawResponse:            responses.NewRawResponse(p.provider, params),
	}, nil
}

func (p *Plugin) WebhookAck(succeeded bool) *responses.WebhookAck {
	body := ackSuccess
	if !succeeded {
		body = ackFailure
	}
	return &responses.WebhookAck{
		ContentType: constvars.MIMETextPlainCharsetUTF8,
		Body:        body,
	}
}

// execute performs one Open API call and unwraps the envelope, converting a
// business rejection into a gateway request failure.
func (p *Plugin) execute(ctx context.Context, method, notifyUrl string, bizContent interface{}, transactionSn string) (map[string]string, error) {
	values, err := p.buildRequestParams(method, notifyUrl, bizContent)
	if err != nil {
		return nil, err
	}

	answer, err := p.client.Execute(ctx, &contracts.ProviderRequest{
		ContentType: constvars.MIMEApplicationForm,
		Body:        []byte(values.Encode()),
	})
	if err != nil {
		return nil, err
	}

	envelope, err := parseEnvelope(answer.Body, method)
	if err != nil {
		return nil, err
	}
	if !envelopeSucceeded(envelope) {
		return nil, envelopeError(transactionSn, envelope)
	}
	return envelope, nil
}

func (p *Plugin) subjectOf(request *requests.PrePaymentOrder) string {
	if request.Subject != "" {
		return request.Subject
	}
	return request.Description
}
