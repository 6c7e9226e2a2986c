package payments

import (
	"context"
	"io"
	"net/http"
	"time"

	"paygate-service/internal/app/config"
	"paygate-service/internal/app/contracts"
	"paygate-service/internal/pkg/constvars"
	"paygate-service/internal/pkg/dto/requests"
	"paygate-service/internal/pkg/dto/responses"
	"paygate-service/internal/pkg/exceptions"
	"paygate-service/internal/pkg/money"
	"paygate-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// WebhookController terminates gateway notifications. Whatever happens
// during processing, a known provider always receives its native ack body:
// success stops the gateway retry loop, failure keeps it running.
type WebhookController struct {
	Log            *zap.Logger
	PaymentUsecase contracts.PaymentUsecase
	InternalConfig *config.InternalConfig
}

func NewWebhookController(logger *zap.Logger, paymentUsecase contracts.PaymentUsecase, internalConfig *config.InternalConfig) *WebhookController {
	return &WebhookController{
		Log:            logger,
		PaymentUsecase: paymentUsecase,
		InternalConfig: internalConfig,
	}
}

func (ctrl *WebhookController) OnPaymentEvent(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(ctrl.InternalConfig.App.RequestTimeoutInSeconds)*time.Second)
	defer cancel()

	rawPayload, err := io.ReadAll(r.Body)
	if err != nil {
		ctrl.respond(w, provider, exceptions.ErrReadBody(err))
		return
	}

	query := r.URL.Query()
	currency := query.Get(constvars.ParamCurrency)
	if currency == "" {
		currency = constvars.DefaultCurrency
	}
	orderAmount, err := money.ParseText(query.Get(constvars.ParamOrderAmount), currency)
	if err != nil {
		ctrl.respond(w, provider, exceptions.ErrNotificationMismatch(query.Get(constvars.ParamTransactionSn), "order_amount expectation is not a money amount"))
		return
	}

	event := &requests.PaymentEvent{
		TransactionSn: query.Get(constvars.ParamTransactionSn),
		OrderAmount:   orderAmount,
		RawPayload:    rawPayload,
	}

	_, err = ctrl.PaymentUsecase.OnPaymentEvent(ctx, provider, event)
	ctrl.respond(w, provider, err)
}

func (ctrl *WebhookController) OnRefundEvent(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(ctrl.InternalConfig.App.RequestTimeoutInSeconds)*time.Second)
	defer cancel()

	rawPayload, err := io.ReadAll(r.Body)
	if err != nil {
		ctrl.respond(w, provider, exceptions.ErrReadBody(err))
		return
	}

	query := r.URL.Query()
	currency := query.Get(constvars.ParamCurrency)
	if currency == "" {
		currency = constvars.DefaultCurrency
	}
	refundSn := query.Get(constvars.ParamTransactionRefundSn)
	orderAmount, err := money.ParseText(query.Get(constvars.ParamOrderAmount), currency)
	if err != nil {
		ctrl.respond(w, provider, exceptions.ErrNotificationMismatch(refundSn, "order_amount expectation is not a money amount"))
		return
	}
	refundAmount, err := money.ParseText(query.Get(constvars.ParamRefundAmount), currency)
	if err != nil {
		ctrl.respond(w, provider, exceptions.ErrNotificationMismatch(refundSn, "refund_amount expectation is not a money amount"))
		return
	}

	event := &requests.RefundEvent{
		TransactionRefundSn: refundSn,
		OrderAmount:         orderAmount,
		RefundAmount:        refundAmount,
		RawPayload:          rawPayload,
	}

	_, err = ctrl.PaymentUsecase.OnRefundEvent(ctx, provider, event)
	ctrl.respond(w, provider, err)
}

// respond writes the provider-native ack. err == nil acknowledges success;
// any processing error answers the failure ack so the gateway redelivers.
// Only an unknown provider falls back to a JSON error.
func (ctrl *WebhookController) respond(w http.ResponseWriter, provider string, err error) {
	succeeded := err == nil
	if err != nil {
		utils.LogError(ctrl.Log, err)
	}

	ack, ackErr := ctrl.PaymentUsecase.WebhookAck(provider, succeeded)
	if ackErr != nil {
		utils.BuildErrorResponse(ctrl.Log, w, ackErr)
		return
	}
	ctrl.writeAck(w, ack)
}

func (ctrl *WebhookController) writeAck(w http.ResponseWriter, ack *responses.WebhookAck) {
	w.Header().Set(constvars.HeaderContentType, ack.ContentType)
	w.WriteHeader(constvars.StatusOK)
	w.Write([]byte(ack.Body))
}
