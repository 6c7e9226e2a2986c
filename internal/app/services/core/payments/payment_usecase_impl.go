package payments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"paygate-service/internal/app/config"
	"paygate-service/internal/app/contracts"
	"paygate-service/internal/app/models"
	"paygate-service/internal/pkg/constvars"
	"paygate-service/internal/pkg/dto/requests"
	"paygate-service/internal/pkg/dto/responses"
	"paygate-service/internal/pkg/exceptions"
	"paygate-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type paymentUsecase struct {
	Plugins        map[string]contracts.TransactionPlugin
	RedisRepo      contracts.RedisRepository
	EventPublisher contracts.TransactionEventPublisher
	PayloadArchive contracts.PayloadArchive
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
}

var (
	paymentUsecaseInstance contracts.PaymentUsecase
	oncePaymentUsecase     sync.Once
)

func NewPaymentUsecase(
	plugins map[string]contracts.TransactionPlugin,
	redisRepo contracts.RedisRepository,
	eventPublisher contracts.TransactionEventPublisher,
	payloadArchive contracts.PayloadArchive,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PaymentUsecase {
	oncePaymentUsecase.Do(func() {
		instance := &paymentUsecase{
			Plugins:        plugins,
			RedisRepo:      redisRepo,
			EventPublisher: eventPublisher,
			PayloadArchive: payloadArchive,
			InternalConfig: internalConfig,
			Log:            logger,
		}
		paymentUsecaseInstance = instance
	})
	return paymentUsecaseInstance
}

func (uc *paymentUsecase) plugin(provider string) (contracts.TransactionPlugin, error) {
	plugin, ok := uc.Plugins[provider]
	if !ok {
		return nil, exceptions.ErrUnknownProvider(provider)
	}
	return plugin, nil
}

func (uc *paymentUsecase) PreOrder(ctx context.Context, provider string, request *requests.PrePaymentOrder) (*responses.PrePaymentOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.PreOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderKey, provider),
		zap.String(constvars.LoggingTransactionSnKey, request.TransactionSn),
	)

	plugin, err := uc.plugin(provider)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrValidationFailed(err)
	}
	return plugin.PreOrder(ctx, request)
}

func (uc *paymentUsecase) QueryTransactionOrder(ctx context.Context, provider string, request *requests.QueryTransactionOrder) (*responses.QueryTransactionOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.QueryTransactionOrder called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderKey, provider),
		zap.String(constvars.LoggingTransactionSnKey, request.TransactionSn),
	)

	plugin, err := uc.plugin(provider)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrValidationFailed(err)
	}
	return plugin.QueryTransactionOrder(ctx, request)
}

func (uc *paymentUsecase) TransactionOrderRefund(ctx context.Context, provider string, request *requests.TransactionOrderRefund) (*responses.TransactionOrderRefund, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.TransactionOrderRefund called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderKey, provider),
		zap.String(constvars.LoggingTransactionSnKey, request.TransactionSn),
		zap.String(constvars.LoggingRefundSnKey, request.TransactionRefundSn),
	)

	plugin, err := uc.plugin(provider)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrValidationFailed(err)
	}
	if request.RefundAmount.GreaterThan(request.OrderAmount) {
		return nil, exceptions.ErrRefundExceedsOrder(request.TransactionSn)
	}
	return plugin.TransactionOrderRefund(ctx, request)
}

func (uc *paymentUsecase) QueryTransactionOrderRefund(ctx context.Context, provider string, request *requests.QueryTransactionOrderRefund) (*responses.TransactionOrderRefund, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.QueryTransactionOrderRefund called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderKey, provider),
		zap.String(constvars.LoggingTransactionSnKey, request.TransactionSn),
		zap.String(constvars.LoggingRefundSnKey, request.TransactionRefundSn),
	)

	plugin, err := uc.plugin(provider)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrValidationFailed(err)
	}
	return plugin.QueryTransactionOrderRefund(ctx, request)
}

func (uc *paymentUsecase) OnPaymentEvent(ctx context.Context, provider string, event *requests.PaymentEvent) (*responses.QueryTransactionOrder, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.OnPaymentEvent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderKey, provider),
		zap.String(constvars.LoggingTransactionSnKey, event.TransactionSn),
	)

	plugin, err := uc.plugin(provider)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(event); err != nil {
		return nil, exceptions.ErrValidationFailed(err)
	}

	result, err := plugin.OnPaymentEvent(ctx, event)
	if err != nil {
		return nil, err
	}

	transactionEvent := &models.TransactionEvent{
		ID:               utils.GenerateEventID(),
		Provider:         provider,
		Kind:             models.TransactionEventPayment,
		TransactionSn:    result.TransactionSn,
		OutTransactionSn: result.OutTransactionSn,
		State:            result.TransactionState,
		OrderAmount:      result.OrderAmount,
		BuyerPayAmount:   result.BuyerPayAmount,
		OccurredAt:       time.Now().UTC(),
	}
	dedupKey := fmt.Sprintf("notification:%s:payment:%s:%s", provider, result.TransactionSn, result.TransactionState)
	if err := uc.recordEvent(ctx, transactionEvent, dedupKey, event.RawPayload, plugin.WebhookAck(true).ContentType); err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *paymentUsecase) OnRefundEvent(ctx context.Context, provider string, event *requests.RefundEvent) (*responses.TransactionOrderRefund, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("paymentUsecase.OnRefundEvent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderKey, provider),
		zap.String(constvars.LoggingRefundSnKey, event.TransactionRefundSn),
	)

	plugin, err := uc.plugin(provider)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(event); err != nil {
		return nil, exceptions.ErrValidationFailed(err)
	}

	result, err := plugin.OnRefundEvent(ctx, event)
	if err != nil {
		return nil, err
	}

	transactionEvent := &models.TransactionEvent{
		ID:                     utils.GenerateEventID(),
		Provider:               provider,
		Kind:                   models.TransactionEventRefund,
		TransactionSn:          result.TransactionSn,
		TransactionRefundSn:    result.TransactionRefundSn,
		OutTransactionRefundSn: result.OutTransactionRefundSn,
		State:                  result.TransactionState,
		OrderAmount:            result.OrderAmount,
		RefundAmount:           result.RefundAmount,
		OccurredAt:             time.Now().UTC(),
	}
	dedupKey := fmt.Sprintf("notification:%s:refund:%s:%s", provider, result.TransactionRefundSn, result.TransactionState)
	if err := uc.recordEvent(ctx, transactionEvent, dedupKey, event.RawPayload, plugin.WebhookAck(true).ContentType); err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *paymentUsecase) WebhookAck(provider string, succeeded bool) (*responses.WebhookAck, error) {
	plugin, err := uc.plugin(provider)
	if err != nil {
		return nil, err
	}
	return plugin.WebhookAck(succeeded), nil
}

// recordEvent runs the webhook side effects for a verified notification:
// the dedup ledger decides whether this delivery is the first one, the raw
// payload is archived best effort, and the canonical event is published.
// A replayed delivery is acknowledged without publishing again.
func (uc *paymentUsecase) recordEvent(ctx context.Context, event *models.TransactionEvent, dedupKey string, rawPayload []byte, contentType string) error {
	ttl := time.Duration(uc.InternalConfig.App.NotificationDedupTTLInMinutes) * time.Minute
	first, err := uc.RedisRepo.SetOnce(ctx, dedupKey, event.ID, ttl)
	if err != nil {
		return err
	}
	if !first {
		uc.Log.Info("paymentUsecase.recordEvent skipped replayed notification",
			zap.String(constvars.LoggingProviderKey, event.Provider),
			zap.String(constvars.LoggingTransactionSnKey, event.TransactionSn),
			zap.String(constvars.LoggingStateKey, string(event.State)),
		)
		return nil
	}

	if uc.PayloadArchive != nil {
		if _, err := uc.PayloadArchive.Archive(ctx, event.Provider, event.ID, rawPayload, contentType); err != nil {
			uc.Log.Warn("paymentUsecase.recordEvent failed archiving payload",
				zap.String(constvars.LoggingEventIDKey, event.ID),
				zap.Error(err),
			)
		}
	}

	if err := uc.EventPublisher.Publish(ctx, event); err != nil {
		// Release the dedup slot so the gateway retry can publish the event.
		_ = uc.RedisRepo.Delete(ctx, dedupKey)
		return err
	}
	return nil
}
