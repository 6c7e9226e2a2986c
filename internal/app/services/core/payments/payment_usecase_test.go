package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"paygate-service/internal/app/config"
	"paygate-service/internal/app/contracts"
	"paygate-service/internal/app/models"
	"paygate-service/internal/pkg/constvars"
	"paygate-service/internal/pkg/dto/requests"
	"paygate-service/internal/pkg/dto/responses"
	"paygate-service/internal/pkg/exceptions"
	"paygate-service/internal/pkg/money"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakePlugin struct {
	preOrderCalls int
	refundCalls   int

	preOrderResult *responses.PrePaymentOrder
	queryResult    *responses.QueryTransactionOrder
	refundResult   *responses.TransactionOrderRefund
	paymentResult  *responses.QueryTransactionOrder
	refundEvResult *responses.TransactionOrderRefund
	err            error
}

func (f *fakePlugin) PreOrder(ctx context.Context, request *requests.PrePaymentOrder) (*responses.PrePaymentOrder, error) {
	f.preOrderCalls++
	return f.preOrderResult, f.err
}

func (f *fakePlugin) QueryTransactionOrder(ctx context.Context, request *requests.QueryTransactionOrder) (*responses.QueryTransactionOrder, error) {
	return f.queryResult, f.err
}

func (f *fakePlugin) TransactionOrderRefund(ctx context.Context, request *requests.TransactionOrderRefund) (*responses.TransactionOrderRefund, error) {
	f.refundCalls++
	return f.refundResult, f.err
}

func (f *fakePlugin) QueryTransactionOrderRefund(ctx context.Context, request *requests.QueryTransactionOrderRefund) (*responses.TransactionOrderRefund, error) {
	return f.refundResult, f.err
}

func (f *fakePlugin) OnPaymentEvent(ctx context.Context, event *requests.PaymentEvent) (*responses.QueryTransactionOrder, error) {
	return f.paymentResult, f.err
}

func (f *fakePlugin) OnRefundEvent(ctx context.Context, event *requests.RefundEvent) (*responses.TransactionOrderRefund, error) {
	return f.refundEvResult, f.err
}

func (f *fakePlugin) WebhookAck(succeeded bool) *responses.WebhookAck {
	body := "success"
	if !succeeded {
		body = "failure"
	}
	return &responses.WebhookAck{ContentType: constvars.MIMETextPlainCharsetUTF8, Body: body}
}

type fakeRedisRepo struct {
	setOnceFirst bool
	setOnceErr   error
	setOnceKeys  []string
	deletedKeys  []string
}

func (f *fakeRedisRepo) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	return nil
}

func (f *fakeRedisRepo) SetOnce(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	f.setOnceKeys = append(f.setOnceKeys, key)
	return f.setOnceFirst, f.setOnceErr
}

func (f *fakeRedisRepo) Get(ctx context.Context, key string) (string, error) { return "", nil }

func (f *fakeRedisRepo) Delete(ctx context.Context, key string) error {
	f.deletedKeys = append(f.deletedKeys, key)
	return nil
}

type fakePublisher struct {
	err    error
	events []*models.TransactionEvent
}

func (f *fakePublisher) Publish(ctx context.Context, event *models.TransactionEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fakeArchive struct {
	err   error
	calls int
}

func (f *fakeArchive) Archive(ctx context.Context, provider, eventID string, payload []byte, contentType string) (string, error) {
	f.calls++
	return "object-name", f.err
}

func newTestUsecase(plugin contracts.TransactionPlugin, redisRepo *fakeRedisRepo, publisher *fakePublisher, archive contracts.PayloadArchive) *paymentUsecase {
	return &paymentUsecase{
		Plugins:        map[string]contracts.TransactionPlugin{constvars.ProviderAlipay: plugin},
		RedisRepo:      redisRepo,
		EventPublisher: publisher,
		PayloadArchive: archive,
		InternalConfig: &config.InternalConfig{App: config.App{NotificationDedupTTLInMinutes: 30}},
		Log:            zap.NewNop(),
	}
}

func validPreOrderRequest() *requests.PrePaymentOrder {
	return &requests.PrePaymentOrder{
		TransactionSn:               "SN-1",
		UserID:                      "user-1",
		OrderAmount:                 money.MustNew(10000, "CNY"),
		SynchronousCallbackUrl:      "https://merchant.example.com/return",
		AsynchronousNotificationUrl: "https://merchant.example.com/webhooks/alipay/payment",
	}
}

func TestPreOrderRouting(t *testing.T) {
	t.Run("unknown provider rejected", func(t *testing.T) {
		uc := newTestUsecase(&fakePlugin{}, &fakeRedisRepo{}, &fakePublisher{}, nil)

		_, err := uc.PreOrder(context.Background(), "stripe", validPreOrderRequest())
		assert.True(t, exceptions.IsValidationFailed(err))
	})

	t.Run("invalid request never reaches the plugin", func(t *testing.T) {
		plugin := &fakePlugin{}
		uc := newTestUsecase(plugin, &fakeRedisRepo{}, &fakePublisher{}, nil)

		_, err := uc.PreOrder(context.Background(), constvars.ProviderAlipay, &requests.PrePaymentOrder{TransactionSn: "SN-1"})
		assert.True(t, exceptions.IsValidationFailed(err))
		assert.Equal(t, 0, plugin.preOrderCalls)
	})

	t.Run("valid request delegated", func(t *testing.T) {
		plugin := &fakePlugin{preOrderResult: &responses.PrePaymentOrder{
			TransactionSn:    "SN-1",
			TransactionState: models.TransactionStateWaitPay,
		}}
		uc := newTestUsecase(plugin, &fakeRedisRepo{}, &fakePublisher{}, nil)

		result, err := uc.PreOrder(context.Background(), constvars.ProviderAlipay, validPreOrderRequest())
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStateWaitPay, result.TransactionState)
		assert.Equal(t, 1, plugin.preOrderCalls)
	})
}

func TestTransactionOrderRefundGuards(t *testing.T) {
	t.Run("refund above order rejected before the plugin", func(t *testing.T) {
		plugin := &fakePlugin{}
		uc := newTestUsecase(plugin, &fakeRedisRepo{}, &fakePublisher{}, nil)

		_, err := uc.TransactionOrderRefund(context.Background(), constvars.ProviderAlipay, &requests.TransactionOrderRefund{
			TransactionSn:               "SN-1",
			OutTransactionSn:            "OUT-1",
			TransactionRefundSn:         "RF-1",
			RefundAmount:                money.MustNew(20000, "CNY"),
			OrderAmount:                 money.MustNew(10000, "CNY"),
			AsynchronousNotificationUrl: "https://merchant.example.com/webhooks/alipay/refund",
		})
		assert.Error(t, err)
		assert.Equal(t, 0, plugin.refundCalls)
	})

	t.Run("refund within order delegated", func(t *testing.T) {
		plugin := &fakePlugin{refundResult: &responses.TransactionOrderRefund{
			TransactionState: models.TransactionStateWaitRefund,
		}}
		uc := newTestUsecase(plugin, &fakeRedisRepo{}, &fakePublisher{}, nil)

		result, err := uc.TransactionOrderRefund(context.Background(), constvars.ProviderAlipay, &requests.TransactionOrderRefund{
			TransactionSn:               "SN-1",
			OutTransactionSn:            "OUT-1",
			TransactionRefundSn:         "RF-1",
			RefundAmount:                money.MustNew(4000, "CNY"),
			OrderAmount:                 money.MustNew(10000, "CNY"),
			AsynchronousNotificationUrl: "https://merchant.example.com/webhooks/alipay/refund",
		})
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStateWaitRefund, result.TransactionState)
	})
}

func paymentEventFixture() (*requests.PaymentEvent, *fakePlugin) {
	event := &requests.PaymentEvent{
		TransactionSn: "SN-1",
		OrderAmount:   money.MustNew(10000, "CNY"),
		RawPayload:    []byte("raw notification body"),
	}
	plugin := &fakePlugin{paymentResult: &responses.QueryTransactionOrder{
		TransactionSn:    "SN-1",
		OutTransactionSn: "OUT-1",
		OrderAmount:      event.OrderAmount,
		BuyerPayAmount:   event.OrderAmount,
		TransactionState: models.TransactionStateCompleted,
	}}
	return event, plugin
}

func TestOnPaymentEventSideEffects(t *testing.T) {
	t.Run("first delivery is archived and published", func(t *testing.T) {
		event, plugin := paymentEventFixture()
		redisRepo := &fakeRedisRepo{setOnceFirst: true}
		publisher := &fakePublisher{}
		archive := &fakeArchive{}
		uc := newTestUsecase(plugin, redisRepo, publisher, archive)

		result, err := uc.OnPaymentEvent(context.Background(), constvars.ProviderAlipay, event)
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStateCompleted, result.TransactionState)

		assert.Equal(t, 1, archive.calls)
		assert.Len(t, publisher.events, 1)
		published := publisher.events[0]
		assert.Equal(t, models.TransactionEventPayment, published.Kind)
		assert.Equal(t, "SN-1", published.TransactionSn)
		assert.Equal(t, models.TransactionStateCompleted, published.State)
		assert.NotEmpty(t, published.ID)

		assert.Len(t, redisRepo.setOnceKeys, 1)
		assert.Equal(t, "notification:alipay:payment:SN-1:COMPLETED", redisRepo.setOnceKeys[0])
	})

	t.Run("replayed delivery is acknowledged without publishing", func(t *testing.T) {
		event, plugin := paymentEventFixture()
		redisRepo := &fakeRedisRepo{setOnceFirst: false}
		publisher := &fakePublisher{}
		uc := newTestUsecase(plugin, redisRepo, publisher, nil)

		_, err := uc.OnPaymentEvent(context.Background(), constvars.ProviderAlipay, event)
		assert.NoError(t, err)
		assert.Empty(t, publisher.events)
	})

	t.Run("publish failure releases the dedup slot", func(t *testing.T) {
		event, plugin := paymentEventFixture()
		redisRepo := &fakeRedisRepo{setOnceFirst: true}
		publisher := &fakePublisher{err: errors.New("broker unavailable")}
		uc := newTestUsecase(plugin, redisRepo, publisher, nil)

		_, err := uc.OnPaymentEvent(context.Background(), constvars.ProviderAlipay, event)
		assert.Error(t, err)
		assert.Equal(t, redisRepo.setOnceKeys, redisRepo.deletedKeys)
	})

	t.Run("archive failure does not block the event", func(t *testing.T) {
		event, plugin := paymentEventFixture()
		redisRepo := &fakeRedisRepo{setOnceFirst: true}
		publisher := &fakePublisher{}
		archive := &fakeArchive{err: errors.New("bucket missing")}
		uc := newTestUsecase(plugin, redisRepo, publisher, archive)

		_, err := uc.OnPaymentEvent(context.Background(), constvars.ProviderAlipay, event)
		assert.NoError(t, err)
		assert.Len(t, publisher.events, 1)
	})

	t.Run("rejected notification publishes nothing", func(t *testing.T) {
		event, plugin := paymentEventFixture()
		plugin.paymentResult = nil
		plugin.err = exceptions.ErrNotificationMismatch("SN-1", "declared amount differs")
		redisRepo := &fakeRedisRepo{setOnceFirst: true}
		publisher := &fakePublisher{}
		uc := newTestUsecase(plugin, redisRepo, publisher, nil)

		_, err := uc.OnPaymentEvent(context.Background(), constvars.ProviderAlipay, event)
		assert.True(t, exceptions.IsNotificationMismatch(err))
		assert.Empty(t, redisRepo.setOnceKeys)
		assert.Empty(t, publisher.events)
	})
}

func TestOnRefundEventSideEffects(t *testing.T) {
	event := &requests.RefundEvent{
		TransactionRefundSn: "RF-1",
		OrderAmount:         money.MustNew(10000, "CNY"),
		RefundAmount:        money.MustNew(10000, "CNY"),
		RawPayload:          []byte("raw refund body"),
	}
	plugin := &fakePlugin{refundEvResult: &responses.TransactionOrderRefund{
		TransactionSn:       "SN-1",
		TransactionRefundSn: "RF-1",
		OrderAmount:         event.OrderAmount,
		RefundAmount:        event.RefundAmount,
		TransactionState:    models.TransactionStateRefunded,
	}}
	redisRepo := &fakeRedisRepo{setOnceFirst: true}
	publisher := &fakePublisher{}
	uc := newTestUsecase(plugin, redisRepo, publisher, nil)

	result, err := uc.OnRefundEvent(context.Background(), constvars.ProviderAlipay, event)
	assert.NoError(t, err)
	assert.Equal(t, models.TransactionStateRefunded, result.TransactionState)

	assert.Len(t, publisher.events, 1)
	assert.Equal(t, models.TransactionEventRefund, publisher.events[0].Kind)
	assert.Equal(t, "RF-1", publisher.events[0].TransactionRefundSn)
	assert.Equal(t, "notification:alipay:refund:RF-1:REFUNDED", redisRepo.setOnceKeys[0])
}

func TestWebhookAckRouting(t *testing.T) {
	uc := newTestUsecase(&fakePlugin{}, &fakeRedisRepo{}, &fakePublisher{}, nil)

	ack, err := uc.WebhookAck(constvars.ProviderAlipay, true)
	assert.NoError(t, err)
	assert.Equal(t, "success", ack.Body)

	_, err = uc.WebhookAck("stripe", false)
	assert.Error(t, err)
}
