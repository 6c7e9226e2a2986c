package contracts

import (
	"context"

	"paygate-service/internal/pkg/dto/requests"
	"paygate-service/internal/pkg/dto/responses"
)

// PaymentUsecase routes operations to the plugin registered for a provider,
// validates requests, and owns the webhook side effects (dedup ledger,
// payload archive, event publication).
type PaymentUsecase interface {
	PreOrder(ctx context.Context, provider string, request *requests.PrePaymentOrder) (*responses.PrePaymentOrder, error)
	QueryTransactionOrder(ctx context.Context, provider string, request *requests.QueryTransactionOrder) (*responses.QueryTransactionOrder, error)
	TransactionOrderRefund(ctx context.Context, provider string, request *requests.TransactionOrderRefund) (*responses.TransactionOrderRefund, error)
	QueryTransactionOrderRefund(ctx context.Context, provider string, request *requests.QueryTransactionOrderRefund) (*responses.TransactionOrderRefund, error)
	OnPaymentEvent(ctx context.Context, provider string, event *requests.PaymentEvent) (*responses.QueryTransactionOrder, error)
	OnRefundEvent(ctx context.Context, provider string, event *requests.RefundEvent) (*responses.TransactionOrderRefund, error)
	WebhookAck(provider string, succeeded bool) (*responses.WebhookAck, error)
}
