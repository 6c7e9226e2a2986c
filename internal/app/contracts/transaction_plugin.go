package contracts

import (
	"context"

	"paygate-service/internal/pkg/dto/requests"
	"paygate-service/internal/pkg/dto/responses"
)

// TransactionPlugin is the uniform operation set every payment gateway
// integration implements. Instances are stateless after construction (they
// hold only immutable provider configuration) and are safe for concurrent
// use without locking.
type TransactionPlugin interface {
	// PreOrder creates an order with the provider and returns the
	// plugin-specific presentation artifact plus echoed serials and amount.
	PreOrder(ctx context.Context, request *requests.PrePaymentOrder) (*responses.PrePaymentOrder, error)

	// QueryTransactionOrder fetches the current provider state and
	// translates it to the canonical transaction state.
	QueryTransactionOrder(ctx context.Context, request *requests.QueryTransactionOrder) (*responses.QueryTransactionOrder, error)

	// TransactionOrderRefund initiates a refund. Refund completion is
	// asynchronous in every supported gateway, so a successful
	// acknowledgement always yields state WAIT_REFUND.
	TransactionOrderRefund(ctx context.Context, request *requests.TransactionOrderRefund) (*responses.TransactionOrderRefund, error)

	// QueryTransactionOrderRefund fetches refund status and applies the
	// full/partial/failed reconciliation rule.
	QueryTransactionOrderRefund(ctx context.Context, request *requests.QueryTransactionOrderRefund) (*responses.TransactionOrderRefund, error)

	// OnPaymentEvent verifies an inbound payment notification (parameter
	// consistency first, then signature) and translates it.
	OnPaymentEvent(ctx context.Context, event *requests.PaymentEvent) (*responses.QueryTransactionOrder, error)

	// OnRefundEvent verifies an inbound refund notification and translates it.
	OnRefundEvent(ctx context.Context, event *requests.RefundEvent) (*responses.TransactionOrderRefund, error)

	// WebhookAck returns the provider-native acknowledgement payload that
	// stops notification retries on success and triggers them on failure.
	WebhookAck(succeeded bool) *responses.WebhookAck
}
