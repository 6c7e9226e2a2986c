package contracts

import (
	"context"

	"paygate-service/internal/app/models"
)

// TransactionEventPublisher hands verified canonical transaction events to
// downstream consumers.
type TransactionEventPublisher interface {
	Publish(ctx context.Context, event *models.TransactionEvent) error
}
