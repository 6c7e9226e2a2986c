package contracts

import (
	"context"
)

// ProviderRequest is one outbound exchange with a gateway endpoint. Body is
// already in the provider's wire encoding (signed form params for Alipay,
// signed XML for WeChat).
type ProviderRequest struct {
	Path        string
	ContentType string
	Body        []byte
}

// ProviderResponse carries the raw gateway answer. Business success or
// failure is encoded inside Body and is parsed by the provider plugin.
type ProviderResponse struct {
	StatusCode int
	Body       []byte
}

// ProviderClient performs a single synchronous exchange with the gateway.
// Transport failures (including circuit-breaker rejection and non-2xx
// answers) surface as GatewayCommunicationError; retry policy belongs to
// the caller.
type ProviderClient interface {
	Execute(ctx context.Context, request *ProviderRequest) (*ProviderResponse, error)
}
