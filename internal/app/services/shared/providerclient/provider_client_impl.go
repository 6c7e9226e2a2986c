package providerclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"paygate-service/internal/app/contracts"
	"paygate-service/internal/pkg/constvars"
	"paygate-service/internal/pkg/exceptions"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client talks to one provider gateway. Outbound calls pass a token-bucket
// rate limiter and a circuit breaker so a degraded gateway cannot exhaust
// the request pool.
type Client struct {
	provider   string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	log        *zap.Logger
}

func NewClient(provider, baseURL string, timeout time.Duration, ratePerSecond int, log *zap.Logger) contracts.ProviderClient {
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    provider,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("provider circuit breaker state changed",
				zap.String(constvars.LoggingProviderKey, name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		provider:   provider,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		limiter:    rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond),
		log:        log,
	}
}

func (c *Client) Execute(ctx context.Context, request *contracts.ProviderRequest) (*contracts.ProviderResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrGatewayCommunicationError(err, "")
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doRequest(ctx, request)
	})
	if err != nil {
		return nil, exceptions.ErrGatewayCommunicationError(err, "")
	}

	return result.(*contracts.ProviderResponse), nil
}

func (c *Client) doRequest(ctx context.Context, request *contracts.ProviderRequest) (*contracts.ProviderResponse, error) {
	url := c.baseURL
	if request.Path != "" {
		url = c.baseURL + "/" + strings.TrimLeft(request.Path, "/")
	}

	httpRequest, err := http.NewRequestWithContext(ctx, constvars.MethodPost, url, bytes.NewReader(request.Body))
	if err != nil {
		return nil, err
	}
	httpRequest.Header.Set(constvars.HeaderContentType, request.ContentType)

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return nil, err
	}
	defer httpResponse.Body.Close()

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, err
	}

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		return nil, fmt.Errorf("gateway answered status %d", httpResponse.StatusCode)
	}

	return &contracts.ProviderResponse{
		StatusCode: httpResponse.StatusCode,
		Body:       body,
	}, nil
}
