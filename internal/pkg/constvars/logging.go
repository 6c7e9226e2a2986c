package constvars

const (
	LoggingRequestIDKey     = "request_id"
	LoggingRequestKey       = "request"
	LoggingResponseKey      = "response"
	LoggingEndpointKey      = "endpoint"
	LoggingMethodKey        = "method"
	LoggingRemoteAddrKey    = "remote_addr"
	LoggingUserAgentKey     = "user_agent"
	LoggingQueryKey         = "query"
	LoggingDurationKey      = "duration"
	LoggingStatusCodeKey    = "status_code"
	LoggingSuccessKey       = "success"
	LoggingErrorTypeKey     = "error_type"
	LoggingProviderKey      = "provider"
	LoggingTransactionSnKey = "transaction_sn"
	LoggingRefundSnKey      = "transaction_refund_sn"
	LoggingStateKey         = "transaction_state"
	LoggingEventIDKey       = "event_id"
)
