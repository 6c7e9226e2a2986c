package constvars

// Validation messages for callers, mapped by validator tag.
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"url":      "must be a valid URL",
	"gt":       "must be greater than %s",
}

// TagsWithParams marks validator tags whose message needs the tag parameter.
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"gt":    true,
	"oneof": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientGatewayRejected               = "the payment gateway rejected the request"
	ErrClientGatewayUnreachable            = "the payment gateway could not be reached"
	ErrClientNotificationRejected          = "the notification could not be verified"
)

// Error messages for developers
const (
	ErrDevInvalidInput                = "invalid input"
	ErrDevValidationFailed            = "request validation failed"
	ErrDevCannotParseJSON             = "cannot parse JSON"
	ErrDevCannotMarshalJSON           = "cannot marshal JSON"
	ErrDevCannotReadBody              = "cannot read request body"
	ErrDevServerDeadlineExceeded      = "server deadline exceeded"
	ErrDevMissingRequestID            = "request id missing from context"
	ErrDevUnknownProvider             = "unknown payment provider"
	ErrDevConfigurationInvalid        = "provider configuration invalid"
	ErrDevNotificationMismatch        = "notification parameter mismatch"
	ErrDevSignatureVerificationFailed = "notification signature verification failed"
	ErrDevGatewayRequestFailed        = "gateway reported business failure"
	ErrDevGatewayCommunicationError   = "gateway communication failure"
	ErrDevRefundExceedsOrder          = "refunded amount exceeds order amount"
	ErrDevRedisSet                    = "failed to set value in redis"
	ErrDevRedisGet                    = "failed to get value from redis"
	ErrDevRedisDelete                 = "failed to delete value from redis"
	ErrDevQueuePublish                = "failed to publish message to queue"
	ErrDevQueuePublishNotConfirmed    = "publish was not confirmed by broker"
	ErrDevMinioCreateObject           = "failed to create object in storage"
	ErrDevInvalidAPIKey               = "INVALID_API_KEY"
	ErrDevAPIKeyRequired              = "API_KEY_REQUIRED"
)
