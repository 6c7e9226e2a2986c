package exceptions

import (
	"errors"
	"fmt"

	"paygate-service/internal/pkg/constvars"
)

// Taxonomy codes for payment transaction failures. Callers branch on these
// via the Is* helpers instead of matching messages.
const (
	CodeConfigurationInvalid        = "CONFIGURATION_INVALID"
	CodeValidationFailed            = "VALIDATION_FAILED"
	CodeNotificationMismatch        = "NOTIFICATION_MISMATCH"
	CodeSignatureVerificationFailed = "SIGNATURE_VERIFICATION_FAILED"
	CodeGatewayRequestFailed        = "GATEWAY_REQUEST_FAILED"
	CodeGatewayCommunicationError   = "GATEWAY_COMMUNICATION_ERROR"
)

// ErrConfigurationInvalid is fatal: a required provider credential or field
// is missing at plugin construction.
func ErrConfigurationInvalid(provider, field string) *CustomError {
	e := BuildNewCustomError(nil, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication,
		fmt.Sprintf("%s, provider = %s, field = %s", constvars.ErrDevConfigurationInvalid, provider, field))
	e.Code = CodeConfigurationInvalid
	return e
}

func ErrValidationFailed(err error) *CustomError {
	e := BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	e.Code = CodeValidationFailed
	return e
}

// ErrMissingRequestField rejects a request that passed struct validation but
// lacks a field a specific provider flow requires.
func ErrMissingRequestField(field string) *CustomError {
	e := BuildNewCustomError(nil, constvars.StatusBadRequest, fmt.Sprintf("Field %s is required", field),
		fmt.Sprintf("%s, field = %s", constvars.ErrDevValidationFailed, field))
	e.Code = CodeValidationFailed
	return e
}

func ErrUnknownProvider(provider string) *CustomError {
	e := BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientCannotProcessRequest,
		fmt.Sprintf("%s, provider = %s", constvars.ErrDevUnknownProvider, provider))
	e.Code = CodeValidationFailed
	return e
}

// ErrNotificationMismatch rejects a webhook whose declared identity or amount
// disagrees with the caller expectation. The event must not be processed.
func ErrNotificationMismatch(transactionSn, detail string) *CustomError {
	e := BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientNotificationRejected,
		fmt.Sprintf("%s, transactionSn = %s, %s", constvars.ErrDevNotificationMismatch, transactionSn, detail))
	e.Code = CodeNotificationMismatch
	e.TransactionSn = transactionSn
	return e
}

func ErrSignatureVerificationFailed(err error, transactionSn string) *CustomError {
	e := BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientNotificationRejected,
		fmt.Sprintf("%s, transactionSn = %s", constvars.ErrDevSignatureVerificationFailed, transactionSn))
	e.Code = CodeSignatureVerificationFailed
	e.TransactionSn = transactionSn
	return e
}

// ErrGatewayRequestFailed embeds the provider error code and message so the
// failure can be correlated with provider-side logs.
func ErrGatewayRequestFailed(transactionSn, providerCode, providerMsg string) *CustomError {
	e := BuildNewCustomError(nil, constvars.StatusBadGateway, constvars.ErrClientGatewayRejected,
		fmt.Sprintf("%s, transactionSn = %s, errorCode = %s, errorMessage = %s", constvars.ErrDevGatewayRequestFailed, transactionSn, providerCode, providerMsg))
	e.Code = CodeGatewayRequestFailed
	e.TransactionSn = transactionSn
	e.ProviderCode = providerCode
	e.ProviderMsg = providerMsg
	return e
}

func ErrGatewayCommunicationError(err error, transactionSn string) *CustomError {
	e := BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientGatewayUnreachable,
		fmt.Sprintf("%s, transactionSn = %s", constvars.ErrDevGatewayCommunicationError, transactionSn))
	e.Code = CodeGatewayCommunicationError
	e.TransactionSn = transactionSn
	return e
}

// ErrRefundExceedsOrder flags a refunded amount larger than the order total.
// This is a data-integrity failure, never a transaction state.
func ErrRefundExceedsOrder(transactionSn string) *CustomError {
	e := BuildNewCustomError(nil, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication,
		fmt.Sprintf("%s, transactionSn = %s", constvars.ErrDevRefundExceedsOrder, transactionSn))
	e.Code = CodeGatewayRequestFailed
	e.TransactionSn = transactionSn
	return e
}

func hasCode(err error, code string) bool {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Code == code
	}
	return false
}

func IsNotificationMismatch(err error) bool { return hasCode(err, CodeNotificationMismatch) }

func IsSignatureVerificationFailed(err error) bool {
	return hasCode(err, CodeSignatureVerificationFailed)
}

func IsValidationFailed(err error) bool { return hasCode(err, CodeValidationFailed) }

func IsGatewayRequestFailed(err error) bool { return hasCode(err, CodeGatewayRequestFailed) }

func IsGatewayCommunicationError(err error) bool {
	return hasCode(err, CodeGatewayCommunicationError)
}

func IsConfigurationInvalid(err error) bool { return hasCode(err, CodeConfigurationInvalid) }
