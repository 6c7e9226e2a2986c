package utils

import (
	"errors"
	"net/http"

	"paygate-service/internal/pkg/constvars"
	"paygate-service/internal/pkg/dto/responses"
	"paygate-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

func BuildSuccessResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	response := responses.ResponseDTO{
		Success: true,
		Message: message,
		Data:    data,
	}
	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// LogError records an error without writing a response, for endpoints whose
// body is dictated by the caller's wire protocol.
func LogError(log *zap.Logger, err error) {
	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		log.Error(customErr.DevMessage,
			zap.String("error_code", customErr.Code),
			zap.String(constvars.LoggingTransactionSnKey, customErr.TransactionSn),
		)
		return
	}
	log.Error(err.Error())
}

func BuildErrorResponse(log *zap.Logger, w http.ResponseWriter, err error) {
	code := constvars.StatusInternalServerError
	clientMessage := constvars.ErrClientSomethingWrongWithApplication

	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		code = customErr.StatusCode
		clientMessage = customErr.ClientMessage
		log.Error(customErr.DevMessage,
			zap.String("error_code", customErr.Code),
			zap.String(constvars.LoggingTransactionSnKey, customErr.TransactionSn),
		)
	} else {
		log.Error(err.Error())
	}

	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	response := exceptions.CustomError{
		StatusCode:    code,
		Success:       false,
		ClientMessage: clientMessage,
	}
	if customErr != nil {
		response.Code = customErr.Code
	}

	if customErr != nil && GetEnvString("APP_ENV", "development") != "production" {
		response.DevMessage = customErr.DevMessage
	}
	json.NewEncoder(w).Encode(response)
}
