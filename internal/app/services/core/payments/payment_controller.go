package payments

import (
	"context"
	"io"
	"net/http"
	"time"

	"paygate-service/internal/app/config"
	"paygate-service/internal/app/contracts"
	"paygate-service/internal/pkg/constvars"
	"paygate-service/internal/pkg/dto/requests"
	"paygate-service/internal/pkg/exceptions"
	"paygate-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type PaymentController struct {
	Log            *zap.Logger
	PaymentUsecase contracts.PaymentUsecase
	InternalConfig *config.InternalConfig
}

func NewPaymentController(logger *zap.Logger, paymentUsecase contracts.PaymentUsecase, internalConfig *config.InternalConfig) *PaymentController {
	return &PaymentController{
		Log:            logger,
		PaymentUsecase: paymentUsecase,
		InternalConfig: internalConfig,
	}
}

func (ctrl *PaymentController) requestTimeout() time.Duration {
	return time.Duration(ctrl.InternalConfig.App.RequestTimeoutInSeconds) * time.Second
}

func decodeJSONBody(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return exceptions.ErrReadBody(err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	return nil
}

func (ctrl *PaymentController) PreOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	request := &requests.PrePaymentOrder{}
	if err := decodeJSONBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.PaymentUsecase.PreOrder(ctx, chi.URLParam(r, "provider"), request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.PreOrderSuccessMessage, result)
}

func (ctrl *PaymentController) QueryTransactionOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	request := &requests.QueryTransactionOrder{
		TransactionSn:    chi.URLParam(r, "transactionSn"),
		OutTransactionSn: r.URL.Query().Get(constvars.ParamOutTransactionSn),
	}

	result, err := ctrl.PaymentUsecase.QueryTransactionOrder(ctx, chi.URLParam(r, "provider"), request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.QueryOrderSuccessMessage, result)
}

func (ctrl *PaymentController) TransactionOrderRefund(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	request := &requests.TransactionOrderRefund{}
	if err := decodeJSONBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	request.TransactionSn = chi.URLParam(r, "transactionSn")

	result, err := ctrl.PaymentUsecase.TransactionOrderRefund(ctx, chi.URLParam(r, "provider"), request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.RefundSuccessMessage, result)
}

func (ctrl *PaymentController) QueryTransactionOrderRefund(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.requestTimeout())
	defer cancel()

	request := &requests.QueryTransactionOrderRefund{
		TransactionSn:          chi.URLParam(r, "transactionSn"),
		TransactionRefundSn:    chi.URLParam(r, "transactionRefundSn"),
		OutTransactionSn:       r.URL.Query().Get(constvars.ParamOutTransactionSn),
		OutTransactionRefundSn: r.URL.Query().Get(constvars.ParamOutTransactionRefundSn),
	}

	result, err := ctrl.PaymentUsecase.QueryTransactionOrderRefund(ctx, chi.URLParam(r, "provider"), request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.QueryRefundSuccessMessage, result)
}
