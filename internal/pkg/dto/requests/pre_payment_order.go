package requests

import (
	"time"

	"paygate-service/internal/pkg/money"
)

// Context variable names understood by specific provider plugins.
const (
	ContextVariableAuthCode = "auth_code"
	ContextVariableScene    = "scene"
)

const DefaultOrderValidity = 15 * time.Minute

// PrePaymentOrder creates an order with the provider. TransactionSn is the
// caller-assigned serial number, unique per attempt, and is the correlation
// key across retries: it round-trips unchanged in every response and webhook.
type PrePaymentOrder struct {
	TransactionSn               string           `json:"transaction_sn" validate:"required"`
	UserID                      string           `json:"user_id" validate:"required"`
	OrderAmount                 money.Money      `json:"order_amount" validate:"money_positive"`
	SynchronousCallbackUrl      string           `json:"synchronous_callback_url" validate:"required,url"`
	AsynchronousNotificationUrl string           `json:"asynchronous_notification_url" validate:"required,url"`
	ValidityDuration            time.Duration    `json:"validity_duration"`
	Description                 string           `json:"description"`
	Subject                     string           `json:"subject"`
	SceneInfo                   string           `json:"scene_info,omitempty"`
	RequestSourceIp             string           `json:"request_source_ip,omitempty"`
	ProductShowUrl              string           `json:"product_show_url,omitempty"`
	ContextVariables            ContextVariables `json:"context_variables,omitempty"`
}

// EffectiveValidity returns the configured validity or the 15 minute default.
func (r *PrePaymentOrder) EffectiveValidity() time.Duration {
	if r.ValidityDuration <= 0 {
		return DefaultOrderValidity
	}
	return r.ValidityDuration
}
