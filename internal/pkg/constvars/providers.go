package constvars

// Registered provider names. Routing picks the plugin by this key.
const (
	ProviderAlipay         = "alipay"
	ProviderAlipayAuthCode = "alipay-authcode"
	ProviderWechat         = "wechat"
)

const (
	// DefaultCurrency is the settlement currency of both supported gateways.
	DefaultCurrency = "CNY"
)

// AlipayTradeState is the trade state vocabulary of the Alipay open API.
type AlipayTradeState string

const (
	AlipayTradeStateWaitBuyerPay AlipayTradeState = "WAIT_BUYER_PAY"
	AlipayTradeStateSuccess      AlipayTradeState = "TRADE_SUCCESS"
	AlipayTradeStateFinished     AlipayTradeState = "TRADE_FINISHED"
	AlipayTradeStateClosed       AlipayTradeState = "TRADE_CLOSED"
)

// WechatTradeState is the trade state vocabulary of the WeChat Pay v2 API.
type WechatTradeState string

const (
	WechatTradeStateSuccess    WechatTradeState = "SUCCESS"
	WechatTradeStateRefund     WechatTradeState = "REFUND"
	WechatTradeStateNotPay     WechatTradeState = "NOTPAY"
	WechatTradeStateClosed     WechatTradeState = "CLOSED"
	WechatTradeStateRevoked    WechatTradeState = "REVOKED"
	WechatTradeStateUserPaying WechatTradeState = "USERPAYING"
	WechatTradeStatePayError   WechatTradeState = "PAYERROR"
)

// WechatRefundStatus is the per-record refund status vocabulary of the
// WeChat Pay v2 refund query API.
type WechatRefundStatus string

const (
	WechatRefundStatusSuccess    WechatRefundStatus = "SUCCESS"
	WechatRefundStatusClosed     WechatRefundStatus = "REFUNDCLOSE"
	WechatRefundStatusProcessing WechatRefundStatus = "PROCESSING"
	WechatRefundStatusChange     WechatRefundStatus = "CHANGE"
)
