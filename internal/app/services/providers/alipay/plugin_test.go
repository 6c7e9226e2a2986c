package alipay

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/url"
	"testing"

	"paygate-service/internal/app/contracts"
	"paygate-service/internal/app/models"
	"paygate-service/internal/app/services/shared/signature"
	"paygate-service/internal/pkg/dto/requests"
	"paygate-service/internal/pkg/dto/responses"
	"paygate-service/internal/pkg/exceptions"
	"paygate-service/internal/pkg/money"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeClient struct {
	lastRequest *contracts.ProviderRequest
	respond     func(request *contracts.ProviderRequest) (*contracts.ProviderResponse, error)
}

func (f *fakeClient) Execute(ctx context.Context, request *contracts.ProviderRequest) (*contracts.ProviderResponse, error) {
	f.lastRequest = request
	return f.respond(request)
}

func generateRSAKeyPair(t *testing.T) (string, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(t, err)

	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	assert.NoError(t, err)
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	assert.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})),
		string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}))
}

func newTestPlugin(t *testing.T, client *fakeClient) (*Plugin, contracts.SignatureService) {
	t.Helper()
	priv, pub := generateRSAKeyPair(t)
	config := &Config{
		AppID:         "2021000000000001",
		ServiceUrl:    "https://openapi.alipay.com/gateway.do",
		RsaPrivateKey: priv,
		RsaPublicKey:  pub,
	}
	plugin, err := NewPlugin(config, client, zap.NewNop())
	assert.NoError(t, err)

	signer, err := signature.NewRSASignatureService(priv, pub, signature.SignTypeRSA2)
	assert.NoError(t, err)
	return plugin, signer
}

func envelopeBody(method string, fields string) []byte {
	key := ""
	switch method {
	case methodTradePrecreate:
		key = "alipay_trade_precreate_response"
	case methodTradePay:
		key = "alipay_trade_pay_response"
	case methodTradeQuery:
		key = "alipay_trade_query_response"
	case methodTradeRefund:
		key = "alipay_trade_refund_response"
	case methodRefundQuery:
		key = "alipay_trade_fastpay_refund_query_response"
	}
	return []byte(`{"` + key + `":` + fields + `,"sign":"ignored"}`)
}

func TestPluginConfigValidation(t *testing.T) {
	t.Run("missing app id rejected", func(t *testing.T) {
		_, err := NewPlugin(&Config{ServiceUrl: "https://x"}, &fakeClient{}, zap.NewNop())
		assert.True(t, exceptions.IsConfigurationInvalid(err))
	})

	t.Run("unparsable key rejected", func(t *testing.T) {
		_, err := NewPlugin(&Config{
			AppID:         "1",
			ServiceUrl:    "https://x",
			RsaPrivateKey: "garbage",
			RsaPublicKey:  "garbage",
		}, &fakeClient{}, zap.NewNop())
		assert.True(t, exceptions.IsConfigurationInvalid(err))
	})
}

func TestPreOrder(t *testing.T) {
	request := &requests.PrePaymentOrder{
		TransactionSn:               "SN-1001",
		UserID:                      "user-1",
		OrderAmount:                 money.MustNew(10000, "CNY"),
		SynchronousCallbackUrl:      "https://merchant.example.com/return",
		AsynchronousNotificationUrl: "https://merchant.example.com/webhooks/alipay/payment",
		Description:                 "test order",
	}

	t.Run("qr pre-order returns code content", func(t *testing.T) {
		client := &fakeClient{respond: func(*contracts.ProviderRequest) (*contracts.ProviderResponse, error) {
			return &contracts.ProviderResponse{
				StatusCode: 200,
				Body:       envelopeBody(methodTradePrecreate, `{"code":"10000","msg":"Success","out_trade_no":"SN-1001","qr_code":"https://qr.alipay.com/abc"}`),
			}, nil
		}}
		plugin, _ := newTestPlugin(t, client)

		result, err := plugin.PreOrder(context.Background(), request)
		assert.NoError(t, err)
		assert.Equal(t, "SN-1001", result.TransactionSn)
		assert.Equal(t, models.TransactionStateWaitPay, result.TransactionState)
		assert.False(t, result.UseSandboxEnv)

		qr, ok := result.Result.(*responses.QrCodePayResult)
		assert.True(t, ok)
		assert.Equal(t, "https://qr.alipay.com/abc", qr.CodeContent)
	})

	t.Run("outbound request is signed and carries expectation params", func(t *testing.T) {
		client := &fakeClient{respond: func(*contracts.ProviderRequest) (*contracts.ProviderResponse, error) {
			return &contracts.ProviderResponse{
				StatusCode: 200,
				Body:       envelopeBody(methodTradePrecreate, `{"code":"10000","qr_code":"x"}`),
			}, nil
		}}
		plugin, _ := newTestPlugin(t, client)

		_, err := plugin.PreOrder(context.Background(), request)
		assert.NoError(t, err)

		sent, err := url.ParseQuery(string(client.lastRequest.Body))
		assert.NoError(t, err)
		assert.Equal(t, methodTradePrecreate, sent.Get("method"))
		assert.NotEmpty(t, sent.Get("sign"))

		notifyUrl, err := url.Parse(sent.Get("notify_url"))
		assert.NoError(t, err)
		assert.Equal(t, "SN-1001", notifyUrl.Query().Get("transaction_sn"))
		assert.Equal(t, "100.00", notifyUrl.Query().Get("order_amount"))
	})

	t.Run("gateway business rejection surfaces provider code", func(t *testing.T) {
		client := &fakeClient{respond: func(*contracts.ProviderRequest) (*contracts.ProviderResponse, error) {
			return &contracts.ProviderResponse{
				StatusCode: 200,
				Body:       envelopeBody(methodTradePrecreate, `{"code":"40004","msg":"Business Failed","sub_code":"ACQ.TOTAL_FEE_EXCEED","sub_msg":"amount too large"}`),
			}, nil
		}}
		plugin, _ := newTestPlugin(t, client)

		_, err := plugin.PreOrder(context.Background(), request)
		assert.True(t, exceptions.IsGatewayRequestFailed(err))

		var customErr *exceptions.CustomError
		assert.ErrorAs(t, err, &customErr)
		assert.Equal(t, "ACQ.TOTAL_FEE_EXCEED", customErr.ProviderCode)
	})

	t.Run("sandbox endpoint flags the response", func(t *testing.T) {
		priv, pub := generateRSAKeyPair(t)
		client := &fakeClient{respond: func(*contracts.ProviderRequest) (*contracts.ProviderResponse, error) {
			return &contracts.ProviderResponse{
				StatusCode: 200,
				Body:       envelopeBody(methodTradePrecreate, `{"code":"10000","qr_code":"x"}`),
			}, nil
		}}
		plugin, err := NewPlugin(&Config{
			AppID:         "1",
			ServiceUrl:    "https://openapi.alipaydev.com/gateway.do",
			RsaPrivateKey: priv,
			RsaPublicKey:  pub,
		}, client, zap.NewNop())
		assert.NoError(t, err)

		result, err := plugin.PreOrder(context.Background(), request)
		assert.NoError(t, err)
		assert.True(t, result.UseSandboxEnv)
	})
}

func TestPreOrderAuthCode(t *testing.T) {
	request := &requests.PrePaymentOrder{
		TransactionSn:               "SN-1002",
		UserID:                      "user-1",
		OrderAmount:                 money.MustNew(5000, "CNY"),
		SynchronousCallbackUrl:      "https://merchant.example.com/return",
		AsynchronousNotificationUrl: "https://merchant.example.com/webhooks/alipay/payment",
		Description:                 "counter sale",
		ContextVariables:            requests.ContextVariables{requests.ContextVariableAuthCode: "280000000000000000"},
	}

	newAuthCodePlugin := func(t *testing.T, client *fakeClient) *Plugin {
		priv, pub := generateRSAKeyPair(t)
		plugin, err := NewAuthCodePlugin(&Config{
			AppID:         "1",
			ServiceUrl:    "https://openapi.alipay.com/gateway.do",
			RsaPrivateKey: priv,
			RsaPublicKey:  pub,
		}, client, zap.NewNop())
		assert.NoError(t, err)
		return plugin
	}

	t.Run("captured immediately resolves to completed", func(t *testing.T) {
		client := &fakeClient{respond: func(*contracts.ProviderRequest) (*contracts.ProviderResponse, error) {
			return &contracts.ProviderResponse{
				StatusCode: 200,
				Body:       envelopeBody(methodTradePay, `{"code":"10000","trade_no":"2026083122001","buyer_pay_amount":"50.00"}`),
			}, nil
		}}
		plugin := newAuthCodePlugin(t, client)

		result, err := plugin.PreOrder(context.Background(), request)
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStateCompleted, result.TransactionState)
		assert.Equal(t, "2026083122001", result.OutTransactionSn)
	})

	t.Run("user paying resolves to paying", func(t *testing.T) {
		client := &fakeClient{respond: func(*contracts.ProviderRequest) (*contracts.ProviderResponse, error) {
			return &contracts.ProviderResponse{
				StatusCode: 200,
				Body:       envelopeBody(methodTradePay, `{"code":"10003","msg":"order processing"}`),
			}, nil
		}}
		plugin := newAuthCodePlugin(t, client)

		result, err := plugin.PreOrder(context.Background(), request)
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStatePaying, result.TransactionState)
	})

	t.Run("missing auth code rejected", func(t *testing.T) {
		plugin := newAuthCodePlugin(t, &fakeClient{})
		bare := *request
		bare.ContextVariables = nil

		_, err := plugin.PreOrder(context.Background(), &bare)
		assert.True(t, exceptions.IsValidationFailed(err))
	})
}

func TestQueryTransactionOrder(t *testing.T) {
	client := &fakeClient{respond: func(*contracts.ProviderRequest) (*contracts.ProviderResponse, error) {
		return &contracts.ProviderResponse{
			StatusCode: 200,
			Body: envelopeBody(methodTradeQuery,
				`{"code":"10000","trade_no":"2026083122002","trade_status":"TRADE_SUCCESS","total_amount":"100.00","buyer_pay_amount":"100.00","receipt_amount":"100.00","buyer_logon_id":"buy***@example.com"}`),
		}, nil
	}}
	plugin, _ := newTestPlugin(t, client)

	result, err := plugin.QueryTransactionOrder(context.Background(), &requests.QueryTransactionOrder{TransactionSn: "SN-1001"})
	assert.NoError(t, err)
	assert.Equal(t, models.TransactionStateCompleted, result.TransactionState)
	assert.Equal(t, "2026083122002", result.OutTransactionSn)
	assert.Equal(t, money.MustNew(10000, "CNY"), result.OrderAmount)
	assert.Equal(t, "buy***@example.com", result.PayerAccount)
}

func TestTransactionOrderRefund(t *testing.T) {
	client := &fakeClient{respond: func(*contracts.ProviderRequest) (*contracts.ProviderResponse, error) {
		return &contracts.ProviderResponse{
			StatusCode: 200,
			Body:       envelopeBody(methodTradeRefund, `{"code":"10000","trade_no":"2026083122003","refund_fee":"30.00"}`),
		}, nil
	}}
	plugin, _ := newTestPlugin(t, client)

	result, err := plugin.TransactionOrderRefund(context.Background(), &requests.TransactionOrderRefund{
		TransactionSn:               "SN-1001",
		OutTransactionSn:            "2026083122003",
		TransactionRefundSn:         "RF-1",
		RefundAmount:                money.MustNew(3000, "CNY"),
		OrderAmount:                 money.MustNew(10000, "CNY"),
		AsynchronousNotificationUrl: "https://merchant.example.com/webhooks/alipay/refund",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.TransactionStateWaitRefund, result.TransactionState)
	assert.False(t, result.IsFullRefund())
}

func TestQueryTransactionOrderRefund(t *testing.T) {
	query := &requests.QueryTransactionOrderRefund{
		TransactionSn:       "SN-1001",
		TransactionRefundSn: "RF-1",
	}

	respondWith := func(fields string) *fakeClient {
		return &fakeClient{respond: func(*contracts.ProviderRequest) (*contracts.ProviderResponse, error) {
			return &contracts.ProviderResponse{StatusCode: 200, Body: envelopeBody(methodRefundQuery, fields)}, nil
		}}
	}

	t.Run("partial refund", func(t *testing.T) {
		plugin, _ := newTestPlugin(t, respondWith(`{"code":"10000","total_amount":"100.00","refund_amount":"30.00"}`))
		result, err := plugin.QueryTransactionOrderRefund(context.Background(), query)
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStatePartialRefund, result.TransactionState)
	})

	t.Run("full refund", func(t *testing.T) {
		plugin, _ := newTestPlugin(t, respondWith(`{"code":"10000","total_amount":"100.00","refund_amount":"100.00"}`))
		result, err := plugin.QueryTransactionOrderRefund(context.Background(), query)
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStateRefunded, result.TransactionState)
		assert.True(t, result.IsFullRefund())
	})

	t.Run("refund not settled yet", func(t *testing.T) {
		plugin, _ := newTestPlugin(t, respondWith(`{"code":"10000","total_amount":"100.00"}`))
		result, err := plugin.QueryTransactionOrderRefund(context.Background(), query)
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStateWaitRefund, result.TransactionState)
	})

	t.Run("refund exceeding order is an integrity failure", func(t *testing.T) {
		plugin, _ := newTestPlugin(t, respondWith(`{"code":"10000","total_amount":"100.00","refund_amount":"150.00"}`))
		_, err := plugin.QueryTransactionOrderRefund(context.Background(), query)
		assert.Error(t, err)
	})
}

func signedNotification(t *testing.T, signer contracts.SignatureService, params map[string]string) []byte {
	t.Helper()
	sign, err := signer.Sign(params)
	assert.NoError(t, err)
	params["sign"] = sign
	params["sign_type"] = "RSA2"

	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	return []byte(values.Encode())
}

func TestOnPaymentEvent(t *testing.T) {
	expectation := func() *requests.PaymentEvent {
		return &requests.PaymentEvent{
			TransactionSn: "SN-1001",
			OrderAmount:   money.MustNew(10000, "CNY"),
		}
	}

	t.Run("verified success notification resolves to completed", func(t *testing.T) {
		plugin, signer := newTestPlugin(t, &fakeClient{})
		event := expectation()
		event.RawPayload = signedNotification(t, signer, map[string]string{
			"out_trade_no":     "SN-1001",
			"trade_no":         "2026083122004",
			"trade_status":     "TRADE_SUCCESS",
			"total_amount":     "100.00",
			"buyer_pay_amount": "100.00",
			"buyer_logon_id":   "buy***@example.com",
		})

		result, err := plugin.OnPaymentEvent(context.Background(), event)
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStateCompleted, result.TransactionState)
		assert.Equal(t, "2026083122004", result.OutTransactionSn)
	})

	t.Run("missing paid amount falls back to expectation", func(t *testing.T) {
		plugin, signer := newTestPlugin(t, &fakeClient{})
		event := expectation()
		event.RawPayload = signedNotification(t, signer, map[string]string{
			"out_trade_no": "SN-1001",
			"trade_status": "TRADE_SUCCESS",
			"total_amount": "100.00",
		})

		result, err := plugin.OnPaymentEvent(context.Background(), event)
		assert.NoError(t, err)
		assert.Equal(t, event.OrderAmount, result.BuyerPayAmount)
	})

	t.Run("serial mismatch rejected before signature check", func(t *testing.T) {
		plugin, _ := newTestPlugin(t, &fakeClient{})
		event := expectation()
		// Unsigned payload: if the signature were checked first this would be
		// a signature failure, not a mismatch.
		event.RawPayload = []byte("out_trade_no=SN-9999&trade_status=TRADE_SUCCESS&total_amount=100.00")

		_, err := plugin.OnPaymentEvent(context.Background(), event)
		assert.True(t, exceptions.IsNotificationMismatch(err))
	})

	t.Run("amount mismatch rejected before signature check", func(t *testing.T) {
		plugin, _ := newTestPlugin(t, &fakeClient{})
		event := expectation()
		event.RawPayload = []byte("out_trade_no=SN-1001&trade_status=TRADE_SUCCESS&total_amount=999.00")

		_, err := plugin.OnPaymentEvent(context.Background(), event)
		assert.True(t, exceptions.IsNotificationMismatch(err))
	})

	t.Run("tampered signature rejected", func(t *testing.T) {
		plugin, signer := newTestPlugin(t, &fakeClient{})
		event := expectation()
		payload := signedNotification(t, signer, map[string]string{
			"out_trade_no": "SN-1001",
			"trade_status": "TRADE_SUCCESS",
			"total_amount": "100.00",
		})
		values, err := url.ParseQuery(string(payload))
		assert.NoError(t, err)
		values.Set("sign", "dGFtcGVyZWQ=")
		event.RawPayload = []byte(values.Encode())

		_, err = plugin.OnPaymentEvent(context.Background(), event)
		assert.True(t, exceptions.IsSignatureVerificationFailed(err))
	})

	t.Run("closed trade without payment resolves to closed", func(t *testing.T) {
		plugin, signer := newTestPlugin(t, &fakeClient{})
		event := expectation()
		event.RawPayload = signedNotification(t, signer, map[string]string{
			"out_trade_no":     "SN-1001",
			"trade_status":     "TRADE_CLOSED",
			"total_amount":     "100.00",
			"buyer_pay_amount": "0.00",
		})

		result, err := plugin.OnPaymentEvent(context.Background(), event)
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStateClosed, result.TransactionState)
	})
}

func TestOnRefundEvent(t *testing.T) {
	expectation := func() *requests.RefundEvent {
		return &requests.RefundEvent{
			TransactionRefundSn: "RF-1",
			OrderAmount:         money.MustNew(10000, "CNY"),
			RefundAmount:        money.MustNew(10000, "CNY"),
		}
	}

	t.Run("full refund notification resolves to refunded", func(t *testing.T) {
		plugin, signer := newTestPlugin(t, &fakeClient{})
		event := expectation()
		event.RawPayload = signedNotification(t, signer, map[string]string{
			"out_trade_no": "SN-1001",
			"trade_no":     "2026083122005",
			"out_biz_no":   "RF-1",
			"refund_fee":   "100.00",
			"total_amount": "100.00",
		})

		result, err := plugin.OnRefundEvent(context.Background(), event)
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStateRefunded, result.TransactionState)
		assert.Equal(t, "SN-1001", result.TransactionSn)
	})

	t.Run("partial refund notification resolves to partial", func(t *testing.T) {
		plugin, signer := newTestPlugin(t, &fakeClient{})
		event := expectation()
		event.RefundAmount = money.MustNew(3000, "CNY")
		event.RawPayload = signedNotification(t, signer, map[string]string{
			"out_trade_no": "SN-1001",
			"out_biz_no":   "RF-1",
			"refund_fee":   "30.00",
			"total_amount": "100.00",
		})

		result, err := plugin.OnRefundEvent(context.Background(), event)
		assert.NoError(t, err)
		assert.Equal(t, models.TransactionStatePartialRefund, result.TransactionState)
	})

	t.Run("refund serial mismatch rejected", func(t *testing.T) {
		plugin, _ := newTestPlugin(t, &fakeClient{})
		event := expectation()
		event.RawPayload = []byte("out_biz_no=RF-9999&refund_fee=100.00")

		_, err := plugin.OnRefundEvent(context.Background(), event)
		assert.True(t, exceptions.IsNotificationMismatch(err))
	})
}

func TestWebhookAck(t *testing.T) {
	plugin, _ := newTestPlugin(t, &fakeClient{})

	ack := plugin.WebhookAck(true)
	assert.Equal(t, "success", ack.Body)
	assert.Contains(t, ack.ContentType, "text/plain")

	nack := plugin.WebhookAck(false)
	assert.Equal(t, "failure", nack.Body)
}
