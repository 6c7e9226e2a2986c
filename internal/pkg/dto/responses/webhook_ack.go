package responses

// WebhookAck is the provider-native body a webhook endpoint must answer
// with to stop (success) or trigger (failure) the gateway's retry loop.
type WebhookAck struct {
	ContentType string `json:"content_type"`
	Body        string `json:"body"`
}
