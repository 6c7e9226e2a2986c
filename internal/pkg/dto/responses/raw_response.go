package responses

// RawResponse is the provider-tagged escape hatch carrying the gateway's
// original structured response for diagnostics. Callers that need raw
// details switch on Provider instead of casting blindly; nothing in this
// service depends on the Payload shape.
type RawResponse struct {
	Provider string      `json:"provider"`
	Payload  interface{} `json:"payload"`
}

func NewRawResponse(provider string, payload interface{}) *RawResponse {
	return &RawResponse{Provider: provider, Payload: payload}
}
