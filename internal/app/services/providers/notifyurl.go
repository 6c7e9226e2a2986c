package providers

import (
	"net/url"
)

// AppendExpectationParams adds the cross-check parameters to a notification
// URL so an inbound webhook can be matched against the call that registered
// it.
func AppendExpectationParams(notifyUrl string, expectation map[string]string) string {
	parsed, err := url.Parse(notifyUrl)
	if err != nil {
		return notifyUrl
	}
	query := parsed.Query()
	for key, value := range expectation {
		query.Set(key, value)
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
