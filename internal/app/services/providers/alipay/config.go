package alipay

import (
	"paygate-service/internal/pkg/constvars"
	"paygate-service/internal/pkg/exceptions"
)

// SandboxMarker appears in the host name of Alipay's developer sandbox
// gateway.
const SandboxMarker = "alipaydev"

type Config struct {
	AppID         string
	Partner       string
	ServiceUrl    string
	RsaPrivateKey string
	RsaPublicKey  string
	Charset       string
	SignType      string
}

func (c *Config) Validate() error {
	switch {
	case c.AppID == "":
		return exceptions.ErrConfigurationInvalid(constvars.ProviderAlipay, "app_id")
	case c.ServiceUrl == "":
		return exceptions.ErrConfigurationInvalid(constvars.ProviderAlipay, "service_url")
	case c.RsaPrivateKey == "":
		return exceptions.ErrConfigurationInvalid(constvars.ProviderAlipay, "rsa_private_key")
	case c.RsaPublicKey == "":
		return exceptions.ErrConfigurationInvalid(constvars.ProviderAlipay, "rsa_public_key")
	}
	if c.Charset == "" {
		c.Charset = "utf-8"
	}
	if c.SignType == "" {
		c.SignType = "RSA2"
	}
	return nil
}
