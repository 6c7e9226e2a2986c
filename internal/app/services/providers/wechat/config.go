package wechat

import (
	"paygate-service/internal/pkg/constvars"
	"paygate-service/internal/pkg/exceptions"
)

// SandboxMarker is the path segment of the WeChat Pay v2 sandbox gateway.
const SandboxMarker = "sandboxnew"

type Config struct {
	AppID         string
	MchID         string
	MchKey        string
	SubAppID      string
	SubMchID      string
	ServiceUrl    string
	SignType      string
	UseSandboxEnv bool
}

func (c *Config) Validate() error {
	switch {
	case c.AppID == "":
		return exceptions.ErrConfigurationInvalid(constvars.ProviderWechat, "app_id")
	case c.MchID == "":
		return exceptions.ErrConfigurationInvalid(constvars.ProviderWechat, "mch_id")
	case c.MchKey == "":
		return exceptions.ErrConfigurationInvalid(constvars.ProviderWechat, "mch_key")
	case c.ServiceUrl == "":
		return exceptions.ErrConfigurationInvalid(constvars.ProviderWechat, "service_url")
	}
	if c.SignType == "" {
		c.SignType = "MD5"
	}
	return nil
}
