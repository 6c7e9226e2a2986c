package signature

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"paygate-service/internal/app/contracts"
	"paygate-service/internal/pkg/constvars"
	"paygate-service/internal/pkg/exceptions"
)

const (
	SignTypeMD5        = "MD5"
	SignTypeHMACSHA256 = "HMAC-SHA256"
)

var secretSkippedFields = []string{"sign"}

type secretSignatureService struct {
	secret   string
	signType string
}

// NewSecretSignatureService builds a merchant-key signer. The canonical
// string gets the key appended before hashing and the digest is uppercase hex.
func NewSecretSignatureService(secret, signType string) (contracts.SignatureService, error) {
	if secret == "" {
		return nil, exceptions.ErrConfigurationInvalid(constvars.ProviderWechat, "mch_key")
	}
	switch signType {
	case SignTypeMD5, SignTypeHMACSHA256:
	default:
		return nil, exceptions.ErrConfigurationInvalid(constvars.ProviderWechat, "sign_type")
	}
	return &secretSignatureService{secret: secret, signType: signType}, nil
}

func (s *secretSignatureService) Sign(params map[string]string) (string, error) {
	content := CanonicalString(params, secretSkippedFields...) + "&key=" + s.secret

	var digest []byte
	switch s.signType {
	case SignTypeHMACSHA256:
		mac := hmac.New(sha256.New, []byte(s.secret))
		mac.Write([]byte(content))
		digest = mac.Sum(nil)
	default:
		sum := md5.Sum([]byte(content))
		digest = sum[:]
	}
	return strings.ToUpper(hex.EncodeToString(digest)), nil
}

func (s *secretSignatureService) Verify(params map[string]string, sig string) (bool, error) {
	if sig == "" {
		return false, nil
	}
	expected, err := s.Sign(params)
	if err != nil {
		return false, fmt.Errorf("compute expected signature: %w", err)
	}
	matched := subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToUpper(sig))) == 1
	return matched, nil
}
