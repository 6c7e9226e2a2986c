package signature

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"paygate-service/internal/app/contracts"
	"paygate-service/internal/pkg/constvars"
	"paygate-service/internal/pkg/exceptions"
)

const (
	SignTypeRSA  = "RSA"
	SignTypeRSA2 = "RSA2"
)

// Fields excluded from the canonical string before hashing.
var rsaSkippedFields = []string{"sign", "sign_type"}

type rsaSignatureService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	hash       crypto.Hash
}

// NewRSASignatureService builds a signer from base64 or PEM encoded key
// material. SignType RSA uses SHA1, RSA2 uses SHA256.
func NewRSASignatureService(privateKey, publicKey, signType string) (contracts.SignatureService, error) {
	var hash crypto.Hash
	switch signType {
	case SignTypeRSA:
		hash = crypto.SHA1
	case SignTypeRSA2:
		hash = crypto.SHA256
	default:
		return nil, exceptions.ErrConfigurationInvalid(constvars.ProviderAlipay, "sign_type")
	}

	priv, err := parseRSAPrivateKey(privateKey)
	if err != nil {
		return nil, exceptions.ErrConfigurationInvalid(constvars.ProviderAlipay, "rsa_private_key")
	}

	pub, err := parseRSAPublicKey(publicKey)
	if err != nil {
		return nil, exceptions.ErrConfigurationInvalid(constvars.ProviderAlipay, "rsa_public_key")
	}

	return &rsaSignatureService{
		privateKey: priv,
		publicKey:  pub,
		hash:       hash,
	}, nil
}

func (s *rsaSignatureService) Sign(params map[string]string) (string, error) {
	content := CanonicalString(params, rsaSkippedFields...)
	hasher := s.hash.New()
	hasher.Write([]byte(content))

	signed, err := rsa.SignPKCS1v15(rand.Reader, s.privateKey, s.hash, hasher.Sum(nil))
	if err != nil {
		return "", fmt.Errorf("rsa sign: %w", err)
	}
	return base64.StdEncoding.EncodeToString(signed), nil
}

func (s *rsaSignatureService) Verify(params map[string]string, sig string) (bool, error) {
	decoded, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return false, nil
	}

	content := CanonicalString(params, rsaSkippedFields...)
	hasher := s.hash.New()
	hasher.Write([]byte(content))

	if err := rsa.VerifyPKCS1v15(s.publicKey, s.hash, hasher.Sum(nil), decoded); err != nil {
		return false, nil
	}
	return true, nil
}

// parseRSAPrivateKey accepts PKCS1 or PKCS8 keys, with or without PEM armor.
func parseRSAPrivateKey(raw string) (*rsa.PrivateKey, error) {
	der, err := decodeKeyMaterial(raw)
	if err != nil {
		return nil, err
	}

	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an RSA private key")
	}
	return key, nil
}

func parseRSAPublicKey(raw string) (*rsa.PublicKey, error) {
	der, err := decodeKeyMaterial(raw)
	if err != nil {
		return nil, err
	}

	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		if key, pkcs1Err := x509.ParsePKCS1PublicKey(der); pkcs1Err == nil {
			return key, nil
		}
		return nil, err
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}
	return key, nil
}

func decodeKeyMaterial(raw string) ([]byte, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New("empty key material")
	}

	if strings.HasPrefix(trimmed, "-----") {
		block, _ := pem.Decode([]byte(trimmed))
		if block == nil {
			return nil, errors.New("malformed PEM block")
		}
		return block.Bytes, nil
	}

	compact := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, trimmed)
	return base64.StdEncoding.DecodeString(compact)
}
