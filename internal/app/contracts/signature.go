package contracts

// SignatureService signs outbound parameter sets and verifies inbound
// notification signatures for one provider configuration.
//
// Verify returns (false, nil) for a well-formed but invalid signature and a
// non-nil error only when the verification infrastructure itself failed
// (bad key material, undecodable signature encoding).
type SignatureService interface {
	Sign(params map[string]string) (string, error)
	Verify(params map[string]string, signature string) (bool, error)
}
