package crypto

import "fmt"

// Attestation is the proof a witness issues for a policy hash.
type Attestation struct {
	// CommitmentHash is the witness's commitment over the policy hash.
	CommitmentHash [32]byte
	// Timestamp is the witness time at which the attestation was issued.
	Timestamp uint64
}

// Witness is the external attestation collaborator. It attests policy
// commitments and supplies a monotonic clock, so timestamps on bound keys
// are attributable to an external, tamper-evident time source instead of
// the local wall clock.
type Witness interface {
	// Attest returns a proof for the policy hash, or an error if the
	// witness refuses.
	Attest(policyHash [32]byte) (*Attestation, error)

	// Now returns the witness's current time as Unix seconds.
	Now() uint64
}

// BindOption configures GenerateWitnessBound.
type BindOption func(*bindConfig)

type bindConfig struct {
	allowUnattested bool
}

// AllowUnattested permits key generation to proceed without a witness.
// The policy hash is then ignored and the returned key carries no binding
// signature. This is an explicit opt-in: without it, a missing witness
// fails closed with ErrWitnessUnavailable.
func AllowUnattested() BindOption {
	return func(c *bindConfig) { c.allowUnattested = true }
}

// GenerateWitnessBound generates a fresh hybrid key pair cryptographically
// bound to a policy commitment: the witness attests the policy hash, the
// new key signs policyHash || commitmentHash, and that binding signature is
// self-verified before any key material is returned. If any step fails the
// whole operation aborts and no key is handed to the caller.
//
// The binding signature consumes one use of the key's usage budget.
func GenerateWitnessBound(policyHash [32]byte, w Witness, opts ...BindOption) (*PrivateKey, *PublicKey, error) {
	var cfg bindConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if w == nil {
		if cfg.allowUnattested {
			return Generate()
		}
		return nil, nil, fmt.Errorf("%w: policy binding requires a witness", ErrWitnessUnavailable)
	}

	att, err := w.Attest(policyHash)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrAttestationRejected, err)
	}

	priv, pub, err := generate(w.Now)
	if err != nil {
		return nil, nil, err
	}

	binding := make([]byte, 0, len(policyHash)+len(att.CommitmentHash))
	binding = append(binding, policyHash[:]...)
	binding = append(binding, att.CommitmentHash[:]...)

	sig, err := priv.Sign(binding)
	if err != nil {
		return nil, nil, err
	}
	if err := pub.Verify(binding, sig); err != nil {
		return nil, nil, err
	}

	return priv, pub, nil
}
