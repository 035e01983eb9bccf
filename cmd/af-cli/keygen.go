package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authority-fabric/af-pqc/internal/audit"
	"github.com/authority-fabric/af-pqc/internal/crypto"
	"github.com/authority-fabric/af-pqc/internal/keyfile"
	"github.com/authority-fabric/af-pqc/internal/witness"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a hybrid key pair from a seed or bound to a policy",
	Long: `Generate a hybrid key pair (ML-DSA-65 + Ed25519).

With --seed, derivation is deterministic: the same seed always yields the
same key pair. The post-quantum secret is cached under the configured cache
directory, encrypted with a key derived from the seed, so later derivations
skip the expensive generation step.

With --policy-hash, a fresh key pair is generated and cryptographically
bound to the policy commitment: the configured witness (witness_token_dir
in the config file) attests the hash and the new key signs the binding.
Without a configured witness the command fails closed unless the config
sets allow_unattested: true.

Only the public key is written out; the private key is never persisted
whole.

Examples:
  af-cli keygen --seed <64 hex chars> --public-key pub.json
  af-cli keygen --policy-hash <64 hex chars> --public-key pub.json \
      --config config.yaml`,
	RunE: runKeygen,
}

var (
	keygenSeed       string
	keygenPolicyHash string
	keygenPubOut     string
)

func init() {
	keygenCmd.Flags().StringVar(&keygenSeed, "seed", "", "Seed as 64 hex characters (deterministic derivation)")
	keygenCmd.Flags().StringVar(&keygenPolicyHash, "policy-hash", "", "Policy hash as 64 hex characters (witness-bound generation)")
	keygenCmd.Flags().StringVarP(&keygenPubOut, "public-key", "o", "", "Output public key file (required)")
	_ = keygenCmd.MarkFlagRequired("public-key")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	switch {
	case keygenSeed != "" && keygenPolicyHash != "":
		return fmt.Errorf("--seed and --policy-hash are mutually exclusive")
	case keygenSeed != "":
		return runKeygenSeed()
	case keygenPolicyHash != "":
		return runKeygenBound()
	default:
		return fmt.Errorf("either --seed or --policy-hash is required")
	}
}

func runKeygenSeed() error {
	seed, err := parseSeed(keygenSeed)
	if err != nil {
		return err
	}

	priv, pub, err := crypto.GenerateFromSeed(seed, newSeedCache())
	if err != nil {
		return fmt.Errorf("failed to derive key pair: %w", err)
	}

	if err := keyfile.SavePublicKey(keygenPubOut, pub); err != nil {
		return err
	}

	if err := auditWriter.Write(audit.NewEvent(audit.EventKeyDerived, audit.ResultSuccess).
		WithObject(audit.Object{Type: "key", KeyID: priv.KeyID, Path: keygenPubOut}).
		WithContext(audit.Context{
			Algorithm:   pub.Algorithm.String(),
			OperationID: pub.OperationID,
		})); err != nil {
		return fmt.Errorf("audit write failed: %w", err)
	}

	fmt.Printf("Key ID: %s\n", priv.KeyID)
	fmt.Printf("Public key saved to: %s\n", keygenPubOut)
	return nil
}

func runKeygenBound() error {
	policyHash, err := parsePolicyHash(keygenPolicyHash)
	if err != nil {
		return err
	}

	var w crypto.Witness
	if cfg.WitnessTokenDir != "" {
		w = witness.NewTokenWitness(cfg.WitnessTokenDir)
	}
	var opts []crypto.BindOption
	if cfg.AllowUnattested {
		opts = append(opts, crypto.AllowUnattested())
	}

	priv, pub, err := crypto.GenerateWitnessBound(policyHash, w, opts...)
	if err != nil {
		return fmt.Errorf("failed to generate policy-bound key pair: %w", err)
	}

	if err := keyfile.SavePublicKey(keygenPubOut, pub); err != nil {
		return err
	}

	if err := auditWriter.Write(audit.NewEvent(audit.EventKeyBound, audit.ResultSuccess).
		WithObject(audit.Object{Type: "key", KeyID: priv.KeyID, Path: keygenPubOut}).
		WithContext(audit.Context{
			Algorithm:   pub.Algorithm.String(),
			OperationID: pub.OperationID,
			Witnessed:   w != nil,
		})); err != nil {
		return fmt.Errorf("audit write failed: %w", err)
	}

	fmt.Printf("Key ID: %s\n", priv.KeyID)
	if w != nil {
		fmt.Printf("Policy binding attested: %s\n", keygenPolicyHash)
	} else {
		fmt.Println("WARNING: key generated without witness attestation (allow_unattested).")
	}
	fmt.Printf("Public key saved to: %s\n", keygenPubOut)
	return nil
}

// parsePolicyHash decodes a 64-character hex policy hash.
func parsePolicyHash(s string) ([32]byte, error) {
	var hash [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil {
		return hash, fmt.Errorf("policy hash must be hex: %w", err)
	}
	if len(raw) != len(hash) {
		return hash, fmt.Errorf("policy hash must be %d bytes (%d hex characters), got %d bytes",
			len(hash), len(hash)*2, len(raw))
	}
	copy(hash[:], raw)
	return hash, nil
}
