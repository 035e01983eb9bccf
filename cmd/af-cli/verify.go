package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authority-fabric/af-pqc/internal/audit"
	"github.com/authority-fabric/af-pqc/internal/crypto"
	"github.com/authority-fabric/af-pqc/internal/keyfile"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a hybrid signature over a message",
	Long: `Verify a signature against a public key and a message.

Both halves must pass: the ML-DSA-65 half is checked first, then the
Ed25519 half. A failure reports which half rejected and exits non-zero.

Examples:
  af-cli verify --public-key pub.json --signature sig.json --input release.tar.gz
  af-cli verify --public-key pub.json --signature sig.json --message "hello"`,
	RunE: runVerify,
}

var (
	verifyPubKey    string
	verifySignature string
	verifyInput     string
	verifyMessage   string
)

func init() {
	verifyCmd.Flags().StringVarP(&verifyPubKey, "public-key", "k", "", "Public key file (required)")
	verifyCmd.Flags().StringVarP(&verifySignature, "signature", "s", "", "Signature file (required)")
	verifyCmd.Flags().StringVarP(&verifyInput, "input", "i", "", "File containing the signed message")
	verifyCmd.Flags().StringVarP(&verifyMessage, "message", "m", "", "Signed message as a literal string")
	_ = verifyCmd.MarkFlagRequired("public-key")
	_ = verifyCmd.MarkFlagRequired("signature")
}

func runVerify(cmd *cobra.Command, args []string) error {
	pub, err := keyfile.LoadPublicKey(verifyPubKey)
	if err != nil {
		return err
	}
	sig, err := keyfile.LoadSignature(verifySignature)
	if err != nil {
		return err
	}
	message, err := readMessage(verifyInput, verifyMessage)
	if err != nil {
		return err
	}

	verifyErr := pub.Verify(message, sig)

	result := audit.ResultSuccess
	reason := ""
	if verifyErr != nil {
		result = audit.ResultFailure
		reason = verifyErr.Error()
	}
	if err := auditWriter.Write(audit.NewEvent(audit.EventSignatureVerified, result).
		WithObject(audit.Object{Type: "signature", KeyID: sig.SignerKeyID, Path: verifySignature}).
		WithContext(audit.Context{
			Algorithm:   pub.Algorithm.String(),
			OperationID: sig.OperationID,
			MessageSize: len(message),
			Reason:      reason,
		})); err != nil {
		return fmt.Errorf("audit write failed: %w", err)
	}

	switch {
	case verifyErr == nil:
		fmt.Println("Signature valid: both halves verified.")
		return nil
	case errors.Is(verifyErr, crypto.ErrPQVerificationFailed):
		return fmt.Errorf("signature INVALID: post-quantum (ML-DSA-65) half rejected: %w", verifyErr)
	case errors.Is(verifyErr, crypto.ErrClassicalVerificationFailed):
		return fmt.Errorf("signature INVALID: classical (Ed25519) half rejected: %w", verifyErr)
	default:
		return fmt.Errorf("signature INVALID: %w", verifyErr)
	}
}
