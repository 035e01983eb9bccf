package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authority-fabric/af-pqc/internal/audit"
	"github.com/authority-fabric/af-pqc/internal/crypto"
	"github.com/authority-fabric/af-pqc/internal/keyfile"
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a message with a seed-derived hybrid key",
	Long: `Re-derive the hybrid key pair from a seed and sign a message.

The message comes from --input (a file), --message (a literal string), or
stdin when neither is given. The resulting signature covers the message with
both the ML-DSA-65 and the Ed25519 half.

Examples:
  af-cli sign --seed <64 hex chars> --input release.tar.gz --output sig.json
  af-cli sign --seed <64 hex chars> --message "hello" --output sig.json
  echo -n "hello" | af-cli sign --seed <64 hex chars> --output sig.json`,
	RunE: runSign,
}

var (
	signSeed    string
	signInput   string
	signMessage string
	signOutput  string
)

func init() {
	signCmd.Flags().StringVar(&signSeed, "seed", "", "Seed as 64 hex characters (required)")
	signCmd.Flags().StringVarP(&signInput, "input", "i", "", "File containing the message to sign")
	signCmd.Flags().StringVarP(&signMessage, "message", "m", "", "Message to sign as a literal string")
	signCmd.Flags().StringVarP(&signOutput, "output", "o", "", "Output signature file (required)")
	_ = signCmd.MarkFlagRequired("seed")
	_ = signCmd.MarkFlagRequired("output")
}

func runSign(cmd *cobra.Command, args []string) error {
	seed, err := parseSeed(signSeed)
	if err != nil {
		return err
	}
	message, err := readMessage(signInput, signMessage)
	if err != nil {
		return err
	}

	priv, _, err := crypto.GenerateFromSeed(seed, newSeedCache())
	if err != nil {
		return fmt.Errorf("failed to derive key pair: %w", err)
	}

	sig, err := priv.Sign(message)
	if err != nil {
		if auditErr := auditWriter.Write(audit.NewEvent(audit.EventMessageSigned, audit.ResultFailure).
			WithObject(audit.Object{Type: "signature", KeyID: priv.KeyID}).
			WithContext(audit.Context{
				Algorithm:   priv.Algorithm.String(),
				MessageSize: len(message),
				Reason:      err.Error(),
			})); auditErr != nil {
			return fmt.Errorf("audit write failed: %w", auditErr)
		}
		return fmt.Errorf("failed to sign message: %w", err)
	}

	if err := keyfile.SaveSignature(signOutput, sig); err != nil {
		return err
	}

	if err := auditWriter.Write(audit.NewEvent(audit.EventMessageSigned, audit.ResultSuccess).
		WithObject(audit.Object{Type: "signature", KeyID: sig.SignerKeyID, Path: signOutput}).
		WithContext(audit.Context{
			Algorithm:   sig.Algorithm.String(),
			OperationID: sig.OperationID,
			MessageSize: len(message),
		})); err != nil {
		return fmt.Errorf("audit write failed: %w", err)
	}

	fmt.Printf("Signature saved to: %s\n", signOutput)
	return nil
}
