package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/authority-fabric/af-pqc/internal/audit"
	"github.com/authority-fabric/af-pqc/internal/crypto"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate a new 32-byte master seed",
	Long: `Generate a new 32-byte seed from OS entropy.

The seed is the master secret: anyone holding it can re-derive the full
hybrid key pair. It is printed once and never stored by this tool.

Examples:
  af-cli seed
  af-cli seed --format base64`,
	RunE: runSeed,
}

var seedFormat string

func init() {
	seedCmd.Flags().StringVar(&seedFormat, "format", "hex", "Output format: hex, base64")
}

func runSeed(cmd *cobra.Command, args []string) error {
	seed := make([]byte, crypto.SeedSize)
	if err := crypto.SecureRandomBytes(seed); err != nil {
		return fmt.Errorf("failed to generate seed: %w", err)
	}

	var encoded string
	switch seedFormat {
	case "hex":
		encoded = hex.EncodeToString(seed)
	case "base64":
		encoded = base64.StdEncoding.EncodeToString(seed)
	default:
		return fmt.Errorf("unsupported format: %s (use hex or base64)", seedFormat)
	}

	if err := auditWriter.Write(audit.NewEvent(audit.EventSeedGenerated, audit.ResultSuccess).
		WithObject(audit.Object{Type: "seed"})); err != nil {
		return fmt.Errorf("audit write failed: %w", err)
	}

	fmt.Println(encoded)
	fmt.Fprintln(os.Stderr, "WARNING: this seed is the master secret. Store it safely; it will not be shown again.")
	return nil
}
