package main

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authority-fabric/af-pqc/internal/crypto"
	"github.com/authority-fabric/af-pqc/internal/keyfile"
)

// addressSize is the truncated length of the public key digest.
const addressSize = 20

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Derive the short address of a public key",
	Long: `Derive a 20-byte address from a public key.

The address is the first 20 bytes of SHA-256 over the public key bytes
followed by the creation timestamp and operation ID, both little-endian.
Two keys derived from the same seed at different times therefore share an
address only if their provenance matches.

Examples:
  af-cli address --public-key pub.json
  af-cli address --public-key pub.json --format base64`,
	RunE: runAddress,
}

var (
	addressPubKey string
	addressFormat string
)

func init() {
	addressCmd.Flags().StringVarP(&addressPubKey, "public-key", "k", "", "Public key file (required)")
	addressCmd.Flags().StringVar(&addressFormat, "format", "hex", "Output format: hex, base64")
	_ = addressCmd.MarkFlagRequired("public-key")
}

// deriveAddress computes SHA-256(bytes || le64(created_at) || le64(operation_id))[:20].
func deriveAddress(pub *crypto.PublicKey) [addressSize]byte {
	h := sha256.New()
	h.Write(pub.Bytes)
	var meta [8]byte
	binary.LittleEndian.PutUint64(meta[:], pub.CreatedAt)
	h.Write(meta[:])
	binary.LittleEndian.PutUint64(meta[:], pub.OperationID)
	h.Write(meta[:])

	var addr [addressSize]byte
	copy(addr[:], h.Sum(nil))
	return addr
}

func runAddress(cmd *cobra.Command, args []string) error {
	pub, err := keyfile.LoadPublicKey(addressPubKey)
	if err != nil {
		return err
	}

	addr := deriveAddress(pub)
	switch addressFormat {
	case "hex":
		fmt.Println(hex.EncodeToString(addr[:]))
	case "base64":
		fmt.Println(base64.StdEncoding.EncodeToString(addr[:]))
	default:
		return fmt.Errorf("unsupported format: %s (use hex or base64)", addressFormat)
	}
	return nil
}
