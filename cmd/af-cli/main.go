// Command af-cli manages mandatory hybrid signature keys.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/authority-fabric/af-pqc/internal/audit"
	"github.com/authority-fabric/af-pqc/internal/config"
	"github.com/authority-fabric/af-pqc/internal/crypto"
)

// Build-time variables (injected by GoReleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	configPath   string
	auditLogPath string
)

// Resolved per invocation by the root PersistentPreRunE.
var (
	cfg         *config.Config
	auditWriter audit.Writer = audit.NopWriter{}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "af-cli",
	Short: "Mandatory hybrid signature tool (ML-DSA-65 + Ed25519)",
	Long: `af-cli generates keys and signs messages under a mandatory hybrid scheme:
every key carries both an ML-DSA-65 (post-quantum) half and an Ed25519
(classical) half, every signature covers the message with both halves, and
verification requires BOTH to pass. Pure single-algorithm keys are rejected.

Keys can be derived deterministically from a 32-byte seed. The expensive
post-quantum half is cached on disk, encrypted under a key derived from the
seed itself, so re-derivation is cheap without ever storing the seed.

Examples:
  # Generate a new master seed
  af-cli seed

  # Derive a key pair and save the public half
  af-cli keygen --seed <64 hex chars> --public-key pub.json

  # Sign a file
  af-cli sign --seed <64 hex chars> --input release.tar.gz --output sig.json

  # Verify
  af-cli verify --public-key pub.json --signature sig.json --input release.tar.gz

  # Derive the short address of a public key
  af-cli address --public-key pub.json`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
		} else {
			cfg = config.Default()
		}

		// Flag wins over config file, env var is the last fallback.
		if auditLogPath == "" {
			auditLogPath = cfg.AuditLog
		}
		if auditLogPath == "" {
			auditLogPath = os.Getenv("AF_AUDIT_LOG")
		}
		if auditLogPath != "" {
			w, err := audit.NewFileWriter(auditLogPath)
			if err != nil {
				return fmt.Errorf("failed to initialize audit log: %w", err)
			}
			auditWriter = w
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return auditWriter.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&auditLogPath, "audit-log", "",
		"Path to audit log file (or set AF_AUDIT_LOG env var)")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(addressCmd)
}

// parseSeed decodes a 64-character hex seed.
func parseSeed(s string) (*[crypto.SeedSize]byte, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("seed must be hex: %w", err)
	}
	if len(raw) != crypto.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes (%d hex characters), got %d bytes",
			crypto.SeedSize, crypto.SeedSize*2, len(raw))
	}
	seed := new([crypto.SeedSize]byte)
	copy(seed[:], raw)
	return seed, nil
}

// newSeedCache builds the encrypted on-disk cache from the active config.
func newSeedCache() *crypto.SeedCache {
	return crypto.NewSeedCache(crypto.NewFileStore(cfg.CacheDir))
}

// readMessage resolves the message from --input, --message, or stdin.
func readMessage(inputPath, message string) ([]byte, error) {
	if inputPath != "" && message != "" {
		return nil, fmt.Errorf("--input and --message are mutually exclusive")
	}
	if inputPath != "" {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		return data, nil
	}
	if message != "" {
		return []byte(message), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read message from stdin: %w", err)
	}
	return data, nil
}
