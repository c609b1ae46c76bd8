package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"securechat/internal/domain"
)

// importCmd loads a peer's published public-key record from a JSON file.
func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <record.json>",
		Short: "Import a peer's public-key record into the directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var rec domain.PublicKeyRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				return fmt.Errorf("parsing record: %w", err)
			}
			if err := wire.Keyring.ImportPeer(rec); err != nil {
				return fmt.Errorf("importing keys for %q: %w", rec.Identity, err)
			}
			fmt.Printf("Imported public keys for %s\n", rec.Identity)
			return nil
		},
	}
}
