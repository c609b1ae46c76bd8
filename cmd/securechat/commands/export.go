package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"securechat/internal/crypto"
	"securechat/internal/domain"
)

// exportKeyCmd writes the local public-key record as JSON, the form peers
// feed to import.
func exportKeyCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export-key",
		Short: "Export the local public-key record for sharing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			keys, err := wire.Keyring.Load(pass)
			if err != nil {
				return err
			}
			encPEM, err := crypto.ExportPublicKey(&keys.Encryption.PublicKey)
			if err != nil {
				return err
			}
			sigPEM, err := crypto.ExportPublicKey(&keys.Signing.PublicKey)
			if err != nil {
				return err
			}

			rec := domain.PublicKeyRecord{
				Identity:      keys.Identity,
				EncryptionPEM: encPEM,
				SigningPEM:    sigPEM,
				Contact:       keys.Contact,
			}
			raw, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return err
			}
			raw = append(raw, '\n')

			if out == "" {
				_, err = os.Stdout.Write(raw)
				return err
			}
			if err := os.WriteFile(out, raw, 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote public-key record for %s to %s\n", rec.Identity, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the record to a file instead of stdout")
	return cmd
}
