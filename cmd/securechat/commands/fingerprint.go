package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// fingerprintCmd prints the short fingerprint of the local signing key.
func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Show the local signing key fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			fp, err := wire.Keyring.FingerprintIdentity(pass)
			if err != nil {
				return err
			}
			fmt.Println(fp)
			return nil
		},
	}
}
