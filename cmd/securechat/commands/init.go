package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"securechat/internal/domain"
)

// initCmd generates the local key pairs and publishes the public halves.
func initCmd() *cobra.Command {
	var contact string

	cmd := &cobra.Command{
		Use:   "init <identity>",
		Short: "Generate local key pairs and publish the public halves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			fp, err := wire.Keyring.Init(pass, domain.Identity(args[0]), contact)
			if err != nil {
				return fmt.Errorf("initialising identity %q: %w", args[0], err)
			}
			fmt.Printf("Identity %s ready. Fingerprint: %s\n", args[0], fp)
			return nil
		},
	}
	cmd.Flags().StringVar(&contact, "contact", "", "out-of-band contact address for lockdown notifications")
	return cmd
}
