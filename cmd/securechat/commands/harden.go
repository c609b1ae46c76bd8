package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"securechat/internal/domain"
)

// hardenCmd creates a passphrase-gated session between two identities.
func hardenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "harden <a> <b>",
		Short: "Create a hardened session between two identities",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			sess, err := wire.Hardened.Create(cmd.Context(),
				domain.Identity(args[0]), domain.Identity(args[1]), pass)
			if err != nil {
				return fmt.Errorf("creating hardened session: %w", err)
			}
			fmt.Printf("Hardened session %s created for %s and %s (max %d failed attempts)\n",
				sess.ID, sess.ParticipantA, sess.ParticipantB, sess.MaxAttempts)
			return nil
		},
	}
}
