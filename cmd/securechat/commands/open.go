package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"securechat/internal/domain"
)

// openCmd decrypts and verifies stored messages of a conversation.
func openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <me> <peer>",
		Short: "Decrypt and verify the stored conversation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			me, peer := domain.Identity(args[0]), domain.Identity(args[1])
			envs, err := wire.Store.ExportMessages(domain.PairID(me, peer))
			if err != nil {
				return err
			}
			for _, env := range envs {
				msg, err := wire.Messages.Open(env)
				if errors.Is(err, domain.ErrDecryptionFailed) {
					// Keep the encrypted content visible rather than dropping it.
					fmt.Printf("[%d] %s -> %s: <undecryptable> (%s)\n", env.SeqNo, env.From, env.To, env.Cipher)
					continue
				}
				if err != nil {
					return err
				}
				fmt.Printf("[%d] %s -> %s (%s): %s\n",
					env.SeqNo, env.From, env.To, msg.Verification, msg.Plaintext)
			}
			return nil
		},
	}
}
