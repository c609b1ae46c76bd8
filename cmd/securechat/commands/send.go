package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"securechat/internal/domain"
)

// sendCmd encrypts, signs and stores one message for a peer.
func sendCmd() *cobra.Command {
	var seqNo uint64

	cmd := &cobra.Command{
		Use:   "send <peer> <message>",
		Short: "Encrypt and send a message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			if seqNo == 0 {
				// Millisecond timestamp keeps sequence numbers unique and
				// monotonic without per-conversation state.
				seqNo = uint64(time.Now().UnixMilli())
			}
			env, err := wire.Messages.Send(cmd.Context(), pass, domain.Identity(args[0]), seqNo, []byte(args[1]))
			if err != nil {
				return fmt.Errorf("sending to %q: %w", args[0], err)
			}
			fmt.Printf("Sent seq=%d to %s (%d ciphertext bytes)\n", env.SeqNo, env.To, len(env.Cipher))
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seqNo, "seq", 0, "sequence number (default: current unix millis)")
	return cmd
}
