package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"securechat/internal/crypto"
	"securechat/internal/domain"
)

// unlockCmd attempts to unlock a hardened session and, on success, unwraps
// the session key locally with the caller's RSA private key.
func unlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <session-id> <identity> <session-passphrase>",
		Short: "Attempt to unlock a hardened session",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, who, sessPass := args[0], domain.Identity(args[1]), args[2]

			res, err := wire.Hardened.Unlock(cmd.Context(), id, who, sessPass)
			if errors.Is(err, domain.ErrSessionLocked) || res.Locked {
				fmt.Println("Session is locked. Lockdown is irreversible; its content has been exported and wiped.")
				return nil
			}
			if err != nil {
				return err
			}
			if !res.Match {
				fmt.Printf("Wrong passphrase (attempt %d).\n", res.Attempts)
				return nil
			}

			pass, err := getPassphrase()
			if err != nil {
				return err
			}
			keys, err := wire.Keyring.Load(pass)
			if err != nil {
				return err
			}
			sessionKey, err := crypto.UnwrapSessionKey(res.WrappedKey, res.IV, sessPass, res.Salt, keys.Encryption)
			if err != nil {
				return err
			}
			fmt.Printf("Session unlocked. Key fingerprint: %s\n", crypto.Fingerprint(sessionKey))
			return nil
		},
	}
}
