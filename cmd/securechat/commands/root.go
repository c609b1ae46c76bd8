package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"securechat/internal/app"
)

var (
	home       string
	passphrase string
	serverURL  string

	wire *app.Wire
)

// Execute runs the CLI.
func Execute() error {
	root := &cobra.Command{
		Use:   "securechat",
		Short: "Encrypted chat with hardened, passphrase-gated sessions",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".securechat")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			var err error
			wire, err = app.NewWire(app.Config{Home: home, ServerURL: serverURL})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default ~/.securechat)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting local keys")
	root.PersistentFlags().StringVar(&serverURL, "server", "", "chatd base URL (e.g. http://127.0.0.1:8080)")

	root.AddCommand(
		initCmd(),
		fingerprintCmd(),
		exportKeyCmd(),
		importCmd(),
		sendCmd(),
		openCmd(),
		hardenCmd(),
		unlockCmd(),
		eventsCmd(),
	)
	return root.Execute()
}

// getPassphrase returns the --passphrase flag or prompts on the terminal.
func getPassphrase() (string, error) {
	if passphrase != "" {
		return passphrase, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("no passphrase given and stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "Passphrase: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
