package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// eventsCmd prints the append-only security event journal.
func eventsCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List security events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := wire.Events.List(sessionID)
			if err != nil {
				return err
			}
			for _, ev := range events {
				ts := time.Unix(ev.Timestamp, 0).UTC().Format(time.RFC3339)
				fmt.Printf("%s %-24s session=%s subject=%s %s\n",
					ts, ev.Type, ev.SessionID, ev.Subject, ev.Details)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "filter by session id")
	return cmd
}
