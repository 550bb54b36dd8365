package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/relayio/chatrelay/internal/protocol"
)

func newSendCmd() *cobra.Command {
	var channel string

	cmd := &cobra.Command{
		Use:   "send <message...>",
		Short: "Broadcast a chat message to a channel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := protocol.ChatMessage{
				CreatedOn:   time.Now(),
				ChatVersion: protocol.ChatVersion,
				ChatContent: strings.Join(args, " "),
				ChatChannel: channel,
				PlayerName:  cfg.PlayerName,
				PlayerUID:   cfg.PlayerUID,
				SourceName:  "relayctl",
			}

			responses, err := client.Do(protocol.EventBroadcastMessage, msg)
			if err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(responses)
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "global", "Target channel")

	return cmd
}
