package cli

import (
	"github.com/spf13/cobra"

	"github.com/relayio/chatrelay/internal/protocol"
)

func newChannelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Channel management commands",
	}

	cmd.AddCommand(newChannelCreateCmd())
	cmd.AddCommand(newChannelJoinCmd())
	cmd.AddCommand(newChannelLeaveCmd())
	cmd.AddCommand(newChannelCloseCmd())

	return cmd
}

func channelAction(use, short string, event protocol.EventTag, withPassword bool) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   use + " <channel>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			responses, err := client.Do(event, protocol.ChannelPayload{
				PlayerRef: playerRef(),
				Channel:   args[0],
				Password:  password,
			})
			if err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(responses)
			return nil
		},
	}

	if withPassword {
		cmd.Flags().StringVar(&password, "password", "", "Channel password")
	}

	return cmd
}

func newChannelCreateCmd() *cobra.Command {
	return channelAction("create", "Create a channel, optionally password protected", protocol.EventCreateChannel, true)
}

func newChannelJoinCmd() *cobra.Command {
	return channelAction("join", "Join a channel", protocol.EventJoinChannel, true)
}

func newChannelLeaveCmd() *cobra.Command {
	return channelAction("leave", "Leave a channel", protocol.EventLeaveChannel, false)
}

func newChannelCloseCmd() *cobra.Command {
	return channelAction("close", "Close an owned channel", protocol.EventCloseChannel, false)
}
