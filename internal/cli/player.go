package cli

import (
	"github.com/spf13/cobra"

	"github.com/relayio/chatrelay/internal/protocol"
)

func playerRef() protocol.PlayerRef {
	return protocol.PlayerRef{
		PlayerName: cfg.PlayerName,
		PlayerUID:  cfg.PlayerUID,
	}
}

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player lifecycle commands",
	}

	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerUnregisterCmd())
	cmd.AddCommand(newPlayerOnlineCmd())
	cmd.AddCommand(newPlayerOfflineCmd())

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register the player for persistence",
		RunE: func(cmd *cobra.Command, args []string) error {
			responses, err := client.Do(protocol.EventRegisterPlayer, protocol.RegisterPayload{
				PlayerRef: playerRef(),
				Register:  true,
			})
			if err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(responses)
			return nil
		},
	}
}

func newPlayerUnregisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unregister",
		Short: "Unregister the player and delete its record",
		RunE: func(cmd *cobra.Command, args []string) error {
			responses, err := client.Do(protocol.EventUnregisterPlayer, protocol.UnregisterPayload{
				PlayerRef:  playerRef(),
				Unregister: true,
			})
			if err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(responses)
			return nil
		},
	}
}

func newPlayerOnlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "online",
		Short: "Mark the player online",
		RunE: func(cmd *cobra.Command, args []string) error {
			responses, err := client.Do(protocol.EventPlayerOnline, protocol.OnlinePayload{
				PlayerRef: playerRef(),
			})
			if err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(responses)
			return nil
		},
	}
}

func newPlayerOfflineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "offline",
		Short: "Mark the player offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			responses, err := client.Do(protocol.EventPlayerOffline, protocol.OnlinePayload{
				PlayerRef: playerRef(),
			})
			if err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(responses)
			return nil
		},
	}
}
