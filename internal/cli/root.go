// Package cli implements relayctl, a command line client for poking a
// running relay over its websocket endpoint.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "relayctl",
		Short: "CLI client for the chat relay",
		Long: `relayctl talks to a running chat relay over its websocket endpoint.

It can broadcast chat messages, manage channels, and drive the player
lifecycle, acting as the given player identity.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL, cfg.Timeout)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Relay URL (env: RELAYCTL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.PlayerName, "name", cfg.PlayerName, "Player display name (env: RELAYCTL_PLAYER_NAME)")
	rootCmd.PersistentFlags().StringVar(&cfg.PlayerUID, "uid", cfg.PlayerUID, "Player uid (env: RELAYCTL_PLAYER_UID)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "How long to wait for responses")

	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newChannelCmd())
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
