package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check relay health",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSuffix(cfg.ServerURL, "/") + "/healthz"
			resp, err := http.Get(url)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("relay unhealthy: %s", resp.Status)
			}

			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return fmt.Errorf("unexpected health response: %w", err)
			}

			fmt.Println("relay is", body["status"])
			return nil
		},
	}
}
