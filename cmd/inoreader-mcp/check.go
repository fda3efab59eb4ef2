// ABOUTME: check command verifying credentials and API connectivity

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dindicoelho/Inoreader-MCP/config"
	"github.com/dindicoelho/Inoreader-MCP/driver"
	"github.com/dindicoelho/Inoreader-MCP/service"
)

const checkFeedPreview = 3

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify credentials and connectivity",
	Long: `Log in with the configured credentials and fetch the subscription
list. A short preview of the account's feeds confirms the connection works.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	fmt.Println("✓ Configuration loaded successfully")

	cache := driver.NewResultCache(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	session := service.NewSession(cfg, cache, slog.Default())
	defer session.Close()

	ctx := cmd.Context()
	if err := session.Auth.Authenticate(ctx); err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	fmt.Println("✓ Authentication successful")

	feeds, err := session.Streams.Subscriptions(ctx)
	if err != nil {
		return fmt.Errorf("fetching subscriptions: %w", err)
	}
	fmt.Printf("✓ Connection working! You have %d feeds\n", len(feeds))

	for i, feed := range feeds {
		if i == checkFeedPreview {
			fmt.Printf("  ... and %d more feeds\n", len(feeds)-checkFeedPreview)
			break
		}
		fmt.Printf("  - %s\n", feed.Title)
	}

	return nil
}
