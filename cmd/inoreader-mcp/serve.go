// ABOUTME: serve command running the tool server over stdin/stdout

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dindicoelho/Inoreader-MCP/config"
	"github.com/dindicoelho/Inoreader-MCP/handler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tool server on stdin/stdout",
	Long: `Read line-delimited JSON-RPC 2.0 requests on stdin and write one
response per line on stdout. Runs until stdin reaches EOF.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := slog.Default()
	logger.Info("Inoreader tool server starting",
		"service", cfg.ServiceName,
		"base_url", cfg.Inoreader.BaseURL,
		"cache_ttl", cfg.Cache.TTL)

	server := newRPCServer(handler.NewToolHandler(cfg, logger), os.Stdin, os.Stdout, logger)
	if err := server.Serve(cmd.Context()); err != nil {
		return fmt.Errorf("serving requests: %w", err)
	}

	logger.Info("Inoreader tool server stopped")
	return nil
}
