// ABOUTME: Entry point for the inoreader-mcp command line tool
// ABOUTME: Root command wiring, structured logging setup and health check fast path

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags
var version = "dev"

var healthCheck bool

var rootCmd = &cobra.Command{
	Use:   "inoreader-mcp",
	Short: "Inoreader tool server",
	Long: `inoreader-mcp exposes an Inoreader account as a set of callable tools.

The serve command reads line-delimited JSON-RPC 2.0 requests on stdin and
writes one response per line on stdout. Logs go to stderr so they never
interleave with protocol traffic.

Example usage:
  inoreader-mcp serve          # Run the tool server on stdin/stdout
  inoreader-mcp check          # Verify credentials and connectivity
  inoreader-mcp --health-check # Print OK and exit`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if healthCheck {
			fmt.Println("OK")
			return nil
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().BoolVar(&healthCheck, "health-check", false, "perform health check and exit")
}

// setupLogging installs a process-wide JSON logger on stderr, leveled by
// LOG_LEVEL. Stdout is reserved for protocol responses.
func setupLogging() {
	var level slog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
