package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	rootCmd    = &cobra.Command{
		Use:   "omni",
		Short: "Omni - scripted access to the Bitwarden vault and Epicor cases",
		Long: `Omni automates two classes of operations without each service's web UI:
retrieving secrets from the Bitwarden vault, and driving workflow actions
on Epicor ERP cases. Each invocation authenticates a fresh session,
performs one operation, and exits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newLogger builds the per-invocation logger. Debug level only with
// --verbose; every line carries an invocation id so scripted runs can be
// correlated. Secrets are never logged.
func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("invocation", uuid.NewString()).
		Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
