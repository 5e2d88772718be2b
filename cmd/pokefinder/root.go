package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codyseavey/poke-finder/backend/internal/app"
	"github.com/codyseavey/poke-finder/backend/internal/config"
	"github.com/codyseavey/poke-finder/backend/internal/logging"
	"github.com/codyseavey/poke-finder/backend/internal/services"
)

// NewRootCmd creates the root command for pokefinder.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pokefinder",
		Short: "Look up Pokémon by name or by body size",
		Long: `pokefinder queries the Pokémon portal API and the 52poke wiki.

Use "name" to resolve a Pokémon to its Traditional-Chinese name, type and
sprite, or "body" to find Pokémon with a similar height and weight.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewNameCmd())
	cmd.AddCommand(NewBodyCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newFinder loads configuration from the environment and builds a finder that
// logs to stderr.
func newFinder(cmd *cobra.Command) (*services.FinderService, *zap.SugaredLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level := "warn"
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	logger, err := logging.New(level, "console")
	if err != nil {
		return nil, nil, err
	}
	return app.NewFinder(cfg, logger), logger, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
