package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errNotFound is returned when a lookup finds nothing, so the exit status is non-zero.
var errNotFound = errors.New("no matching Pokémon found")

// NewNameCmd creates the name command.
func NewNameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "name <name>",
		Short: "Find a Pokémon by name",
		Long: `Resolve a Pokémon name (in any language the portal search accepts) to its
localized name, type and sprite URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			finder, logger, err := newFinder(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			record, err := finder.FindByName(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to look up %q: %w", args[0], err)
			}
			if record == nil {
				return errNotFound
			}
			return printJSON(cmd.OutOrStdout(), record)
		},
	}
}
