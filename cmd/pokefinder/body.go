package main

import (
	"github.com/spf13/cobra"

	"github.com/codyseavey/poke-finder/backend/internal/models"
)

// NewBodyCmd creates the body command.
func NewBodyCmd() *cobra.Command {
	var height, weight, tolerance float64

	cmd := &cobra.Command{
		Use:   "body",
		Short: "Find Pokémon with a similar height and weight",
		Long: `List every Pokémon whose height and weight are within the tolerance of the
given values. The tolerance widens by 10% at a time, up to 100%, until
something matches. One of the matches is highlighted at random.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := models.NewToleranceQuery(height, weight, tolerance)
			if err != nil {
				return err
			}

			finder, logger, err := newFinder(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			match, err := finder.FindByBody(cmd.Context(), q)
			if err != nil {
				return err
			}
			if match.Empty() {
				return errNotFound
			}
			return printJSON(cmd.OutOrStdout(), match)
		},
	}

	cmd.Flags().Float64Var(&height, "height", 0, "Height in centimeters")
	cmd.Flags().Float64Var(&weight, "weight", 0, "Weight in kilograms")
	cmd.Flags().Float64Var(&tolerance, "tolerance", models.DefaultTolerance, "Initial tolerance (0.1 = 10%)")
	_ = cmd.MarkFlagRequired("height")
	_ = cmd.MarkFlagRequired("weight")

	return cmd
}
