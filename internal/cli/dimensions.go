package cli

import (
	"context"

	"github.com/spf13/cobra"

	"granule-varinfo/internal/app"
)

type dimensionsOptions struct {
	granuleOptions
	Variables []string
}

func newDimensionsCommand() *cobra.Command {
	opts := dimensionsOptions{}
	cmd := &cobra.Command{
		Use:   "dimensions",
		Short: "List the dimensions used by variables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDimensions(cmd.Context(), cmd, opts)
		},
	}
	addGranuleFlags(cmd, &opts.granuleOptions)
	addVariableFlag(cmd, &opts.Variables)
	return cmd
}

func runDimensions(ctx context.Context, cmd *cobra.Command, opts dimensionsOptions) error {
	service := newAppService()
	result, err := service.Dimensions(ctx, app.DimensionsRequest{
		GraphRequest: opts.request(cmd),
		Variables:    resolveStrings(cmd, opts.Variables, "variables", "variable"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printPaths(out, "required dimensions", result.Required)
	printPaths(out, "spatial dimensions", result.Spatial)
	printPaths(out, "temporal dimensions", result.Temporal)
	return nil
}
