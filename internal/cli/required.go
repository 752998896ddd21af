package cli

import (
	"context"

	"github.com/spf13/cobra"

	"granule-varinfo/internal/app"
)

type requiredOptions struct {
	granuleOptions
	Variables []string
}

func newRequiredCommand() *cobra.Command {
	opts := requiredOptions{}
	cmd := &cobra.Command{
		Use:   "required",
		Short: "Resolve every variable needed to subset the requested variables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRequired(cmd.Context(), cmd, opts)
		},
	}
	addGranuleFlags(cmd, &opts.granuleOptions)
	addVariableFlag(cmd, &opts.Variables)
	return cmd
}

func runRequired(ctx context.Context, cmd *cobra.Command, opts requiredOptions) error {
	service := newAppService()
	result, err := service.Required(ctx, app.RequiredRequest{
		GraphRequest: opts.request(cmd),
		Variables:    resolveStrings(cmd, opts.Variables, "variables", "variable"),
	})
	if err != nil {
		return err
	}
	printPaths(cmd.OutOrStdout(), "required variables", result.Required)
	return nil
}
