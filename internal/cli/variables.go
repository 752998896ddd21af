package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"granule-varinfo/internal/app"
)

type variablesOptions struct {
	granuleOptions
}

func newVariablesCommand() *cobra.Command {
	opts := variablesOptions{}
	cmd := &cobra.Command{
		Use:   "variables",
		Short: "List science and metadata variables of a granule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVariables(cmd.Context(), cmd, opts)
		},
	}
	addGranuleFlags(cmd, &opts.granuleOptions)
	return cmd
}

func runVariables(ctx context.Context, cmd *cobra.Command, opts variablesOptions) error {
	service := newAppService()
	result, err := service.Variables(ctx, app.VariablesRequest{GraphRequest: opts.request(cmd)})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "short name: %s\n", valueOrUnknown(result.ShortName))
	fmt.Fprintf(out, "mission: %s\n", valueOrUnknown(result.Mission))
	printPaths(out, "science variables", result.Science)
	printPaths(out, "metadata variables", result.Metadata)
	return nil
}

func printPaths(out io.Writer, title string, paths []string) {
	fmt.Fprintf(out, "%s (%d):\n", title, len(paths))
	for _, path := range paths {
		fmt.Fprintf(out, "- %s\n", path)
	}
}

func valueOrUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
