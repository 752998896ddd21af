package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"granule-varinfo/internal/app"
)

type graphOptions struct {
	granuleOptions
	Variables    []string
	OutputFormat string
	Output       string
}

func newGraphCommand() *cobra.Command {
	opts := graphOptions{}
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the variable reference graph as DOT or SVG",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd.Context(), cmd, opts)
		},
	}
	addGranuleFlags(cmd, &opts.granuleOptions)
	addVariableFlag(cmd, &opts.Variables)
	cmd.Flags().StringVar(&opts.OutputFormat, "output-format", "dot", "Output format: dot or svg")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default: stdout)")
	_ = viper.BindPFlag("output_format", cmd.Flags().Lookup("output-format"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runGraph(ctx context.Context, cmd *cobra.Command, opts graphOptions) error {
	service := newAppService()
	result, err := service.Export(ctx, app.ExportRequest{
		GraphRequest: opts.request(cmd),
		Variables:    resolveStrings(cmd, opts.Variables, "variables", "variable"),
		Format:       resolveString(cmd, opts.OutputFormat, "output_format", "output-format"),
	})
	if err != nil {
		return err
	}

	output := strings.TrimSpace(resolveString(cmd, opts.Output, "output", "output"))
	if output == "" {
		_, err := cmd.OutOrStdout().Write(result.Data)
		return err
	}
	if err := os.WriteFile(output, result.Data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write %s", output)).
			WithCause(err)
	}
	log.Info().
		Str("path", output).
		Str("format", string(result.Format)).
		Int("nodes", len(result.View.Nodes)).
		Msg("graph written")
	return nil
}
