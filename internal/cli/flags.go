package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"granule-varinfo/internal/app"
)

type granuleOptions struct {
	Granule  string
	Format   string
	CFConfig string
}

func addGranuleFlags(cmd *cobra.Command, opts *granuleOptions) {
	cmd.Flags().StringVar(&opts.Granule, "granule", "", "Granule path (.dmr or NetCDF-4)")
	cmd.Flags().StringVar(&opts.Format, "format", "", "Granule format: dmr or netcdf4 (default: from extension)")
	cmd.Flags().StringVar(&opts.CFConfig, "cf-config", "", "CF configuration file with collection rules")
	_ = viper.BindPFlag("granule", cmd.Flags().Lookup("granule"))
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("cf_config", cmd.Flags().Lookup("cf-config"))
}

func (o granuleOptions) request(cmd *cobra.Command) app.GraphRequest {
	return app.GraphRequest{
		GranulePath: resolveString(cmd, o.Granule, "granule", "granule"),
		Format:      resolveString(cmd, o.Format, "format", "format"),
		ConfigPath:  resolveString(cmd, o.CFConfig, "cf_config", "cf-config"),
	}
}

func addVariableFlag(cmd *cobra.Command, variables *[]string) {
	cmd.Flags().StringSliceVar(variables, "variable", nil, "Variable paths (repeatable)")
	_ = viper.BindPFlag("variables", cmd.Flags().Lookup("variable"))
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
