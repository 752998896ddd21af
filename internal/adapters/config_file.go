package adapters

import (
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"granule-varinfo/internal/ports"
	"granule-varinfo/internal/types"
)

type ConfigFileAdapter struct{}

func NewConfigFileAdapter() ConfigFileAdapter {
	return ConfigFileAdapter{}
}

func (a ConfigFileAdapter) LoadConfig(path string) (types.ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ConfigFile{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("config file not found").
			WithCause(err)
	}
	var config types.ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return types.ConfigFile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse config yaml").
			WithCause(err)
	}
	for idx, rule := range config.Mission {
		if rule.ShortNamePattern == "" || rule.Name == "" {
			return types.ConfigFile{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("mission rule %d requires short_name_pattern and name", idx))
		}
	}
	return config, nil
}

var _ ports.ConfigLoaderPort = ConfigFileAdapter{}
