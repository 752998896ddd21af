package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granule-varinfo/internal/types"
)

const testConfigYAML = `identification: varinfo_config
version: 1
collection_shortname_path:
  - /HDF5_GLOBAL/short_name
  - short_name
mission:
  - short_name_pattern: "ATL\\d{2}"
    name: ICESat2
excluded_science_variables:
  - applicability:
      mission: ICESat2
      short_name_path: "ATL0[3-9]"
    variable_pattern:
      - "/quality_assessment/.*"
required_fields:
  - applicability:
      mission: ICESat2
    variable_pattern:
      - /ancillary_data/atlas_sdp_gps_epoch
cf_overrides:
  - applicability:
      mission: ICESat2
      variable_pattern: "/gt1l/heights/.*"
    attributes:
      - name: coordinates
        value: delta_time lat_ph lon_ph
cf_supplements:
  - applicability:
      mission: ICESat2
    attributes:
      - name: processing_level
        value: 2
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "varinfo.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	config, err := NewConfigFileAdapter().LoadConfig(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	want := types.ConfigFile{
		Identification:          "varinfo_config",
		Version:                 1,
		CollectionShortNamePath: []string{"/HDF5_GLOBAL/short_name", "short_name"},
		Mission:                 []types.MissionRule{{ShortNamePattern: `ATL\d{2}`, Name: "ICESat2"}},
		ExcludedScienceVariables: []types.VariablePatternRule{{
			Applicability:   types.Applicability{Mission: "ICESat2", ShortNamePath: "ATL0[3-9]"},
			VariablePattern: []string{"/quality_assessment/.*"},
		}},
		RequiredFields: []types.VariablePatternRule{{
			Applicability:   types.Applicability{Mission: "ICESat2"},
			VariablePattern: []string{"/ancillary_data/atlas_sdp_gps_epoch"},
		}},
		CFOverrides: []types.AttributeRule{{
			Applicability: types.Applicability{Mission: "ICESat2", VariablePattern: "/gt1l/heights/.*"},
			Attributes:    []types.AttributeValue{{Name: "coordinates", Value: "delta_time lat_ph lon_ph"}},
		}},
		CFSupplements: []types.AttributeRule{{
			Applicability: types.Applicability{Mission: "ICESat2"},
			Attributes:    []types.AttributeValue{{Name: "processing_level", Value: 2}},
		}},
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	adapter := NewConfigFileAdapter()

	_, err := adapter.LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))

	_, err = adapter.LoadConfig(writeConfig(t, "mission: [unterminated"))
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))

	_, err = adapter.LoadConfig(writeConfig(t, "mission:\n  - name: ICESat2\n"))
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
