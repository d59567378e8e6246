package normalize

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// AliasConfig lists extra source column names per canonical field. Aliases
// take priority over the built-in candidates during schema resolution.
type AliasConfig map[string][]string

// LoadAliases reads alias overrides from a YAML file. The file has a
// top-level "aliases" key:
//
//	aliases:
//	  latitude: [SURF_LAT]
//	  operator: [CurrentOperator]
//
// Keys must be canonical field names; an unknown key is an error.
func LoadAliases(path string) (AliasConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "normalize: read aliases %s", path)
	}

	var wrapper struct {
		Aliases AliasConfig `yaml:"aliases"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "normalize: parse aliases")
	}

	for field := range wrapper.Aliases {
		if _, ok := candidates[field]; !ok {
			return nil, eris.Errorf("normalize: aliases name unknown field %q", field)
		}
	}
	return wrapper.Aliases, nil
}
