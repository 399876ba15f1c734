package fieldmap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML selector registry overlay. The file maps field type
// names to selector lists:
//
//	email:
//	  - input[type=email]
//	  - input[name*=email]
//	category:
//	  - select#listing-category
//
// Entries present in the file replace the built-in list for that field type;
// absent field types keep their defaults.
func LoadFile(path string) (SelectorSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fieldmap: read %s: %w", path, err)
	}

	raw := map[string][]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fieldmap: parse %s: %w", path, err)
	}

	over := make(SelectorSet, len(raw))
	for name, sels := range raw {
		over[FieldType(name)] = sels
	}
	return Defaults().Merge(over), nil
}
