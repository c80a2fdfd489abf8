package base

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by -format.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFlag registers the -format flag on f.
func FormatFlag(f *FlagSet, p *string) {
	f.StringVar(p, "format", FormatJSON, "Output format (json or yaml)")
}

// Render encodes v in the named format.
func Render(format string, v any) (string, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("error encoding JSON: %w", err)
		}
		return string(b), nil
	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("error encoding YAML: %w", err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}
