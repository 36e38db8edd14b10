package config

import (
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// PackMixConfig is a pack mix. Unlike tariffs, a mix given in an override
// replaces the base mix as a whole: fractions only make sense together.
type PackMixConfig TripleConfig

func (p *PackMixConfig) UnmarshalYAML(value *yaml.Node) error {
	var mix TripleConfig
	if err := value.Decode(&mix); err != nil {
		return err
	}
	*p = PackMixConfig(mix)
	return nil
}

func (p *PackMixConfig) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var mix TripleConfig
	if err := json.Unmarshal(data, &mix); err != nil {
		return err
	}
	*p = PackMixConfig(mix)
	return nil
}

// OverlayAssumptionsJSON decodes raw onto a copy of base. Keys absent from
// raw keep the base value; keys present win, zero included.
func OverlayAssumptionsJSON(base AssumptionsConfig, raw []byte) (AssumptionsConfig, error) {
	out := base
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return base, fmt.Errorf("parse assumptions: %w", err)
	}
	return out, nil
}

// overlayYAML is the YAML counterpart of OverlayAssumptionsJSON for any
// document shape that embeds assumptions (config files, preset files).
func overlayYAML(raw []byte, into interface{}, path string) error {
	if err := yaml.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
