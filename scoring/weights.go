package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Weights holds the blend coefficients of the four sub-scores and the
// reference price per square meter used by the value sub-score.
type Weights struct {
	Criteria             float64 `yaml:"criteria"`
	Lifestyle            float64 `yaml:"lifestyle"`
	Value                float64 `yaml:"value"`
	Bonus                float64 `yaml:"bonus"`
	ReferencePricePerSqm float64 `yaml:"reference_price_per_sqm"`
}

func DefaultWeights() Weights {
	return Weights{
		Criteria:             0.4,
		Lifestyle:            0.3,
		Value:                0.2,
		Bonus:                0.1,
		ReferencePricePerSqm: 3000,
	}
}

// LoadWeightsFromFile overlays the defaults with a YAML file. A
// missing file is not an error: the defaults apply.
func LoadWeightsFromFile(path string) (Weights, error) {
	w := DefaultWeights()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return w, nil
		}
		return w, fmt.Errorf("read weights file: %w", err)
	}

	if err := yaml.Unmarshal(data, &w); err != nil {
		return w, fmt.Errorf("parse weights file %s: %w", path, err)
	}

	if w.Criteria < 0 || w.Lifestyle < 0 || w.Value < 0 || w.Bonus < 0 {
		return w, fmt.Errorf("weights file %s: negative weight", path)
	}

	return w, nil
}
