package stubservice

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultDescription = "Description not available."

//go:embed data/default.yaml
var defaultDatasetYAML []byte

// Disease is one row of the lookup table used to answer /predict.
type Disease struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Precautions []string `yaml:"precautions"`
	Symptoms    []string `yaml:"symptoms"`
}

// Dataset is the symptom column list plus the diseases the stub can answer
// with. It stands in for a trained model during development.
type Dataset struct {
	Symptoms []string  `yaml:"symptoms"`
	Diseases []Disease `yaml:"diseases"`
}

type Prediction struct {
	Disease     string   `json:"disease"`
	Description string   `json:"description"`
	Precautions []string `json:"precautions"`
}

// DefaultDataset returns the bundled sample dataset.
func DefaultDataset() (*Dataset, error) {
	return parseDataset(defaultDatasetYAML)
}

// LoadDataset reads a YAML dataset from path.
func LoadDataset(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return parseDataset(raw)
}

func parseDataset(raw []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (d *Dataset) Validate() error {
	if len(d.Symptoms) == 0 {
		return fmt.Errorf("dataset: no symptoms")
	}
	seen := make(map[string]struct{}, len(d.Symptoms))
	for i, s := range d.Symptoms {
		if s == "" {
			return fmt.Errorf("dataset: symptom %d is empty", i)
		}
		if _, ok := seen[s]; ok {
			return fmt.Errorf("dataset: duplicate symptom %q", s)
		}
		seen[s] = struct{}{}
	}
	if len(d.Diseases) == 0 {
		return fmt.Errorf("dataset: no diseases")
	}
	for i, dis := range d.Diseases {
		if dis.Name == "" {
			return fmt.Errorf("dataset: disease %d has no name", i)
		}
		for _, s := range dis.Symptoms {
			if _, ok := seen[s]; !ok {
				return fmt.Errorf("dataset: disease %q uses unknown symptom %q", dis.Name, s)
			}
		}
	}
	return nil
}

// Predict picks the disease sharing the most symptoms with selected. Ties go
// to the disease listed first. Unknown ids are ignored.
func (d *Dataset) Predict(selected []string) (Prediction, bool) {
	want := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		want[s] = struct{}{}
	}

	best, bestScore := -1, 0
	for i, dis := range d.Diseases {
		score := 0
		for _, s := range dis.Symptoms {
			if _, ok := want[s]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return Prediction{}, false
	}

	dis := d.Diseases[best]
	p := Prediction{
		Disease:     dis.Name,
		Description: dis.Description,
		Precautions: append([]string{}, dis.Precautions...),
	}
	if p.Description == "" {
		p.Description = defaultDescription
	}
	return p, true
}
