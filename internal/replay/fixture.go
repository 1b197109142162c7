package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/gate"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/orchestrator"
)

// #region fixture-types

// Fixture is the top-level structure of a replay fixture. A nil Config
// replays with the shipped defaults.
type Fixture struct {
	Description     string                  `json:"description"`
	Config          *orchestrator.Config    `json:"config,omitempty"`
	Interactions    []orchestrator.Input    `json:"interactions"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureExpectedResult captures the expected disposition per turn.
type FixtureExpectedResult struct {
	TurnID      string           `json:"turn_id"`
	Disposition gate.Disposition `json:"disposition"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads a fixture file. Files ending in .yaml or .yml are
// parsed as YAML with the same field names as the JSON form.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	if isYAML(path) {
		if data, err = yamlToJSON(data); err != nil {
			return nil, fmt.Errorf("parse fixture %s: %w", path, err)
		}
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// WriteFixture encodes f to path, as YAML when the extension asks for it.
func WriteFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode fixture: %w", err)
	}
	if isYAML(path) {
		if data, err = jsonToYAML(data); err != nil {
			return fmt.Errorf("encode fixture: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// ReplayConfig returns the fixture's config, or the defaults.
func (f *Fixture) ReplayConfig() ReplayConfig {
	c := DefaultReplayConfig()
	if f.Config != nil {
		c.Pipeline = *f.Config
	}
	return c
}

// ToInteractions pairs each input with its expected disposition. The entry at
// the same position wins when its turn id matches, so fixtures spanning
// several sessions with repeated turn ids keep their own expectations; other
// inputs fall back to a lookup by turn id.
func (f *Fixture) ToInteractions() []Interaction {
	expected := make(map[string]gate.Disposition, len(f.ExpectedResults))
	for _, e := range f.ExpectedResults {
		if _, seen := expected[e.TurnID]; !seen {
			expected[e.TurnID] = e.Disposition
		}
	}
	out := make([]Interaction, len(f.Interactions))
	for i, in := range f.Interactions {
		want := expected[in.TurnID]
		if i < len(f.ExpectedResults) && f.ExpectedResults[i].TurnID == in.TurnID {
			want = f.ExpectedResults[i].Disposition
		}
		out[i] = Interaction{Input: in, Expected: want}
	}
	return out
}

// NewFixture builds a fixture from interactions, expecting their recorded
// dispositions.
func NewFixture(description string, interactions []Interaction) *Fixture {
	f := &Fixture{Description: description}
	for _, inter := range interactions {
		f.Interactions = append(f.Interactions, inter.Input)
		f.ExpectedResults = append(f.ExpectedResults, FixtureExpectedResult{
			TurnID:      inter.Input.TurnID,
			Disposition: inter.Expected,
		})
	}
	return f
}

// #endregion fixture-loader

// #region yaml
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func yamlToJSON(data []byte) ([]byte, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(generic)
}

func jsonToYAML(data []byte) ([]byte, error) {
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}

// #endregion yaml
