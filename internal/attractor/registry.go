package attractor

import (
	"fmt"
	"math"
)

// #region definition

// Definition is an attractor's default policy and weight vector.
type Definition struct {
	Policy  Policy  `mapstructure:"policy" yaml:"policy"`
	Weights Weights `mapstructure:"weights" yaml:"weights"`
}

// #endregion definition

// #region registry

// Registry maps every attractor to its definition. It is immutable after
// construction.
type Registry struct {
	defs map[ID]Definition
}

// NewRegistry validates defs and copies them into a registry. Every
// canonical attractor must be present with a positive weight mass.
func NewRegistry(defs map[ID]Definition) (*Registry, error) {
	r := &Registry{defs: make(map[ID]Definition, len(Priority))}
	for _, id := range Priority {
		def, ok := defs[id]
		if !ok {
			return nil, fmt.Errorf("attractor registry: missing definition for %q", id)
		}
		if s := def.Weights.sum(); !(s > 0) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("attractor registry: %q has non-positive weight sum %v", id, s)
		}
		r.defs[id] = def
	}
	for id := range defs {
		if !id.Valid() {
			return nil, fmt.Errorf("attractor registry: unknown attractor %q", id)
		}
	}
	return r, nil
}

// DefaultDefinitions returns the shipped attractor table.
func DefaultDefinitions() map[ID]Definition {
	return map[ID]Definition{
		Order: {
			Policy:  Policy{VerbosityStandard, ToneFormal, StructureChecklist, RiskCautious},
			Weights: Weights{Clarity: 1.0, Novelty: 0.2, Risk: 0.4, Communication: 0.3},
		},
		Insight: {
			Policy:  Policy{VerbosityExpanded, ToneNeutral, StructureNarrative, RiskOpen},
			Weights: Weights{Clarity: 0.3, Novelty: 1.0, Risk: 0.1, Communication: 0.4},
		},
		Protection: {
			Policy:  Policy{VerbosityMinimal, ToneGuarded, StructureChecklist, RiskRestricted},
			Weights: Weights{Clarity: 0.3, Novelty: 0.0, Risk: 1.0, Communication: 0.2},
		},
		Expression: {
			Policy:  Policy{VerbosityStandard, ToneCreative, StructureNarrative, RiskOpen},
			Weights: Weights{Clarity: 0.1, Novelty: 0.5, Risk: 0.0, Communication: 1.0},
		},
	}
}

// DefaultRegistry returns a registry over DefaultDefinitions.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultDefinitions())
	if err != nil {
		panic(err)
	}
	return r
}

// Definition returns the definition for id.
func (r *Registry) Definition(id ID) Definition {
	return r.defs[id]
}

// Policy returns the default policy for id.
func (r *Registry) Policy(id ID) Policy {
	return r.defs[id].Policy
}

// #endregion registry
