package cognition

import (
	"reflect"
	"sort"
)

// #region hypothesis-set

// HypothesisSet is the working set for one collapse run. Once collapsed it
// keeps returning the committed result.
type HypothesisSet struct {
	Hypotheses []Hypothesis
	Variance   float64
	Collapsed  bool

	result CollapseResult
}

// NewHypothesisSet wraps hs and computes the initial variance.
func NewHypothesisSet(hs []Hypothesis) *HypothesisSet {
	return &HypothesisSet{
		Hypotheses: hs,
		Variance:   CalculateVariance(hs),
	}
}

// Result returns the committed result and whether the set has collapsed.
func (s *HypothesisSet) Result() (CollapseResult, bool) {
	return s.result, s.Collapsed
}

// #endregion hypothesis-set

// #region variance

// CalculateVariance is the population variance of confidences, 0 for one or
// no hypothesis.
func CalculateVariance(hs []Hypothesis) float64 {
	if len(hs) <= 1 {
		return 0
	}
	var sum float64
	for _, h := range hs {
		sum += h.Confidence
	}
	mean := sum / float64(len(hs))
	var v float64
	for _, h := range hs {
		d := h.Confidence - mean
		v += d * d
	}
	return v / float64(len(hs))
}

// #endregion variance

// #region best

// Best returns the highest-confidence hypothesis, tie-broken by stability
// then lexical ID. ok is false for an empty slice.
func Best(hs []Hypothesis) (best Hypothesis, ok bool) {
	if len(hs) == 0 {
		return Hypothesis{}, false
	}
	ranked := make([]Hypothesis, len(hs))
	copy(ranked, hs)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Stability != b.Stability {
			return a.Stability > b.Stability
		}
		return a.ID < b.ID
	})
	return ranked[0], true
}

// #endregion best

// #region attempt-collapse

// AttemptCollapse applies the collapse rules in order: variance threshold,
// confidence lock, cycle timeout. It returns the result and whether the set
// is now collapsed. A collapsed set returns its stored result unchanged.
func (s *HypothesisSet) AttemptCollapse(cycle int, p Params) (CollapseResult, bool) {
	if s.Collapsed {
		return s.result, true
	}
	best, ok := Best(s.Hypotheses)
	if !ok {
		return CollapseResult{}, false
	}

	var reason CollapseReason
	switch {
	case s.Variance <= p.VarianceThreshold:
		reason = ReasonVarianceThreshold
	case best.Confidence >= p.ConfidenceLock:
		reason = ReasonMaxConfidence
	case cycle >= p.MaxCycles:
		reason = ReasonTimeout
	default:
		return CollapseResult{}, false
	}

	s.commit(best, reason, cycle)
	return s.result, true
}

// ForceCollapse commits the current best hypothesis with reason timeout.
// It is a no-op on a collapsed set.
func (s *HypothesisSet) ForceCollapse(cycle int) (CollapseResult, bool) {
	if s.Collapsed {
		return s.result, true
	}
	best, ok := Best(s.Hypotheses)
	if !ok {
		return CollapseResult{}, false
	}
	s.commit(best, ReasonTimeout, cycle)
	return s.result, true
}

func (s *HypothesisSet) commit(best Hypothesis, reason CollapseReason, cycle int) {
	s.Collapsed = true
	s.result = CollapseResult{
		Selected:   best,
		Confidence: best.Confidence,
		Reason:     reason,
		Cycles:     cycle,
		Variance:   s.Variance,
	}
}

// #endregion attempt-collapse

// #region helpers

func isStructured(v any) bool {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// #endregion helpers
