package eval

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/attractor"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// #region eval-harness
// EvalHarness checks the invariants every decision must satisfy.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run validates one decision. It never modifies the subject.
func (h *EvalHarness) Run(s Subject) EvalResult {
	var metrics []EvalMetric
	passed := true
	var failReasons []string

	check := func(name string, value float64, ok bool, reason string) {
		metrics = append(metrics, EvalMetric{Name: name, Value: value, Pass: ok})
		if !ok {
			passed = false
			failReasons = append(failReasons, reason)
		}
	}

	// 1. Every scalar in [0, 1]
	for _, sc := range scalars(s) {
		check("range_"+sc.name, sc.value, inUnit(sc.value),
			fmt.Sprintf("%s %.4f outside [0,1]", sc.name, sc.value))
	}

	// 2. Disposition in the closed set
	valid := s.Decision.Disposition.Valid()
	check("disposition_valid", boolValue(valid), valid,
		fmt.Sprintf("unknown disposition %q", s.Decision.Disposition))

	// 3. Collapse confidence equals the selected hypothesis
	diff := math.Abs(s.Collapse.Confidence - s.Collapse.Selected.Confidence)
	check("collapse_confidence_matches", diff, diff == 0,
		fmt.Sprintf("collapse confidence %.4f != selected %.4f", s.Collapse.Confidence, s.Collapse.Selected.Confidence))

	// 4. Options bounded
	opts := s.Decision.OutputLimits.MaxOptions
	optsOK := opts >= 1 && opts <= h.config.MaxOptions
	check("max_options", float64(opts), optsOK,
		fmt.Sprintf("max options %d outside [1,%d]", opts, h.config.MaxOptions))

	// 5. Security flags never yield an unrestricted act
	secure := s.SecurityFlags.Active()
	secOK := !secure || !s.Decision.Unrestricted()
	check("security_restricted", boolValue(secure), secOK, "security flags produced an unrestricted act")

	// 6. Overloaded intent keeps checklist structure
	overloaded := signals.NormalizeIntent(s.Intent) == signals.IntentOverloaded
	structOK := !overloaded || s.Decision.Constraints.Structure == attractor.StructureChecklist
	check("overloaded_checklist", boolValue(overloaded), structOK, "overloaded intent without checklist structure")

	// 7. Attractor is canonical
	check("attractor_valid", boolValue(s.Attractor.ID.Valid()), s.Attractor.ID.Valid(),
		fmt.Sprintf("unknown attractor %q", s.Attractor.ID))

	// 8. Posture constraint bounds: informational unless strict
	pc := s.Posture.Constraints
	postureOK := pc.MaxOptions >= 1 && pc.MaxOptions <= 6
	metrics = append(metrics, EvalMetric{Name: "posture_options", Value: float64(pc.MaxOptions), Pass: postureOK})
	if !postureOK && h.config.Strict {
		passed = false
		failReasons = append(failReasons, fmt.Sprintf("posture max options %d outside [1,6]", pc.MaxOptions))
	}

	reason := "all checks passed"
	if !passed {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}

	return EvalResult{
		Passed:  passed,
		Metrics: metrics,
		Reason:  reason,
	}
}

// #endregion eval-harness

// #region helpers
type namedScalar struct {
	name  string
	value float64
}

func scalars(s Subject) []namedScalar {
	out := []namedScalar{
		{"collapse_confidence", s.Collapse.Confidence},
		{"collapse_variance", s.Collapse.Variance},
		{"ambiguity", s.Ambiguity},
		{"base_stress", s.BaseGradients.Stress},
		{"base_curiosity", s.BaseGradients.Curiosity},
		{"base_urgency", s.BaseGradients.Urgency},
		{"base_confidence", s.BaseGradients.Confidence},
		{"stress", s.Gradients.Stress},
		{"curiosity", s.Gradients.Curiosity},
		{"urgency", s.Gradients.Urgency},
		{"gradient_confidence", s.Gradients.Confidence},
		{"need_clarity", s.Needs.Clarity},
		{"need_novelty", s.Needs.Novelty},
		{"need_risk", s.Needs.Risk},
		{"need_communication", s.Needs.Communication},
		{"attractor_confidence", s.Attractor.Confidence},
		{"posture_confidence", s.Posture.Confidence},
		{"order", s.OrderFocus.Order},
		{"focus", s.OrderFocus.Focus},
		{"coherence", s.OrderFocus.Coherence},
		{"intent_stability", s.OrderFocus.IntentStability},
		{"contradiction", s.OrderFocus.Contradiction},
		{"noise", s.OrderFocus.Noise},
		{"decision_confidence", s.Decision.Confidence},
	}
	for _, sc := range s.Scores {
		out = append(out, namedScalar{"score_" + string(sc.ID), sc.Score})
	}
	return out
}

func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
