package attractor

import (
	"strings"

	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/canon"
	"github.com/danielpatrickdp/adaptive-state/decision-core/internal/signals"
)

// #region intent-table

var intentNeeds = map[signals.Intent]Needs{
	signals.IntentDirective:     {Clarity: 0.3},
	signals.IntentExploratory:   {Novelty: 0.4, Communication: 0.05},
	signals.IntentCreative:      {Novelty: 0.3, Communication: 0.2},
	signals.IntentInformational: {Clarity: 0.15, Communication: 0.15},
	signals.IntentOverloaded:    {Clarity: 0.35},
	signals.IntentUnknown:       {Clarity: 0.1, Risk: 0.1},
}

var baseNeeds = Needs{Clarity: 0.3, Novelty: 0.2, Risk: 0.1, Communication: 0.3}

// #endregion intent-table

// #region compute-needs

// ComputeNeeds derives the four latent needs. Confidence bands overlap on
// purpose: a confidence of 0.72 contributes both medium and high terms.
func (s *Selector) ComputeNeeds(collapseConfidence float64, ictx IntegrationContext) Needs {
	cfg := s.config
	c := signals.Clamp01(collapseConfidence)
	n := baseNeeds

	if c < cfg.LowBandCeiling {
		n.Clarity += 0.2
		n.Risk += 0.1
	}
	if c >= cfg.MediumBandFloor && c < cfg.MediumBandCeil {
		n.Clarity += 0.1
		n.Communication += 0.1
	}
	if c >= cfg.HighBandFloor {
		n.Clarity += 0.15
		n.Novelty += 0.1
	}

	in := intentNeeds[signals.NormalizeIntent(ictx.Intent)]
	n.Clarity += in.Clarity
	n.Novelty += in.Novelty
	n.Risk += in.Risk
	n.Communication += in.Communication

	domain := strings.ToLower(ictx.Domain)
	if signals.ContainsAny(domain, cfg.NoveltyKeywords) {
		n.Novelty += 0.2
	}
	if signals.ContainsAny(domain, cfg.CommunicationKeywords) {
		n.Communication += 0.2
	}

	if _, score := s.ScanRisk(ictx); score > 0 {
		n.Risk += score
	}
	if ictx.SecurityFlags.Active() {
		n.Risk += cfg.SecurityRisk
	}
	return n.clamped()
}

// ScanRisk matches the domain and canonical payload text against the risk
// buckets. The highest-scoring matching bucket wins; scan order only breaks
// exact score ties.
func (s *Selector) ScanRisk(ictx IntegrationContext) (string, float64) {
	text := strings.ToLower(ictx.Domain)
	if ictx.Payload != nil {
		text += " " + canon.Text(ictx.Payload)
	}
	name, best := "", 0.0
	for _, b := range s.config.RiskBuckets {
		score := signals.Clamp01(b.Score)
		if score <= best {
			continue
		}
		if signals.ContainsAny(text, b.Keywords) {
			name, best = b.Name, score
		}
	}
	return name, best
}

// #endregion compute-needs
