package attractor

// #region risk-buckets

// RiskBucket is one ordered class of risky payload keywords.
type RiskBucket struct {
	Name     string   `mapstructure:"name" yaml:"name"`
	Score    float64  `mapstructure:"score" yaml:"score"`
	Keywords []string `mapstructure:"keywords" yaml:"keywords"`
}

// DefaultRiskBuckets returns the shipped buckets in scan order.
func DefaultRiskBuckets() []RiskBucket {
	return []RiskBucket{
		{
			Name:  "credential_financial",
			Score: 0.85,
			Keywords: []string{
				"password", "passcode", "credential", "api key", "api_key", "secret key",
				"private key", "access token", "ssn", "social security", "credit card",
				"card number", "bank account", "routing number", "wire transfer", "iban",
			},
		},
		{
			Name:  "compliance",
			Score: 0.55,
			Keywords: []string{
				"gdpr", "hipaa", "pci", "sox", "compliance", "regulator", "regulation",
				"audit", "legal hold", "lawsuit", "subpoena", "export control",
			},
		},
		{
			Name:  "destructive_operation",
			Score: 0.75,
			Keywords: []string{
				"rm -rf", "drop table", "drop database", "truncate", "delete all",
				"wipe", "format disk", "purge", "destroy", "force push", "shutdown",
			},
		},
		{
			Name:  "safety_critical",
			Score: 1.0,
			Keywords: []string{
				"overdose", "dosage", "suicide", "self-harm", "self harm", "explosive",
				"weapon", "poison", "chest pain", "can't breathe", "emergency",
			},
		},
	}
}

// #endregion risk-buckets

// #region config

// Config holds need derivation tables and selection thresholds.
type Config struct {
	LowBandCeiling   float64 `mapstructure:"low_band_ceiling" yaml:"low_band_ceiling"`
	MediumBandFloor  float64 `mapstructure:"medium_band_floor" yaml:"medium_band_floor"`
	MediumBandCeil   float64 `mapstructure:"medium_band_ceiling" yaml:"medium_band_ceiling"`
	HighBandFloor    float64 `mapstructure:"high_band_floor" yaml:"high_band_floor"`
	ProtectionRisk   float64 `mapstructure:"protection_risk" yaml:"protection_risk"`
	OrderClarity     float64 `mapstructure:"order_clarity" yaml:"order_clarity"`
	OrderConfidence  float64 `mapstructure:"order_confidence" yaml:"order_confidence"`
	LowConfidence    float64 `mapstructure:"low_confidence" yaml:"low_confidence"`
	LowConfidenceCap float64 `mapstructure:"low_confidence_cap" yaml:"low_confidence_cap"`
	SecurityRisk     float64 `mapstructure:"security_risk" yaml:"security_risk"`
	TieEpsilon       float64 `mapstructure:"tie_epsilon" yaml:"tie_epsilon"`

	RiskBuckets           []RiskBucket `mapstructure:"risk_buckets" yaml:"risk_buckets"`
	NoveltyKeywords       []string     `mapstructure:"novelty_keywords" yaml:"novelty_keywords"`
	CommunicationKeywords []string     `mapstructure:"communication_keywords" yaml:"communication_keywords"`
}

// DefaultConfig returns the shipped selection constants.
func DefaultConfig() Config {
	return Config{
		LowBandCeiling:   0.5,
		MediumBandFloor:  0.45,
		MediumBandCeil:   0.75,
		HighBandFloor:    0.7,
		ProtectionRisk:   0.7,
		OrderClarity:     0.7,
		OrderConfidence:  0.7,
		LowConfidence:    0.5,
		LowConfidenceCap: 0.65,
		SecurityRisk:     0.6,
		TieEpsilon:       1e-12,
		RiskBuckets:      DefaultRiskBuckets(),
		NoveltyKeywords: []string{
			"research", "explore", "brainstorm", "idea", "design", "prototype",
			"what if", "imagine", "experiment", "alternative",
		},
		CommunicationKeywords: []string{
			"email", "message", "letter", "reply", "draft", "announce", "explain",
			"summarize", "presentation", "story", "post",
		},
	}
}

// #endregion config
