package posture

// #region config

// Markers are the five keyword buckets. Single words match whole tokens;
// entries containing a space match as phrases.
type Markers struct {
	Directive   []string `mapstructure:"directive" yaml:"directive"`
	Exploratory []string `mapstructure:"exploratory" yaml:"exploratory"`
	Overload    []string `mapstructure:"overload" yaml:"overload"`
	Frustration []string `mapstructure:"frustration" yaml:"frustration"`
	Confidence  []string `mapstructure:"confidence" yaml:"confidence"`
}

// Config holds the classifier thresholds and marker buckets.
type Config struct {
	MinConfidenceToSwitch float64 `mapstructure:"min_confidence_to_switch" yaml:"min_confidence_to_switch"`
	Hysteresis            float64 `mapstructure:"hysteresis" yaml:"hysteresis"`
	TieBreakEps           float64 `mapstructure:"tie_break_eps" yaml:"tie_break_eps"`
	HistorySize           int     `mapstructure:"history_size" yaml:"history_size"`
	VeryShortChars        int     `mapstructure:"very_short_chars" yaml:"very_short_chars"`
	VeryLongChars         int     `mapstructure:"very_long_chars" yaml:"very_long_chars"`
	RapidPerMinute        float64 `mapstructure:"rapid_per_minute" yaml:"rapid_per_minute"`
	HighTension           float64 `mapstructure:"high_tension" yaml:"high_tension"`
	ShoutCapsRatio        float64 `mapstructure:"shout_caps_ratio" yaml:"shout_caps_ratio"`
	ShoutMinLetters       int     `mapstructure:"shout_min_letters" yaml:"shout_min_letters"`
	Markers               Markers `mapstructure:"markers" yaml:"markers"`
}

// DefaultConfig returns the shipped classifier constants.
func DefaultConfig() Config {
	return Config{
		MinConfidenceToSwitch: 0.55,
		Hysteresis:            0.12,
		TieBreakEps:           0.03,
		HistorySize:           5,
		VeryShortChars:        40,
		VeryLongChars:         900,
		RapidPerMinute:        4,
		HighTension:           0.6,
		ShoutCapsRatio:        0.5,
		ShoutMinLetters:       4,
		Markers: Markers{
			Directive: []string{
				"just", "now", "asap", "immediately", "quickly", "fix", "run", "send",
				"give me", "do it", "go ahead", "need you to", "make it",
			},
			Exploratory: []string{
				"curious", "wonder", "explore", "ideas", "brainstorm", "possibilities",
				"alternatives", "what if", "how might", "tell me more",
			},
			Overload: []string{
				"overwhelmed", "confused", "swamped", "drowning", "too much", "too many",
				"can't keep up", "slow down", "one thing at a time", "so lost",
			},
			Frustration: []string{
				"ugh", "useless", "annoying", "frustrated", "seriously", "broken", "wtf",
				"still not", "doesn't work", "not working", "why won't", "not again",
			},
			Confidence: []string{
				"definitely", "obviously", "clearly", "confident", "exactly",
				"i know", "i'm sure", "i've done", "i already",
			},
		},
	}
}

// #endregion config
