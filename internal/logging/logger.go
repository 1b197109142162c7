package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// #region new
// New builds a zap logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Encoding != "" {
		zc.Encoding = cfg.Encoding
	}
	if cfg.Level != "" {
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// #endregion new

// #region decision-fields
// DecisionFields flattens e into structured fields.
func DecisionFields(e DecisionEntry) []zap.Field {
	fields := []zap.Field{
		zap.String("turn_id", e.TurnID),
		zap.String("intent", e.Intent),
		zap.String("impact", e.Impact),
		zap.String("attractor", e.Attractor),
		zap.String("attractor_rule", e.AttractRule),
		zap.String("posture", e.Posture),
		zap.String("bias", e.Bias),
		zap.String("bias_reason", e.BiasReason),
		zap.String("collapse_selected", e.Collapse.Selected),
		zap.Float64("collapse_confidence", e.Collapse.Confidence),
		zap.String("collapse_reason", e.Collapse.Reason),
		zap.Int("collapse_cycles", e.Collapse.Cycles),
		zap.Float64("ambiguity", e.Collapse.Ambiguity),
		zap.String("disposition", e.Disposition),
		zap.Float64("confidence", e.Confidence),
		zap.String("rule", e.Rule),
		zap.Bool("assertive", e.Assertive),
		zap.Bool("eval_passed", e.EvalPassed),
	}
	if e.RiskClass != "" {
		fields = append(fields, zap.String("risk_class", e.RiskClass))
	}
	if len(e.Vetoes) > 0 {
		fields = append(fields, zap.Strings("vetoes", e.Vetoes))
	}
	if !e.EvalPassed && e.EvalReason != "" {
		fields = append(fields, zap.String("eval_reason", e.EvalReason))
	}
	return fields
}

// LogDecision writes e at info level, or warn when validation failed.
func LogDecision(l *zap.Logger, e DecisionEntry) {
	l = OrNop(l)
	if !e.EvalPassed {
		l.Warn("decision failed validation", DecisionFields(e)...)
		return
	}
	l.Info("decision", DecisionFields(e)...)
}

// #endregion decision-fields
