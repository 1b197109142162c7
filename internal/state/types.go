package state

import "time"

// #region decision-record
// DecisionRecord is one persisted decision with the input that produced it.
type DecisionRecord struct {
	ID          string
	TurnID      string
	CreatedAt   time.Time
	Disposition string
	Confidence  float64
	Rule        string
	Attractor   string
	Posture     string
	Bias        string
	EvalPassed  bool
	EvalReason  string
	InputJSON   string
	TraceJSON   string
}

// #endregion decision-record

// #region disposition-count
// DispositionCount is one row of the disposition summary.
type DispositionCount struct {
	Disposition string
	Count       int
	AvgConf     float64
}

// #endregion disposition-count
