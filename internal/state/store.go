package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL UNIQUE,
	turn_id      TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	disposition  TEXT NOT NULL,
	confidence   REAL NOT NULL,
	rule         TEXT NOT NULL,
	attractor    TEXT NOT NULL,
	posture      TEXT NOT NULL,
	bias         TEXT NOT NULL,
	eval_passed  INTEGER NOT NULL,
	eval_reason  TEXT,
	input_json   TEXT NOT NULL,
	trace_json   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_turn ON decisions(turn_id);
CREATE INDEX IF NOT EXISTS idx_decisions_disposition ON decisions(disposition);
`

const selectColumns = `id, turn_id, created_at, disposition, confidence, rule, attractor,
	posture, bias, eval_passed, eval_reason, input_json, trace_json`

// #endregion schema

// #region store-struct
// Store is the append-only decision ledger in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region save-decision
// SaveDecision appends rec. An empty ID gets a new UUID and a zero
// CreatedAt gets the current time; the stored record is returned.
func (s *Store) SaveDecision(ctx context.Context, rec DecisionRecord) (DecisionRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions (id, turn_id, created_at, disposition, confidence, rule, attractor,
		 posture, bias, eval_passed, eval_reason, input_json, trace_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TurnID, rec.CreatedAt.UTC().Format(time.RFC3339Nano), rec.Disposition, rec.Confidence,
		rec.Rule, rec.Attractor, rec.Posture, rec.Bias, boolToInt(rec.EvalPassed), rec.EvalReason,
		rec.InputJSON, rec.TraceJSON,
	)
	if err != nil {
		return DecisionRecord{}, fmt.Errorf("insert decision %s: %w", rec.ID, err)
	}
	return rec, nil
}

// #endregion save-decision

// #region get-decision
// GetDecision retrieves one decision by ID.
func (s *Store) GetDecision(ctx context.Context, id string) (DecisionRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM decisions WHERE id = ?`, id)
	rec, err := scanDecision(row)
	if err != nil {
		return DecisionRecord{}, fmt.Errorf("get decision %s: %w", id, err)
	}
	return rec, nil
}

// #endregion get-decision

// #region list
// ListDecisions returns the most recent decisions, newest first.
func (s *Store) ListDecisions(ctx context.Context, limit int) ([]DecisionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.query(ctx, `SELECT `+selectColumns+` FROM decisions ORDER BY seq DESC LIMIT ?`, limit)
}

// ListInputs returns every decision in insertion order, for replay.
func (s *Store) ListInputs(ctx context.Context) ([]DecisionRecord, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM decisions ORDER BY seq ASC`)
}

// CountByDisposition summarizes the ledger per disposition.
func (s *Store) CountByDisposition(ctx context.Context) ([]DispositionCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT disposition, COUNT(*), AVG(confidence) FROM decisions
		 GROUP BY disposition ORDER BY disposition`)
	if err != nil {
		return nil, fmt.Errorf("count dispositions: %w", err)
	}
	defer rows.Close()

	var out []DispositionCount
	for rows.Next() {
		var c DispositionCount
		if err := rows.Scan(&c.Disposition, &c.Count, &c.AvgConf); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]DecisionRecord, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var records []DecisionRecord
	for rows.Next() {
		rec, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list

// #region scan
type scanner interface {
	Scan(dest ...any) error
}

func scanDecision(sc scanner) (DecisionRecord, error) {
	var rec DecisionRecord
	var createdStr string
	var passed int
	var reason sql.NullString
	err := sc.Scan(&rec.ID, &rec.TurnID, &createdStr, &rec.Disposition, &rec.Confidence, &rec.Rule,
		&rec.Attractor, &rec.Posture, &rec.Bias, &passed, &reason, &rec.InputJSON, &rec.TraceJSON)
	if err != nil {
		return DecisionRecord{}, err
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	rec.EvalPassed = passed != 0
	if reason.Valid {
		rec.EvalReason = reason.String
	}
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion scan
