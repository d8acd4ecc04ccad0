package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"BankSentinel/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DefaultHistoryLimit caps RecentEvaluations when limit is not positive.
const DefaultHistoryLimit = 20

// SQLiteRecorder persists evaluation history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
	now    func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the API read history while a statement is being recorded.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS evaluations (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL UNIQUE,
			timestamp   INTEGER NOT NULL,
			bank_name   TEXT,
			z_score     REAL,
			f_score     REAL,
			npl_ratio   REAL,
			z_zone      TEXT,
			f_zone      TEXT,
			npl_zone    TEXT,
			bucket      TEXT,
			role        TEXT,
			verdict     TEXT,
			source      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_ts ON evaluations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS dashboard_events (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL UNIQUE,
			timestamp   INTEGER NOT NULL,
			event_type  TEXT,
			user_name   TEXT,
			detail      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_ts ON dashboard_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) stamp(id *string, at *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if at.IsZero() {
		*at = r.now()
	}
}

func (r *SQLiteRecorder) RecordEvaluation(rec *EvaluationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stamp(&rec.ID, &rec.RecordedAt)
	_, err := r.db.Exec(`INSERT INTO evaluations
		(id, timestamp, bank_name, z_score, f_score, npl_ratio,
		 z_zone, f_zone, npl_zone, bucket, role, verdict, source)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.RecordedAt.UnixMilli(), rec.BankName,
		rec.ZScore, rec.FScore, rec.NPLRatio,
		string(rec.ZZone), string(rec.FZone), string(rec.NPLZone),
		string(rec.Bucket), string(rec.Role), rec.Verdict, rec.Source,
	)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) RecordEvent(evt *DashboardEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stamp(&evt.ID, &evt.RecordedAt)
	_, err := r.db.Exec(`INSERT INTO dashboard_events
		(id, timestamp, event_type, user_name, detail)
		VALUES (?,?,?,?,?)`,
		evt.ID, evt.RecordedAt.UnixMilli(), evt.EventType, evt.User, evt.Detail,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// RecentEvaluations returns up to limit records, newest first.
func (r *SQLiteRecorder) RecentEvaluations(limit int) ([]EvaluationRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, bank_name, z_score, f_score, npl_ratio,
		z_zone, f_zone, npl_zone, bucket, role, verdict, source
		FROM evaluations ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	var out []EvaluationRecord
	for rows.Next() {
		var (
			rec                   EvaluationRecord
			ts                    int64
			zZone, fZone, nplZone string
			bucket, role          string
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.BankName, &rec.ZScore, &rec.FScore, &rec.NPLRatio,
			&zZone, &fZone, &nplZone, &bucket, &role, &rec.Verdict, &rec.Source); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		rec.RecordedAt = time.UnixMilli(ts)
		rec.ZZone = model.Zone(zZone)
		rec.FZone = model.Zone(fZone)
		rec.NPLZone = model.Zone(nplZone)
		rec.Bucket = model.Bucket(bucket)
		rec.Role = model.Role(role)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
