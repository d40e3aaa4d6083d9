package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/exposurelab/exposurescan/internal/breach"
	"github.com/exposurelab/exposurescan/internal/model"

	// Pure-Go SQLite driver, registered under the name "sqlite".
	_ "modernc.org/sqlite"
)

// DatabaseFileName is the SQLite database file created inside the
// directory passed to Open.
const DatabaseFileName = "exposurescan.db"

// DefaultListLimit bounds history listings when the caller passes a
// non-positive limit.
const DefaultListLimit = 50

// Options configures how the database is opened.
type Options struct {
	// CreateIfNotExists creates the database directory and file when
	// they do not exist yet. When false, opening a missing database fails.
	CreateIfNotExists bool

	// EnableWAL switches the database to write-ahead logging, which
	// allows readers to proceed while a write is in progress.
	EnableWAL bool
}

// DefaultOptions returns the options used by the CLI and server.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ScanDB stores completed scan results and cached breach lookups.
// It is safe for concurrent use.
type ScanDB struct {
	db     *sql.DB
	dbPath string
}

// CachedBreaches and StoreBreaches make the database usable as the
// breach checker's cache layer.
var _ breach.CacheStore = (*ScanDB)(nil)

// Open opens (and if requested creates) the scan database inside dbDir.
func Open(dbDir string, opts Options) (*ScanDB, error) {
	mode := "rw"
	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		mode = "rwc"
	}

	dbPath := filepath.Join(dbDir, DatabaseFileName)
	dsn := fmt.Sprintf("file:%s?mode=%s", dbPath, mode)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite permits a single writer. One connection serializes writers
	// in the pool instead of surfacing SQLITE_BUSY to callers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if opts.EnableWAL {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &ScanDB{db: db, dbPath: dbPath}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *ScanDB) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the path of the database file.
func (s *ScanDB) Path() string {
	return s.dbPath
}

func (s *ScanDB) createTables() error {
	const schema = `
CREATE TABLE IF NOT EXISTS scans (
	id             TEXT PRIMARY KEY,
	input          TEXT NOT NULL,
	input_type     TEXT NOT NULL,
	exposure_score INTEGER NOT NULL,
	risk_level     TEXT NOT NULL,
	result_json    TEXT NOT NULL,
	created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_scans_input ON scans(input);
CREATE INDEX IF NOT EXISTS idx_scans_created_at ON scans(created_at);

CREATE TABLE IF NOT EXISTS breach_cache (
	email_hash   TEXT NOT NULL,
	breach_name  TEXT NOT NULL,
	domain       TEXT NOT NULL DEFAULT '',
	breach_date  TEXT NOT NULL DEFAULT '',
	pwn_count    INTEGER NOT NULL DEFAULT 0,
	data_classes TEXT NOT NULL DEFAULT '',
	position     INTEGER NOT NULL DEFAULT 0,
	cached_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (email_hash, breach_name)
);

CREATE TABLE IF NOT EXISTS breach_lookups (
	email_hash   TEXT PRIMARY KEY,
	provider     TEXT NOT NULL,
	source_count INTEGER NOT NULL DEFAULT 0,
	looked_up_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := s.db.Exec(schema)
	return err
}

// SaveScanResult persists a completed scan. Saving the same scan ID
// again replaces the stored row.
func (s *ScanDB) SaveScanResult(ctx context.Context, result *model.ScanResult) error {
	if result == nil {
		return errors.New("nil scan result")
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal scan result: %w", err)
	}

	const query = `
INSERT INTO scans (id, input, input_type, exposure_score, risk_level, result_json, created_at)
VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
	input          = excluded.input,
	input_type     = excluded.input_type,
	exposure_score = excluded.exposure_score,
	risk_level     = excluded.risk_level,
	result_json    = excluded.result_json
`
	_, err = s.db.ExecContext(ctx, query,
		result.ID,
		result.Input,
		string(result.Classification.Type),
		result.Verdict.ExposureScore,
		string(result.Verdict.RiskLevel),
		string(resultJSON),
	)
	if err != nil {
		return fmt.Errorf("save scan result: %w", err)
	}
	return nil
}

// GetScanResult loads a stored scan by ID. It returns (nil, nil) when no
// scan with that ID exists.
func (s *ScanDB) GetScanResult(ctx context.Context, id string) (*model.ScanResult, error) {
	const query = `SELECT result_json FROM scans WHERE id = ?`

	var resultJSON string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query scan result: %w", err)
	}

	var result model.ScanResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("unmarshal scan result: %w", err)
	}
	return &result, nil
}

// ScanSummary is the lightweight listing form of a stored scan. History
// views use it to avoid deserializing full results.
type ScanSummary struct {
	// ID is the scan's unique identifier.
	ID string `json:"id"`

	// Input is the scanned input as submitted.
	Input string `json:"input"`

	// InputType is the classified type of the input.
	InputType model.InputType `json:"input_type"`

	// ExposureScore is the scan's 0-100 exposure score.
	ExposureScore int `json:"exposure_score"`

	// RiskLevel is the categorical risk tier for the score.
	RiskLevel model.RiskLevel `json:"risk_level"`

	// CreatedAt is when the scan was stored.
	CreatedAt time.Time `json:"created_at"`
}

// ListScans returns the most recent scans, newest first. A non-positive
// limit lists DefaultListLimit entries.
func (s *ScanDB) ListScans(ctx context.Context, limit int) ([]ScanSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	const query = `
SELECT id, input, input_type, exposure_score, risk_level, created_at
FROM scans
ORDER BY created_at DESC, rowid DESC
LIMIT ?
`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := []ScanSummary{}
	for rows.Next() {
		var (
			summary   ScanSummary
			inputType string
			riskLevel string
			createdAt string
		)
		if err := rows.Scan(&summary.ID, &summary.Input, &inputType, &summary.ExposureScore, &riskLevel, &createdAt); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		summary.InputType = model.InputType(inputType)
		summary.RiskLevel = model.RiskLevel(riskLevel)
		summary.CreatedAt = parseTimestamp(createdAt)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scan rows: %w", err)
	}
	return summaries, nil
}

// ScanHistory returns every stored scan for one input, newest first.
func (s *ScanDB) ScanHistory(ctx context.Context, input string) ([]*model.ScanResult, error) {
	const query = `
SELECT result_json FROM scans
WHERE input = ?
ORDER BY created_at DESC, rowid DESC
`
	rows, err := s.db.QueryContext(ctx, query, input)
	if err != nil {
		return nil, fmt.Errorf("query scan history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := []*model.ScanResult{}
	for rows.Next() {
		var resultJSON string
		if err := rows.Scan(&resultJSON); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		var result model.ScanResult
		if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
			return nil, fmt.Errorf("unmarshal scan result: %w", err)
		}
		results = append(results, &result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return results, nil
}

// ScanCount returns the number of stored scans.
func (s *ScanDB) ScanCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scans`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count scans: %w", err)
	}
	return count, nil
}

// CachedBreaches returns the cached breach sources for a hashed email
// address, if a lookup newer than maxAge is on record. The second return
// value reports a cache hit; a hit with zero sources is a cached clean
// lookup.
func (s *ScanDB) CachedBreaches(ctx context.Context, emailHash string, maxAge time.Duration) ([]model.BreachSource, bool, error) {
	if maxAge <= 0 {
		return nil, false, nil
	}

	const lookupQuery = `
SELECT COUNT(*) FROM breach_lookups
WHERE email_hash = ? AND looked_up_at > datetime('now', ?)
`
	modifier := fmt.Sprintf("-%d seconds", int64(maxAge.Seconds()))

	var fresh int
	if err := s.db.QueryRowContext(ctx, lookupQuery, emailHash, modifier).Scan(&fresh); err != nil {
		return nil, false, fmt.Errorf("query breach lookup cache: %w", err)
	}
	if fresh == 0 {
		return nil, false, nil
	}

	const sourceQuery = `
SELECT breach_name, domain, breach_date, pwn_count, data_classes
FROM breach_cache
WHERE email_hash = ?
ORDER BY position
`
	rows, err := s.db.QueryContext(ctx, sourceQuery, emailHash)
	if err != nil {
		return nil, false, fmt.Errorf("query breach cache: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sources := []model.BreachSource{}
	for rows.Next() {
		var (
			source      model.BreachSource
			breachDate  string
			dataClasses string
		)
		if err := rows.Scan(&source.Name, &source.Domain, &breachDate, &source.PwnCount, &dataClasses); err != nil {
			return nil, false, fmt.Errorf("scan breach cache row: %w", err)
		}
		source.BreachDate = parseTimestamp(breachDate)
		if dataClasses != "" {
			if err := json.Unmarshal([]byte(dataClasses), &source.DataClasses); err != nil {
				return nil, false, fmt.Errorf("unmarshal data classes: %w", err)
			}
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate breach cache rows: %w", err)
	}
	return sources, true, nil
}

// StoreBreaches records the outcome of one breach lookup for a hashed
// email address, replacing any previously cached sources. Storing an
// empty source list caches a clean lookup.
func (s *ScanDB) StoreBreaches(ctx context.Context, emailHash, provider string, sources []model.BreachSource) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin breach cache transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const lookupUpsert = `
INSERT INTO breach_lookups (email_hash, provider, source_count, looked_up_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(email_hash) DO UPDATE SET
	provider     = excluded.provider,
	source_count = excluded.source_count,
	looked_up_at = CURRENT_TIMESTAMP
`
	if _, err := tx.ExecContext(ctx, lookupUpsert, emailHash, provider, len(sources)); err != nil {
		return fmt.Errorf("record breach lookup: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM breach_cache WHERE email_hash = ?`, emailHash); err != nil {
		return fmt.Errorf("clear breach cache: %w", err)
	}

	const sourceUpsert = `
INSERT INTO breach_cache (email_hash, breach_name, domain, breach_date, pwn_count, data_classes, position, cached_at)
VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(email_hash, breach_name) DO UPDATE SET
	domain       = excluded.domain,
	breach_date  = excluded.breach_date,
	pwn_count    = excluded.pwn_count,
	data_classes = excluded.data_classes,
	position     = excluded.position,
	cached_at    = excluded.cached_at
`
	for i, source := range sources {
		breachDate := ""
		if !source.BreachDate.IsZero() {
			breachDate = source.BreachDate.UTC().Format(time.RFC3339)
		}
		dataClasses := ""
		if len(source.DataClasses) > 0 {
			encoded, err := json.Marshal(source.DataClasses)
			if err != nil {
				return fmt.Errorf("marshal data classes: %w", err)
			}
			dataClasses = string(encoded)
		}
		if _, err := tx.ExecContext(ctx, sourceUpsert, emailHash, source.Name, source.Domain, breachDate, source.PwnCount, dataClasses, i); err != nil {
			return fmt.Errorf("cache breach source: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit breach cache: %w", err)
	}
	return nil
}

// timestampFormats lists the layouts SQLite timestamps arrive in,
// depending on how the value was written.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp tries each known layout and returns the zero time when
// none matches.
func parseTimestamp(value string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
