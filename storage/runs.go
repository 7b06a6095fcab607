package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"jarvis/config"
	"jarvis/model"
)

type RunStatus string

const (
	StatusRunning   RunStatus = "running"
	StatusAnswered  RunStatus = "answered"
	StatusCancelled RunStatus = "cancelled"
	StatusFailed    RunStatus = "failed"
)

// Message is one stored transcript entry.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Run is one task handed to the agent and how it ended.
type Run struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Answer    string    `json:"answer,omitempty"`
	Status    RunStatus `json:"status"`
	Model     string    `json:"model"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitempty"`
	Messages  []Message `json:"messages,omitempty"`
}

// RunStore keeps run history in <data_dir>/runs.db.
type RunStore struct {
	db *sql.DB
}

func NewRunStore(dataDir string) (*RunStore, error) {
	dbPath := filepath.Join(dataDir, "runs.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps writes serialized; sqlite locks the file anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &RunStore{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}

func (s *RunStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		task TEXT NOT NULL,
		answer TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		model TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		started_at DATETIME NOT NULL,
		ended_at DATETIME
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS messages (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (run_id, seq)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Begin records a new running task and returns its ID.
func (s *RunStore) Begin(ctx context.Context, task, modelName string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, task, status, model, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, task, string(StatusRunning), modelName, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Storage] Began run %s", id)
	}
	return id, nil
}

// Finish stores the outcome of a run together with its full transcript,
// replacing any transcript stored before.
func (s *RunStore) Finish(ctx context.Context, id string, status RunStatus, answer string, runErr error, messages []model.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE runs SET answer = ?, status = ?, error = ?, ended_at = ? WHERE id = ?`,
		answer, string(status), errText, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run %s not found in database", id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	for i, msg := range messages {
		ts := msg.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (run_id, seq, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
			id, i, string(msg.Role), msg.Content, ts.UTC(),
		); err != nil {
			return fmt.Errorf("failed to insert message %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

const runColumns = `id, task, answer, status, model, error, started_at, ended_at`

func scanRun(scan func(dest ...any) error) (Run, error) {
	var (
		run     Run
		status  string
		endedAt sql.NullTime
	)
	if err := scan(&run.ID, &run.Task, &run.Answer, &status, &run.Model, &run.Error, &run.StartedAt, &endedAt); err != nil {
		return Run{}, err
	}
	run.Status = RunStatus(status)
	if endedAt.Valid {
		run.EndedAt = endedAt.Time
	}
	return run, nil
}

// Load returns the run with its transcript, or nil when id is unknown.
func (s *RunStore) Load(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, created_at FROM messages WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.Role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		run.Messages = append(run.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns the most recent runs first, without transcripts.
func (s *RunStore) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.query(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
}

// Search finds finished runs whose task or answer contains query
// (case-insensitive), newest first.
func (s *RunStore) Search(ctx context.Context, query string, limit int) ([]Run, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Run{}, nil
	}
	if limit <= 0 {
		limit = 5
	}
	pattern := "%" + escapeLike(query) + "%"
	return s.query(ctx,
		`SELECT `+runColumns+` FROM runs
		WHERE status != ? AND (task LIKE ? ESCAPE '\' OR answer LIKE ? ESCAPE '\')
		ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		string(StatusRunning), pattern, pattern, limit)
}

func (s *RunStore) query(ctx context.Context, q string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (s *RunStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
