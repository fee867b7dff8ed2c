// Package history provides SQLite-based persistence for completed decision
// runs, so past recommendations can be reviewed from the CLI and web UI.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"verdict/internal/domain"
	"verdict/internal/workflow"
)

// Status marks how a run ended.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Session is one persisted decision run.
type Session struct {
	ID             string            `json:"id"`
	Query          string            `json:"query"`
	DatasetPath    string            `json:"dataset_path"`
	Status         Status            `json:"status"`
	Options        []domain.Option   `json:"options"`
	Analyses       []domain.Analysis `json:"analyses"`
	Recommendation string            `json:"recommendation"`
	Error          string            `json:"error,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	Duration       time.Duration     `json:"duration"`
}

// ErrNotFound is returned when a session ID does not exist.
var ErrNotFound = errors.New("session not found")

// Store wraps an SQLite database holding decision sessions.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens (and migrates) the history database at the given path,
// creating parent directories as needed. WAL mode is enabled for
// concurrent reads.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	s := &Store{conn: conn, path: path}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.conn.Close() }

// Path returns the path to the database file.
func (s *Store) Path() string { return s.path }

func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id              TEXT PRIMARY KEY,
			query           TEXT NOT NULL,
			dataset_path    TEXT NOT NULL,
			status          TEXT NOT NULL,
			options         TEXT NOT NULL,
			analyses        TEXT NOT NULL,
			recommendation  TEXT NOT NULL,
			error           TEXT NOT NULL DEFAULT '',
			created_at      DATETIME NOT NULL,
			duration_ms     INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

// SaveRun stores the outcome of one pipeline run and returns the session.
func (s *Store) SaveRun(st *workflow.State, datasetPath string) (*Session, error) {
	sess := &Session{
		ID:             uuid.NewString(),
		Query:          st.Query,
		DatasetPath:    datasetPath,
		Status:         StatusCompleted,
		Options:        st.Options,
		Analyses:       st.Analyses,
		Recommendation: st.Recommendation.Text,
		CreatedAt:      st.StartedAt,
		Duration:       st.FinishedAt.Sub(st.StartedAt),
	}
	if st.Step != workflow.StepComplete {
		sess.Status = StatusFailed
		if st.Err != nil {
			sess.Error = st.Err.Error()
		}
	}
	optionsJSON, err := json.Marshal(sess.Options)
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}
	analysesJSON, err := json.Marshal(sess.Analyses)
	if err != nil {
		return nil, fmt.Errorf("marshal analyses: %w", err)
	}
	_, err = s.conn.Exec(`
		INSERT INTO sessions (id, query, dataset_path, status, options, analyses, recommendation, error, created_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sess.ID, sess.Query, sess.DatasetPath, string(sess.Status),
		string(optionsJSON), string(analysesJSON), sess.Recommendation, sess.Error,
		sess.CreatedAt.UTC(), sess.Duration.Milliseconds(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// Get returns the session with the given ID.
func (s *Store) Get(id string) (*Session, error) {
	row := s.conn.QueryRow(`
		SELECT id, query, dataset_path, status, options, analyses, recommendation, error, created_at, duration_ms
		FROM sessions WHERE id = ?
	`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sess, err
}

// List returns the most recent sessions, newest first.
func (s *Store) List(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.conn.Query(`
		SELECT id, query, dataset_path, status, options, analyses, recommendation, error, created_at, duration_ms
		FROM sessions ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var (
		sess         Session
		status       string
		optionsJSON  string
		analysesJSON string
		durationMs   int64
	)
	err := row.Scan(&sess.ID, &sess.Query, &sess.DatasetPath, &status,
		&optionsJSON, &analysesJSON, &sess.Recommendation, &sess.Error,
		&sess.CreatedAt, &durationMs)
	if err != nil {
		return nil, err
	}
	sess.Status = Status(status)
	sess.Duration = time.Duration(durationMs) * time.Millisecond
	if err := json.Unmarshal([]byte(optionsJSON), &sess.Options); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	if err := json.Unmarshal([]byte(analysesJSON), &sess.Analyses); err != nil {
		return nil, fmt.Errorf("unmarshal analyses: %w", err)
	}
	return &sess, nil
}
