// Package sqlite persists analysis sessions and serves the per-patient trend
// queries.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mindtrace/engine/internal/domain"
)

// Store is a SQLite implementation of domain.SessionStore.
type Store struct {
	db *sql.DB
}

var _ domain.SessionStore = (*Store)(nil)

// New opens (or creates) the database at dbPath and initializes the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			patient_id TEXT NOT NULL,
			transcript TEXT NOT NULL,
			fused TEXT,
			medication TEXT NOT NULL,
			report TEXT,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_patient ON sessions(patient_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

// CreateSession inserts a completed session and returns its id. A zero
// CreatedAt is filled with the current time; a missing id gets a fresh uuid.
func (s *Store) CreateSession(ctx context.Context, rec *domain.SessionRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	fused, err := json.Marshal(rec.Fused)
	if err != nil {
		return "", fmt.Errorf("failed to marshal fused analysis: %w", err)
	}
	med, err := json.Marshal(rec.Medication)
	if err != nil {
		return "", fmt.Errorf("failed to marshal medication: %w", err)
	}
	report, err := json.Marshal(rec.Report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `INSERT INTO sessions (id, patient_id, transcript, fused, medication, report, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.PatientID, rec.Transcript,
		string(fused), string(med), string(report), rec.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return rec.ID, nil
}

// GetSession loads one session by id.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.SessionRecord, error) {
	query := `SELECT id, patient_id, transcript, fused, medication, report, created_at
	          FROM sessions WHERE id = ?`

	rec, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound(fmt.Sprintf("session %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return rec, nil
}

// ListSessionsByPatient returns a patient's sessions oldest first.
func (s *Store) ListSessionsByPatient(ctx context.Context, patientID string) ([]domain.SessionRecord, error) {
	query := `SELECT id, patient_id, transcript, fused, medication, report, created_at
	          FROM sessions WHERE patient_id = ?
	          ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *rec)
	}

	return sessions, rows.Err()
}

// Trends reduces a patient's session history to the dominant emotion per
// session, frequency counts, and mean intensity per emotion.
func (s *Store) Trends(ctx context.Context, patientID string) (*domain.EmotionTrends, error) {
	sessions, err := s.ListSessionsByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	trends := &domain.EmotionTrends{
		TrendData:          []domain.TrendPoint{},
		EmotionCounts:      map[string]int{},
		EmotionIntensities: map[string]float64{},
		TotalSessions:      len(sessions),
	}

	totals := map[string]float64{}
	for _, sess := range sessions {
		if sess.Fused == nil || len(sess.Fused.Combined) == 0 {
			continue
		}
		emotion, intensity := sess.Fused.Combined.Dominant()
		trends.TrendData = append(trends.TrendData, domain.TrendPoint{
			Date:      sess.CreatedAt.Format("2006-01-02"),
			Emotion:   emotion,
			Intensity: intensity,
		})
		trends.EmotionCounts[emotion]++
		totals[emotion] += intensity
	}

	for emotion, total := range totals {
		trends.EmotionIntensities[emotion] = total / float64(trends.EmotionCounts[emotion])
	}

	return trends, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.SessionRecord, error) {
	var rec domain.SessionRecord
	var fused, med, report sql.NullString

	if err := row.Scan(&rec.ID, &rec.PatientID, &rec.Transcript,
		&fused, &med, &report, &rec.CreatedAt); err != nil {
		return nil, err
	}

	if fused.Valid && fused.String != "" && fused.String != "null" {
		if err := json.Unmarshal([]byte(fused.String), &rec.Fused); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fused analysis: %w", err)
		}
	}
	if med.Valid && med.String != "" {
		if err := json.Unmarshal([]byte(med.String), &rec.Medication); err != nil {
			return nil, fmt.Errorf("failed to unmarshal medication: %w", err)
		}
	}
	if report.Valid && report.String != "" && report.String != "null" {
		if err := json.Unmarshal([]byte(report.String), &rec.Report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
	}

	return &rec, nil
}
