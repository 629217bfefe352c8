package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/san-kum/padsim/internal/filter"
	"github.com/san-kum/padsim/internal/metrics"
	"github.com/san-kum/padsim/internal/monitoring"
)

var ErrRunNotFound = errors.New("storage: run not found")

// RunMeta describes one sweep or single-subject run.
type RunMeta struct {
	ID             string           `json:"id"`
	Label          string           `json:"label"`
	CreatedAt      time.Time        `json:"created_at"`
	Config         filter.SimConfig `json:"config"`
	Subjects       []string         `json:"subjects"`
	Angles         []float64        `json:"angles"`
	ResetEachAngle bool             `json:"reset_each_angle"`
	Steps          int              `json:"steps"`
}

// StoredStep is a persisted filter step. Seq counts the steps of one subject
// within a run, starting at 0.
type StoredStep struct {
	Seq     int                      `json:"seq"`
	Result  *filter.SimulationResult `json:"result"`
	Metrics map[string]float64       `json:"metrics"`
}

// Store keeps runs and their steps in a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Run is a handle for appending steps to one stored run.
type Run struct {
	store *Store
	meta  RunMeta
}

func (r *Run) ID() string    { return r.meta.ID }
func (r *Run) Meta() RunMeta { return r.meta }

func (r *Run) Write(res *filter.SimulationResult) error {
	return r.store.writeStep(r.meta.ID, res)
}

// BeginRun records the run metadata, assigning an id and timestamp when
// they are unset.
func (s *Store) BeginRun(meta RunMeta) (*Run, error) {
	if meta.ID == "" {
		meta.ID = uuid.New().String()
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}

	cfg, err := json.Marshal(meta.Config)
	if err != nil {
		return nil, err
	}
	subjects, err := json.Marshal(meta.Subjects)
	if err != nil {
		return nil, err
	}
	angles, err := json.Marshal(meta.Angles)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`
		INSERT INTO runs (run_id, label, created_at, config_json, subjects_json, angles_json, reset_each_angle)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.Label, meta.CreatedAt.UnixNano(), string(cfg), string(subjects), string(angles), meta.ResetEachAngle,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run %s: %w", meta.ID, err)
	}

	monitoring.L().Info("run started", zap.String("run_id", meta.ID), zap.String("label", meta.Label))
	return &Run{store: s, meta: meta}, nil
}

func (s *Store) writeStep(runID string, res *filter.SimulationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var seq int
	err = tx.QueryRow(`SELECT COALESCE(MAX(seq), -1) + 1 FROM steps WHERE run_id = ? AND subject = ?`,
		runID, res.Subject).Scan(&seq)
	if err != nil {
		return err
	}

	out, err := tx.Exec(`INSERT INTO steps (run_id, subject, seq, angle) VALUES (?, ?, ?, ?)`,
		runID, res.Subject, seq, res.Angle)
	if err != nil {
		return fmt.Errorf("insert step %s/%s: %w", runID, res.Subject, err)
	}
	stepID, err := out.LastInsertId()
	if err != nil {
		return err
	}

	for _, row := range res.Steps {
		_, err := tx.Exec(`
			INSERT INTO pad_rows (step_id, pad_id, initial_prob, displacement, predicted_prob, corrected_prob)
			VALUES (?, ?, ?, ?, ?, ?)`,
			stepID, row.PadID, row.InitialProb, row.Displacement, row.PredictedProb, row.CorrectedProb)
		if err != nil {
			return err
		}
	}

	for rank, p := range res.TopPads {
		_, err := tx.Exec(`
			INSERT INTO top_pads (step_id, rank, pad_id, pad_row, pad_col, radius, displacement, probability, initial_prob)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			stepID, rank+1, p.ID, p.Row, p.Col, p.Radius, p.Displacement, p.Probability, p.InitialProb)
		if err != nil {
			return err
		}
	}

	for name, v := range metrics.Summarize(res) {
		if _, err := tx.Exec(`INSERT INTO step_metrics (step_id, name, value) VALUES (?, ?, ?)`, stepID, name, v); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	monitoring.L().Debug("step stored",
		zap.String("run_id", runID),
		zap.String("subject", res.Subject),
		zap.Int("seq", seq),
		zap.Float64("angle", res.Angle),
	)
	return nil
}

const runColumns = `run_id, label, created_at, config_json, subjects_json, angles_json, reset_each_angle,
	(SELECT COUNT(*) FROM steps WHERE steps.run_id = runs.run_id)`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(sc rowScanner) (*RunMeta, error) {
	var (
		meta                  RunMeta
		created               int64
		cfg, subjects, angles string
	)
	err := sc.Scan(&meta.ID, &meta.Label, &created, &cfg, &subjects, &angles, &meta.ResetEachAngle, &meta.Steps)
	if err != nil {
		return nil, err
	}
	meta.CreatedAt = time.Unix(0, created)
	if err := json.Unmarshal([]byte(cfg), &meta.Config); err != nil {
		return nil, fmt.Errorf("run %s config: %w", meta.ID, err)
	}
	if err := json.Unmarshal([]byte(subjects), &meta.Subjects); err != nil {
		return nil, fmt.Errorf("run %s subjects: %w", meta.ID, err)
	}
	if err := json.Unmarshal([]byte(angles), &meta.Angles); err != nil {
		return nil, fmt.Errorf("run %s angles: %w", meta.ID, err)
	}
	return &meta, nil
}

// List returns every run, newest first.
func (s *Store) List() ([]RunMeta, error) {
	rows, err := s.db.Query(`SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]RunMeta, 0)
	for rows.Next() {
		meta, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *meta)
	}
	return runs, rows.Err()
}

func (s *Store) Load(runID string) (*RunMeta, error) {
	meta, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return meta, err
}

// Subjects lists the subjects that have stored steps in a run.
func (s *Store) Subjects(runID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT subject FROM steps WHERE run_id = ? ORDER BY subject`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var subject string
		if err := rows.Scan(&subject); err != nil {
			return nil, err
		}
		out = append(out, subject)
	}
	return out, rows.Err()
}

// Steps loads every step of a run ordered by subject and sequence.
func (s *Store) Steps(runID string) ([]StoredStep, error) {
	if _, err := s.Load(runID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT step_id, subject, seq, angle FROM steps WHERE run_id = ? ORDER BY subject, seq`, runID)
	if err != nil {
		return nil, err
	}
	var (
		steps []StoredStep
		index = make(map[int64]int)
	)
	for rows.Next() {
		var (
			id   int64
			step = StoredStep{Result: &filter.SimulationResult{}, Metrics: make(map[string]float64)}
		)
		if err := rows.Scan(&id, &step.Result.Subject, &step.Seq, &step.Result.Angle); err != nil {
			rows.Close()
			return nil, err
		}
		index[id] = len(steps)
		steps = append(steps, step)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const inRun = `step_id IN (SELECT step_id FROM steps WHERE run_id = ?)`

	err = s.each(`SELECT step_id, pad_id, initial_prob, displacement, predicted_prob, corrected_prob
		FROM pad_rows WHERE `+inRun+` ORDER BY step_id, pad_id`, runID, func(sc rowScanner) error {
		var (
			id  int64
			row filter.BayesStepResult
		)
		if err := sc.Scan(&id, &row.PadID, &row.InitialProb, &row.Displacement, &row.PredictedProb, &row.CorrectedProb); err != nil {
			return err
		}
		r := steps[index[id]].Result
		r.Steps = append(r.Steps, row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.each(`SELECT step_id, pad_id, pad_row, pad_col, radius, displacement, probability, initial_prob
		FROM top_pads WHERE `+inRun+` ORDER BY step_id, rank`, runID, func(sc rowScanner) error {
		var (
			id int64
			p  filter.Pad
		)
		if err := sc.Scan(&id, &p.ID, &p.Row, &p.Col, &p.Radius, &p.Displacement, &p.Probability, &p.InitialProb); err != nil {
			return err
		}
		r := steps[index[id]].Result
		r.TopPads = append(r.TopPads, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.each(`SELECT step_id, name, value FROM step_metrics WHERE `+inRun, runID, func(sc rowScanner) error {
		var (
			id    int64
			name  string
			value float64
		)
		if err := sc.Scan(&id, &name, &value); err != nil {
			return err
		}
		steps[index[id]].Metrics[name] = value
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, st := range steps {
		if st.Result.TopPads == nil {
			st.Result.TopPads = []filter.Pad{}
		}
	}
	return steps, nil
}

func (s *Store) each(query string, arg any, fn func(rowScanner) error) error {
	rows, err := s.db.Query(query, arg)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// PadTrace returns the corrected probability of one pad at every stored
// step of a subject, in step order.
func (s *Store) PadTrace(runID, subject string, padID int) (angles, probs []float64, err error) {
	rows, err := s.db.Query(`
		SELECT s.angle, p.corrected_prob
		FROM steps s JOIN pad_rows p ON p.step_id = s.step_id
		WHERE s.run_id = ? AND s.subject = ? AND p.pad_id = ?
		ORDER BY s.seq`, runID, subject, padID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a, p float64
		if err := rows.Scan(&a, &p); err != nil {
			return nil, nil, err
		}
		angles = append(angles, a)
		probs = append(probs, p)
	}
	return angles, probs, rows.Err()
}
