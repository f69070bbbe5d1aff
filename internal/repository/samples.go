package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cutplan/constants"
	"cutplan/internal/entity"
)

// SampleRepository persists finalized accuracy samples. Persistence is
// best-effort from the engine's point of view; callers log failures and move
// on rather than failing the parse flow that produced the sample.
type SampleRepository interface {
	Insert(ctx context.Context, sample *entity.AccuracySample) error
	ListRecent(ctx context.Context, limit int) ([]entity.AccuracySample, error)
	ListSince(ctx context.Context, since time.Time) ([]entity.AccuracySample, error)
}

// sampleTimeLayout is fixed-width UTC text. RFC3339Nano trims trailing
// fractional zeros, which breaks the lexicographic ordering and range
// comparisons the queries rely on; padding to nine digits keeps text order
// identical to time order.
const sampleTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Column types are chosen to be valid in both Postgres and SQLite so one
// migration serves both drivers. Timestamps are stored as sampleTimeLayout
// text.
const sampleSchema = `
CREATE TABLE IF NOT EXISTS accuracy_samples (
    id                 TEXT PRIMARY KEY,
    total_parts        INTEGER NOT NULL,
    correct_parts      INTEGER NOT NULL,
    accuracy           DOUBLE PRECISION NOT NULL,
    dimension_accuracy DOUBLE PRECISION NOT NULL,
    material_accuracy  DOUBLE PRECISION NOT NULL,
    edging_accuracy    DOUBLE PRECISION NOT NULL,
    grooving_accuracy  DOUBLE PRECISION NOT NULL,
    quantity_accuracy  DOUBLE PRECISION NOT NULL,
    label_accuracy     DOUBLE PRECISION NOT NULL,
    few_shot_examples  INTEGER NOT NULL DEFAULT 0,
    patterns_applied   INTEGER NOT NULL DEFAULT 0,
    client_template    INTEGER NOT NULL DEFAULT 0,
    provider           TEXT NOT NULL DEFAULT '',
    difficulty         TEXT NOT NULL DEFAULT '',
    created_at         TEXT NOT NULL
)`

type sampleRepo struct {
	db      *sql.DB
	dialect Dialect
	log     *slog.Logger
}

// NewSampleRepository creates a repository over an open connection and
// ensures the schema exists.
func NewSampleRepository(ctx context.Context, db *sql.DB, dialect Dialect, log *slog.Logger) (SampleRepository, error) {
	if log == nil {
		log = slog.Default()
	}
	if _, err := db.ExecContext(ctx, sampleSchema); err != nil {
		return nil, fmt.Errorf("migrate accuracy_samples: %w", err)
	}
	return &sampleRepo{db: db, dialect: dialect, log: log}, nil
}

func (r *sampleRepo) Insert(ctx context.Context, s *entity.AccuracySample) error {
	query := r.rebind(`INSERT INTO accuracy_samples (
        id, total_parts, correct_parts, accuracy,
        dimension_accuracy, material_accuracy, edging_accuracy,
        grooving_accuracy, quantity_accuracy, label_accuracy,
        few_shot_examples, patterns_applied, client_template,
        provider, difficulty, created_at
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	clientTemplate := 0
	if s.ClientTemplateUsed {
		clientTemplate = 1
	}

	_, err := r.db.ExecContext(ctx, query,
		s.ID.String(),
		s.TotalParts,
		s.CorrectParts,
		s.Accuracy,
		s.DimensionAccuracy,
		s.MaterialAccuracy,
		s.EdgingAccuracy,
		s.GroovingAccuracy,
		s.QuantityAccuracy,
		s.LabelAccuracy,
		s.FewShotExamplesUsed,
		s.PatternsApplied,
		clientTemplate,
		s.Provider,
		string(s.DocumentDifficulty),
		s.CreatedAt.UTC().Format(sampleTimeLayout),
	)
	if err != nil {
		r.log.Error("accuracy_sample insert failed", "sample_id", s.ID, "err", err)
		return fmt.Errorf("insert accuracy sample: %w", err)
	}
	r.log.Debug("accuracy_sample inserted", "sample_id", s.ID, "accuracy", s.Accuracy)
	return nil
}

const sampleColumns = `id, total_parts, correct_parts, accuracy,
    dimension_accuracy, material_accuracy, edging_accuracy,
    grooving_accuracy, quantity_accuracy, label_accuracy,
    few_shot_examples, patterns_applied, client_template,
    provider, difficulty, created_at`

func (r *sampleRepo) ListRecent(ctx context.Context, limit int) ([]entity.AccuracySample, error) {
	if limit <= 0 {
		limit = 100
	}
	query := r.rebind(`SELECT ` + sampleColumns + `
        FROM accuracy_samples ORDER BY created_at DESC LIMIT ?`)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent samples: %w", err)
	}
	defer rows.Close()
	return scanSamples(rows)
}

func (r *sampleRepo) ListSince(ctx context.Context, since time.Time) ([]entity.AccuracySample, error) {
	query := r.rebind(`SELECT ` + sampleColumns + `
        FROM accuracy_samples WHERE created_at >= ? ORDER BY created_at ASC`)

	rows, err := r.db.QueryContext(ctx, query, since.UTC().Format(sampleTimeLayout))
	if err != nil {
		return nil, fmt.Errorf("list samples since: %w", err)
	}
	defer rows.Close()
	return scanSamples(rows)
}

func scanSamples(rows *sql.Rows) ([]entity.AccuracySample, error) {
	var samples []entity.AccuracySample
	for rows.Next() {
		var (
			s              entity.AccuracySample
			id             string
			clientTemplate int
			difficulty     string
			createdAt      string
		)
		if err := rows.Scan(
			&id,
			&s.TotalParts,
			&s.CorrectParts,
			&s.Accuracy,
			&s.DimensionAccuracy,
			&s.MaterialAccuracy,
			&s.EdgingAccuracy,
			&s.GroovingAccuracy,
			&s.QuantityAccuracy,
			&s.LabelAccuracy,
			&s.FewShotExamplesUsed,
			&s.PatternsApplied,
			&clientTemplate,
			&s.Provider,
			&difficulty,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan accuracy sample: %w", err)
		}

		if parsed, err := uuid.Parse(id); err == nil {
			s.ID = parsed
		}
		s.ClientTemplateUsed = clientTemplate != 0
		s.DocumentDifficulty = constants.Difficulty(difficulty)
		if t, err := time.Parse(sampleTimeLayout, createdAt); err == nil {
			s.CreatedAt = t
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// rebind rewrites ? placeholders to $n for Postgres.
func (r *sampleRepo) rebind(query string) string {
	if r.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
