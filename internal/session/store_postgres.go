package session

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mauriantolin/tu-carrera/internal/curriculum"
)

const dbTimeout = 5 * time.Second

// PostgresSchema creates the tables used by PostgresStore and
// PostgresEventLogger.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS completed_courses (
	student_id    TEXT NOT NULL,
	curriculum_id TEXT NOT NULL,
	course_id     TEXT NOT NULL,
	completed_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (student_id, curriculum_id, course_id)
);
CREATE TABLE IF NOT EXISTS planner_events (
	id            BIGSERIAL PRIMARY KEY,
	student_id    TEXT NOT NULL,
	curriculum_id TEXT NOT NULL,
	event_type    TEXT NOT NULL,
	data          JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// PostgresStore is a PostgreSQL-backed Store implementation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed completion store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Load(ctx context.Context, key Key) (curriculum.CompletionSet, error) {
	if err := key.Validate(); err != nil {
		return curriculum.CompletionSet{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT course_id
		 FROM completed_courses
		 WHERE student_id = $1 AND curriculum_id = $2`,
		key.StudentID,
		key.CurriculumID,
	)
	if err != nil {
		return curriculum.CompletionSet{}, fmt.Errorf("query completed courses: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return curriculum.CompletionSet{}, fmt.Errorf("scan completed courses: %w", err)
	}

	courseIDs := make([]curriculum.CourseID, len(ids))
	for i, id := range ids {
		courseIDs[i] = curriculum.CourseID(id)
	}
	return curriculum.NewCompletionSet(courseIDs...), nil
}

// Save replaces the stored set inside one transaction so readers never see a
// partially written set.
func (s *PostgresStore) Save(ctx context.Context, key Key, set curriculum.CompletionSet) error {
	if err := key.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM completed_courses WHERE student_id = $1 AND curriculum_id = $2`,
			key.StudentID,
			key.CurriculumID,
		); err != nil {
			return fmt.Errorf("clear completed courses: %w", err)
		}
		if set.Len() == 0 {
			return nil
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO completed_courses (student_id, curriculum_id, course_id)
			 SELECT $1, $2, unnest($3::text[])`,
			key.StudentID,
			key.CurriculumID,
			set.Strings(),
		); err != nil {
			return fmt.Errorf("insert completed courses: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save completion set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Reset(ctx context.Context, key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := s.pool.Exec(ctx,
		`DELETE FROM completed_courses WHERE student_id = $1 AND curriculum_id = $2`,
		key.StudentID,
		key.CurriculumID,
	); err != nil {
		return fmt.Errorf("reset completion set %s: %w", key, err)
	}
	return nil
}
