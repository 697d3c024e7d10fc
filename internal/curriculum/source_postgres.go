package curriculum

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// ErrCurriculumNotFound is returned when a source has no such curriculum.
var ErrCurriculumNotFound = errors.New("curriculum not found")

// PostgresSchema creates the catalog tables read by PostgresSource.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS curricula (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL DEFAULT '',
	max_year INT  NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS courses (
	id            TEXT PRIMARY KEY,
	curriculum_id TEXT NOT NULL REFERENCES curricula(id) ON DELETE CASCADE,
	code          TEXT NOT NULL,
	name          TEXT NOT NULL DEFAULT '',
	year          TEXT NOT NULL DEFAULT '',
	term          TEXT NOT NULL DEFAULT '',
	hours         INT  NOT NULL DEFAULT 0,
	position      SERIAL
);
CREATE TABLE IF NOT EXISTS course_prerequisites (
	course_id          TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
	required_code      TEXT NOT NULL,
	required_course_id TEXT
);
`

// PostgresSource reads curriculum catalogs from PostgreSQL.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource creates a catalog source over pool.
func NewPostgresSource(pool *pgxpool.Pool) (*PostgresSource, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresSource{pool: pool}, nil
}

// EnsureSchema creates the catalog tables when missing.
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("create catalog schema: %w", err)
	}
	return nil
}

// LoadCurriculum reads one curriculum and its courses.
func (s *PostgresSource) LoadCurriculum(ctx context.Context, curriculumID string) (CurriculumFile, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	f := CurriculumFile{ID: curriculumID}
	err := s.pool.QueryRow(ctx,
		`SELECT name, max_year FROM curricula WHERE id = $1`,
		curriculumID,
	).Scan(&f.Name, &f.MaxYear)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CurriculumFile{}, fmt.Errorf("%w: %s", ErrCurriculumNotFound, curriculumID)
		}
		return CurriculumFile{}, fmt.Errorf("get curriculum: %w", err)
	}

	courses, err := s.LoadCourses(ctx, curriculumID)
	if err != nil {
		return CurriculumFile{}, err
	}
	f.Courses = courses
	return f, nil
}

// LoadCourses reads the raw course records of a curriculum with their
// prerequisite edges, in insertion order.
func (s *PostgresSource) LoadCourses(ctx context.Context, curriculumID string) ([]RawCourse, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT id, code, name, year, term, hours
		 FROM courses
		 WHERE curriculum_id = $1
		 ORDER BY position ASC`,
		curriculumID,
	)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}

	var courses []RawCourse
	byID := make(map[string]int)
	for rows.Next() {
		r := RawCourse{CurriculumID: curriculumID}
		if err := rows.Scan(&r.ID, &r.Code, &r.Name, &r.Year, &r.Term, &r.Hours); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan course: %w", err)
		}
		byID[r.ID] = len(courses)
		courses = append(courses, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}

	prereqs, err := s.pool.Query(ctx,
		`SELECT p.course_id, p.required_code, p.required_course_id
		 FROM course_prerequisites p
		 JOIN courses c ON c.id = p.course_id
		 WHERE c.curriculum_id = $1
		 ORDER BY c.position ASC, p.required_code ASC`,
		curriculumID,
	)
	if err != nil {
		return nil, fmt.Errorf("query prerequisites: %w", err)
	}
	defer prereqs.Close()

	for prereqs.Next() {
		var courseID, code string
		var requiredID *string
		if err := prereqs.Scan(&courseID, &code, &requiredID); err != nil {
			return nil, fmt.Errorf("scan prerequisite: %w", err)
		}
		idx, ok := byID[courseID]
		if !ok {
			continue
		}
		p := RawPrerequisite{Code: code}
		if requiredID != nil {
			p.ID = *requiredID
		}
		courses[idx].Prerequisites = append(courses[idx].Prerequisites, p)
	}
	if err := prereqs.Err(); err != nil {
		return nil, fmt.Errorf("iterate prerequisites: %w", err)
	}

	return courses, nil
}

// CurriculumIDs lists every stored curriculum, sorted.
func (s *PostgresSource) CurriculumIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT id FROM curricula ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query curricula: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect curricula: %w", err)
	}
	return ids, nil
}

// SaveCurriculum replaces a stored curriculum and its courses in one
// transaction. Course order is kept through the position column.
func (s *PostgresSource) SaveCurriculum(ctx context.Context, f CurriculumFile) error {
	if f.ID == "" {
		return fmt.Errorf("curriculum id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM curricula WHERE id = $1`, f.ID); err != nil {
			return fmt.Errorf("delete curriculum: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO curricula (id, name, max_year) VALUES ($1, $2, $3)`,
			f.ID, f.Name, f.MaxYear,
		); err != nil {
			return fmt.Errorf("insert curriculum: %w", err)
		}
		for _, c := range f.Courses {
			if _, err := tx.Exec(ctx,
				`INSERT INTO courses (id, curriculum_id, code, name, year, term, hours)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				c.ID, f.ID, c.Code, c.Name, c.Year, c.Term, c.Hours,
			); err != nil {
				return fmt.Errorf("insert course %s: %w", c.ID, err)
			}
		}
		for _, c := range f.Courses {
			for _, p := range c.Prerequisites {
				var requiredID *string
				if p.ID != "" {
					requiredID = &p.ID
				}
				if _, err := tx.Exec(ctx,
					`INSERT INTO course_prerequisites (course_id, required_code, required_course_id)
					 VALUES ($1, $2, $3)`,
					c.ID, p.Code, requiredID,
				); err != nil {
					return fmt.Errorf("insert prerequisite of %s: %w", c.ID, err)
				}
			}
		}
		return nil
	})
}
