package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite

	"github.com/quizkit/quizkit/internal/domain"
	"github.com/quizkit/quizkit/internal/errors"
)

type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// SQL persists quizzes in a relational database. Questions ride along as a
// JSON column: the store's contracts are about identifier assignment and
// title uniqueness, not relational queries over options.
type SQL struct {
	db *sql.DB
}

// OpenSQL opens the database for the given driver and ensures the schema exists.
func OpenSQL(ctx context.Context, driver Driver, dsn string) (*SQL, error) {
	var drvName, schema string
	switch driver {
	case DriverSQLite:
		drvName, schema = "sqlite", schemaSQLite
		if dsn == "" {
			dsn = "file:quizkit.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName, schema = "pgx", schemaPostgres
		if dsn == "" {
			dsn = "postgres://localhost:5432/quizkit?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("store: unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// modernc sqlite misbehaves with concurrent writers on one handle.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}

	return &SQL{db: db}, nil
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS quizzes (
  quiz_id INTEGER PRIMARY KEY,
  title TEXT NOT NULL,
  title_key TEXT NOT NULL UNIQUE,
  questions_json TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS quizzes (
  quiz_id BIGINT PRIMARY KEY,
  title TEXT NOT NULL,
  title_key TEXT NOT NULL UNIQUE,
  questions_json TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`

func (s *SQL) CreateQuiz(ctx context.Context, title string) (quiz *domain.Quiz, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = stderrors.Join(err, tx.Rollback())
		}
	}()

	key := strings.ToLower(title)

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM quizzes WHERE title_key = $1`, key).Scan(&exists)
	if err == nil {
		return nil, errors.New(errors.CodeDuplicateTitle,
			errors.WithMessagef("a quiz with this title already exists"))
	}
	if !stderrors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var nextID int64
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(quiz_id), 0) + 1 FROM quizzes`).Scan(&nextID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO quizzes (quiz_id, title, title_key, questions_json, created_at) VALUES ($1, $2, $3, $4, $5)`,
		nextID, title, key, "[]", time.Now().Unix())
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &domain.Quiz{QuizID: nextID, Title: title}, nil
}

func (s *SQL) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT quiz_id, title, questions_json FROM quizzes ORDER BY quiz_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}

	return out, rows.Err()
}

func (s *SQL) FindQuiz(ctx context.Context, quizID int64) (*domain.Quiz, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT quiz_id, title, questions_json FROM quizzes WHERE quiz_id = $1`, quizID)

	q, err := scanQuiz(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(quizID)
	}
	if err != nil {
		return nil, err
	}

	return &q, nil
}

func (s *SQL) AddQuestions(ctx context.Context, quizID int64, questions []domain.Question) (added []domain.Question, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = stderrors.Join(err, tx.Rollback())
		}
	}()

	var qjson string
	err = tx.QueryRowContext(ctx, `SELECT questions_json FROM quizzes WHERE quiz_id = $1`, quizID).Scan(&qjson)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(quizID)
	}
	if err != nil {
		return nil, err
	}

	var existing []domain.Question
	if err = json.Unmarshal([]byte(qjson), &existing); err != nil {
		return nil, fmt.Errorf("store: decode questions: %w", err)
	}

	added = assignIDs(int64(len(existing))+1, questions)
	buf, err := json.Marshal(append(existing, added...))
	if err != nil {
		return nil, fmt.Errorf("store: encode questions: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE quizzes SET questions_json = $1 WHERE quiz_id = $2`, string(buf), quizID)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return added, nil
}

func (s *SQL) ListQuestions(ctx context.Context, quizID int64) ([]domain.Question, error) {
	quiz, err := s.FindQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	return quiz.Questions, nil
}

func (s *SQL) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM quizzes`)
	return err
}

func (s *SQL) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanQuiz(r scanner) (domain.Quiz, error) {
	var (
		q     domain.Quiz
		qjson string
	)
	if err := r.Scan(&q.QuizID, &q.Title, &qjson); err != nil {
		return domain.Quiz{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &q.Questions); err != nil {
		return domain.Quiz{}, fmt.Errorf("store: decode questions: %w", err)
	}
	return q, nil
}
