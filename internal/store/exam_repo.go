package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talas-app/talas/internal/exam"
)

type sqlExamRepo struct {
	s *Store
}

func (r *sqlExamRepo) List(ctx context.Context) ([]exam.SavedExam, error) {
	rows, err := r.s.db.QueryContext(ctx,
		`SELECT id, name, source_name, questions_json, created_at FROM exams ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query exams: %w", err)
	}

	var exams []exam.SavedExam
	index := make(map[string]int)
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[e.ID] = len(exams)
		exams = append(exams, *e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate exams: %w", err)
	}
	rows.Close()

	if len(exams) == 0 {
		return nil, nil
	}

	attempts, err := r.s.db.QueryContext(ctx,
		`SELECT exam_id, score, total, taken_at FROM attempts ORDER BY exam_id, id`)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer attempts.Close()

	for attempts.Next() {
		var (
			examID  string
			a       exam.Attempt
			takenAt int64
		)
		if err := attempts.Scan(&examID, &a.Score, &a.Total, &takenAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.TakenAt = time.UnixMilli(takenAt).UTC()
		if i, ok := index[examID]; ok {
			exams[i].Attempts = append(exams[i].Attempts, a)
		}
	}
	if err := attempts.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}

	return exams, nil
}

func (r *sqlExamRepo) Get(ctx context.Context, id string) (*exam.SavedExam, error) {
	row := r.s.db.QueryRowContext(ctx, r.s.rebind(
		`SELECT id, name, source_name, questions_json, created_at FROM exams WHERE id = ?`), id)
	e, err := scanExam(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	attempts, err := r.s.db.QueryContext(ctx, r.s.rebind(
		`SELECT score, total, taken_at FROM attempts WHERE exam_id = ? ORDER BY id`), id)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer attempts.Close()

	for attempts.Next() {
		var (
			a       exam.Attempt
			takenAt int64
		)
		if err := attempts.Scan(&a.Score, &a.Total, &takenAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.TakenAt = time.UnixMilli(takenAt).UTC()
		e.Attempts = append(e.Attempts, a)
	}
	return e, attempts.Err()
}

func (r *sqlExamRepo) Create(ctx context.Context, source string, questions []exam.Question, name string) (*exam.SavedExam, error) {
	saved := newSavedExam(source, questions, name, time.Now())

	qj, err := json.Marshal(saved.Questions)
	if err != nil {
		return nil, fmt.Errorf("marshal questions: %w", err)
	}

	_, err = r.s.db.ExecContext(ctx, r.s.rebind(
		`INSERT INTO exams (id, name, source_name, questions_json, created_at) VALUES (?, ?, ?, ?, ?)`),
		saved.ID, saved.Name, saved.SourceName, string(qj), saved.CreatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("insert exam: %w", err)
	}
	return saved, nil
}

func (r *sqlExamRepo) Rename(ctx context.Context, id, name string) error {
	_, err := r.s.db.ExecContext(ctx, r.s.rebind(`UPDATE exams SET name = ? WHERE id = ?`), name, id)
	if err != nil {
		return fmt.Errorf("rename exam: %w", err)
	}
	return nil
}

func (r *sqlExamRepo) AppendAttempt(ctx context.Context, id string, score, total int) error {
	// A single conditional insert: unknown ids insert nothing.
	_, err := r.s.db.ExecContext(ctx, r.s.rebind(
		`INSERT INTO attempts (exam_id, score, total, taken_at)
		 SELECT id, CAST(? AS INTEGER), CAST(? AS INTEGER), CAST(? AS BIGINT) FROM exams WHERE id = ?`),
		score, total, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("append attempt: %w", err)
	}
	return nil
}

func (r *sqlExamRepo) Delete(ctx context.Context, id string) error {
	// Attempts go first so backends without enforced foreign keys stay clean.
	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.s.rebind(`DELETE FROM attempts WHERE exam_id = ?`), id); err != nil {
		return fmt.Errorf("delete attempts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, r.s.rebind(`DELETE FROM exams WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExam(row rowScanner) (*exam.SavedExam, error) {
	var (
		e         exam.SavedExam
		qj        string
		createdAt int64
	)
	if err := row.Scan(&e.ID, &e.Name, &e.SourceName, &qj, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan exam: %w", err)
	}
	if err := json.Unmarshal([]byte(qj), &e.Questions); err != nil {
		return nil, fmt.Errorf("decode questions for exam %s: %w", e.ID, err)
	}
	e.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &e, nil
}

// newSavedExam is the single place a SavedExam is constructed.
func newSavedExam(source string, questions []exam.Question, name string, now time.Time) *exam.SavedExam {
	name = strings.TrimSpace(name)
	if name == "" {
		name = exam.DefaultName(source)
	}
	qs := make([]exam.Question, len(questions))
	for i, q := range questions {
		q.Options = append([]string(nil), q.Options...)
		qs[i] = q
	}
	return &exam.SavedExam{
		ID:         uuid.NewString(),
		Name:       name,
		SourceName: source,
		Questions:  qs,
		CreatedAt:  now.UTC().Truncate(time.Millisecond),
	}
}
