package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizzler/internal/domain"
)

// QuestionRepository persists questions in Postgres. Options live in a jsonb
// column; NULL means the question has no multiple-choice options.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

func (r *QuestionRepository) Create(ctx context.Context, question domain.QuestionCreate) (domain.Question, error) {
	options, err := marshalOptions(question.Options)
	if err != nil {
		return domain.Question{}, err
	}
	points := 0
	if question.Points != nil {
		points = *question.Points
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO questions (text, answer, category, points, options)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, text, answer, category, points, options`,
		question.Text, question.Answer, question.Category, points, options,
	)
	created, err := scanQuestion(row)
	if err != nil {
		return domain.Question{}, fmt.Errorf("create question: %w", translateErr(err))
	}
	return created, nil
}

func (r *QuestionRepository) List(ctx context.Context) ([]domain.Question, error) {
	return r.query(ctx,
		`SELECT id, text, answer, category, points, options FROM questions ORDER BY id`)
}

func (r *QuestionRepository) Get(ctx context.Context, id int64) (domain.Question, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, text, answer, category, points, options FROM questions WHERE id = $1`, id)
	question, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("get question: %w", err)
	}
	return question, nil
}

func (r *QuestionRepository) Update(ctx context.Context, id int64, update domain.QuestionUpdate) (domain.Question, error) {
	var options []byte
	if update.Options != nil {
		marshaled, err := marshalOptions(*update.Options)
		if err != nil {
			return domain.Question{}, err
		}
		options = marshaled
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE questions
		 SET text     = COALESCE($2, text),
		     answer   = COALESCE($3, answer),
		     category = COALESCE($4, category),
		     points   = COALESCE($5, points),
		     options  = COALESCE($6, options)
		 WHERE id = $1
		 RETURNING id, text, answer, category, points, options`,
		id, update.Text, update.Answer, update.Category, update.Points, options,
	)
	question, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("update question: %w", err)
	}
	return question, nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id int64) (domain.Question, error) {
	row := r.pool.QueryRow(ctx,
		`DELETE FROM questions WHERE id = $1
		 RETURNING id, text, answer, category, points, options`, id)
	question, err := scanQuestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("delete question: %w", err)
	}
	return question, nil
}

// ListByCategory matches the category exactly, case sensitively.
func (r *QuestionRepository) ListByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	return r.query(ctx,
		`SELECT id, text, answer, category, points, options
		 FROM questions WHERE category = $1 ORDER BY id`, category)
}

// Categories lists distinct non-null categories in first-appearance order.
func (r *QuestionRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category FROM questions
		 WHERE category IS NOT NULL
		 GROUP BY category
		 ORDER BY MIN(id)`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *QuestionRepository) query(ctx context.Context, sql string, args ...interface{}) ([]domain.Question, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	questions := make([]domain.Question, 0)
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

func scanQuestion(row pgx.Row) (domain.Question, error) {
	var question domain.Question
	var options []byte
	if err := row.Scan(&question.ID, &question.Text, &question.Answer, &question.Category, &question.Points, &options); err != nil {
		return domain.Question{}, err
	}
	if options != nil {
		if err := json.Unmarshal(options, &question.Options); err != nil {
			return domain.Question{}, fmt.Errorf("unmarshal options: %w", err)
		}
	}
	return question, nil
}

func marshalOptions(options []string) ([]byte, error) {
	if options == nil {
		return nil, nil
	}
	marshaled, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}
	return marshaled, nil
}
