package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"quizzler/internal/domain"
)

// ScoreRepository records immutable point awards and computes standings.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// Insert relies on the scores table's foreign keys for existence checks; a
// violation comes back as domain.ErrMissingReference.
func (r *ScoreRepository) Insert(ctx context.Context, teamID, questionID int64, points int) (domain.Score, error) {
	var score domain.Score
	err := r.pool.QueryRow(ctx,
		`INSERT INTO scores (team_id, question_id, points_awarded)
		 VALUES ($1, $2, $3)
		 RETURNING id, team_id, question_id, points_awarded, created_at`,
		teamID, questionID, points,
	).Scan(&score.ID, &score.TeamID, &score.QuestionID, &score.PointsAwarded, &score.CreatedAt)
	if err != nil {
		return domain.Score{}, fmt.Errorf("insert score: %w", translateErr(err))
	}
	return score, nil
}

func (r *ScoreRepository) ListForTeam(ctx context.Context, teamID int64) ([]domain.Score, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, team_id, question_id, points_awarded, created_at
		 FROM scores WHERE team_id = $1 ORDER BY id`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	scores := make([]domain.Score, 0)
	for rows.Next() {
		var score domain.Score
		if err := rows.Scan(&score.ID, &score.TeamID, &score.QuestionID, &score.PointsAwarded, &score.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

// Scoreboard sums every team's awards with outer-join semantics so teams
// without scores still appear with 0. Ties break by team id.
func (r *ScoreRepository) Scoreboard(ctx context.Context) ([]domain.ScoreboardRow, error) {
	return r.rows(ctx,
		`SELECT t.name, COALESCE(SUM(s.points_awarded), 0)::int AS total
		 FROM teams t
		 LEFT JOIN scores s ON s.team_id = t.id
		 GROUP BY t.id, t.name
		 ORDER BY total DESC, t.id ASC`)
}

// ScoreboardByCategory counts only awards whose question carries the given
// category; the left joins keep zero-total teams in the result.
func (r *ScoreRepository) ScoreboardByCategory(ctx context.Context, category string) ([]domain.ScoreboardRow, error) {
	return r.rows(ctx,
		`SELECT t.name,
		        COALESCE(SUM(CASE WHEN q.category = $1 THEN s.points_awarded ELSE 0 END), 0)::int AS total
		 FROM teams t
		 LEFT JOIN scores s ON s.team_id = t.id
		 LEFT JOIN questions q ON q.id = s.question_id
		 GROUP BY t.id, t.name
		 ORDER BY total DESC, t.id ASC`, category)
}

func (r *ScoreRepository) rows(ctx context.Context, sql string, args ...interface{}) ([]domain.ScoreboardRow, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("scoreboard query: %w", err)
	}
	defer rows.Close()

	board := make([]domain.ScoreboardRow, 0)
	for rows.Next() {
		var row domain.ScoreboardRow
		if err := rows.Scan(&row.TeamName, &row.TotalPoints); err != nil {
			return nil, fmt.Errorf("scan scoreboard row: %w", err)
		}
		board = append(board, row)
	}
	return board, rows.Err()
}
