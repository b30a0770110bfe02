package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizzler/internal/domain"
)

// TeamRepository persists teams in Postgres.
type TeamRepository struct {
	pool *pgxpool.Pool
}

func NewTeamRepository(pool *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{pool: pool}
}

func (r *TeamRepository) Create(ctx context.Context, team domain.TeamCreate) (domain.Team, error) {
	var created domain.Team
	err := r.pool.QueryRow(ctx,
		`INSERT INTO teams (name, color, timer_seconds)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, color, timer_seconds`,
		team.Name, team.Color, team.TimerSeconds,
	).Scan(&created.ID, &created.Name, &created.Color, &created.TimerSeconds)
	if err != nil {
		return domain.Team{}, fmt.Errorf("create team: %w", translateErr(err))
	}
	return created, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, color, timer_seconds FROM teams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]domain.Team, 0)
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.Color, &team.TimerSeconds); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *TeamRepository) Get(ctx context.Context, id int64) (domain.Team, error) {
	var team domain.Team
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, color, timer_seconds FROM teams WHERE id = $1`, id,
	).Scan(&team.ID, &team.Name, &team.Color, &team.TimerSeconds)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	if err != nil {
		return domain.Team{}, fmt.Errorf("get team: %w", err)
	}
	return team, nil
}

// Update keeps the stored value for every nil field.
func (r *TeamRepository) Update(ctx context.Context, id int64, update domain.TeamUpdate) (domain.Team, error) {
	var team domain.Team
	err := r.pool.QueryRow(ctx,
		`UPDATE teams
		 SET name          = COALESCE($2, name),
		     color         = COALESCE($3, color),
		     timer_seconds = COALESCE($4, timer_seconds)
		 WHERE id = $1
		 RETURNING id, name, color, timer_seconds`,
		id, update.Name, update.Color, update.TimerSeconds,
	).Scan(&team.ID, &team.Name, &team.Color, &team.TimerSeconds)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	if err != nil {
		return domain.Team{}, fmt.Errorf("update team: %w", translateErr(err))
	}
	return team, nil
}

// Delete removes the team; its score rows go with it via ON DELETE CASCADE.
func (r *TeamRepository) Delete(ctx context.Context, id int64) (domain.Team, error) {
	var team domain.Team
	err := r.pool.QueryRow(ctx,
		`DELETE FROM teams WHERE id = $1 RETURNING id, name, color, timer_seconds`, id,
	).Scan(&team.ID, &team.Name, &team.Color, &team.TimerSeconds)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	if err != nil {
		return domain.Team{}, fmt.Errorf("delete team: %w", err)
	}
	return team, nil
}
