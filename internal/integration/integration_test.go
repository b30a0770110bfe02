package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"quizzler/internal/app"
	"quizzler/internal/domain"
	"quizzler/internal/infra/memory"
	"quizzler/internal/infra/postgres"
	pgmigrations "quizzler/internal/infra/postgres/migrations"
)

func TestScoringEndToEnd(t *testing.T) {
	ctx := context.Background()

	pgURL, cleanup := startPostgres(t, ctx)
	defer cleanup()

	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	service := app.NewQuizService(
		postgres.NewTeamRepository(pool),
		postgres.NewQuestionRepository(pool),
		postgres.NewScoreRepository(pool),
		memory.NewHub(),
		app.Defaults{TeamColor: "#6A0DAD", TimerSeconds: 30, QuestionPoints: 10},
		t.TempDir(), nil,
	)

	lions, err := service.CreateTeam(ctx, domain.TeamCreate{Name: "Lions"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	bench, err := service.CreateTeam(ctx, domain.TeamCreate{Name: "Bench"})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if lions.Color != "#6A0DAD" || lions.TimerSeconds != 30 {
		t.Fatalf("expected defaults, got %+v", lions)
	}

	result, err := service.UploadQuestions(ctx, "round1.txt", []byte(
		"1. What is grace? | Unmerited favor | Theology | 15 | A,B,C\n"+
			"2. First king of Israel? | Saul | History | 20\n"+
			"Bad points | ans | Theology | notanumber\n"+
			"not a question line\n"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.Uploaded != 3 {
		t.Fatalf("expected 3 questions ingested, got %d", result.Uploaded)
	}
	grace := result.Questions[0]
	if grace.Points != 15 || grace.Options == nil || grace.Options[2] != "C" {
		t.Fatalf("unexpected parsed question %+v", grace)
	}
	if result.Questions[2].Points != 10 {
		t.Fatalf("expected defaulted points, got %d", result.Questions[2].Points)
	}

	if _, err := service.AwardPoints(ctx, lions.ID, grace.ID, 15); err != nil {
		t.Fatalf("award: %v", err)
	}
	if _, err := service.AwardPoints(ctx, lions.ID, result.Questions[1].ID, -5); err != nil {
		t.Fatalf("award correction: %v", err)
	}

	rows, err := service.Scoreboard(ctx)
	if err != nil {
		t.Fatalf("scoreboard: %v", err)
	}
	if len(rows) != 2 || rows[0].TeamName != "Lions" || rows[0].TotalPoints != 10 {
		t.Fatalf("unexpected scoreboard %+v", rows)
	}
	if rows[1].TeamName != "Bench" || rows[1].TotalPoints != 0 {
		t.Fatalf("expected zero-score team, got %+v", rows[1])
	}

	byCategory, err := service.ScoreboardByCategory(ctx, "Theology")
	if err != nil {
		t.Fatalf("scoreboard by category: %v", err)
	}
	if byCategory[0].TeamName != "Lions" || byCategory[0].TotalPoints != 15 {
		t.Fatalf("unexpected category scoreboard %+v", byCategory)
	}

	categories, err := service.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != 2 || categories[0].Name != "Theology" || categories[1].ID != 2 {
		t.Fatalf("unexpected categories %+v", categories)
	}

	if _, err := service.AwardPoints(ctx, bench.ID, 99999, 5); !errors.Is(err, domain.ErrMissingReference) {
		t.Fatalf("expected ErrMissingReference from foreign key, got %v", err)
	}

	// Cascade: deleting the team removes its score rows.
	if _, err := service.DeleteTeam(ctx, lions.ID); err != nil {
		t.Fatalf("delete team: %v", err)
	}
	var remaining int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM scores`).Scan(&remaining); err != nil {
		t.Fatalf("count scores: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected cascaded delete, %d scores remain", remaining)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	url := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return url, func() { _ = container.Terminate(ctx) }
}

func migrateDB(t *testing.T, ctx context.Context, pgURL string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(pgURL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}
