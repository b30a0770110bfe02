package app_test

import (
	"context"
	"errors"
	"testing"

	"quizzler/internal/app"
	"quizzler/internal/domain"
	"quizzler/internal/infra/memory"
)

func newTestService(t *testing.T) (*app.QuizService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	service := app.NewQuizService(
		store, store.Questions(), store.Scores(), memory.NewHub(),
		app.Defaults{TeamColor: "#6A0DAD", TimerSeconds: 30, QuestionPoints: 10},
		t.TempDir(), nil,
	)
	return service, store
}

func createTeam(t *testing.T, service *app.QuizService, name string) domain.Team {
	t.Helper()
	team, err := service.CreateTeam(context.Background(), domain.TeamCreate{Name: name})
	if err != nil {
		t.Fatalf("create team %s: %v", name, err)
	}
	return team
}

func createQuestion(t *testing.T, service *app.QuizService, text, category string) domain.Question {
	t.Helper()
	payload := domain.QuestionCreate{Text: text, Answer: "answer"}
	if category != "" {
		payload.Category = &category
	}
	question, err := service.CreateQuestion(context.Background(), payload)
	if err != nil {
		t.Fatalf("create question %s: %v", text, err)
	}
	return question
}

func TestCreateTeamAppliesDefaults(t *testing.T) {
	service, _ := newTestService(t)
	team := createTeam(t, service, "Lions")
	if team.Color != "#6A0DAD" {
		t.Fatalf("expected default color, got %q", team.Color)
	}
	if team.TimerSeconds != 30 {
		t.Fatalf("expected default timer, got %d", team.TimerSeconds)
	}
}

func TestCreateQuestionAppliesDefaultPoints(t *testing.T) {
	service, _ := newTestService(t)
	question := createQuestion(t, service, "Q1", "")
	if question.Points != 10 {
		t.Fatalf("expected default 10 points, got %d", question.Points)
	}
}

func TestScoreboardIncludesZeroScoreTeams(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)
	createTeam(t, service, "Lions")
	winners := createTeam(t, service, "Tigers")
	question := createQuestion(t, service, "Q1", "")

	if _, err := service.AwardPoints(ctx, winners.ID, question.ID, 10); err != nil {
		t.Fatalf("award: %v", err)
	}

	rows, err := service.Scoreboard(ctx)
	if err != nil {
		t.Fatalf("scoreboard: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].TeamName != "Tigers" || rows[0].TotalPoints != 10 {
		t.Fatalf("expected Tigers leading with 10, got %+v", rows[0])
	}
	if rows[1].TeamName != "Lions" || rows[1].TotalPoints != 0 {
		t.Fatalf("expected Lions with 0, got %+v", rows[1])
	}
}

func TestScoreboardSumsNegativeCorrections(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)
	team := createTeam(t, service, "Lions")
	question := createQuestion(t, service, "Q1", "")

	for _, points := range []int{10, 5, -5} {
		if _, err := service.AwardPoints(ctx, team.ID, question.ID, points); err != nil {
			t.Fatalf("award %d: %v", points, err)
		}
	}

	rows, err := service.Scoreboard(ctx)
	if err != nil {
		t.Fatalf("scoreboard: %v", err)
	}
	if rows[0].TotalPoints != 10 {
		t.Fatalf("expected 10 after correction, got %d", rows[0].TotalPoints)
	}
}

func TestScoreboardTieBreaksByTeamID(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)
	createTeam(t, service, "Zebra")
	createTeam(t, service, "Aardvark")

	rows, err := service.Scoreboard(ctx)
	if err != nil {
		t.Fatalf("scoreboard: %v", err)
	}
	// Both at zero: insertion order, not alphabetical.
	if rows[0].TeamName != "Zebra" || rows[1].TeamName != "Aardvark" {
		t.Fatalf("expected id-order tie break, got %+v", rows)
	}
}

func TestScoreboardByCategoryFiltersExactly(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)
	theologians := createTeam(t, service, "Theologians")
	historians := createTeam(t, service, "Historians")
	theology := createQuestion(t, service, "Q1", "Theology")
	history := createQuestion(t, service, "Q2", "History")

	if _, err := service.AwardPoints(ctx, theologians.ID, theology.ID, 15); err != nil {
		t.Fatalf("award: %v", err)
	}
	if _, err := service.AwardPoints(ctx, historians.ID, history.ID, 20); err != nil {
		t.Fatalf("award: %v", err)
	}

	rows, err := service.ScoreboardByCategory(ctx, "Theology")
	if err != nil {
		t.Fatalf("scoreboard by category: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected both teams present, got %d rows", len(rows))
	}
	if rows[0].TeamName != "Theologians" || rows[0].TotalPoints != 15 {
		t.Fatalf("expected Theologians with 15, got %+v", rows[0])
	}
	if rows[1].TeamName != "Historians" || rows[1].TotalPoints != 0 {
		t.Fatalf("expected Historians with 0, got %+v", rows[1])
	}

	// Case-sensitive: lowercase does not match.
	rows, err = service.ScoreboardByCategory(ctx, "theology")
	if err != nil {
		t.Fatalf("scoreboard by category: %v", err)
	}
	for _, row := range rows {
		if row.TotalPoints != 0 {
			t.Fatalf("lowercase category should match nothing, got %+v", row)
		}
	}
}

func TestAwardPointsSurfacesMissingReference(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)
	team := createTeam(t, service, "Lions")

	if _, err := service.AwardPoints(ctx, team.ID, 999, 10); !errors.Is(err, domain.ErrMissingReference) {
		t.Fatalf("expected ErrMissingReference for unknown question, got %v", err)
	}
	if _, err := service.AwardPoints(ctx, 999, 1, 10); !errors.Is(err, domain.ErrMissingReference) {
		t.Fatalf("expected ErrMissingReference for unknown team, got %v", err)
	}
}

func TestDeleteTeamCascadesScores(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)
	team := createTeam(t, service, "Lions")
	question := createQuestion(t, service, "Q1", "")

	if _, err := service.AwardPoints(ctx, team.ID, question.ID, 10); err != nil {
		t.Fatalf("award: %v", err)
	}
	if _, err := service.DeleteTeam(ctx, team.ID); err != nil {
		t.Fatalf("delete team: %v", err)
	}

	scores, err := service.TeamScores(ctx, team.ID)
	if err != nil {
		t.Fatalf("team scores: %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected cascaded score deletion, got %d rows", len(scores))
	}
}

func TestDeleteQuestionCascadesScores(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)
	team := createTeam(t, service, "Lions")
	question := createQuestion(t, service, "Q1", "")

	if _, err := service.AwardPoints(ctx, team.ID, question.ID, 10); err != nil {
		t.Fatalf("award: %v", err)
	}
	if _, err := service.DeleteQuestion(ctx, question.ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}

	scores, err := service.TeamScores(ctx, team.ID)
	if err != nil {
		t.Fatalf("team scores: %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("expected cascaded score deletion, got %d rows", len(scores))
	}
}

func TestCategoriesSyntheticIDs(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)
	createQuestion(t, service, "Q1", "Theology")
	createQuestion(t, service, "Q2", "History")
	createQuestion(t, service, "Q3", "Theology")
	createQuestion(t, service, "Q4", "")

	categories, err := service.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	want := []domain.Category{{ID: 1, Name: "Theology"}, {ID: 2, Name: "History"}}
	if len(categories) != len(want) {
		t.Fatalf("expected %d categories, got %v", len(want), categories)
	}
	for i := range want {
		if categories[i] != want[i] {
			t.Fatalf("category %d: got %+v, want %+v", i, categories[i], want[i])
		}
	}

	category, err := service.CategoryByID(ctx, 2)
	if err != nil {
		t.Fatalf("category by id: %v", err)
	}
	if category.Name != "History" {
		t.Fatalf("expected History, got %q", category.Name)
	}
	if _, err := service.CategoryByID(ctx, 3); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestUploadQuestionsTxt(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	text := "Quiz night\n\n1. What is grace? | Unmerited favor | Theology | 15 | A,B,C\nBad points | ans | cat | notanumber\nno pipes here\n"
	result, err := service.UploadQuestions(ctx, "questions.txt", []byte(text))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.Uploaded != 2 {
		t.Fatalf("expected 2 uploaded, got %d", result.Uploaded)
	}
	first := result.Questions[0]
	if first.Text != "What is grace?" || first.Points != 15 {
		t.Fatalf("unexpected first question %+v", first)
	}
	if first.Category == nil || *first.Category != "Theology" {
		t.Fatalf("unexpected category %v", first.Category)
	}
	if result.Questions[1].Points != 10 {
		t.Fatalf("expected defaulted points, got %d", result.Questions[1].Points)
	}

	questions, err := service.Questions(ctx)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 persisted questions, got %d", len(questions))
	}
}

func TestUploadQuestionsRejectsUnsupportedExtension(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t)

	if _, err := service.UploadQuestions(ctx, "virus.exe", []byte("Q|A")); !errors.Is(err, domain.ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
	questions, err := service.Questions(ctx)
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("rejected upload must not write, got %d questions", len(questions))
	}
}

func TestAwardPublishesScoreboard(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	hub := memory.NewHub()
	service := app.NewQuizService(
		store, store.Questions(), store.Scores(), hub,
		app.Defaults{TeamColor: "#6A0DAD", TimerSeconds: 30, QuestionPoints: 10},
		t.TempDir(), nil,
	)

	team := createTeam(t, service, "Lions")
	question := createQuestion(t, service, "Q1", "")

	updates, cancel := service.SubscribeScoreboard(ctx)
	defer cancel()

	if _, err := service.AwardPoints(ctx, team.ID, question.ID, 7); err != nil {
		t.Fatalf("award: %v", err)
	}

	snapshot := <-updates
	if len(snapshot.Rows) != 1 || snapshot.Rows[0].TotalPoints != 7 {
		t.Fatalf("expected published snapshot with 7 points, got %+v", snapshot.Rows)
	}
}
