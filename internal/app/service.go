package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/singleflight"

	"quizzler/internal/domain"
	"quizzler/internal/ingest"
)

// TeamRepository persists teams. Delete cascades to the team's score rows.
type TeamRepository interface {
	Create(ctx context.Context, team domain.TeamCreate) (domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	Get(ctx context.Context, id int64) (domain.Team, error)
	Update(ctx context.Context, id int64, update domain.TeamUpdate) (domain.Team, error)
	Delete(ctx context.Context, id int64) (domain.Team, error)
}

// QuestionRepository persists questions. Delete cascades to referencing scores.
type QuestionRepository interface {
	Create(ctx context.Context, question domain.QuestionCreate) (domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)
	Get(ctx context.Context, id int64) (domain.Question, error)
	Update(ctx context.Context, id int64, update domain.QuestionUpdate) (domain.Question, error)
	Delete(ctx context.Context, id int64) (domain.Question, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Question, error)
	Categories(ctx context.Context) ([]string, error)
}

// ScoreRepository records point awards and computes standings. Insert must
// fail with domain.ErrMissingReference when the team or question is absent;
// the service never pre-checks the ids itself.
type ScoreRepository interface {
	Insert(ctx context.Context, teamID, questionID int64, points int) (domain.Score, error)
	ListForTeam(ctx context.Context, teamID int64) ([]domain.Score, error)
	Scoreboard(ctx context.Context) ([]domain.ScoreboardRow, error)
	ScoreboardByCategory(ctx context.Context, category string) ([]domain.ScoreboardRow, error)
}

// Notifier fans scoreboard snapshots out to live subscribers (in-memory hub,
// or Redis pub/sub when several instances share one feed).
type Notifier interface {
	Publish(ctx context.Context, scoreboard domain.Scoreboard)
	Subscribe(ctx context.Context) (<-chan domain.Scoreboard, func())
}

// Defaults are applied when a creation payload leaves a field empty.
type Defaults struct {
	TeamColor      string
	TimerSeconds   int
	QuestionPoints int
}

// QuizService contains the quiz administration and scoring use cases.
type QuizService struct {
	teams      TeamRepository
	questions  QuestionRepository
	scores     ScoreRepository
	notifier   Notifier
	defaults   Defaults
	uploadsDir string
	logger     *slog.Logger
	sf         singleflight.Group
	now        func() time.Time
}

func NewQuizService(teams TeamRepository, questions QuestionRepository, scores ScoreRepository, notifier Notifier, defaults Defaults, uploadsDir string, logger *slog.Logger) *QuizService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizService{
		teams:      teams,
		questions:  questions,
		scores:     scores,
		notifier:   notifier,
		defaults:   defaults,
		uploadsDir: uploadsDir,
		logger:     logger,
		now:        time.Now,
	}
}

// ---------- Teams ----------

func (s *QuizService) CreateTeam(ctx context.Context, team domain.TeamCreate) (domain.Team, error) {
	if team.Color == "" {
		team.Color = s.defaults.TeamColor
	}
	if team.TimerSeconds <= 0 {
		team.TimerSeconds = s.defaults.TimerSeconds
	}
	return s.teams.Create(ctx, team)
}

func (s *QuizService) Teams(ctx context.Context) ([]domain.Team, error) {
	return s.teams.List(ctx)
}

func (s *QuizService) Team(ctx context.Context, id int64) (domain.Team, error) {
	return s.teams.Get(ctx, id)
}

func (s *QuizService) UpdateTeam(ctx context.Context, id int64, update domain.TeamUpdate) (domain.Team, error) {
	return s.teams.Update(ctx, id, update)
}

// DeleteTeam removes the team and, through the store's cascade, its score
// rows. The scoreboard changes as a result, so a fresh snapshot is published.
func (s *QuizService) DeleteTeam(ctx context.Context, id int64) (domain.Team, error) {
	team, err := s.teams.Delete(ctx, id)
	if err != nil {
		return domain.Team{}, err
	}
	s.publishScoreboard(ctx)
	return team, nil
}

// ---------- Questions ----------

func (s *QuizService) CreateQuestion(ctx context.Context, question domain.QuestionCreate) (domain.Question, error) {
	if question.Points == nil {
		points := s.defaults.QuestionPoints
		question.Points = &points
	}
	return s.questions.Create(ctx, question)
}

func (s *QuizService) Questions(ctx context.Context) ([]domain.Question, error) {
	return s.questions.List(ctx)
}

func (s *QuizService) Question(ctx context.Context, id int64) (domain.Question, error) {
	return s.questions.Get(ctx, id)
}

func (s *QuizService) UpdateQuestion(ctx context.Context, id int64, update domain.QuestionUpdate) (domain.Question, error) {
	return s.questions.Update(ctx, id, update)
}

func (s *QuizService) DeleteQuestion(ctx context.Context, id int64) (domain.Question, error) {
	question, err := s.questions.Delete(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	s.publishScoreboard(ctx)
	return question, nil
}

// QuestionsByCategory returns questions whose category matches name exactly
// (case-sensitive).
func (s *QuizService) QuestionsByCategory(ctx context.Context, name string) ([]domain.Question, error) {
	return s.questions.ListByCategory(ctx, name)
}

// ---------- Categories ----------

// Categories lists the distinct non-null question categories in first-
// appearance order, each with a synthetic 1-based positional id. The id is
// only stable within a single listing.
func (s *QuizService) Categories(ctx context.Context) ([]domain.Category, error) {
	names, err := s.questions.Categories(ctx)
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(names))
	for i, name := range names {
		categories = append(categories, domain.Category{ID: i + 1, Name: name})
	}
	return categories, nil
}

// CategoryByID resolves a positional category id by recomputing the listing.
func (s *QuizService) CategoryByID(ctx context.Context, id int) (domain.Category, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return domain.Category{}, err
	}
	if id < 1 || id > len(categories) {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	return categories[id-1], nil
}

// ---------- Scoring ----------

// AwardPoints inserts an immutable score row. Negative points are allowed and
// represent corrections. Existence of the team and question is enforced by
// the store's foreign keys, surfaced as domain.ErrMissingReference.
func (s *QuizService) AwardPoints(ctx context.Context, teamID, questionID int64, points int) (domain.Score, error) {
	score, err := s.scores.Insert(ctx, teamID, questionID, points)
	if err != nil {
		return domain.Score{}, err
	}
	s.publishScoreboard(ctx)
	return score, nil
}

func (s *QuizService) TeamScores(ctx context.Context, teamID int64) ([]domain.Score, error) {
	return s.scores.ListForTeam(ctx, teamID)
}

// Scoreboard returns every team with its summed points, zero included,
// ordered by total descending with ties broken by team id. Concurrent
// identical reads are coalesced into a single store query; nothing is cached.
func (s *QuizService) Scoreboard(ctx context.Context) ([]domain.ScoreboardRow, error) {
	rows, err, _ := s.sf.Do("scoreboard", func() (interface{}, error) {
		return s.scores.Scoreboard(ctx)
	})
	if err != nil {
		return nil, err
	}
	return rows.([]domain.ScoreboardRow), nil
}

// ScoreboardByCategory is Scoreboard restricted to score rows whose question
// carries the given category. Teams without qualifying scores still appear
// with total 0.
func (s *QuizService) ScoreboardByCategory(ctx context.Context, category string) ([]domain.ScoreboardRow, error) {
	rows, err, _ := s.sf.Do("scoreboard:"+category, func() (interface{}, error) {
		return s.scores.ScoreboardByCategory(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return rows.([]domain.ScoreboardRow), nil
}

// SubscribeScoreboard registers a live scoreboard subscriber. The caller must
// invoke the returned cancel function to avoid leaks.
func (s *QuizService) SubscribeScoreboard(ctx context.Context) (<-chan domain.Scoreboard, func()) {
	return s.notifier.Subscribe(ctx)
}

func (s *QuizService) publishScoreboard(ctx context.Context) {
	rows, err := s.Scoreboard(ctx)
	if err != nil {
		s.logger.Warn("scoreboard snapshot for publish failed", "error", err)
		return
	}
	s.notifier.Publish(ctx, domain.Scoreboard{Rows: rows, UpdatedAt: s.now()})
}

// ---------- Ingestion ----------

// UploadQuestions ingests a pipe-delimited document. It fails fast on an
// unsupported extension or unreadable content; within a readable text blob
// each line is written independently and a malformed line never halts the
// batch. The raw upload is kept in the uploads directory.
func (s *QuizService) UploadQuestions(ctx context.Context, filename string, content []byte) (domain.UploadResult, error) {
	ext, ok := ingest.FileExtension(filename)
	if !ok {
		return domain.UploadResult{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, filename)
	}

	s.saveUpload(filename, content)

	text, err := ingest.ExtractText(ext, content)
	if err != nil {
		return domain.UploadResult{}, err
	}

	result := domain.UploadResult{Questions: []domain.Question{}}
	for _, record := range ingest.ParseLines(text) {
		question, err := s.CreateQuestion(ctx, record)
		if err != nil {
			return result, fmt.Errorf("create question %q: %w", record.Text, err)
		}
		result.Questions = append(result.Questions, question)
		result.Uploaded++
	}
	return result, nil
}

func (s *QuizService) saveUpload(filename string, content []byte) {
	if s.uploadsDir == "" {
		return
	}
	if err := os.MkdirAll(s.uploadsDir, 0o755); err != nil {
		s.logger.Warn("create uploads dir failed", "dir", s.uploadsDir, "error", err)
		return
	}
	path := filepath.Join(s.uploadsDir, filepath.Base(filename))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		s.logger.Warn("persist upload failed", "path", path, "error", err)
	}
}
