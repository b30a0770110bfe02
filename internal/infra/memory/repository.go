package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"quizzler/internal/domain"
)

// Store is a map-backed implementation of the repository ports. It mirrors
// the relational store's behavior (cascading deletes, foreign-key checks,
// outer-join scoreboard semantics) so the service can run without Postgres
// in tests and demos.
type Store struct {
	mu             sync.RWMutex
	teams          map[int64]domain.Team
	questions      map[int64]domain.Question
	scores         map[int64]domain.Score
	nextTeamID     int64
	nextQuestionID int64
	nextScoreID    int64
	now            func() time.Time
}

func NewStore() *Store {
	return &Store{
		teams:     make(map[int64]domain.Team),
		questions: make(map[int64]domain.Question),
		scores:    make(map[int64]domain.Score),
		now:       time.Now,
	}
}

// ---------- teams ----------

func (s *Store) Create(ctx context.Context, team domain.TeamCreate) (domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.teams {
		if existing.Name == team.Name {
			return domain.Team{}, fmt.Errorf("team name %q already exists", team.Name)
		}
	}
	s.nextTeamID++
	created := domain.Team{
		ID:           s.nextTeamID,
		Name:         team.Name,
		Color:        team.Color,
		TimerSeconds: team.TimerSeconds,
	}
	s.teams[created.ID] = created
	return created, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	teams := make([]domain.Team, 0, len(s.teams))
	for _, team := range s.teams {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (s *Store) Get(ctx context.Context, id int64) (domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teams[id]
	if !ok {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	return team, nil
}

func (s *Store) Update(ctx context.Context, id int64, update domain.TeamUpdate) (domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.teams[id]
	if !ok {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	if update.Name != nil {
		team.Name = *update.Name
	}
	if update.Color != nil {
		team.Color = *update.Color
	}
	if update.TimerSeconds != nil {
		team.TimerSeconds = *update.TimerSeconds
	}
	s.teams[id] = team
	return team, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.teams[id]
	if !ok {
		return domain.Team{}, domain.ErrTeamNotFound
	}
	delete(s.teams, id)
	for scoreID, score := range s.scores {
		if score.TeamID == id {
			delete(s.scores, scoreID)
		}
	}
	return team, nil
}

// ---------- questions ----------

// Questions returns a QuestionRepository view over the store. Team methods
// live on Store directly; the split keeps the method sets of the two ports
// from clashing.
func (s *Store) Questions() *QuestionStore { return &QuestionStore{s} }

// Scores returns a ScoreRepository view over the store.
func (s *Store) Scores() *ScoreStore { return &ScoreStore{s} }

type QuestionStore struct{ store *Store }

func (q *QuestionStore) Create(ctx context.Context, question domain.QuestionCreate) (domain.Question, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	q.store.nextQuestionID++
	points := 0
	if question.Points != nil {
		points = *question.Points
	}
	created := domain.Question{
		ID:       q.store.nextQuestionID,
		Text:     question.Text,
		Answer:   question.Answer,
		Category: question.Category,
		Points:   points,
		Options:  question.Options,
	}
	q.store.questions[created.ID] = created
	return created, nil
}

func (q *QuestionStore) List(ctx context.Context) ([]domain.Question, error) {
	q.store.mu.RLock()
	defer q.store.mu.RUnlock()
	return q.sortedLocked(func(domain.Question) bool { return true }), nil
}

func (q *QuestionStore) Get(ctx context.Context, id int64) (domain.Question, error) {
	q.store.mu.RLock()
	defer q.store.mu.RUnlock()
	question, ok := q.store.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return question, nil
}

func (q *QuestionStore) Update(ctx context.Context, id int64, update domain.QuestionUpdate) (domain.Question, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	question, ok := q.store.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if update.Text != nil {
		question.Text = *update.Text
	}
	if update.Answer != nil {
		question.Answer = *update.Answer
	}
	if update.Category != nil {
		question.Category = update.Category
	}
	if update.Points != nil {
		question.Points = *update.Points
	}
	if update.Options != nil {
		question.Options = *update.Options
	}
	q.store.questions[id] = question
	return question, nil
}

func (q *QuestionStore) Delete(ctx context.Context, id int64) (domain.Question, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	question, ok := q.store.questions[id]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	delete(q.store.questions, id)
	for scoreID, score := range q.store.scores {
		if score.QuestionID == id {
			delete(q.store.scores, scoreID)
		}
	}
	return question, nil
}

func (q *QuestionStore) ListByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	q.store.mu.RLock()
	defer q.store.mu.RUnlock()
	return q.sortedLocked(func(question domain.Question) bool {
		return question.Category != nil && *question.Category == category
	}), nil
}

// Categories returns distinct non-null categories in first-appearance order.
func (q *QuestionStore) Categories(ctx context.Context) ([]string, error) {
	q.store.mu.RLock()
	defer q.store.mu.RUnlock()
	var names []string
	seen := make(map[string]bool)
	for _, question := range q.sortedLocked(func(domain.Question) bool { return true }) {
		if question.Category == nil || seen[*question.Category] {
			continue
		}
		seen[*question.Category] = true
		names = append(names, *question.Category)
	}
	return names, nil
}

func (q *QuestionStore) sortedLocked(keep func(domain.Question) bool) []domain.Question {
	questions := make([]domain.Question, 0, len(q.store.questions))
	for _, question := range q.store.questions {
		if keep(question) {
			questions = append(questions, question)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions
}

// ---------- scores ----------

type ScoreStore struct{ store *Store }

func (s *ScoreStore) Insert(ctx context.Context, teamID, questionID int64, points int) (domain.Score, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if _, ok := s.store.teams[teamID]; !ok {
		return domain.Score{}, fmt.Errorf("%w: team %d", domain.ErrMissingReference, teamID)
	}
	if _, ok := s.store.questions[questionID]; !ok {
		return domain.Score{}, fmt.Errorf("%w: question %d", domain.ErrMissingReference, questionID)
	}
	s.store.nextScoreID++
	score := domain.Score{
		ID:            s.store.nextScoreID,
		TeamID:        teamID,
		QuestionID:    questionID,
		PointsAwarded: points,
		CreatedAt:     s.store.now(),
	}
	s.store.scores[score.ID] = score
	return score, nil
}

func (s *ScoreStore) ListForTeam(ctx context.Context, teamID int64) ([]domain.Score, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	scores := make([]domain.Score, 0)
	for _, score := range s.store.scores {
		if score.TeamID == teamID {
			scores = append(scores, score)
		}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].ID < scores[j].ID })
	return scores, nil
}

func (s *ScoreStore) Scoreboard(ctx context.Context) ([]domain.ScoreboardRow, error) {
	return s.scoreboard(func(domain.Score) bool { return true })
}

func (s *ScoreStore) ScoreboardByCategory(ctx context.Context, category string) ([]domain.ScoreboardRow, error) {
	return s.scoreboard(func(score domain.Score) bool {
		question, ok := s.store.questions[score.QuestionID]
		return ok && question.Category != nil && *question.Category == category
	})
}

func (s *ScoreStore) scoreboard(count func(domain.Score) bool) ([]domain.ScoreboardRow, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	totals := make(map[int64]int, len(s.store.teams))
	for _, score := range s.store.scores {
		if count(score) {
			totals[score.TeamID] += score.PointsAwarded
		}
	}

	ids := make([]int64, 0, len(s.store.teams))
	for id := range s.store.teams {
		ids = append(ids, id)
	}
	// Total descending, ties by team id ascending.
	sort.Slice(ids, func(i, j int) bool {
		if totals[ids[i]] != totals[ids[j]] {
			return totals[ids[i]] > totals[ids[j]]
		}
		return ids[i] < ids[j]
	})

	rows := make([]domain.ScoreboardRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, domain.ScoreboardRow{
			TeamName:    s.store.teams[id].Name,
			TotalPoints: totals[id],
		})
	}
	return rows, nil
}
