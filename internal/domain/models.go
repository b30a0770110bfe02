package domain

import "time"

// Team is a competing group. Color and TimerSeconds get server-side defaults
// when left empty on creation.
type Team struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	TimerSeconds int    `json:"timer_seconds"`
}

// TeamCreate carries the creation payload for a team.
type TeamCreate struct {
	Name         string `json:"name"`
	Color        string `json:"color"`
	TimerSeconds int    `json:"timer_seconds"`
}

// TeamUpdate is a partial update; nil fields keep the stored value.
type TeamUpdate struct {
	Name         *string `json:"name"`
	Color        *string `json:"color"`
	TimerSeconds *int    `json:"timer_seconds"`
}

// Question is a quiz prompt. Category and Options are nullable; Options holds
// multiple-choice answers in their original order.
type Question struct {
	ID       int64    `json:"id"`
	Text     string   `json:"text"`
	Answer   string   `json:"answer"`
	Category *string  `json:"category"`
	Points   int      `json:"points"`
	Options  []string `json:"options,omitempty"`
}

// QuestionCreate carries the creation payload for a question. A nil Points
// means "use the default".
type QuestionCreate struct {
	Text     string   `json:"text"`
	Answer   string   `json:"answer"`
	Category *string  `json:"category"`
	Points   *int     `json:"points"`
	Options  []string `json:"options"`
}

// QuestionUpdate is a partial update; nil fields keep the stored value.
type QuestionUpdate struct {
	Text     *string   `json:"text"`
	Answer   *string   `json:"answer"`
	Category *string   `json:"category"`
	Points   *int      `json:"points"`
	Options  *[]string `json:"options"`
}

// Score is an immutable record of points awarded to a team for a question.
// Totals are always derived by summing these rows, never stored.
type Score struct {
	ID            int64     `json:"id"`
	TeamID        int64     `json:"team_id"`
	QuestionID    int64     `json:"question_id"`
	PointsAwarded int       `json:"points_awarded"`
	CreatedAt     time.Time `json:"created_at"`
}

// ScoreboardRow is one team's summed standing.
type ScoreboardRow struct {
	TeamName    string `json:"team_name"`
	TotalPoints int    `json:"total_points"`
}

// Scoreboard is a snapshot of standings pushed to live subscribers.
type Scoreboard struct {
	Category  *string         `json:"category,omitempty"`
	Rows      []ScoreboardRow `json:"rows"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Category pairs a category name with its positional id in the current
// listing. The id is 1-based, never persisted, and shifts when the category
// set changes; callers must not cache it across mutations.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// UploadResult reports a bulk ingestion outcome.
type UploadResult struct {
	Uploaded  int        `json:"uploaded"`
	Questions []Question `json:"questions"`
}
