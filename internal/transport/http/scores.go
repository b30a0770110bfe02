package http

import (
	"net/http"
)

type awardPayload struct {
	TeamID     int64 `json:"team_id"`
	QuestionID int64 `json:"question_id"`
	Points     int   `json:"points"`
}

// awardScore records a point award. Negative points pass through as
// corrections; existence of the referenced ids is left to the store.
func (h *Handler) awardScore(w http.ResponseWriter, r *http.Request) {
	var payload awardPayload
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid score payload")
		return
	}
	score, err := h.service.AwardPoints(r.Context(), payload.TeamID, payload.QuestionID, payload.Points)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, score)
}

// scoreboard serves the standings, optionally filtered with ?category=Name.
func (h *Handler) scoreboard(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	var err error
	var rows interface{}
	if category != "" {
		rows, err = h.service.ScoreboardByCategory(r.Context(), category)
	} else {
		rows, err = h.service.Scoreboard(r.Context())
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
