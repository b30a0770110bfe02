package http

import (
	"net/http"

	"quizzler/internal/domain"
)

func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var payload domain.QuestionCreate
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid question payload")
		return
	}
	if payload.Text == "" || payload.Answer == "" {
		writeError(w, http.StatusBadRequest, "text and answer are required")
		return
	}
	question, err := h.service.CreateQuestion(r.Context(), payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

// listQuestions serves /questions and, with ?category=Name, the
// category-scoped lookup.
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	var questions []domain.Question
	var err error
	if category := r.URL.Query().Get("category"); category != "" {
		questions, err = h.service.QuestionsByCategory(r.Context(), category)
	} else {
		questions, err = h.service.Questions(r.Context())
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}
	question, err := h.service.Question(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *Handler) updateQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}
	var payload domain.QuestionUpdate
	if err := decodeBody(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid question payload")
		return
	}
	question, err := h.service.UpdateQuestion(r.Context(), id, payload)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}
	if _, err := h.service.DeleteQuestion(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Question deleted"})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// categoryQuestions resolves a positional category id from the current
// listing; the id is not stable across category-set changes.
func (h *Handler) categoryQuestions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}
	category, err := h.service.CategoryByID(r.Context(), int(id))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	questions, err := h.service.QuestionsByCategory(r.Context(), category.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}
