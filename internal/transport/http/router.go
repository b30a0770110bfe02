package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"quizzler/internal/app"
)

// Handler exposes the quiz use cases over REST plus a websocket scoreboard feed.
type Handler struct {
	service  *app.QuizService
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(service *app.QuizService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Routes builds the router. CORS is wide open: the frontend is served from a
// different origin.
func (h *Handler) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(cors.AllowAll().Handler)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Route("/teams", func(r chi.Router) {
		r.Get("/", h.listTeams)
		r.Post("/", h.createTeam)
		r.Get("/{id}", h.getTeam)
		r.Put("/{id}", h.updateTeam)
		r.Delete("/{id}", h.deleteTeam)
		r.Get("/{id}/scores", h.teamScores)
	})

	mux.Route("/questions", func(r chi.Router) {
		r.Get("/", h.listQuestions)
		r.Post("/", h.createQuestion)
		r.Post("/upload", h.uploadQuestions)
		r.Get("/{id}", h.getQuestion)
		r.Put("/{id}", h.updateQuestion)
		r.Delete("/{id}", h.deleteQuestion)
	})

	mux.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Get("/{id}/questions", h.categoryQuestions)
	})

	mux.Post("/scores", h.awardScore)
	mux.Get("/scoreboard", h.scoreboard)
	mux.Get("/ws/scoreboard", h.serveScoreboardWS)

	return mux
}
