package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/kunalroy0223/liveiq/internal/app"
	"github.com/kunalroy0223/liveiq/internal/domain"
)

// Server wires the REST surface, the websocket endpoint, and static assets.
type Server struct {
	users     *app.UserService
	questions *app.QuestionService
	live      *app.LiveService
	hub       *app.Hub
	tokens    *TokenIssuer
	staticDir string
}

func NewServer(users *app.UserService, questions *app.QuestionService, live *app.LiveService, hub *app.Hub, tokens *TokenIssuer, staticDir string) *Server {
	return &Server{
		users:     users,
		questions: questions,
		live:      live,
		hub:       hub,
		tokens:    tokens,
		staticDir: staticDir,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/signup", s.handleSignup)
	r.Post("/api/login", s.handleLogin)

	r.With(s.requireAdmin).Get("/api/questions", s.handleListQuestions)
	r.With(s.requireAdmin).Post("/api/questions", s.handleCreateQuestion)
	r.With(s.requireAdmin).Put("/api/questions/{id}", s.handleUpdateQuestion)
	r.With(s.requireAdmin).Delete("/api/questions/{id}", s.handleDeleteQuestion)
	r.With(s.requireAdmin).Post("/api/quiz/{action}", s.handleQuizControl)
	r.With(s.requireAdmin).Post("/api/scores/reset", s.handleResetScores)

	r.Get("/ws", s.ServeWS)

	// Static surface mirrors the original express server: a root redirect
	// to signup, an explicit login route, files for everything else.
	if s.staticDir != "" {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/pages/signup.html", http.StatusFound)
		})
		r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(s.staticDir, "pages", "login.html"))
		})
		r.NotFound(http.FileServer(http.Dir(s.staticDir)).ServeHTTP)
	}

	return r
}

// Auth middleware

type claimsKey struct{}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := s.tokens.Parse(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if claims.Role != string(app.RoleAdmin) {
			writeError(w, http.StatusForbidden, "admin only")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Auth handlers

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Confirm  string `json:"confirm,omitempty"`
}

type sessionResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId,omitempty"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.users.Signup(r.Context(), req.Username, req.Password, req.Confirm)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	token, err := s.tokens.Issue(user.ID, user.Username, app.RolePlayer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "issue token")
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(app.RolePlayer),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, isAdmin, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	role := app.RolePlayer
	if isAdmin {
		role = app.RoleAdmin
	}
	token, err := s.tokens.Issue(user.ID, user.Username, role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "issue token")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(role),
	})
}

// Question handlers

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.questions.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var in app.QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	question, err := s.questions.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, question)
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var in app.QuestionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	question, err := s.questions.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := s.questions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Quiz control

func (s *Server) handleQuizControl(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		live domain.LiveState
		err  error
	)
	switch action := chi.URLParam(r, "action"); action {
	case "start":
		live, err = s.live.Start(ctx)
	case "pause":
		live, err = s.live.Pause(ctx)
	case "resume":
		live, err = s.live.Resume(ctx)
	case "end":
		live, err = s.live.End(ctx)
	case "next":
		live, err = s.live.Next(ctx)
	case "prev":
		live, err = s.live.Prev(ctx)
	case "reveal":
		var results []domain.RevealResult
		results, err = s.live.Reveal(ctx)
		if err == nil {
			writeJSON(w, http.StatusOK, map[string]any{"results": results})
			return
		}
	default:
		writeError(w, http.StatusNotFound, "unknown quiz action")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, live)
}

func (s *Server) handleResetScores(w http.ResponseWriter, r *http.Request) {
	if err := s.users.ResetScores(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "scores reset"})
}

// Response helpers

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the domain error taxonomy onto HTTP statuses:
// validation errors carry their field, precondition failures are conflicts,
// lookups are 404s, everything else is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": verr.Message,
			"field": verr.Field,
		})
		return
	}
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrUsernameTaken):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": err.Error(),
			"field": "username",
		})
	case errors.Is(err, domain.ErrQuestionNotFound), errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotStarted),
		errors.Is(err, domain.ErrNoNextQuestion),
		errors.Is(err, domain.ErrNoPreviousQuestion),
		errors.Is(err, domain.ErrNoActiveQuestion),
		errors.Is(err, domain.ErrQuizPaused),
		errors.Is(err, domain.ErrAnswerRevealed):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
