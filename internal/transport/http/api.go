package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"capitals-quiz/internal/app"
	"capitals-quiz/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// API serves the quiz, leaderboard and PIN endpoints as JSON.
type API struct {
	quiz        *app.QuizService
	leaderboard *app.LeaderboardService
	pins        *app.PinGuard
	validate    *validator.Validate
	log         zerolog.Logger
}

func NewAPI(quiz *app.QuizService, leaderboard *app.LeaderboardService, pins *app.PinGuard, log zerolog.Logger) *API {
	return &API{
		quiz:        quiz,
		leaderboard: leaderboard,
		pins:        pins,
		validate:    validator.New(),
		log:         log,
	}
}

// Register mounts the API routes on mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/quiz", a.startQuiz)
	mux.HandleFunc("GET /api/quiz/{id}", a.viewQuiz)
	mux.HandleFunc("DELETE /api/quiz/{id}", a.abandonQuiz)
	mux.HandleFunc("POST /api/quiz/{id}/answer", a.answerQuiz)

	mux.HandleFunc("GET /api/leaderboard", a.getLeaderboard)
	mux.HandleFunc("GET /api/users/{username}/scores", a.getUserScores)
	mux.HandleFunc("GET /api/users/{username}/available", a.checkUsername)

	mux.HandleFunc("GET /api/users/{username}/pin", a.hasPin)
	mux.HandleFunc("POST /api/users/{username}/pin", a.setPin)
	mux.HandleFunc("POST /api/users/{username}/pin/verify", a.verifyPin)
}

type startRequest struct {
	Username          string `json:"username" validate:"required,max=32"`
	Pin               string `json:"pin" validate:"omitempty,len=4,numeric"`
	SaveToLeaderboard *bool  `json:"saveToLeaderboard"`
}

type answerRequest struct {
	// Choice is null when the client's countdown expired.
	Choice        *string `json:"choice"`
	TimeRemaining int     `json:"timeRemaining" validate:"gte=0"`
}

type answerResponse struct {
	Answer domain.AnsweredQuestion `json:"answer"`
	State  domain.SessionView      `json:"state"`
}

type pinRequest struct {
	Pin        string `json:"pin" validate:"required,len=4,numeric"`
	CurrentPin string `json:"currentPin" validate:"omitempty,len=4,numeric"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) startQuiz(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if !a.decode(w, r, &req) {
		return
	}
	save := true
	if req.SaveToLeaderboard != nil {
		save = *req.SaveToLeaderboard
	}
	view, err := a.quiz.Start(r.Context(), domain.StartRequest{
		Username:          req.Username,
		Pin:               req.Pin,
		SaveToLeaderboard: save,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (a *API) viewQuiz(w http.ResponseWriter, r *http.Request) {
	view, err := a.quiz.View(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) abandonQuiz(w http.ResponseWriter, r *http.Request) {
	if err := a.quiz.Abandon(r.Context(), r.PathValue("id")); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) answerQuiz(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !a.decode(w, r, &req) {
		return
	}
	answered, view, err := a.quiz.Answer(r.Context(), r.PathValue("id"), req.Choice, req.TimeRemaining)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{Answer: answered, State: view})
}

func (a *API) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	tier, err := domain.ParseTier(r.URL.Query().Get("tier"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	rows, err := a.leaderboard.GetLeaderboard(r.Context(), tier)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if rows == nil {
		rows = []domain.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tier": tier, "entries": rows})
}

func (a *API) getUserScores(w http.ResponseWriter, r *http.Request) {
	scores, err := a.leaderboard.GetUserScores(r.Context(), r.PathValue("username"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	if scores.Scores == nil {
		scores.Scores = []domain.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, scores)
}

func (a *API) checkUsername(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	available, err := a.leaderboard.UsernameAvailable(r.Context(), username)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"username": strings.TrimSpace(username), "available": available})
}

func (a *API) hasPin(w http.ResponseWriter, r *http.Request) {
	has, err := a.pins.HasPin(r.Context(), r.PathValue("username"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hasPin": has})
}

func (a *API) setPin(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if !a.decode(w, r, &req) {
		return
	}
	username := r.PathValue("username")
	var err error
	if req.CurrentPin != "" {
		err = a.pins.ChangePin(r.Context(), username, req.CurrentPin, req.Pin)
	} else {
		err = a.pins.SetPin(r.Context(), username, req.Pin)
	}
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hasPin": true})
}

func (a *API) verifyPin(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if !a.decode(w, r, &req) {
		return
	}
	ok, err := a.pins.VerifyPin(r.Context(), r.PathValue("username"), req.Pin)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if !ok {
		a.writeError(w, domain.ErrPinMismatch)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

// decode reads a JSON body into dst and validates it, writing a 400 on failure.
func (a *API) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	if err := a.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationMessage(verrs[0])})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "len", "numeric":
		return field + " must be exactly four digits"
	case "max":
		return field + " is too long"
	case "gte":
		return field + " must not be negative"
	}
	return field + " is invalid"
}

func (a *API) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyUsername),
		errors.Is(err, domain.ErrInvalidTier),
		errors.Is(err, domain.ErrInvalidPin),
		errors.Is(err, domain.ErrNegativeScore):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPinRequired),
		errors.Is(err, domain.ErrPinMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAlreadyStarted),
		errors.Is(err, domain.ErrSessionFinished),
		errors.Is(err, domain.ErrNotInProgress),
		errors.Is(err, domain.ErrPinAlreadySet):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCatalogNotFound),
		errors.Is(err, domain.ErrCatalogTooSmall):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
