package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"quizpulse-service/internal/app"
	"quizpulse-service/internal/domain"
)

// Handler exposes the quiz use cases as a polling JSON API.
type Handler struct {
	service *app.QuizService
	auth    *AdminAuth
	logger  *slog.Logger
}

func NewHandler(service *app.QuizService, auth *AdminAuth, logger *slog.Logger) *Handler {
	return &Handler{service: service, auth: auth, logger: logger}
}

// Routes builds the router. Admin-only endpoints are enforced by the service
// layer, so every route shares one middleware chain.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware(h.logger))
	r.Use(corsMiddleware)
	r.Use(recoveryMiddleware(h.logger))
	r.Use(h.auth.Middleware)

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/admin/login", h.adminLogin).Methods(http.MethodPost)
	api.HandleFunc("/user/login", h.userLogin).Methods(http.MethodPost)
	api.HandleFunc("/user/logout", h.userLogout).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", h.getParticipant).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/badges", h.participantBadges).Methods(http.MethodGet)

	api.HandleFunc("/session", h.getSession).Methods(http.MethodGet)
	api.HandleFunc("/session/start-question", h.startQuestion).Methods(http.MethodPost)
	api.HandleFunc("/session/end-question", h.endQuestion).Methods(http.MethodPost)

	api.HandleFunc("/questions", h.listQuestions).Methods(http.MethodGet)
	api.HandleFunc("/questions", h.createQuestion).Methods(http.MethodPost)
	api.HandleFunc("/questions/{id}", h.getQuestion).Methods(http.MethodGet)
	api.HandleFunc("/questions/{id}", h.updateQuestion).Methods(http.MethodPut)
	api.HandleFunc("/questions/{id}", h.deleteQuestion).Methods(http.MethodDelete)

	api.HandleFunc("/responses", h.submitAnswer).Methods(http.MethodPost)
	api.HandleFunc("/responses", h.clearResponses).Methods(http.MethodDelete)
	api.HandleFunc("/responses/clear-all", h.clearResponses).Methods(http.MethodDelete)
	api.HandleFunc("/responses/clear-everything", h.clearAll).Methods(http.MethodDelete)
	api.HandleFunc("/responses/check/{questionId}/{userId}", h.checkAnswered).Methods(http.MethodGet)
	api.HandleFunc("/responses/{questionId}", h.answersForQuestion).Methods(http.MethodGet)

	api.HandleFunc("/leaderboard", h.leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/badges", h.listBadges).Methods(http.MethodGet)

	api.HandleFunc("/reporting-managers", h.listLabels(domain.LabelManager)).Methods(http.MethodGet)
	api.HandleFunc("/reporting-managers", h.createLabel(domain.LabelManager)).Methods(http.MethodPost)
	api.HandleFunc("/reporting-managers/{id}", h.renameLabel(domain.LabelManager)).Methods(http.MethodPut)
	api.HandleFunc("/reporting-managers/{id}", h.deleteLabel(domain.LabelManager)).Methods(http.MethodDelete)
	api.HandleFunc("/reporting-managers/{id}/trainers", h.managerTrainers).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.listLabels(domain.LabelCategory)).Methods(http.MethodGet)
	api.HandleFunc("/categories", h.createLabel(domain.LabelCategory)).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id}", h.renameLabel(domain.LabelCategory)).Methods(http.MethodPut)
	api.HandleFunc("/categories/{id}", h.deleteLabel(domain.LabelCategory)).Methods(http.MethodDelete)

	api.HandleFunc("/analytics/dashboard", h.dashboard).Methods(http.MethodGet)
	api.HandleFunc("/analytics/question/{id}", h.questionStats).Methods(http.MethodGet)
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	token, expires, err := h.auth.Issue(req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, adminLoginResponse{Token: token, ExpiresAt: expires})
}

func (h *Handler) userLogin(w http.ResponseWriter, r *http.Request) {
	var in app.LoginInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.service.Login(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type logoutRequest struct {
	UserID string `json:"userId"`
}

func (h *Handler) userLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.service.Logout(r.Context(), req.UserID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getParticipant(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Participant(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) participantBadges(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ParticipantBadges(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Session(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

type startQuestionRequest struct {
	QuestionID string `json:"questionId"`
}

func (h *Handler) startQuestion(w http.ResponseWriter, r *http.Request) {
	var req startQuestionRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	s, err := h.service.StartQuestion(r.Context(), req.QuestionID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) endQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.service.EndQuestion(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := h.service.Questions(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, qs)
}

func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Question(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var in app.QuestionInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	q, err := h.service.CreateQuestion(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *Handler) updateQuestion(w http.ResponseWriter, r *http.Request) {
	var in app.QuestionInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	q, err := h.service.UpdateQuestion(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteQuestion(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var in app.SubmitInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := h.service.SubmitAnswer(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type checkResponse struct {
	HasAnswered bool `json:"hasAnswered"`
}

func (h *Handler) checkAnswered(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ok, err := h.service.HasAnswered(r.Context(), vars["userId"], vars["questionId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{HasAnswered: ok})
}

func (h *Handler) answersForQuestion(w http.ResponseWriter, r *http.Request) {
	answers, err := h.service.AnswersForQuestion(r.Context(), mux.Vars(r)["questionId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, answers)
}

func (h *Handler) clearResponses(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ClearResponses(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) clearAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ClearAll(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	manager := q.Get("manager")
	if strings.EqualFold(manager, "all") {
		manager = ""
	}
	opts := app.RankOptions{
		ManagerGroup: manager,
		SortBy:       domain.SortKey(q.Get("sortBy")),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.writeError(w, r, domain.Invalid("limit", "must be a non-negative integer"))
			return
		}
		opts.Limit = limit
	}
	entries, err := h.service.Leaderboard(r.Context(), opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) listBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := h.service.ListBadges(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, badges)
}

type labelRequest struct {
	Name string `json:"name"`
}

func (h *Handler) listLabels(kind domain.LabelKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		labels, err := h.service.Labels(r.Context(), kind)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, labels)
	}
}

func (h *Handler) createLabel(kind domain.LabelKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req labelRequest
		if err := decode(r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
		l, err := h.service.CreateLabel(r.Context(), kind, req.Name)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, l)
	}
}

func (h *Handler) renameLabel(kind domain.LabelKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req labelRequest
		if err := decode(r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}
		l, err := h.service.RenameLabel(r.Context(), kind, mux.Vars(r)["id"], req.Name)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, l)
	}
}

func (h *Handler) deleteLabel(kind domain.LabelKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.service.DeleteLabel(r.Context(), kind, mux.Vars(r)["id"]); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) managerTrainers(w http.ResponseWriter, r *http.Request) {
	ps, err := h.service.ParticipantsByManager(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	if err := domain.RequireAdmin(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) questionStats(w http.ResponseWriter, r *http.Request) {
	if err := domain.RequireAdmin(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	st, err := h.service.QuestionStats(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
