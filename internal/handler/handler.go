package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Dan9191/expense-service/internal/config"
	"github.com/Dan9191/expense-service/internal/forecast"
	"github.com/Dan9191/expense-service/internal/integrations/cbr"
	"github.com/Dan9191/expense-service/internal/middleware"
	"github.com/Dan9191/expense-service/internal/models"
	"github.com/Dan9191/expense-service/internal/repository"
	"github.com/Dan9191/expense-service/internal/service"
	"github.com/Dan9191/expense-service/internal/session"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc      *service.Service
	sessions *session.Registry
	cfg      *config.Config
	log      *logrus.Logger
}

func NewHandler(svc *service.Service, sessions *session.Registry, cfg *config.Config, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, sessions: sessions, cfg: cfg, log: log}
}

// Routes registers public and protected endpoints on r
func (h *Handler) Routes(r *mux.Router) {
	r.Use(middleware.Logging(h.log))

	// Public routes
	r.HandleFunc("/healthz", h.Health).Methods("GET")
	r.HandleFunc("/api/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/api/auth/logout", h.Logout).Methods("POST")
	r.HandleFunc("/api/auth/session", h.Session).Methods("GET")
	r.HandleFunc("/api/user/exists", h.UserExists).Methods("GET")

	// Protected routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(h.sessions, h.cfg, h.log))
	api.HandleFunc("/expenses", h.CreateExpense).Methods("POST")
	api.HandleFunc("/expenses", h.ListExpenses).Methods("GET")
	api.HandleFunc("/expenses/{id:[0-9]+}", h.GetExpense).Methods("GET")
	api.HandleFunc("/expenses/{id:[0-9]+}", h.UpdateExpense).Methods("PUT")
	api.HandleFunc("/expenses/{id:[0-9]+}", h.DeleteExpense).Methods("DELETE")
	api.HandleFunc("/dashboard/summary", h.Summary).Methods("GET")
	api.HandleFunc("/dashboard/monthly", h.MonthlyDetail).Methods("GET")
	api.HandleFunc("/dashboard/yearly", h.YearlyDetail).Methods("GET")
	api.HandleFunc("/dashboard/daily", h.DailySeries).Methods("GET")
	api.HandleFunc("/dashboard/forecast", h.Forecast).Methods("GET")
	api.HandleFunc("/dashboard/budget", h.Budget).Methods("GET")
	api.HandleFunc("/settings", h.GetSettings).Methods("GET")
	api.HandleFunc("/settings", h.UpdateSettings).Methods("PUT")
	api.HandleFunc("/settings", h.ResetSettings).Methods("DELETE")
	api.HandleFunc("/profile", h.Profile).Methods("GET")
	api.HandleFunc("/exchange-rate", h.ExchangeRate).Methods("GET")
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, forecast.ErrUnknownMethod),
		errors.Is(err, cbr.ErrUnknownCurrency):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrEmailTaken):
		status = http.StatusConflict
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Errorf("Request failed: %v", err)
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func userID(r *http.Request) int64 {
	id, _ := middleware.UserIDFromContext(r.Context())
	return id
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// queryInt reads an integer query parameter, returning def when absent
func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// queryDay reads a YYYY-MM-DD query parameter; absent yields the zero Day
func queryDay(r *http.Request, name string) (models.Day, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return models.Day{}, nil
	}
	return models.ParseDay(v)
}
