package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"BankSentinel/internal/classifier"
	"BankSentinel/internal/collector"
	"BankSentinel/internal/dashboard"
	"BankSentinel/internal/model"
	"BankSentinel/internal/recorder"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var errBadBody = errors.New("invalid request body")

// ClassifyRequest is a stateless classification of a posted record.
// A missing record yields the placeholder result.
type ClassifyRequest struct {
	Indicators *model.FinancialIndicators `json:"indicators"`
	Role       string                     `json:"role" validate:"required,oneof=investor auditor"`
}

// Handler serves the dashboard JSON API.
type Handler struct {
	dashboard *dashboard.Manager
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewHandler(dm *dashboard.Manager, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{dashboard: dm, validate: validator.New(), logger: logger}
}

// Routes mounts every route on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/session", h.Login)
	mux.HandleFunc("POST /api/register", h.Register)
	mux.HandleFunc("GET /api/session", h.Session)
	mux.HandleFunc("DELETE /api/session", h.Logout)
	mux.HandleFunc("PUT /api/password", h.UpdatePassword)

	mux.HandleFunc("POST /api/statements", h.ProcessStatement)
	mux.HandleFunc("GET /api/dashboard", h.Dashboard)
	mux.HandleFunc("DELETE /api/dashboard", h.Reset)

	mux.HandleFunc("GET /api/preferences", h.Preferences)
	mux.HandleFunc("PUT /api/preferences", h.UpdatePreferences)
	mux.HandleFunc("POST /api/preferences/sidebar", h.ToggleSidebar)

	mux.HandleFunc("POST /api/classify", h.Classify)
	mux.HandleFunc("GET /api/history", h.History)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req dashboard.LoginRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}
	sess, err := h.dashboard.Login(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req dashboard.RegisterRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}
	sess, err := h.dashboard.Register(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	sess, err := h.dashboard.Session(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.Logout(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req dashboard.PasswordRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.dashboard.UpdatePassword(r.Context(), req); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

func (h *Handler) ProcessStatement(w http.ResponseWriter, r *http.Request) {
	var req model.StatementRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}
	out, err := h.dashboard.ProcessStatement(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	res, err := h.dashboard.Dashboard(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	res, err := h.dashboard.Reset(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	p, err := h.dashboard.Preferences(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req model.Preferences
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}
	p, err := h.dashboard.UpdatePreferences(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) ToggleSidebar(w http.ResponseWriter, r *http.Request) {
	if _, err := h.dashboard.ToggleSidebar(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	h.Preferences(w, r)
}

func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := h.decode(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}
	res, err := classifier.Classify(req.Indicators, model.Role(req.Role))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	recs, err := h.dashboard.History(limit)
	if err != nil {
		h.fail(w, err)
		return
	}
	if recs == nil {
		recs = []recorder.EvaluationRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// decode reads a JSON body into v and runs struct validation.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return h.validate.Struct(v)
}

// fail maps an error to a status code and writes it.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, validationMessage(verrs))
	case errors.Is(err, dashboard.ErrNotLoggedIn):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errBadBody),
		errors.Is(err, collector.ErrMissingFields),
		errors.Is(err, dashboard.ErrPasswordMismatch),
		errors.Is(err, dashboard.ErrNoChanges),
		errors.Is(err, classifier.ErrInvalidRole),
		errors.Is(err, model.ErrInvalidPreference):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// validationMessage keeps the form wording for missing fields.
func validationMessage(verrs validator.ValidationErrors) string {
	var invalid []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return collector.ErrMissingFields.Error()
		}
		invalid = append(invalid, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return "invalid request: " + strings.Join(invalid, ", ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
