package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"BankSentinel/internal/classifier"
	"BankSentinel/internal/collector"
	"BankSentinel/internal/model"
	"BankSentinel/internal/recorder"
	"BankSentinel/internal/store"

	"go.uber.org/zap"
)

var (
	// ErrNotLoggedIn is returned by operations that need a session.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrPasswordMismatch is returned when the confirmation differs.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrNoChanges is returned by UpdatePassword when either field is empty.
	ErrNoChanges = errors.New("no changes made")
)

// LoginRequest is the sign-in form. The password is required but never checked.
type LoginRequest struct {
	User     string `json:"user" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// RegisterRequest is the sign-up form. Nothing but user and role is kept.
type RegisterRequest struct {
	User            string `json:"user" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Role            string `json:"role" validate:"required"`
}

// PasswordRequest is the account settings form. Both fields empty, or either
// one, means nothing to change.
type PasswordRequest struct {
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// View is what the dashboard shows: the classification, the ratio breakdown
// behind it and, right after an upload, the file preview.
type View struct {
	File      *model.FileInfo            `json:"file,omitempty"`
	Result    model.ClassificationResult `json:"result"`
	Breakdown *model.RatioBreakdown      `json:"breakdown,omitempty"`
}

// Manager owns the dashboard state: session, preferences and the last
// processed statement, all kept in the store under the well-known keys.
type Manager struct {
	mu        sync.Mutex
	store     store.Store
	collector *collector.Collector
	recorder  recorder.Recorder
	logger    *zap.Logger
}

// NewManager creates a Manager. A nil recorder disables history.
func NewManager(st store.Store, col *collector.Collector, rec recorder.Recorder, logger *zap.Logger) *Manager {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: st, collector: col, recorder: rec, logger: logger}
}

// Login stores the user and role.
func (m *Manager) Login(ctx context.Context, req LoginRequest) (model.Session, error) {
	if strings.TrimSpace(req.User) == "" || req.Password == "" || req.Role == "" {
		return model.Session{}, collector.ErrMissingFields
	}
	return m.signIn(ctx, req.User, req.Role, recorder.EventLogin)
}

// Register checks the password confirmation, then behaves like Login.
func (m *Manager) Register(ctx context.Context, req RegisterRequest) (model.Session, error) {
	if strings.TrimSpace(req.User) == "" || req.Password == "" || req.ConfirmPassword == "" || req.Role == "" {
		return model.Session{}, collector.ErrMissingFields
	}
	if req.Password != req.ConfirmPassword {
		return model.Session{}, ErrPasswordMismatch
	}
	return m.signIn(ctx, req.User, req.Role, recorder.EventRegister)
}

// UpdatePassword checks the new password against its confirmation. Like
// Register, no password is kept; the change is only recorded.
func (m *Manager) UpdatePassword(ctx context.Context, req PasswordRequest) error {
	if req.NewPassword == "" || req.ConfirmPassword == "" {
		return ErrNoChanges
	}
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.session(ctx)
	if err != nil {
		return err
	}
	m.logger.Info("password updated", zap.String("user", sess.User))
	m.recordEvent(recorder.EventPassword, sess.User, "")
	return nil
}

func (m *Manager) signIn(ctx context.Context, user, roleName, event string) (model.Session, error) {
	role, err := model.ParseRole(roleName)
	if err != nil {
		return model.Session{}, fmt.Errorf("%w: %v", classifier.ErrInvalidRole, err)
	}
	user = strings.TrimSpace(user)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Set(ctx, store.KeyUser, user); err != nil {
		return model.Session{}, fmt.Errorf("save user: %w", err)
	}
	if err := m.store.Set(ctx, store.KeyRole, string(role)); err != nil {
		return model.Session{}, fmt.Errorf("save role: %w", err)
	}

	m.logger.Info("user signed in", zap.String("user", user), zap.String("role", string(role)), zap.String("event", event))
	m.recordEvent(event, user, string(role))
	return model.Session{User: user, Role: role}, nil
}

// Logout removes the user and role. Indicators and preferences stay.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.session(ctx)
	if err != nil && !errors.Is(err, ErrNotLoggedIn) {
		return err
	}
	if err := m.store.Delete(ctx, store.KeyUser); err != nil {
		return fmt.Errorf("clear user: %w", err)
	}
	if err := m.store.Delete(ctx, store.KeyRole); err != nil {
		return fmt.Errorf("clear role: %w", err)
	}
	m.recordEvent(recorder.EventLogout, sess.User, "")
	return nil
}

// Session returns the signed-in user, or ErrNotLoggedIn.
func (m *Manager) Session(ctx context.Context) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session(ctx)
}

func (m *Manager) session(ctx context.Context) (model.Session, error) {
	user, err := store.GetOr(ctx, m.store, store.KeyUser, "")
	if err != nil {
		return model.Session{}, fmt.Errorf("load user: %w", err)
	}
	roleName, err := store.GetOr(ctx, m.store, store.KeyRole, "")
	if err != nil {
		return model.Session{}, fmt.Errorf("load role: %w", err)
	}
	if user == "" || roleName == "" {
		return model.Session{}, ErrNotLoggedIn
	}
	role, err := model.ParseRole(roleName)
	if err != nil {
		return model.Session{}, fmt.Errorf("%w: stored %v", classifier.ErrInvalidRole, err)
	}
	return model.Session{User: user, Role: role}, nil
}

// ProcessStatement runs the upload form through the collector, replaces the
// stored indicators and returns the view for the session role.
func (m *Manager) ProcessStatement(ctx context.Context, req model.StatementRequest) (*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.session(ctx)
	if err != nil {
		return nil, err
	}

	ind, file, err := m.collector.Process(req)
	if err != nil {
		return nil, err
	}
	res, err := m.commit(ctx, ind, sess.Role)
	if err != nil {
		return nil, err
	}
	return &View{File: file, Result: res, Breakdown: collector.Breakdown(ind)}, nil
}

// LoadDemo generates indicators for bank without the upload form and
// classifies them for role. Used by chat commands and the CLI.
func (m *Manager) LoadDemo(ctx context.Context, bank string, role model.Role) (model.ClassificationResult, error) {
	bank = strings.TrimSpace(bank)
	if bank == "" {
		return model.ClassificationResult{}, collector.ErrMissingFields
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ind, err := m.collector.Source.Fetch(bank)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("fetch demo data: %w", err)
	}
	return m.commit(ctx, ind, role)
}

// commit saves ind as the current record, classifies it and records history.
func (m *Manager) commit(ctx context.Context, ind *model.FinancialIndicators, role model.Role) (model.ClassificationResult, error) {
	res, err := classifier.Classify(ind, role)
	if err != nil {
		return model.ClassificationResult{}, err
	}
	if err := store.SaveIndicators(ctx, m.store, ind); err != nil {
		return model.ClassificationResult{}, fmt.Errorf("save indicators: %w", err)
	}
	if err := m.recorder.RecordEvaluation(recorder.NewEvaluationRecord(&res, m.collector.Source.Name())); err != nil {
		m.logger.Warn("failed to record evaluation", zap.Error(err))
	}
	return res, nil
}

// Dashboard classifies the stored record for the session role. With no
// record it returns the placeholder result and no breakdown.
func (m *Manager) Dashboard(ctx context.Context) (*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.session(ctx)
	if err != nil {
		return nil, err
	}
	ind, res, err := m.report(ctx, sess.Role)
	if err != nil {
		return nil, err
	}
	return &View{Result: res, Breakdown: collector.Breakdown(ind)}, nil
}

// Report classifies the stored record for role without needing a session.
func (m *Manager) Report(ctx context.Context, role model.Role) (model.ClassificationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, res, err := m.report(ctx, role)
	return res, err
}

func (m *Manager) report(ctx context.Context, role model.Role) (*model.FinancialIndicators, model.ClassificationResult, error) {
	ind, err := store.LoadIndicators(ctx, m.store)
	if err != nil {
		return nil, model.ClassificationResult{}, fmt.Errorf("load indicators: %w", err)
	}
	res, err := classifier.Classify(ind, role)
	if err != nil {
		return nil, model.ClassificationResult{}, err
	}
	return ind, res, nil
}

// Reset clears the stored record and returns the placeholder result.
func (m *Manager) Reset(ctx context.Context) (model.ClassificationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := store.ClearIndicators(ctx, m.store); err != nil {
		return model.ClassificationResult{}, fmt.Errorf("clear indicators: %w", err)
	}
	user, err := store.GetOr(ctx, m.store, store.KeyUser, "")
	if err != nil {
		m.logger.Warn("failed to load user for reset event", zap.Error(err))
	}
	m.recordEvent(recorder.EventReset, user, "")
	m.logger.Info("dashboard reset")
	return classifier.Empty(), nil
}

// History returns the most recent evaluations.
func (m *Manager) History(limit int) ([]recorder.EvaluationRecord, error) {
	return m.recorder.RecentEvaluations(limit)
}

func (m *Manager) recordEvent(eventType, user, detail string) {
	if err := m.recorder.RecordEvent(&recorder.DashboardEvent{
		EventType: eventType,
		User:      user,
		Detail:    detail,
	}); err != nil {
		m.logger.Warn("failed to record event", zap.String("event", eventType), zap.Error(err))
	}
}
