package dashboard

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"BankSentinel/internal/classifier"
	"BankSentinel/internal/collector"
	"BankSentinel/internal/model"
	"BankSentinel/internal/recorder"
	"BankSentinel/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var fixedNow = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }

func newTestManager(t *testing.T, z, f, npl float64) (*Manager, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	src := &collector.FixedSource{ZScore: z, FScore: f, NPLRatio: npl, Now: fixedNow}
	return NewManager(st, collector.NewCollector(src, nil), nil, nil), st
}

func statement(bank string) model.StatementRequest {
	return model.StatementRequest{
		BankName:      bank,
		Year:          "2025",
		StatementType: "annual",
		FileName:      "report.pdf",
		FileSize:      2048,
	}
}

func TestLoginRegisterLogout(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t, 3.5, 4, 2)

	_, err := m.Session(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	sess, err := m.Login(ctx, LoginRequest{User: "alice", Password: "x", Role: "investor"})
	require.NoError(t, err)
	assert.Equal(t, model.Session{User: "alice", Role: model.RoleInvestor}, sess)

	v, err := st.Get(ctx, store.KeyRole)
	require.NoError(t, err)
	assert.Equal(t, "investor", v)

	sess, err = m.Register(ctx, RegisterRequest{User: "bob", Password: "p", ConfirmPassword: "p", Role: "auditor"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAuditor, sess.Role)

	got, err := m.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.User)

	require.NoError(t, m.Logout(ctx))
	_, err = m.Session(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	// logging out twice is harmless
	require.NoError(t, m.Logout(ctx))
}

func TestLoginValidation(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, 3.5, 4, 2)

	_, err := m.Login(ctx, LoginRequest{User: "", Password: "x", Role: "investor"})
	assert.ErrorIs(t, err, collector.ErrMissingFields)

	_, err = m.Login(ctx, LoginRequest{User: "alice", Password: "x", Role: "regulator"})
	assert.ErrorIs(t, err, classifier.ErrInvalidRole)

	_, err = m.Register(ctx, RegisterRequest{User: "alice", Password: "a", ConfirmPassword: "b", Role: "investor"})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = m.Session(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestStatementFlow(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t, 1.2, 4, 2)

	_, err := m.ProcessStatement(ctx, statement("Bank Alpha"))
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = m.Login(ctx, LoginRequest{User: "alice", Password: "x", Role: "investor"})
	require.NoError(t, err)

	view, err := m.Dashboard(ctx)
	require.NoError(t, err)
	assert.True(t, view.Result.Empty)
	assert.Nil(t, view.Breakdown)

	out, err := m.ProcessStatement(ctx, statement("Bank Alpha"))
	require.NoError(t, err)
	require.NotNil(t, out.File)
	assert.Equal(t, model.FileKindPDF, out.File.Kind)
	assert.Equal(t, "2.00 KB", out.File.Size)
	assert.Equal(t, "Bank Alpha", out.Result.BankName)
	assert.Equal(t, model.BucketAdverse, out.Result.Bucket)
	assert.Equal(t, "AVOID", out.Result.Recommendation.Verdict)
	require.NotNil(t, out.Breakdown)
	assert.Len(t, out.Breakdown.ZScore, 5)

	ind, err := store.LoadIndicators(ctx, st)
	require.NoError(t, err)
	require.NotNil(t, ind)
	assert.Equal(t, "2026-10-18T09:30:00.000Z", ind.Timestamp)

	view, err = m.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, out.Result, view.Result)
	assert.Equal(t, out.Breakdown, view.Breakdown)
	assert.Nil(t, view.File)

	// role comes from the session, not from the stored record
	_, err = m.Login(ctx, LoginRequest{User: "alice", Password: "x", Role: "auditor"})
	require.NoError(t, err)
	view, err = m.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "HIGH PRIORITY REVIEW", view.Result.Recommendation.Verdict)

	res, err := m.Reset(ctx)
	require.NoError(t, err)
	assert.True(t, res.Empty)

	view, err = m.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, classifier.Empty(), view.Result)
	assert.Nil(t, view.Breakdown)
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, 3.5, 4, 2)

	assert.ErrorIs(t, m.UpdatePassword(ctx, PasswordRequest{NewPassword: "n", ConfirmPassword: "n"}), ErrNotLoggedIn)

	_, err := m.Login(ctx, LoginRequest{User: "alice", Password: "x", Role: "investor"})
	require.NoError(t, err)

	assert.ErrorIs(t, m.UpdatePassword(ctx, PasswordRequest{}), ErrNoChanges)
	assert.ErrorIs(t, m.UpdatePassword(ctx, PasswordRequest{NewPassword: "n"}), ErrNoChanges)
	assert.ErrorIs(t, m.UpdatePassword(ctx, PasswordRequest{NewPassword: "n", ConfirmPassword: "m"}), ErrPasswordMismatch)
	assert.NoError(t, m.UpdatePassword(ctx, PasswordRequest{NewPassword: "n", ConfirmPassword: "n"}))
}

func TestProcessStatementMissingFields(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t, 3.5, 4, 2)
	_, err := m.Login(ctx, LoginRequest{User: "alice", Password: "x", Role: "investor"})
	require.NoError(t, err)

	req := statement("Bank Alpha")
	req.Year = ""
	_, err = m.ProcessStatement(ctx, req)
	assert.ErrorIs(t, err, collector.ErrMissingFields)

	ind, err := store.LoadIndicators(ctx, st)
	require.NoError(t, err)
	assert.Nil(t, ind)
}

func TestReportAndLoadDemo(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, 3.5, 4, 2)

	res, err := m.Report(ctx, model.RoleInvestor)
	require.NoError(t, err)
	assert.True(t, res.Empty)

	res, err = m.LoadDemo(ctx, "Bank Beta", model.RoleInvestor)
	require.NoError(t, err)
	assert.Equal(t, model.BucketFavorable, res.Bucket)
	assert.Equal(t, "BUY/POSITIVE", res.Recommendation.Verdict)

	res, err = m.Report(ctx, model.RoleAuditor)
	require.NoError(t, err)
	assert.Equal(t, "Bank Beta", res.BankName)
	assert.Equal(t, "STANDARD REVIEW", res.Recommendation.Verdict)

	_, err = m.LoadDemo(ctx, "  ", model.RoleInvestor)
	assert.ErrorIs(t, err, collector.ErrMissingFields)

	_, err = m.Report(ctx, model.Role("regulator"))
	assert.ErrorIs(t, err, classifier.ErrInvalidRole)
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t, 3.5, 4, 2)

	p, err := m.Preferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPreferences, p)

	require.NoError(t, m.SetTheme(ctx, model.ThemeDark))
	require.NoError(t, m.SetLayout(ctx, model.LayoutCompact))
	assert.Error(t, m.SetTheme(ctx, "neon"))
	assert.Error(t, m.SetLayout(ctx, "grid"))

	next, err := m.ToggleSidebar(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SidebarCollapsed, next)
	next, err = m.ToggleSidebar(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SidebarExpanded, next)

	p, err = m.Preferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Preferences{Theme: "dark", Layout: "compact", Sidebar: "expanded"}, p)

	v, err := st.Get(ctx, store.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", v)

	p, err = m.UpdatePreferences(ctx, model.Preferences{Theme: model.ThemeSystem})
	require.NoError(t, err)
	assert.Equal(t, model.Preferences{Theme: "system", Layout: "compact", Sidebar: "expanded"}, p)

	_, err = m.UpdatePreferences(ctx, model.Preferences{Theme: "light", Sidebar: "hidden"})
	assert.Error(t, err)
	p, err = m.Preferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, "system", p.Theme, "nothing is saved when any field is invalid")
}

type failingStore struct{ store.Store }

func (failingStore) Set(context.Context, string, string) error { return errors.New("disk full") }

// keyFailingStore fails writes to one key only.
type keyFailingStore struct {
	store.Store
	key string
}

func (s keyFailingStore) Set(ctx context.Context, key, value string) error {
	if key == s.key {
		return errors.New("disk full")
	}
	return s.Store.Set(ctx, key, value)
}

func TestUpdatePreferencesPartialFailureIsOrdered(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	src := &collector.FixedSource{ZScore: 3.5, FScore: 4, NPLRatio: 2, Now: fixedNow}
	m := NewManager(keyFailingStore{Store: mem, key: store.KeyLayout}, collector.NewCollector(src, nil), nil, nil)

	for i := 0; i < 10; i++ {
		require.NoError(t, mem.Delete(ctx, store.KeyTheme))
		_, err := m.UpdatePreferences(ctx, model.Preferences{Theme: "dark", Layout: "compact", Sidebar: "collapsed"})
		require.ErrorContains(t, err, "disk full")

		theme, err := mem.Get(ctx, store.KeyTheme)
		require.NoError(t, err)
		assert.Equal(t, "dark", theme)
		_, err = mem.Get(ctx, store.KeySidebar)
		assert.ErrorIs(t, err, store.ErrNotFound)
	}
}

type getFailingStore struct{ store.Store }

func (getFailingStore) Get(context.Context, string) (string, error) {
	return "", errors.New("connection reset")
}

func TestResetLogsUserLookupFailure(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	src := &collector.FixedSource{ZScore: 3.5, FScore: 4, NPLRatio: 2, Now: fixedNow}
	m := NewManager(getFailingStore{store.NewMemoryStore()}, collector.NewCollector(src, nil), nil, zap.New(core))

	res, err := m.Reset(ctx)
	require.NoError(t, err)
	assert.True(t, res.Empty)

	entries := logs.FilterMessage("failed to load user for reset event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "connection reset", entries[0].ContextMap()["error"])
}

func TestStoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	src := &collector.FixedSource{ZScore: 3.5, FScore: 4, NPLRatio: 2, Now: fixedNow}
	m := NewManager(failingStore{store.NewMemoryStore()}, collector.NewCollector(src, nil), nil, nil)

	_, err := m.Login(ctx, LoginRequest{User: "alice", Password: "x", Role: "investor"})
	assert.ErrorContains(t, err, "disk full")
}

func TestHistoryRecorded(t *testing.T) {
	ctx := context.Background()
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "h.db"), nil)
	require.NoError(t, err)
	defer rec.Close()

	src := &collector.FixedSource{ZScore: 2.5, FScore: 2, NPLRatio: 4, Now: fixedNow}
	m := NewManager(store.NewMemoryStore(), collector.NewCollector(src, nil), rec, nil)

	_, err = m.Login(ctx, LoginRequest{User: "alice", Password: "x", Role: "auditor"})
	require.NoError(t, err)
	_, err = m.ProcessStatement(ctx, statement("Bank Gamma"))
	require.NoError(t, err)

	hist, err := m.History(5)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "Bank Gamma", hist[0].BankName)
	assert.Equal(t, model.BucketModerate, hist[0].Bucket)
	assert.Equal(t, "fixed", hist[0].Source)
}
