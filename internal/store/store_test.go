package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"BankSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]func(t *testing.T) Store {
	t.Helper()
	b := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
			require.NoError(t, err)
			return s
		},
		"badger": func(t *testing.T) Store {
			s, err := NewBadgerStore(filepath.Join(t.TempDir(), "badger"))
			require.NoError(t, err)
			return s
		},
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		b["redis"] = func(t *testing.T) Store {
			s, err := NewRedisStore(context.Background(), addr, "", 0, "banksentinel_test:"+t.Name()+":")
			require.NoError(t, err)
			return s
		}
	}
	return b
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			_, err := s.Get(ctx, KeyUser)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, KeyUser, "alice"))
			v, err := s.Get(ctx, KeyUser)
			require.NoError(t, err)
			assert.Equal(t, "alice", v)

			require.NoError(t, s.Set(ctx, KeyUser, "bob"))
			v, err = s.Get(ctx, KeyUser)
			require.NoError(t, err)
			assert.Equal(t, "bob", v)

			require.NoError(t, s.Delete(ctx, KeyUser))
			_, err = s.Get(ctx, KeyUser)
			assert.ErrorIs(t, err, ErrNotFound)

			// deleting a missing key is not an error
			require.NoError(t, s.Delete(ctx, KeyUser))
		})
	}
}

func TestIndicatorHelpers(t *testing.T) {
	ctx := context.Background()
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			got, err := LoadIndicators(ctx, s)
			require.NoError(t, err)
			assert.Nil(t, got)

			in := &model.FinancialIndicators{
				BankName:  "Bank Alpha",
				ZScore:    3.1,
				FScore:    4,
				NPLRatio:  2.5,
				Timestamp: "2026-10-18T09:30:00.000Z",
			}
			require.NoError(t, SaveIndicators(ctx, s, in))

			got, err = LoadIndicators(ctx, s)
			require.NoError(t, err)
			assert.Equal(t, in, got)

			require.NoError(t, ClearIndicators(ctx, s))
			got, err = LoadIndicators(ctx, s)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestLoadIndicatorsCorrupt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, KeyData, "{not json"))

	_, err := LoadIndicators(ctx, s)
	assert.Error(t, err)
}

func TestIndicatorsJSONShape(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, SaveIndicators(ctx, s, &model.FinancialIndicators{
		BankName: "B", ZScore: 1, FScore: 2, NPLRatio: 3, Timestamp: "2026-10-18T09:30:00.000Z",
	}))
	raw, err := s.Get(ctx, KeyData)
	require.NoError(t, err)
	assert.JSONEq(t, `{"bankName":"B","zScore":1,"fScore":2,"nplRatio":3,"timestamp":"2026-10-18T09:30:00.000Z"}`, raw)
}

func TestFileStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyTheme, "dark"))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, err := reopened.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "dark", v)
}

func TestFileStoreWriteFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyTheme, "light"))

	// a directory in place of the file makes every write fail
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0755))

	require.Error(t, s.Set(ctx, KeyTheme, "dark"))
	v, err := s.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "light", v)

	require.Error(t, s.Set(ctx, KeyData, `{"bankName":"X"}`))
	_, err = s.Get(ctx, KeyData)
	assert.ErrorIs(t, err, ErrNotFound)

	require.Error(t, s.Delete(ctx, KeyTheme))
	v, err = s.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "light", v)
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0644))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestGetOr(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	v, err := GetOr(ctx, s, KeyLayout, "comfortable")
	require.NoError(t, err)
	assert.Equal(t, "comfortable", v)

	require.NoError(t, s.Set(ctx, KeyLayout, "compact"))
	v, err = GetOr(ctx, s, KeyLayout, "comfortable")
	require.NoError(t, err)
	assert.Equal(t, "compact", v)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Backend: BackendFile, FilePath: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(ctx, Options{Backend: "etcd"})
	assert.Error(t, err)
}
