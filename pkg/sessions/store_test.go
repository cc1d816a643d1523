package sessions

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Jacobbrewer1/oav/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	path := filepath.Join(t.TempDir(), "gate_sessions.json")
	return NewStore(l, path), path
}

func TestStore_Load_MissingFile(t *testing.T) {
	s, path := newTestStore(t)

	got, err := s.Load()
	require.NoError(t, err)
	require.Empty(t, got)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(b))
}

func TestStore_Load_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "gate sessions"},
		{name: "array", content: "[]"},
		{name: "null", content: "null"},
		{name: "trailing data", content: "{} {}"},
		{name: "truncated", content: `{"a": {"gate": "A1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, path := newTestStore(t)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := s.Load()
			require.ErrorIs(t, err, ErrMalformedState)
		})
	}
}

func TestStore_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		sessions map[string]Document
	}{
		{
			name:     "empty",
			sessions: map[string]Document{},
		},
		{
			name: "single",
			sessions: map[string]Document{
				"123": {"gate": "A1", "open": true},
			},
		},
		{
			name: "nested",
			sessions: map[string]Document{
				"123": {"gate": "A1", "pax": float64(180)},
				"456": {"flight": map[string]any{"no": "OAV123", "legs": []any{"KJFK", "KLAX"}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, path := newTestStore(t)
			_, err := s.Load()
			require.NoError(t, err)

			for k, v := range tt.sessions {
				s.Put(k, v)
			}
			require.NoError(t, s.Flush())

			fresh := NewStore(s.l, path)
			got, err := fresh.Load()
			require.NoError(t, err)
			require.Equal(t, tt.sessions, got)
		})
	}
}

func TestStore_UpdateAndRemove(t *testing.T) {
	s, path := newTestStore(t)
	_, err := s.Load()
	require.NoError(t, err)

	require.NoError(t, s.Update("abc", Document{"gate": "B2"}))

	got, ok := s.Get("abc")
	require.True(t, ok)
	require.Equal(t, "B2", got["gate"])

	// The returned document is a copy.
	got["gate"] = "C3"
	again, _ := s.Get("abc")
	require.Equal(t, "B2", again["gate"])

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"abc": {"gate": "B2"}}`, string(b))

	require.NoError(t, s.Remove("abc"))
	_, ok = s.Get("abc")
	require.False(t, ok)
	require.Equal(t, 0, s.Len())

	b, err = os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(b))
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s, path := newTestStore(t)
	_, err := s.Load()
	require.NoError(t, err)

	const workers = 20

	wg := new(sync.WaitGroup)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			assert.NoError(t, s.Update(key, Document{"n": float64(i)}))
		}(i)
	}
	wg.Wait()

	fresh := NewStore(s.l, path)
	got, err := fresh.Load()
	require.NoError(t, err)
	require.Len(t, got, workers)
}
