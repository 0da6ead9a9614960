package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHolidayServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/holidays", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write([]byte(holidaysCSV))
	})
	mux.HandleFunc("/holidays.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte(`[{"date": "15-Aug", "description": "Independence Day", "cities": ["Chennai"]}]`))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/holidays.csv"))
	assert.True(t, IsRemote("http://localhost/holidays"))
	assert.False(t, IsRemote("holidays.csv"))
	assert.False(t, IsRemote("/data/https.csv"))
}

func TestFetchHolidays(t *testing.T) {
	srv := newHolidayServer(t)
	l := New(nil)

	t.Run("content type", func(t *testing.T) {
		set, err := l.FetchHolidays(context.Background(), srv.URL+"/holidays")
		require.NoError(t, err)
		assert.Equal(t, []string{"Mumbai", "Delhi", "Bangalore"}, set.Cities)
		assert.Len(t, set.Records, 3)
	})

	t.Run("url extension", func(t *testing.T) {
		set, err := l.FetchHolidays(context.Background(), srv.URL+"/holidays.json")
		require.NoError(t, err)
		assert.Equal(t, []string{"Chennai"}, set.Cities)
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := l.FetchHolidays(context.Background(), srv.URL+"/broken")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 502")
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := l.FetchHolidays(ctx, srv.URL+"/holidays")
		assert.Error(t, err)
	})
}

func TestLoadHolidaysWithFallback(t *testing.T) {
	srv := newHolidayServer(t)
	l := New(nil)

	fallback := filepath.Join(t.TempDir(), "fallback.csv")
	require.NoError(t, os.WriteFile(fallback, []byte("Date,Holiday Description,Pune\n01-May,Maharashtra Day,Holiday\n"), 0o644))

	set, err := l.LoadHolidaysWithFallback(context.Background(), srv.URL+"/holidays", fallback)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mumbai", "Delhi", "Bangalore"}, set.Cities)

	set, err = l.LoadHolidaysWithFallback(context.Background(), srv.URL+"/broken", fallback)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pune"}, set.Cities)

	_, err = l.LoadHolidaysWithFallback(context.Background(), srv.URL+"/broken", "")
	assert.Error(t, err)

	_, err = l.LoadHolidaysWithFallback(context.Background(), srv.URL+"/broken", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary and fallback both failed")
}
