package statsapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/nba-edge/internal/models"
)

const (
	celticsID = 1610612738
	lakersID  = 1610612747
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpCfg := DefaultHTTPClientConfig()
	httpCfg.MaxRetries = 0
	httpCfg.RateLimit = 1000
	httpCfg.Timeout = 2 * time.Second

	client := NewClient(NewRateLimitedHTTPClient(httpCfg, testLogger()), srv.URL, "test-key", "2025-26", testLogger())
	return client, srv
}

func leagueStatsHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		rows := []TeamEfficiencyRow{
			{TeamID: celticsID, TeamName: "Boston Celtics", OffRating: 122.2, DefRating: 110.6, NetRating: 11.6, Pace: 99.1},
			{TeamID: lakersID, TeamName: "Los Angeles Lakers", OffRating: 115.0, DefRating: 113.4, NetRating: 1.6, Pace: 101.3},
		}
		json.NewEncoder(w).Encode(rows)
	}
}

func TestGetTeamEfficiency(t *testing.T) {
	client, _ := newTestClient(t, leagueStatsHandler(t))

	eff, err := client.GetTeamEfficiency(context.Background(), "Boston Celtics")
	require.NoError(t, err)
	assert.Equal(t, 122.2, eff.OffRating)
	assert.Equal(t, 11.6, eff.NetRating)
}

func TestGetTeamEfficiencyUnknownTeam(t *testing.T) {
	client, _ := newTestClient(t, leagueStatsHandler(t))

	_, err := client.GetTeamEfficiency(context.Background(), "Seattle SuperSonics")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTeamNotFound))

	var perr ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, ErrCodeNotFound, perr.Code)
}

func TestGetTeamEfficiencyFallbackOnServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	eff, err := client.GetTeamEfficiency(context.Background(), "Boston Celtics")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTeamEfficiency(), eff)
}

func TestGetTeamEfficiencyFallbackOnMissingRow(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]TeamEfficiencyRow{
			{TeamID: lakersID, OffRating: 115, DefRating: 113, NetRating: 2, Pace: 100},
		})
	})

	eff, err := client.GetTeamEfficiency(context.Background(), "Boston Celtics")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTeamEfficiency(), eff)
}

func TestGetRecentPerformance(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		log := []GameResult{
			{GameID: "g1", Result: "W"},
			{GameID: "g2", Result: "W"},
			{GameID: "g3", Result: "L"},
			{GameID: "g4", Result: "W"},
		}
		json.NewEncoder(w).Encode(log)
	})

	form, err := client.GetRecentPerformance(context.Background(), "Boston Celtics", 4)
	require.NoError(t, err)
	assert.Equal(t, 0.75, form)
}

func TestGetRecentPerformanceEmptyLog(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]GameResult{})
	})

	form, err := client.GetRecentPerformance(context.Background(), "Boston Celtics", 10)
	require.NoError(t, err)
	assert.Equal(t, models.NeutralRecentForm, form)
}

func TestGetRecentPerformanceNeutralOnFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	form, err := client.GetRecentPerformance(context.Background(), "Boston Celtics", 10)
	require.NoError(t, err)
	assert.Equal(t, models.NeutralRecentForm, form)
}

func TestGetJSONErrorMapping(t *testing.T) {
	cases := []struct {
		status   int
		wantCode string
	}{
		{http.StatusUnauthorized, ErrCodeAuthenticationFailed},
		{http.StatusNotFound, ErrCodeNotFound},
	}

	for _, c := range cases {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.status)
		})

		err := client.Ping(context.Background())
		require.Error(t, err, "status %d", c.status)

		var perr ProviderError
		require.True(t, errors.As(err, &perr), "status %d", c.status)
		assert.Equal(t, c.wantCode, perr.Code, "status %d", c.status)
	}
}

func TestRefreshTeams(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Team{
			{ID: 99, FullName: "Seattle SuperSonics", Abbreviation: "SEA"},
		})
	})

	require.NoError(t, client.RefreshTeams(context.Background()))

	id, ok := client.Registry().Lookup("Seattle SuperSonics")
	assert.True(t, ok)
	assert.Equal(t, 99, id)

	_, ok = client.Registry().Lookup("Boston Celtics")
	assert.False(t, ok, "replace should drop the static mapping")
}

func TestRefreshTeamsEmptyDirectory(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]Team{})
	})

	err := client.RefreshTeams(context.Background())
	require.Error(t, err)

	_, ok := client.Registry().Lookup("Boston Celtics")
	assert.True(t, ok, "failed refresh must leave registry intact")
}
