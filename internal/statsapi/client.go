package statsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/nba-edge/internal/models"
)

const providerName = "nba_stats"

// Team is a franchise entry from the provider's team directory.
type Team struct {
	ID           int    `json:"id"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
}

// TeamEfficiencyRow is one team's per-100-possession line from the
// league stats endpoint. This is the single response contract the rest
// of the module relies on; anything the provider sends that does not fit
// it is rejected at this boundary.
type TeamEfficiencyRow struct {
	TeamID    int     `json:"team_id"`
	TeamName  string  `json:"team_name"`
	OffRating float64 `json:"off_rating"`
	DefRating float64 `json:"def_rating"`
	NetRating float64 `json:"net_rating"`
	Pace      float64 `json:"pace"`
}

// GameResult is a single entry from a team's game log, most recent
// first.
type GameResult struct {
	GameID   string `json:"game_id"`
	GameDate string `json:"game_date"`
	Result   string `json:"result"` // "W" or "L"
}

// Client fetches team statistics from the NBA stats API.
type Client struct {
	httpClient *RateLimitedHTTPClient
	registry   *TeamRegistry
	baseURL    string
	apiKey     string
	season     string
	logger     *logrus.Logger
}

// NewClient creates a stats API client. The team registry starts from
// the static league mapping; call RefreshTeams to sync it with the API.
func NewClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey, season string, logger *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.nbastats.example.com/v1"
	}
	return &Client{
		httpClient: httpClient,
		registry:   NewTeamRegistry(),
		baseURL:    baseURL,
		apiKey:     apiKey,
		season:     season,
		logger:     logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return providerName
}

// Registry exposes the team name registry for callers that need the
// known team list.
func (c *Client) Registry() *TeamRegistry {
	return c.registry
}

// Ping verifies the provider is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.fetchTeams(ctx)
	return err
}

// RefreshTeams re-syncs the team registry from the provider. Failure
// leaves the current mapping in place.
func (c *Client) RefreshTeams(ctx context.Context) error {
	teams, err := c.fetchTeams(ctx)
	if err != nil {
		return err
	}
	c.registry.Replace(teams)
	return nil
}

// GetTeamEfficiency retrieves per-100-possession ratings for a team.
// Unknown team names return ErrTeamNotFound. If the league stats fetch
// fails or the team's row is missing, the league-average fallback is
// returned instead of an error, so a provider outage degrades the model
// rather than breaking the request.
func (c *Client) GetTeamEfficiency(ctx context.Context, teamName string) (models.TeamEfficiency, error) {
	teamID, ok := c.registry.Lookup(teamName)
	if !ok {
		return models.TeamEfficiency{}, NewProviderError(providerName, ErrCodeNotFound, fmt.Sprintf("unknown team %q", teamName), ErrTeamNotFound)
	}

	rows, err := c.fetchLeagueEfficiency(ctx)
	if err != nil {
		c.logger.WithError(err).WithField("team", teamName).Warn("League stats unavailable, using fallback efficiency")
		return models.DefaultTeamEfficiency(), nil
	}

	for _, row := range rows {
		if row.TeamID == teamID {
			return models.TeamEfficiency{
				OffRating: row.OffRating,
				DefRating: row.DefRating,
				NetRating: row.NetRating,
				Pace:      row.Pace,
			}, nil
		}
	}

	c.logger.WithField("team", teamName).Warn("Team missing from league stats, using fallback efficiency")
	return models.DefaultTeamEfficiency(), nil
}

// GetRecentPerformance returns the win fraction over the team's most
// recent games. Unknown teams return ErrTeamNotFound; an empty or failed
// game log yields the neutral 0.5.
func (c *Client) GetRecentPerformance(ctx context.Context, teamName string, games int) (float64, error) {
	if games <= 0 {
		games = DefaultRecentGames
	}

	teamID, ok := c.registry.Lookup(teamName)
	if !ok {
		return 0, NewProviderError(providerName, ErrCodeNotFound, fmt.Sprintf("unknown team %q", teamName), ErrTeamNotFound)
	}

	log, err := c.fetchGameLog(ctx, teamID, games)
	if err != nil {
		c.logger.WithError(err).WithField("team", teamName).Warn("Game log unavailable, using neutral recent form")
		return models.NeutralRecentForm, nil
	}
	if len(log) == 0 {
		return models.NeutralRecentForm, nil
	}

	if len(log) > games {
		log = log[:games]
	}
	wins := 0
	for _, g := range log {
		if g.Result == "W" {
			wins++
		}
	}
	return float64(wins) / float64(len(log)), nil
}

func (c *Client) fetchTeams(ctx context.Context) ([]Team, error) {
	var teams []Team
	if err := c.getJSON(ctx, fmt.Sprintf("%s/teams", c.baseURL), &teams); err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, NewProviderError(providerName, ErrCodeInvalidData, "empty team directory", ErrInvalidData)
	}
	return teams, nil
}

func (c *Client) fetchLeagueEfficiency(ctx context.Context) ([]TeamEfficiencyRow, error) {
	endpoint := fmt.Sprintf("%s/stats/team-efficiency?season=%s&per_mode=per100", c.baseURL, url.QueryEscape(c.season))
	var rows []TeamEfficiencyRow
	if err := c.getJSON(ctx, endpoint, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, NewProviderError(providerName, ErrCodeInvalidData, "empty league stats", ErrInvalidData)
	}
	for _, row := range rows {
		if row.TeamID == 0 {
			return nil, NewProviderError(providerName, ErrCodeInvalidData, "league stats row missing team_id", ErrInvalidData)
		}
	}
	return rows, nil
}

func (c *Client) fetchGameLog(ctx context.Context, teamID, limit int) ([]GameResult, error) {
	endpoint := fmt.Sprintf("%s/teams/%d/games?season=%s&limit=%d", c.baseURL, teamID, url.QueryEscape(c.season), limit)
	var log []GameResult
	if err := c.getJSON(ctx, endpoint, &log); err != nil {
		return nil, err
	}
	return log, nil
}

// getJSON performs an authenticated GET and decodes the response into
// out, mapping HTTP failures onto provider error codes.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return NewProviderError(providerName, ErrCodeNetworkError, "failed to create request", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		observeProviderRequest(endpoint, "error", time.Since(start))
		return NewProviderError(providerName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	observeProviderRequest(endpoint, fmt.Sprintf("%d", resp.StatusCode), time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewProviderError(providerName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewProviderError(providerName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode == http.StatusNotFound:
		return NewProviderError(providerName, ErrCodeNotFound, "resource not found", ErrTeamNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return NewProviderError(providerName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), ErrServerError)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewProviderError(providerName, ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}
