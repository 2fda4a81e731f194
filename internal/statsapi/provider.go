package statsapi

import (
	"context"
	"errors"

	"github.com/yourusername/nba-edge/internal/models"
)

// DefaultRecentGames is the window used for recent-form win fractions.
const DefaultRecentGames = 10

// Provider defines the interface for fetching team statistics from an
// external stats service.
type Provider interface {
	// GetTeamEfficiency retrieves per-100-possession ratings for a team
	GetTeamEfficiency(ctx context.Context, teamName string) (models.TeamEfficiency, error)

	// GetRecentPerformance returns the win fraction over the team's most
	// recent games, in [0,1]
	GetRecentPerformance(ctx context.Context, teamName string, games int) (float64, error)

	// Name returns the name of the provider
	Name() string
}

// Pinger is implemented by providers that can report connectivity, used
// by readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderError represents errors from provider operations
type ProviderError struct {
	Provider string // Provider name
	Code     string // Error code (e.g., "rate_limit_exceeded")
	Message  string // Error message
	Err      error  // Underlying error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + ": " + e.Code + ": " + e.Message
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Sentinel errors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTeamNotFound         = models.ErrTeamNotFound
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, err error) ProviderError {
	return ProviderError{
		Provider: provider,
		Code:     code,
		Message:  message,
		Err:      err,
	}
}
