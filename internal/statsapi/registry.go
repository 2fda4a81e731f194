package statsapi

import (
	"strings"
	"sync"
)

// TeamRegistry maps team full names to provider team IDs. It is seeded
// from the API at startup and falls back to a static league mapping when
// the API is unreachable, so lookups keep working offline.
type TeamRegistry struct {
	mu       sync.RWMutex
	idByName map[string]int
	nameByID map[int]string
}

// staticTeamIDs mirrors the provider's canonical franchise IDs.
var staticTeamIDs = map[string]int{
	"Atlanta Hawks":          1610612737,
	"Boston Celtics":         1610612738,
	"Brooklyn Nets":          1610612751,
	"Charlotte Hornets":      1610612766,
	"Chicago Bulls":          1610612741,
	"Cleveland Cavaliers":    1610612739,
	"Dallas Mavericks":       1610612742,
	"Denver Nuggets":         1610612743,
	"Detroit Pistons":        1610612765,
	"Golden State Warriors":  1610612744,
	"Houston Rockets":        1610612745,
	"Indiana Pacers":         1610612754,
	"LA Clippers":            1610612746,
	"Los Angeles Lakers":     1610612747,
	"Memphis Grizzlies":      1610612763,
	"Miami Heat":             1610612748,
	"Milwaukee Bucks":        1610612749,
	"Minnesota Timberwolves": 1610612750,
	"New Orleans Pelicans":   1610612740,
	"New York Knicks":        1610612752,
	"Oklahoma City Thunder":  1610612760,
	"Orlando Magic":          1610612753,
	"Philadelphia 76ers":     1610612755,
	"Phoenix Suns":           1610612756,
	"Portland Trail Blazers": 1610612757,
	"Sacramento Kings":       1610612758,
	"San Antonio Spurs":      1610612759,
	"Toronto Raptors":        1610612761,
	"Utah Jazz":              1610612762,
	"Washington Wizards":     1610612764,
}

// NewTeamRegistry creates a registry pre-seeded with the static league
// mapping.
func NewTeamRegistry() *TeamRegistry {
	r := &TeamRegistry{
		idByName: make(map[string]int, len(staticTeamIDs)),
		nameByID: make(map[int]string, len(staticTeamIDs)),
	}
	for name, id := range staticTeamIDs {
		r.idByName[normalizeTeamName(name)] = id
		r.nameByID[id] = name
	}
	return r
}

// Replace swaps in a fresh mapping fetched from the API.
func (r *TeamRegistry) Replace(teams []Team) {
	if len(teams) == 0 {
		return
	}
	idByName := make(map[string]int, len(teams))
	nameByID := make(map[int]string, len(teams))
	for _, t := range teams {
		idByName[normalizeTeamName(t.FullName)] = t.ID
		nameByID[t.ID] = t.FullName
	}

	r.mu.Lock()
	r.idByName = idByName
	r.nameByID = nameByID
	r.mu.Unlock()
}

// Lookup resolves a team full name to its provider ID.
func (r *TeamRegistry) Lookup(teamName string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByName[normalizeTeamName(teamName)]
	return id, ok
}

// NameOf resolves a provider ID back to the team full name.
func (r *TeamRegistry) NameOf(id int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.nameByID[id]
	return name, ok
}

// Names returns every known team full name.
func (r *TeamRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.nameByID))
	for _, name := range r.nameByID {
		names = append(names, name)
	}
	return names
}

func normalizeTeamName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
