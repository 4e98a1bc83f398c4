package models

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultTopCount is how many players a top-scorers listing shows when no
// count is given.
const DefaultTopCount = 10

// PlayerList represents a slice of players with helper methods
type PlayerList []Player

// StatAccessors maps the property names accepted in filter and sort
// expressions to the stat they read. Names are matched case-sensitively.
var StatAccessors = map[string]func(Player) float64{
	"GP":       func(p Player) float64 { return float64(p.GamesPlayed) },
	"G":        func(p Player) float64 { return float64(p.Goals) },
	"A":        func(p Player) float64 { return float64(p.Assists) },
	"P":        func(p Player) float64 { return float64(p.Points) },
	"PIM":      func(p Player) float64 { return float64(p.PenaltyMinutes) },
	"PGP":      func(p Player) float64 { return p.PointsPerGame },
	"SPercent": func(p Player) float64 { return p.ShotPercent },
}

// Comparators maps filter operators to their comparison.
var Comparators = map[string]func(a, b float64) bool{
	">":  func(a, b float64) bool { return a > b },
	"<":  func(a, b float64) bool { return a < b },
	"==": func(a, b float64) bool { return a == b },
	">=": func(a, b float64) bool { return a >= b },
	"<=": func(a, b float64) bool { return a <= b },
}

// Clause is one "<property> <operator> <value>" filter condition.
type Clause struct {
	Property string
	Operator string
	Value    float64
}

// Match reports whether p satisfies the clause. An unknown property or
// operator matches nothing.
func (c Clause) Match(p Player) bool {
	stat, ok := StatAccessors[c.Property]
	if !ok {
		return false
	}
	cmp, ok := Comparators[c.Operator]
	if !ok {
		return false
	}
	return cmp(stat(p), c.Value)
}

// ParseFilterExpression splits a comma-separated filter expression into
// clauses. Clauses that are not exactly three space-separated tokens are
// dropped; unparseable or non-finite values become 0.
func ParseFilterExpression(expr string) []Clause {
	var clauses []Clause
	for _, raw := range strings.Split(expr, ",") {
		parts := strings.Split(strings.TrimSpace(raw), " ")
		if len(parts) != 3 {
			continue
		}
		clauses = append(clauses, Clause{
			Property: parts[0],
			Operator: parts[1],
			Value:    ParseFloatOrDefault(parts[2], ""),
		})
	}
	return clauses
}

// Filter returns the players satisfying every clause of expr, in their
// original order. The receiver is never modified.
func (pl PlayerList) Filter(expr string) PlayerList {
	clauses := ParseFilterExpression(expr)

	filtered := make(PlayerList, 0, len(pl))
	for _, p := range pl {
		if matchesAll(p, clauses) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func matchesAll(p Player, clauses []Clause) bool {
	for _, c := range clauses {
		if !c.Match(p) {
			return false
		}
	}
	return true
}

// Sort returns a stably sorted copy ordered by "<property> <asc|desc>".
// A malformed expression or unknown property returns an unsorted copy.
func (pl PlayerList) Sort(expr string) PlayerList {
	sorted := pl.Clone()

	parts := strings.Split(expr, " ")
	if len(parts) != 2 {
		return sorted
	}
	stat, ok := StatAccessors[parts[0]]
	if !ok {
		return sorted
	}
	ascending := strings.EqualFold(parts[1], "asc")

	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return statLess(stat(sorted[i]), stat(sorted[j]))
		}
		return statLess(stat(sorted[j]), stat(sorted[i]))
	})
	return sorted
}

// statLess is a total order on stat values: NaN sorts before every number.
func statLess(a, b float64) bool {
	if math.IsNaN(a) {
		return !math.IsNaN(b)
	}
	return a < b
}

// Clone returns a copy that shares no backing array with pl.
func (pl PlayerList) Clone() PlayerList {
	if pl == nil {
		return nil
	}
	out := make(PlayerList, len(pl))
	copy(out, pl)
	return out
}

// FilterByTeam returns players on a specific team (abbreviation, case-insensitive)
func (pl PlayerList) FilterByTeam(team string) PlayerList {
	var filtered PlayerList
	teamLower := strings.ToLower(strings.TrimSpace(team))

	for _, p := range pl {
		if strings.ToLower(p.Team) == teamLower {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// FilterByPosition returns players listed at a position. "F" matches any forward.
func (pl PlayerList) FilterByPosition(position string) PlayerList {
	var filtered PlayerList
	posLower := strings.ToLower(strings.TrimSpace(position))

	compositePositions := map[string][]string{
		"f": {"c", "lw", "rw", "l", "r"},
	}

	validPositions := []string{posLower}
	if composites, exists := compositePositions[posLower]; exists {
		validPositions = composites
	}

	for _, p := range pl {
		playerPos := strings.ToLower(p.Position)
		for _, validPos := range validPositions {
			if playerPos == validPos {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered
}

// SearchByName returns players whose names contain the search string
func (pl PlayerList) SearchByName(search string) PlayerList {
	var matches PlayerList
	searchLower := strings.ToLower(strings.TrimSpace(search))

	for _, p := range pl {
		if strings.Contains(strings.ToLower(p.Name), searchLower) {
			matches = append(matches, p)
		}
	}
	return matches
}

// GetTopPerformers returns the top N players by points
func (pl PlayerList) GetTopPerformers(n int) PlayerList {
	sorted := pl.Sort("P desc")

	if n > len(sorted) {
		n = len(sorted)
	}
	if n < 0 {
		n = 0
	}
	return sorted[:n]
}

// ParseTopCount reads a top-scorers count. An empty string means
// DefaultTopCount.
func ParseTopCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTopCount, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid player count %q", s)
	}
	if n < 1 {
		return 0, errors.Newf("player count must be positive, got %d", n)
	}
	return n, nil
}

// GroupByTeam returns a map of team abbreviation to players
func (pl PlayerList) GroupByTeam() map[string]PlayerList {
	grouped := make(map[string]PlayerList)

	for _, p := range pl {
		if p.Team != "" {
			grouped[p.Team] = append(grouped[p.Team], p)
		}
	}
	return grouped
}

// Stats represents aggregate statistics for a group of players
type Stats struct {
	Count         int
	Teams         int
	TotalGoals    int
	TotalAssists  int
	TotalPoints   int
	AveragePoints float64
	AveragePGP    float64
	LeadingScorer string
	LeadingPoints int
}

// GetStats returns aggregate statistics for the player list
func (pl PlayerList) GetStats() Stats {
	stats := Stats{Count: len(pl), Teams: len(pl.GroupByTeam())}

	totalPGP := 0.0
	for _, p := range pl {
		stats.TotalGoals += p.Goals
		stats.TotalAssists += p.Assists
		stats.TotalPoints += p.Points
		totalPGP += p.PointsPerGame

		if stats.LeadingScorer == "" || p.Points > stats.LeadingPoints {
			stats.LeadingScorer = p.Name
			stats.LeadingPoints = p.Points
		}
	}

	if stats.Count > 0 {
		stats.AveragePoints = float64(stats.TotalPoints) / float64(stats.Count)
		stats.AveragePGP = totalPGP / float64(stats.Count)
	}

	return stats
}
