package console

import (
	"fmt"
	"io"

	"github.com/pmurley/nhl-stats/internal/models"
)

const separator = "--------------------------------------------------------------"

// RenderPlayers writes players as a fixed-width table.
func RenderPlayers(w io.Writer, players models.PlayerList) {
	fmt.Fprintln(w, "\nPlayer Stats:")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "%-25s %-7s %-4s %4s %4s %4s %4s %6s %4s %6s %4s\n",
		"Player", "Team", "Pos", "GP", "G", "A", "P", "+/-", "PIM", "P/GP", "S%")

	for _, p := range players {
		fmt.Fprintf(w, "%-25s %-7s %-4s %4d %4d %4d %4d %6d %4d %6.2f %6.2f\n",
			p.Name, p.Team, p.Position, p.GamesPlayed, p.Goals,
			p.Assists, p.Points, p.PlusMinus, p.PenaltyMinutes, p.PointsPerGame, p.ShotPercent)
	}
	fmt.Fprintln(w, separator)
}

// RenderSummary writes aggregate stats for players.
func RenderSummary(w io.Writer, players models.PlayerList) {
	stats := players.GetStats()

	fmt.Fprintln(w, "\nSeason Summary:")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Players:         %d\n", stats.Count)
	fmt.Fprintf(w, "Teams:           %d\n", stats.Teams)
	fmt.Fprintf(w, "Total goals:     %d\n", stats.TotalGoals)
	fmt.Fprintf(w, "Total assists:   %d\n", stats.TotalAssists)
	fmt.Fprintf(w, "Average points:  %.2f\n", stats.AveragePoints)
	fmt.Fprintf(w, "Average P/GP:    %.2f\n", stats.AveragePGP)
	if stats.LeadingScorer != "" {
		fmt.Fprintf(w, "Leading scorer:  %s (%d)\n", stats.LeadingScorer, stats.LeadingPoints)
	}
	fmt.Fprintln(w, separator)
}
