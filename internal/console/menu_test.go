package console

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/peterh/liner"
	"github.com/pmurley/nhl-stats/internal/cache"
	"github.com/pmurley/nhl-stats/internal/models"
	"github.com/pmurley/nhl-stats/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedPrompter struct {
	answers []string
	prompts []string
	err     error
}

func (p *scriptedPrompter) Prompt(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.answers) == 0 {
		if p.err != nil {
			return "", p.err
		}
		return "", io.EOF
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

type fakeLoader struct {
	players models.PlayerList
	err     error
	calls   int
}

func (l *fakeLoader) LoadInitialData(path string, c *cache.Cache) (models.PlayerList, error) {
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	c.SetPlayers(l.players)
	return l.players, nil
}

func menuPlayers() models.PlayerList {
	return models.PlayerList{
		{Name: "Connor McDavid", Team: "EDM", Position: "C", GamesPlayed: 82, Goals: 41, Assists: 67, Points: 108},
		{Name: "Alex Ovechkin", Team: "WSH", Position: "LW", GamesPlayed: 82, Goals: 49, Assists: 38, Points: 87},
		{Name: "Drew Doughty", Team: "LAK", Position: "D", GamesPlayed: 82, Goals: 10, Assists: 50, Points: 60},
	}
}

func newTestMenu(t *testing.T, opts Options, answers ...string) (*Menu, *bytes.Buffer, *scriptedPrompter, *fakeLoader, *cache.Cache) {
	t.Helper()
	var out bytes.Buffer
	prompter := &scriptedPrompter{answers: answers}
	loader := &fakeLoader{players: menuPlayers()}
	c := cache.New(time.Minute)
	c.SetPlayers(menuPlayers())
	return NewMenu(&out, prompter, logger.NewNop(), c, loader, opts), &out, prompter, loader, c
}

// tableNames returns the player names in rendered table rows, in order.
func tableNames(out string) []string {
	var found []string
	for _, line := range strings.Split(out, "\n") {
		for _, p := range menuPlayers() {
			if strings.HasPrefix(line, p.Name) {
				found = append(found, p.Name)
			}
		}
	}
	return found
}

func TestMenu_ViewThenExit(t *testing.T) {
	m, out, _, _, _ := newTestMenu(t, Options{}, "1", "", "4")

	require.NoError(t, m.Run())
	assert.Contains(t, out.String(), "Select an option:")
	assert.Equal(t, []string{"Connor McDavid", "Alex Ovechkin", "Drew Doughty"}, tableNames(out.String()))
	assert.Contains(t, out.String(), "Exiting program...")
}

func TestMenu_SortWithRawCase(t *testing.T) {
	m, out, _, _, _ := newTestMenu(t, Options{RawCase: true}, "2", "G asc", "", "4")

	require.NoError(t, m.Run())
	assert.Equal(t, []string{"Drew Doughty", "Connor McDavid", "Alex Ovechkin"}, tableNames(out.String()))
}

func TestMenu_LowercasedSortLeavesOrder(t *testing.T) {
	m, out, _, _, _ := newTestMenu(t, Options{}, "2", "G asc", "", "4")

	require.NoError(t, m.Run())
	assert.Equal(t, []string{"Connor McDavid", "Alex Ovechkin", "Drew Doughty"}, tableNames(out.String()))
}

func TestMenu_FilterWithRawCase(t *testing.T) {
	m, out, _, _, c := newTestMenu(t, Options{RawCase: true}, "3", "G > 20, A > 40", "", "4")

	require.NoError(t, m.Run())
	assert.Equal(t, []string{"Connor McDavid"}, tableNames(out.String()))
	assert.Equal(t, 1, c.ViewCount())
}

func TestMenu_LowercasedFilterRejectsAll(t *testing.T) {
	m, out, _, _, _ := newTestMenu(t, Options{}, "3", "G > 20", "", "4")

	require.NoError(t, m.Run())
	assert.Empty(t, tableNames(out.String()))
}

func TestMenu_QueriesDoNotChangeLoadedPlayers(t *testing.T) {
	m, _, _, _, c := newTestMenu(t, Options{RawCase: true}, "2", "G asc", "", "3", "G > 20", "", "4")

	require.NoError(t, m.Run())
	players, found := c.GetPlayers()
	require.True(t, found)
	assert.Equal(t, menuPlayers(), players)
}

func TestMenu_SearchAndSummary(t *testing.T) {
	m, out, _, _, _ := newTestMenu(t, Options{}, "5", "DOUGH", "", "5", "gretzky", "", "6", "", "4")

	require.NoError(t, m.Run())
	assert.Equal(t, []string{"Drew Doughty"}, tableNames(out.String()))
	assert.Contains(t, out.String(), "No player found matching 'gretzky'")
	assert.Contains(t, out.String(), "Leading scorer:  Connor McDavid (108)")
}

func TestMenu_InvalidChoice(t *testing.T) {
	m, out, _, _, _ := newTestMenu(t, Options{}, "42", "", "4")

	require.NoError(t, m.Run())
	assert.Contains(t, out.String(), "Invalid choice. Please select a valid option.")
}

func TestMenu_ReloadAndAutoReload(t *testing.T) {
	m, out, _, loader, c := newTestMenu(t, Options{StatsFile: "stats.csv"}, "7", "", "4")

	require.NoError(t, m.Run())
	assert.Equal(t, 1, loader.calls)
	assert.Contains(t, out.String(), "Reloaded 3 players.")

	c.Flush()
	m2 := NewMenu(out, &scriptedPrompter{answers: []string{"1", "", "4"}}, logger.NewNop(), c, loader, Options{})
	require.NoError(t, m2.Run())
	assert.Equal(t, 2, loader.calls)
}

func TestMenu_ReloadDropsCachedViews(t *testing.T) {
	m, _, _, loader, c := newTestMenu(t, Options{RawCase: true}, "2", "G asc", "", "7", "", "4")

	require.NoError(t, m.Run())
	assert.Equal(t, 1, loader.calls)
	assert.Zero(t, c.ViewCount())
	_, found := c.GetPlayers()
	assert.True(t, found)
}

func TestMenu_ReloadFailure(t *testing.T) {
	m, out, _, loader, c := newTestMenu(t, Options{}, "7", "", "1", "", "4")
	loader.err = errors.New("stats source unavailable")

	require.NoError(t, m.Run())
	assert.Contains(t, out.String(), "Failed to reload data: stats source unavailable")
	assert.Contains(t, out.String(), "Player data is unavailable.")
	assert.Equal(t, 2, loader.calls, "the view after a failed reload retries the load")
	_, found := c.GetPlayers()
	assert.False(t, found)
}

func TestMenu_TopScorers(t *testing.T) {
	m, out, _, _, c := newTestMenu(t, Options{}, "8", "2", "", "4")

	require.NoError(t, m.Run())
	assert.Equal(t, []string{"Connor McDavid", "Alex Ovechkin"}, tableNames(out.String()))
	assert.Equal(t, 1, c.ViewCount())
}

func TestMenu_TopScorersDefaultAndInvalidCount(t *testing.T) {
	m, out, _, _, _ := newTestMenu(t, Options{}, "8", "zero", "", "8", "", "", "4")

	require.NoError(t, m.Run())
	assert.Contains(t, out.String(), "Please enter a positive number.")
	assert.Equal(t, []string{"Connor McDavid", "Alex Ovechkin", "Drew Doughty"}, tableNames(out.String()))
}

func TestMenu_PlayersByTeam(t *testing.T) {
	m, out, _, _, _ := newTestMenu(t, Options{}, "9", "WSH", "", "9", "NYR", "", "4")

	require.NoError(t, m.Run())
	assert.Equal(t, []string{"Alex Ovechkin"}, tableNames(out.String()))
	assert.Contains(t, out.String(), "No players found for team 'nyr'")
}

func TestMenu_PlayersByPosition(t *testing.T) {
	m, out, _, _, _ := newTestMenu(t, Options{}, "10", "F", "", "10", "G", "", "4")

	require.NoError(t, m.Run())
	assert.Equal(t, []string{"Connor McDavid", "Alex Ovechkin"}, tableNames(out.String()))
	assert.Contains(t, out.String(), "No players found at position 'g'")
}

func TestMenu_EndOfInputExitsCleanly(t *testing.T) {
	for _, err := range []error{io.EOF, liner.ErrPromptAborted} {
		m, out, prompter, _, _ := newTestMenu(t, Options{}, "2")
		prompter.err = err

		require.NoError(t, m.Run())
		assert.Contains(t, out.String(), "Exiting program...")
	}
}

func TestMenu_PromptErrorIsReturned(t *testing.T) {
	m, _, prompter, _, _ := newTestMenu(t, Options{})
	prompter.err = errors.New("terminal gone")

	err := m.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal gone")
}

func TestMenu_ClearScreen(t *testing.T) {
	m, out, _, _, _ := newTestMenu(t, Options{ClearScreen: true}, "4")

	require.NoError(t, m.Run())
	assert.True(t, strings.HasPrefix(out.String(), clearScreen))
}
