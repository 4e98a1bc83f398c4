package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/peterh/liner"
	"github.com/pmurley/nhl-stats/internal/cache"
	"github.com/pmurley/nhl-stats/internal/models"
	"github.com/pmurley/nhl-stats/pkg/logger"
)

const clearScreen = "\033[H\033[2J"

// Loader reloads the stats file into the cache.
type Loader interface {
	LoadInitialData(path string, c *cache.Cache) (models.PlayerList, error)
}

// Options configures a Menu. RawCase passes expressions through without
// lowercasing them; ClearScreen clears the terminal before each menu.
type Options struct {
	StatsFile   string
	RawCase     bool
	ClearScreen bool
}

type Menu struct {
	out      io.Writer
	prompter Prompter
	logger   *logger.Logger
	cache    *cache.Cache
	loader   Loader
	opts     Options
	commands map[string]command
}

type command struct {
	label string
	run   func() error
}

// errExit ends the menu loop without an error.
var errExit = errors.New("exit")

func NewMenu(out io.Writer, prompter Prompter, log *logger.Logger, c *cache.Cache, loader Loader, opts Options) *Menu {
	m := &Menu{
		out:      out,
		prompter: prompter,
		logger:   log,
		cache:    c,
		loader:   loader,
		opts:     opts,
		commands: make(map[string]command),
	}
	m.registerCommands()
	return m
}

var menuOrder = []string{"1", "2", "3", "5", "8", "9", "10", "6", "7", "4"}

func (m *Menu) registerCommands() {
	m.commands["1"] = command{"View Player Stats", m.handleView}
	m.commands["2"] = command{"Sort Player Stats", m.handleSort}
	m.commands["3"] = command{"Filter Player Stats", m.handleFilter}
	m.commands["4"] = command{"Exit", m.handleExit}
	m.commands["5"] = command{"Search Players by Name", m.handleSearch}
	m.commands["6"] = command{"Season Summary", m.handleSummary}
	m.commands["7"] = command{"Reload Stats File", m.handleReload}
	m.commands["8"] = command{"Top Scorers", m.handleTop}
	m.commands["9"] = command{"Players by Team", m.handleTeam}
	m.commands["10"] = command{"Players by Position", m.handlePosition}
}

// Run shows the menu until the user exits or input ends.
func (m *Menu) Run() error {
	for {
		if m.opts.ClearScreen {
			fmt.Fprint(m.out, clearScreen)
		}
		m.printMenu()

		choice, err := m.read("Enter your choice: ")
		if err != nil {
			return m.endOfInput(err)
		}

		cmd, ok := m.commands[choice]
		if !ok {
			fmt.Fprintln(m.out, "Invalid choice. Please select a valid option.")
		} else if err := cmd.run(); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return m.endOfInput(err)
		}

		if _, err := m.prompter.Prompt("\nPress Enter to return to the menu."); err != nil {
			return m.endOfInput(err)
		}
	}
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out, "Select an option:")
	for _, key := range menuOrder {
		fmt.Fprintf(m.out, "%s. %s\n", key, m.commands[key].label)
	}
}

// read prompts and normalizes the answer the way every expression is
// normalized before it reaches the query engine.
func (m *Menu) read(prompt string) (string, error) {
	line, err := m.prompter.Prompt(prompt)
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if !m.opts.RawCase {
		line = strings.ToLower(line)
	}
	return line, nil
}

func (m *Menu) endOfInput(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
		fmt.Fprintln(m.out, "\nExiting program...")
		return nil
	}
	return errors.Wrap(err, "read input")
}

// ensurePlayersLoaded returns the cached players, reloading the file if the
// cache was flushed.
func (m *Menu) ensurePlayersLoaded() (models.PlayerList, error) {
	players, found := m.cache.GetPlayers()
	if found {
		return players, nil
	}

	m.logger.Info("Player cache empty, reloading", m.opts.StatsFile)
	return m.loader.LoadInitialData(m.opts.StatsFile, m.cache)
}

func (m *Menu) withPlayers(fn func(models.PlayerList)) error {
	players, err := m.ensurePlayersLoaded()
	if err != nil {
		m.logger.Error("Failed to load player data:", err)
		fmt.Fprintln(m.out, "Player data is unavailable.")
		return nil
	}
	fn(players)
	return nil
}

func (m *Menu) handleView() error {
	return m.withPlayers(func(players models.PlayerList) {
		RenderPlayers(m.out, players)
	})
}

func (m *Menu) handleSort() error {
	expr, err := m.read("\nEnter sort column (e.g., 'G') and direction (e.g., 'asc' or 'desc'): ")
	if err != nil {
		return err
	}

	return m.withPlayers(func(players models.PlayerList) {
		sorted := m.cache.View("sort:"+expr, func() models.PlayerList {
			return players.Sort(expr)
		})
		m.logger.Debug("Sorted", len(sorted), "players by", expr)
		RenderPlayers(m.out, sorted)
	})
}

func (m *Menu) handleFilter() error {
	expr, err := m.read("\nEnter filter expression (e.g., 'GP > 10, P > 10'): ")
	if err != nil {
		return err
	}

	return m.withPlayers(func(players models.PlayerList) {
		filtered := m.cache.View("filter:"+expr, func() models.PlayerList {
			return players.Filter(expr)
		})
		m.logger.Debug("Filter", expr, "matched", len(filtered), "players")
		RenderPlayers(m.out, filtered)
	})
}

func (m *Menu) handleSearch() error {
	name, err := m.read("\nEnter part of a player name: ")
	if err != nil {
		return err
	}

	return m.withPlayers(func(players models.PlayerList) {
		matches := players.SearchByName(name)
		if len(matches) == 0 {
			fmt.Fprintf(m.out, "No player found matching '%s'\n", name)
			return
		}
		RenderPlayers(m.out, matches)
	})
}

func (m *Menu) handleTop() error {
	answer, err := m.read(fmt.Sprintf("\nHow many players? (default %d): ", models.DefaultTopCount))
	if err != nil {
		return err
	}
	n, err := models.ParseTopCount(answer)
	if err != nil {
		fmt.Fprintln(m.out, "Please enter a positive number.")
		return nil
	}

	return m.withPlayers(func(players models.PlayerList) {
		top := m.cache.View("top:"+strconv.Itoa(n), func() models.PlayerList {
			return players.GetTopPerformers(n)
		})
		RenderPlayers(m.out, top)
	})
}

func (m *Menu) handleTeam() error {
	team, err := m.read("\nEnter team abbreviation (e.g., 'EDM'): ")
	if err != nil {
		return err
	}

	return m.withPlayers(func(players models.PlayerList) {
		matches := players.FilterByTeam(team)
		if len(matches) == 0 {
			fmt.Fprintf(m.out, "No players found for team '%s'\n", team)
			return
		}
		RenderPlayers(m.out, matches)
	})
}

func (m *Menu) handlePosition() error {
	pos, err := m.read("\nEnter position (C, LW, RW, D or F for any forward): ")
	if err != nil {
		return err
	}

	return m.withPlayers(func(players models.PlayerList) {
		matches := players.FilterByPosition(pos)
		if len(matches) == 0 {
			fmt.Fprintf(m.out, "No players found at position '%s'\n", pos)
			return
		}
		RenderPlayers(m.out, matches)
	})
}

func (m *Menu) handleSummary() error {
	return m.withPlayers(func(players models.PlayerList) {
		RenderSummary(m.out, players)
	})
}

// handleReload drops everything cached before reading the file again, so a
// failed reload leaves the cache empty and the next query retries the load.
func (m *Menu) handleReload() error {
	m.cache.Flush()
	players, err := m.loader.LoadInitialData(m.opts.StatsFile, m.cache)
	if err != nil {
		m.logger.Error("Failed to reload stats file:", err)
		fmt.Fprintln(m.out, "Failed to reload data: "+err.Error())
		return nil
	}
	fmt.Fprintf(m.out, "Reloaded %d players.\n", len(players))
	return nil
}

func (m *Menu) handleExit() error {
	fmt.Fprintln(m.out, "Exiting program...")
	return errExit
}
