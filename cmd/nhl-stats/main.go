package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pmurley/nhl-stats/internal/cache"
	"github.com/pmurley/nhl-stats/internal/config"
	"github.com/pmurley/nhl-stats/internal/console"
	"github.com/pmurley/nhl-stats/internal/models"
	"github.com/pmurley/nhl-stats/internal/stats"
	"github.com/pmurley/nhl-stats/pkg/logger"
	"github.com/spf13/cobra"
)

type flags struct {
	file     string
	logLevel string
	rawCase  bool
	noClear  bool
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:          "nhl-stats",
		Short:        "Browse, sort and filter NHL season player stats",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(f)
			if err != nil {
				return err
			}
			defer app.log.Sync()

			prompter := console.NewLinePrompter()
			defer prompter.Close()

			menu := console.NewMenu(out, prompter, app.log, app.cache, app.loader, console.Options{
				StatsFile:   app.cfg.StatsFile,
				RawCase:     f.rawCase,
				ClearScreen: !f.noClear,
			})
			return menu.Run()
		},
	}

	root.PersistentFlags().StringVarP(&f.file, "file", "f", "", "stats file to load (overrides STATS_FILE)")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	root.PersistentFlags().BoolVar(&f.rawCase, "raw-case", false, "pass expressions through without lowercasing them")
	root.Flags().BoolVar(&f.noClear, "no-clear", false, "do not clear the screen between menus")

	root.AddCommand(
		queryCmd(out, f, "view", "Print every player", cobra.NoArgs,
			func(players models.PlayerList, _ string) models.PlayerList { return players }),
		queryCmd(out, f, "sort <property> <asc|desc>", "Print players sorted by a stat", cobra.MinimumNArgs(1),
			models.PlayerList.Sort),
		queryCmd(out, f, "filter <expression>", "Print players matching a filter such as 'G > 10, A > 5'", cobra.MinimumNArgs(1),
			models.PlayerList.Filter),
		queryCmd(out, f, "top [n]", "Print the n highest scorers by points", cobra.MatchAll(cobra.MaximumNArgs(1), topCountArg),
			func(players models.PlayerList, expr string) models.PlayerList {
				n, _ := models.ParseTopCount(expr)
				return players.GetTopPerformers(n)
			}),
		queryCmd(out, f, "team <abbr>", "Print the players on one team", cobra.ExactArgs(1),
			models.PlayerList.FilterByTeam),
		queryCmd(out, f, "position <pos>", "Print the players at a position (F matches any forward)", cobra.ExactArgs(1),
			models.PlayerList.FilterByPosition),
	)

	return root
}

// queryCmd builds a one-shot command that loads the file, applies query to
// the joined arguments and prints the resulting table.
func queryCmd(out io.Writer, f *flags, use, short string, args cobra.PositionalArgs, query func(models.PlayerList, string) models.PlayerList) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, argv []string) error {
			app, err := setup(f)
			if err != nil {
				return err
			}
			defer app.log.Sync()

			players, found := app.cache.GetPlayers()
			if !found {
				return fmt.Errorf("no players loaded from %s", app.cfg.StatsFile)
			}

			expr := strings.Join(argv, " ")
			if !f.rawCase {
				expr = strings.ToLower(expr)
			}
			console.RenderPlayers(out, query(players, expr))
			return nil
		},
	}
}

// topCountArg rejects a count that ParseTopCount would not accept, so the
// query itself never sees a bad one.
func topCountArg(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	_, err := models.ParseTopCount(args[0])
	return err
}

type session struct {
	cfg    *config.Config
	log    *logger.Logger
	cache  *cache.Cache
	loader *stats.Loader
}

// setup loads configuration, applies flag overrides and loads the stats file.
// A missing stats file aborts startup.
func setup(f *flags) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if f.file != "" {
		cfg.StatsFile = f.file
	}
	if f.logLevel != "" {
		cfg.LogLevel = strings.ToLower(f.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg.LogLevel)

	loader := stats.NewLoader(
		stats.WithDelimiter(cfg.DelimiterRune()),
		stats.WithMissingToken(cfg.MissingToken),
		stats.WithLogger(log),
	)
	dataCache := cache.New(cfg.CacheDuration)

	if _, err := loader.LoadInitialData(cfg.StatsFile, dataCache); err != nil {
		log.Error("Failed to load player stats:", err)
		return nil, fmt.Errorf("failed to load player stats: %w", err)
	}

	return &session{cfg: cfg, log: log, cache: dataCache, loader: loader}, nil
}
