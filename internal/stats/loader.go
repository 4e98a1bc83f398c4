package stats

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pmurley/nhl-stats/internal/cache"
	"github.com/pmurley/nhl-stats/internal/models"
	"github.com/pmurley/nhl-stats/pkg/logger"
)

// ErrSourceUnavailable is returned when the stats file cannot be opened or read.
var ErrSourceUnavailable = errors.New("stats source unavailable")

const maxLineBytes = 1 << 20

// Loader reads a season stats file into players.
type Loader struct {
	delimiter    rune
	missingToken string
	logger       *logger.Logger
}

type Option func(*Loader)

func WithDelimiter(d rune) Option {
	return func(l *Loader) { l.delimiter = d }
}

func WithMissingToken(token string) Option {
	return func(l *Loader) { l.missingToken = token }
}

func WithLogger(log *logger.Logger) Option {
	return func(l *Loader) { l.logger = log }
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		delimiter:    models.DefaultDelimiter,
		missingToken: models.DefaultMissingToken,
		logger:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadInitialData loads the stats file and stores the players in the cache.
func (l *Loader) LoadInitialData(path string, c *cache.Cache) (models.PlayerList, error) {
	players, err := l.LoadPlayers(path)
	if err != nil {
		return nil, err
	}

	c.SetPlayers(players)
	return players, nil
}

// LoadPlayers reads every data line of the file at path, in file order.
func (l *Loader) LoadPlayers(path string) (models.PlayerList, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "open %q", path), ErrSourceUnavailable)
	}
	defer file.Close()

	players, err := l.LoadFrom(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read %q", path)
	}

	l.logger.Info("Loaded", len(players), "players from", path)
	return players, nil
}

// LoadFrom parses a header line followed by one player per line. Blank lines
// are skipped; malformed lines still yield a (possibly zeroed) player.
func (l *Loader) LoadFrom(r io.Reader) (models.PlayerList, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	players := models.PlayerList{}

	// skip header row
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "read header"), ErrSourceUnavailable)
		}
		return players, nil
	}

	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			l.logger.Debug("Skipping blank line", lineNo)
			continue
		}

		if n := strings.Count(line, string(l.delimiter)) + 1; n != models.FieldCount {
			l.logger.Debug("Line", lineNo, "has", n, "fields, expected", models.FieldCount)
		}

		players = append(players, models.ParsePlayerLine(line, l.delimiter, l.missingToken))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "read line %d", lineNo+1), ErrSourceUnavailable)
	}

	return players, nil
}
