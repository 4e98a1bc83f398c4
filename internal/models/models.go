package models

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	DefaultDelimiter    = ','
	DefaultMissingToken = "--"
)

// Source column positions in a stats line.
const (
	colName = iota
	colTeam
	colPosition
	colGamesPlayed
	colGoals
	colAssists
	colPoints
	colPlusMinus
	colPenaltyMinutes
	colPointsPerGame
	colPowerPlayGoals
	colPowerPlayPoints
	colShortHandedGoals
	colShortHandedPoints
	colGameWinningGoals
	colOvertimeGoals
	colShots
	colShotPercent
	colTimeOnIcePerGame // consumed and discarded so Shifts/GP and FOW% stay in their own columns
	colShiftsPerGame
	colFaceoffWinPercent

	FieldCount
)

// Player is one player's single-season stat line.
type Player struct {
	Name     string
	Team     string
	Position string

	GamesPlayed       int
	Goals             int
	Assists           int
	Points            int
	PlusMinus         int
	PenaltyMinutes    int
	PowerPlayGoals    int
	PowerPlayPoints   int
	ShortHandedGoals  int
	ShortHandedPoints int
	GameWinningGoals  int
	OvertimeGoals     int
	Shots             int

	PointsPerGame     float64
	ShotPercent       float64
	TimeOnIcePerGame  float64 // TOI/GP is an mm:ss duration in the source and is not decoded; always 0
	ShiftsPerGame     float64
	FaceoffWinPercent float64
}

// ParseNumericOrDefault converts token with parse, mapping the missing-value
// sentinel to "0" first. Any parse failure yields zero.
func ParseNumericOrDefault[T int | float64](token, sentinel string, zero T, parse func(string) (T, error)) T {
	if token == sentinel {
		token = "0"
	}
	v, err := parse(token)
	if err != nil {
		return zero
	}
	return v
}

func ParseIntOrDefault(token, sentinel string) int {
	return ParseNumericOrDefault(token, sentinel, 0, parseInt)
}

func ParseFloatOrDefault(token, sentinel string) float64 {
	return ParseNumericOrDefault(token, sentinel, 0.0, parseFloat)
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}

var errNotFinite = errors.New("not a finite number")

// parseFloat accepts finite numbers only; "NaN" and "Inf" are failures.
func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Wrapf(errNotFinite, "%q", s)
	}
	return v, nil
}

// SplitFields tokenizes a line on a single delimiter with no quoting, trimming
// each field. The result always has at least FieldCount entries; absent
// trailing fields are empty strings.
func SplitFields(line string, delimiter rune) []string {
	raw := strings.Split(line, string(delimiter))
	n := len(raw)
	if n < FieldCount {
		n = FieldCount
	}

	fields := make([]string, n)
	for i, f := range raw {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}

// ParsePlayerLine parses one data line into a Player. It never fails: short
// lines and malformed numbers fall back to empty strings and zeros.
func ParsePlayerLine(line string, delimiter rune, sentinel string) Player {
	f := SplitFields(line, delimiter)
	atoi := func(col int) int { return ParseIntOrDefault(f[col], sentinel) }
	atof := func(col int) float64 { return ParseFloatOrDefault(f[col], sentinel) }

	return Player{
		Name:     f[colName],
		Team:     f[colTeam],
		Position: f[colPosition],

		GamesPlayed:       atoi(colGamesPlayed),
		Goals:             atoi(colGoals),
		Assists:           atoi(colAssists),
		Points:            atoi(colPoints),
		PlusMinus:         atoi(colPlusMinus),
		PenaltyMinutes:    atoi(colPenaltyMinutes),
		PointsPerGame:     atof(colPointsPerGame),
		PowerPlayGoals:    atoi(colPowerPlayGoals),
		PowerPlayPoints:   atoi(colPowerPlayPoints),
		ShortHandedGoals:  atoi(colShortHandedGoals),
		ShortHandedPoints: atoi(colShortHandedPoints),
		GameWinningGoals:  atoi(colGameWinningGoals),
		OvertimeGoals:     atoi(colOvertimeGoals),
		Shots:             atoi(colShots),
		ShotPercent:       atof(colShotPercent),
		TimeOnIcePerGame:  0,
		ShiftsPerGame:     atof(colShiftsPerGame),
		FaceoffWinPercent: atof(colFaceoffWinPercent),
	}
}
