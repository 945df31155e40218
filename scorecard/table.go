/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package scorecard holds the per-player, per-hole scores of a round.
package scorecard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mikeb26/golfscore/course"
)

var (
	ErrHoleRange     = errors.New("hole out of range")
	ErrIncomplete    = errors.New("missing score for player")
	ErrInvalidScore  = errors.New("score must be a positive integer")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrScoreCount    = errors.New("wrong number of scores")
)

// Table maps each player to their scores, indexed by hole number minus one.
// A Table is not safe for concurrent use.
type Table struct {
	players []string
	holes   int
	rows    map[string][]Score
}

// New returns an empty table for the given players and number of holes.
func New(players []string, holes int) *Table {
	t := &Table{
		players: append([]string(nil), players...),
		holes:   holes,
		rows:    make(map[string][]Score, len(players)),
	}
	for _, p := range players {
		t.rows[p] = make([]Score, holes)
	}
	return t
}

// FromRows builds a table from existing rows, e.g. a partially played round.
// Rows shorter than holes are padded with Unscored; players without a row get
// an empty one. Rows for players not listed, rows longer than holes, and
// recorded scores that are not positive are rejected.
func FromRows(players []string, holes int,
	rows map[string][]Score) (*Table, error) {

	t := New(players, holes)
	for p, row := range rows {
		dst, ok := t.rows[p]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownPlayer, p)
		}
		if len(row) > holes {
			return nil, fmt.Errorf("%w: %q has %v scores for %v holes",
				ErrHoleRange, p, len(row), holes)
		}
		for i, s := range row {
			if s.Recorded && s.Strokes <= 0 {
				return nil, fmt.Errorf("%w: %q scored %v on hole %v",
					ErrInvalidScore, p, s.Strokes, i+1)
			}
		}
		copy(dst, row)
	}
	return t, nil
}

func (t *Table) Players() []string {
	return append([]string(nil), t.players...)
}

func (t *Table) Holes() int { return t.holes }

// RecordHole writes one score per player for the given 1-based hole,
// overwriting any earlier value. The map must hold a positive score for
// every player in the table and nothing else; otherwise the call is rejected
// and the table is left unchanged.
func (t *Table) RecordHole(hole int, scoresByPlayer map[string]int) error {
	if hole < 1 || hole > t.holes {
		return fmt.Errorf("%w: %v not in 1-%v", ErrHoleRange, hole, t.holes)
	}
	for _, p := range t.players {
		strokes, ok := scoresByPlayer[p]
		if !ok {
			return fmt.Errorf("%w %q on hole %v", ErrIncomplete, p, hole)
		}
		if strokes <= 0 {
			return fmt.Errorf("%w: %q scored %v on hole %v", ErrInvalidScore,
				p, strokes, hole)
		}
	}
	for p := range scoresByPlayer {
		if _, ok := t.rows[p]; !ok {
			return fmt.Errorf("%w %q", ErrUnknownPlayer, p)
		}
	}

	for p, strokes := range scoresByPlayer {
		t.rows[p][hole-1] = Strokes(strokes)
	}
	return nil
}

// Get returns the score of player on the 1-based hole, or Unscored.
func (t *Table) Get(player string, hole int) Score {
	if t == nil {
		return Unscored
	}
	row := t.rows[player]
	if hole < 1 || hole > len(row) {
		return Unscored
	}
	return row[hole-1]
}

// Row returns a copy of the player's scores. It is nil for an unknown player
// or a nil table.
func (t *Table) Row(player string) []Score {
	if t == nil {
		return nil
	}
	row, ok := t.rows[player]
	if !ok {
		return nil
	}
	return append([]Score(nil), row...)
}

// HoleScores returns the recorded scores for the 1-based hole, keyed by
// player. Players without a score on that hole are absent.
func (t *Table) HoleScores(hole int) map[string]int {
	scores := make(map[string]int)
	for _, p := range t.players {
		if s := t.Get(p, hole); s.Recorded {
			scores[p] = s.Strokes
		}
	}
	return scores
}

// IsHoleScored reports whether any player has a score on the 1-based hole.
func (t *Table) IsHoleScored(hole int) bool {
	for _, p := range t.players {
		if t.Get(p, hole).Recorded {
			return true
		}
	}
	return false
}

func (t *Table) isHoleComplete(hole int) bool {
	for _, p := range t.players {
		if !t.Get(p, hole).Recorded {
			return false
		}
	}
	return true
}

// FirstUnscoredHole returns the number of the first hole of c on which at
// least one player has no score. When every hole is fully scored it returns
// the last hole's number rather than a sentinel; use IsComplete to tell the
// two cases apart.
func (t *Table) FirstUnscoredHole(c course.Course) int {
	for i := 0; i < c.Len(); i++ {
		if !t.isHoleComplete(i + 1) {
			return i + 1
		}
	}
	return c.Len()
}

// IsComplete reports whether every player has a score on every hole of c.
func (t *Table) IsComplete(c course.Course) bool {
	for i := 0; i < c.Len(); i++ {
		if !t.isHoleComplete(i + 1) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		players: append([]string(nil), t.players...),
		holes:   t.holes,
		rows:    make(map[string][]Score, len(t.rows)),
	}
	for p, row := range t.rows {
		out.rows[p] = append([]Score(nil), row...)
	}
	return out
}

// ParseHoleScores reads one score per player, in player order, separated by
// commas and/or whitespace (e.g. "4 5 3").
func ParseHoleScores(players []string, text string) (map[string]int, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) != len(players) {
		return nil, fmt.Errorf("%w: got %v, want %v (%v)", ErrScoreCount,
			len(fields), len(players), strings.Join(players, ", "))
	}
	scores := make(map[string]int, len(players))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q for %v", ErrInvalidScore, f, players[i])
		}
		scores[players[i]] = n
	}
	return scores, nil
}
