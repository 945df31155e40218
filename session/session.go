/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package session drives the workflow of a single round: collect players,
// collect the course, then alternate between entering or editing a hole's
// scores and viewing the leaderboard. There is no terminal state.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mikeb26/golfscore/course"
	"github.com/mikeb26/golfscore/internal"
	"github.com/mikeb26/golfscore/leaderboard"
	"github.com/mikeb26/golfscore/scorecard"
	log "github.com/sirupsen/logrus"
)

var (
	ErrWrongState      = errors.New("not allowed in current state")
	ErrTooFewPlayers   = errors.New("too few players")
	ErrDuplicatePlayer = errors.New("duplicate player name")
)

type State int

const (
	CollectingPlayers State = iota
	CollectingCourse
	EnteringScore
	ShowingLeaderboard
	EditingScore
)

func (s State) String() string {
	switch s {
	case CollectingPlayers:
		return "collecting players"
	case CollectingCourse:
		return "collecting course"
	case EnteringScore:
		return "entering scores"
	case ShowingLeaderboard:
		return "leaderboard"
	case EditingScore:
		return "editing scores"
	default:
		return "?"
	}
}

// Round is an immutable snapshot of a session's data.
type Round struct {
	ID       string
	PlayedOn time.Time
	Players  []string
	Course   course.Course
	Scores   *scorecard.Table
}

// Leaderboard computes the round's leaderboard.
func (r Round) Leaderboard() leaderboard.Leaderboard {
	return leaderboard.Compute(r.Players, r.Scores, r.Course)
}

// Session holds one round. All methods are safe for concurrent use; calls
// are serialized.
type Session struct {
	mu sync.Mutex

	id       string
	state    State
	hole     int
	playedOn time.Time
	players  []string
	course   course.Course
	scores   *scorecard.Table
	engine   *leaderboard.Engine
}

type Option func(*Session)

// WithEngine computes leaderboards through e instead of directly.
func WithEngine(e *leaderboard.Engine) Option {
	return func(s *Session) { s.engine = e }
}

func New(opts ...Option) *Session {
	s := &Session{
		id:    uuid.New().String(),
		state: CollectingPlayers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string { return s.id }

// State returns the current state and, while entering or editing scores,
// the hole being scored (0 otherwise).
func (s *Session) State() (State, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state, s.hole
}

// CurrentHole returns the hole whose scores are being entered or edited.
func (s *Session) CurrentHole() (course.Hole, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != EnteringScore && s.state != EditingScore {
		return course.Hole{}, false
	}
	return s.course.Hole(s.hole)
}

// Players returns the round's players in entry order.
func (s *Session) Players() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.players...)
}

// SubmitPlayers sets the players. Names are trimmed and blanks dropped; at
// least internal.MinPlayers distinct names must remain.
func (s *Session) SubmitPlayers(names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(CollectingPlayers); err != nil {
		return err
	}
	players, err := ValidatePlayers(names)
	if err != nil {
		return err
	}

	s.players = players
	s.state = CollectingCourse
	s.logger().Debugf("session.players: %v", strings.Join(players, ", "))

	return nil
}

// SubmitCourse sets the course and starts scoring at hole 1.
func (s *Session) SubmitCourse(c course.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(CollectingCourse); err != nil {
		return err
	}
	if c.Len() == 0 {
		return course.ErrNoHoles
	}

	s.course = append(course.Course(nil), c...)
	s.scores = scorecard.New(s.players, c.Len())
	s.state = EnteringScore
	s.hole = 1
	s.logger().Debugf("session.course: %v", c)

	return nil
}

// SubmitScores records the scores of the hole being entered, shows the
// leaderboard and returns the hole recorded.
func (s *Session) SubmitScores(scores map[string]int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(EnteringScore); err != nil {
		return 0, err
	}
	return s.record(scores)
}

// EditHole starts editing the given 1-based hole from the leaderboard and
// returns its current scores; players with no score yet are absent.
func (s *Session) EditHole(hole int) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(ShowingLeaderboard); err != nil {
		return nil, err
	}
	if _, ok := s.course.Hole(hole); !ok {
		return nil, fmt.Errorf("%w: %v not in 1-%v", scorecard.ErrHoleRange,
			hole, s.course.Len())
	}

	s.state = EditingScore
	s.hole = hole

	return s.scores.HoleScores(hole), nil
}

// SubmitEdit overwrites the scores of the hole being edited, returns to the
// leaderboard and returns the hole recorded.
func (s *Session) SubmitEdit(scores map[string]int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(EditingScore); err != nil {
		return 0, err
	}
	return s.record(scores)
}

// EnterNextScores moves from the leaderboard to entering the first hole
// that is not fully scored (the last hole once all are) and returns it.
func (s *Session) EnterNextScores() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(ShowingLeaderboard); err != nil {
		return 0, err
	}

	s.hole = s.scores.FirstUnscoredHole(s.course)
	s.state = EnteringScore

	return s.hole, nil
}

// SetPlayedOn records the date of the round from free-form text such as
// "2026-10-18" or "Oct 18 2026". Empty text clears it.
func (s *Session) SetPlayedOn(text string) error {
	when, err := internal.ParseDateOrZero(text)
	if err != nil {
		return fmt.Errorf("unable to parse round date %q: %w", text, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.playedOn = when

	return nil
}

// Snapshot returns a copy of the round that later updates do not affect.
func (s *Session) Snapshot() Round {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

// Leaderboard computes the leaderboard of the current scores. It fails
// until the course has been set.
func (s *Session) Leaderboard() (leaderboard.Leaderboard, error) {
	s.mu.Lock()
	r := s.snapshot()
	s.mu.Unlock()

	if r.Scores == nil {
		return leaderboard.Leaderboard{}, fmt.Errorf("%w: no course yet",
			ErrWrongState)
	}
	if s.engine != nil {
		return s.engine.Compute(r.Players, r.Scores, r.Course), nil
	}
	return r.Leaderboard(), nil
}

// IsComplete reports whether every hole has a score from every player.
func (s *Session) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.scores != nil && s.scores.IsComplete(s.course)
}

func (s *Session) snapshot() Round {
	r := Round{
		ID:       s.id,
		PlayedOn: s.playedOn,
		Players:  append([]string(nil), s.players...),
		Course:   append(course.Course(nil), s.course...),
	}
	if s.scores != nil {
		r.Scores = s.scores.Clone()
	}
	return r
}

func (s *Session) record(scores map[string]int) (int, error) {
	hole := s.hole
	if err := s.scores.RecordHole(hole, scores); err != nil {
		return 0, err
	}
	s.logger().WithField("hole", hole).Debugf("session.record: %v", scores)
	s.state = ShowingLeaderboard
	s.hole = 0

	return hole, nil
}

func (s *Session) expect(want State) error {
	if s.state != want {
		return fmt.Errorf("%w: %v (want %v)", ErrWrongState, s.state, want)
	}
	return nil
}

func (s *Session) logger() *log.Entry {
	return log.WithField("round", s.id)
}

// ValidatePlayers trims names, drops blank ones and checks that at least
// internal.MinPlayers unique names remain.
func ValidatePlayers(names []string) ([]string, error) {
	var players []string
	seen := make(map[string]bool)
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if seen[n] {
			return nil, fmt.Errorf("%w %q", ErrDuplicatePlayer, n)
		}
		seen[n] = true
		players = append(players, n)
	}
	if len(players) < internal.MinPlayers {
		return nil, fmt.Errorf("%w: need at least %v, got %v", ErrTooFewPlayers,
			internal.MinPlayers, len(players))
	}
	return players, nil
}
