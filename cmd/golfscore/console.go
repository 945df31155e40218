/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/mikeb26/golfscore/course"
	"github.com/mikeb26/golfscore/internal"
	"github.com/mikeb26/golfscore/leaderboard"
	"github.com/mikeb26/golfscore/scorecard"
	"github.com/mikeb26/golfscore/session"
	log "github.com/sirupsen/logrus"
)

// console reads one command per line and drives a session with it.
type console struct {
	ctx    context.Context
	in     *bufio.Scanner
	out    io.Writer
	sess   *session.Session
	client *http.Client
}

type lineHandler func(c *console, arg string)

var lineHandlers map[string]lineHandler

func init() {
	lineHandlers = map[string]lineHandler{
		"players": (*console).players,
		"pars":    (*console).pars,
		"default": (*console).defaultCourse,
		"url":     (*console).importCourse,
		"scores":  (*console).scores,
		"next":    (*console).next,
		"edit":    (*console).edit,
		"board":   (*console).board,
		"card":    (*console).card,
		"date":    (*console).date,
		"help":    (*console).help,
	}
}

func newConsole(ctx context.Context, in io.Reader, out io.Writer,
	sess *session.Session, client *http.Client) *console {

	return &console{
		ctx:    ctx,
		in:     bufio.NewScanner(in),
		out:    out,
		sess:   sess,
		client: client,
	}
}

// run reads commands until quit or end of input.
func (c *console) run() error {
	c.prompt()
	for c.in.Scan() {
		if quit := c.exec(c.in.Text()); quit {
			return nil
		}
		c.prompt()
	}
	return c.in.Err()
}

// exec runs one command line and reports whether the user asked to quit.
func (c *console) exec(line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	if cmd == "" {
		return false
	}
	if cmd == "quit" || cmd == "exit" {
		return true
	}

	hdlr, ok := lineHandlers[cmd]
	if !ok {
		// a bare list of numbers is taken as scores
		st, _ := c.sess.State()
		if (isScoring(st) || st == session.ShowingLeaderboard) && isNumeric(cmd) {
			c.scores(strings.TrimSpace(line))
			return false
		}
		c.printf("Unknown command %q; try help\n", cmd)
		return false
	}
	hdlr(c, arg)

	return false
}

func (c *console) prompt() {
	st, hole := c.sess.State()
	switch st {
	case session.CollectingPlayers:
		c.printf("players> ")
	case session.CollectingCourse:
		c.printf("course> ")
	case session.EnteringScore, session.EditingScore:
		h, _ := c.sess.CurrentHole()
		c.printf("hole %v par %v (%v)> ", hole, h.Par,
			strings.Join(c.sess.Players(), ", "))
	default:
		c.printf("> ")
	}
}

func (c *console) players(arg string) {
	if err := c.sess.SubmitPlayers(strings.Split(arg, ",")); err != nil {
		c.fail("players", err)
		return
	}
	c.printf("Players: %v\n", strings.Join(c.sess.Players(), ", "))
}

func (c *console) pars(arg string) {
	pars, err := course.Parse(arg)
	if err != nil {
		c.fail("pars", err)
		return
	}
	if err := course.ValidatePars(pars); err != nil {
		c.fail("pars", err)
		return
	}
	crs, err := course.New(pars)
	if err != nil {
		c.fail("pars", err)
		return
	}
	c.submitCourse(crs)
}

func (c *console) defaultCourse(arg string) {
	holes := internal.MaxHoles
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n < internal.MinHoles || n > internal.MaxHoles {
			c.printf("Number of holes must be %v-%v\n", internal.MinHoles,
				internal.MaxHoles)
			return
		}
		holes = n
	}
	c.submitCourse(course.Default(holes))
}

func (c *console) importCourse(arg string) {
	urls := strings.Fields(arg)
	if len(urls) == 0 {
		c.printf("Please provide at least one scorecard URL\n")
		return
	}
	crs, err := course.FetchScorecard(c.ctx, c.client, urls...)
	if err != nil {
		c.fail("url", err)
		return
	}
	if err := course.ValidatePars(crs.Pars()); err != nil {
		c.fail("url", err)
		return
	}
	c.submitCourse(crs)
}

func (c *console) submitCourse(crs course.Course) {
	if err := c.sess.SubmitCourse(crs); err != nil {
		c.fail("course", err)
		return
	}
	c.printf("Course: %v\n", crs)
}

func (c *console) scores(arg string) {
	st, _ := c.sess.State()
	if st == session.ShowingLeaderboard {
		if c.sess.IsComplete() {
			c.printf("Every hole is scored; use edit HOLE to change one\n")
			return
		}
		if _, err := c.sess.EnterNextScores(); err != nil {
			c.fail("scores", err)
			return
		}
		st = session.EnteringScore
	}
	if !isScoring(st) {
		c.printf("Scores can't be entered while %v\n", st)
		return
	}

	scores, err := scorecard.ParseHoleScores(c.sess.Players(), arg)
	if err != nil {
		c.fail("scores", err)
		return
	}
	if st == session.EditingScore {
		_, err = c.sess.SubmitEdit(scores)
	} else {
		_, err = c.sess.SubmitScores(scores)
	}
	if err != nil {
		c.fail("scores", err)
		return
	}
	c.board("")
}

func (c *console) next(arg string) {
	hole, err := c.sess.EnterNextScores()
	if err != nil {
		c.fail("next", err)
		return
	}
	if c.sess.IsComplete() {
		c.printf("All holes are scored; re-entering hole %v\n", hole)
	}
}

func (c *console) edit(arg string) {
	hole, err := strconv.Atoi(arg)
	if err != nil {
		c.printf("Usage: edit HOLE\n")
		return
	}
	current, err := c.sess.EditHole(hole)
	if err != nil {
		c.fail("edit", err)
		return
	}
	if len(current) == 0 {
		c.printf("Hole %v has no scores yet\n", hole)
		return
	}
	c.printf("Hole %v currently: %v\n", hole, formatHoleScores(c.sess.Players(),
		current))
}

func (c *console) board(arg string) {
	lb, err := c.sess.Leaderboard()
	if err != nil {
		c.fail("board", err)
		return
	}
	c.printf("%v", leaderboard.BuildLeaderboardOutput(lb))
}

func (c *console) card(arg string) {
	r := c.sess.Snapshot()
	if r.Scores == nil {
		c.printf("No course yet\n")
		return
	}
	player := matchPlayer(r.Players, arg)
	if player == "" {
		c.printf("Unknown player %q; players are %v\n", arg,
			strings.Join(r.Players, ", "))
		return
	}
	c.printf("%v", leaderboard.BuildScorecardOutput(player, r.Scores, r.Course,
		r.Leaderboard()))
}

func (c *console) date(arg string) {
	if err := c.sess.SetPlayedOn(arg); err != nil {
		c.fail("date", err)
		return
	}
	if when := c.sess.Snapshot().PlayedOn; !when.IsZero() {
		c.printf("Round date: %v\n", when.Format("Mon Jan 2 2006"))
	}
}

func (c *console) help(arg string) {
	c.printf("%v", helpText)
}

func (c *console) fail(op string, err error) {
	log.Debugf("golfscore.%v: %v", op, err)
	c.printf("Error: %v\n", err)
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func isScoring(st session.State) bool {
	return st == session.EnteringScore || st == session.EditingScore
}

func isNumeric(s string) bool {
	s = strings.TrimRight(s, ",")
	_, err := strconv.Atoi(s)
	return err == nil
}

// matchPlayer finds a player by case-insensitive name.
func matchPlayer(players []string, name string) string {
	for _, p := range players {
		if strings.EqualFold(p, strings.TrimSpace(name)) {
			return p
		}
	}
	return ""
}

func formatHoleScores(players []string, scores map[string]int) string {
	var parts []string
	for _, p := range players {
		if s, ok := scores[p]; ok {
			parts = append(parts, fmt.Sprintf("%v %v", p, s))
		}
	}
	return strings.Join(parts, ", ")
}
