/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gregjones/httpcache"
	"github.com/mikeb26/golfscore/internal"
	"github.com/mikeb26/golfscore/leaderboard"
	"github.com/mikeb26/golfscore/scorecard"
	"github.com/mikeb26/golfscore/session"
)

func runConsole(t *testing.T, input string, client *http.Client) (*session.Session, string) {
	t.Helper()
	var out bytes.Buffer
	sess := session.New(session.WithEngine(leaderboard.NewEngine(nil)))
	con := newConsole(context.Background(), strings.NewReader(input), &out, sess,
		client)
	if err := con.run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	return sess, out.String()
}

func TestConsoleRound(t *testing.T) {
	input := strings.Join([]string{
		"players Ann, Bob",
		"pars 4 4 4",
		"scores 4 5",
		"3 3",
		"next",
		"scores 5 4",
		"edit 1",
		"scores 3 5",
		"card ann",
		"quit",
		"scores 9 9",
	}, "\n")

	sess, out := runConsole(t, input, nil)

	for _, want := range []string{
		"Players: Ann, Bob",
		"Course: 3 holes, par 12: 4 4 4",
		"Pos  Player",
		"Hole 1 currently: Ann 4, Bob 5",
		"Ann's Scorecard",
		"hole 3 par 4 (Ann, Bob)> ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	r := sess.Snapshot()
	if got := r.Scores.Get("Ann", 1); got != scorecard.Strokes(3) {
		t.Errorf("Ann hole 1 = %v; want 3", got)
	}
	if got := r.Scores.Get("Ann", 3); got != scorecard.Strokes(5) {
		t.Errorf("Ann hole 3 = %v; want 5 (input after quit must be ignored)", got)
	}
	if st, _ := sess.State(); st != session.ShowingLeaderboard {
		t.Errorf("state = %v", st)
	}
}

func TestConsoleScoresRefusedWhenComplete(t *testing.T) {
	input := strings.Join([]string{
		"players Ann, Bob",
		"pars 4 3",
		"scores 4 5",
		"scores 3 6",
		"scores 9 9",
		"9 9",
	}, "\n")

	sess, out := runConsole(t, input, nil)

	if n := strings.Count(out, "Every hole is scored; use edit HOLE"); n != 2 {
		t.Errorf("expected 2 refusals, got %v:\n%s", n, out)
	}
	if !strings.Contains(out, "hole 1 par 4 (Ann, Bob)> ") {
		t.Errorf("prompt missing par:\n%s", out)
	}
	r := sess.Snapshot()
	if got := r.Scores.Get("Ann", 2); got != scorecard.Strokes(3) {
		t.Errorf("Ann hole 2 = %v; want 3", got)
	}
	if got := r.Scores.Get("Bob", 2); got != scorecard.Strokes(6) {
		t.Errorf("Bob hole 2 = %v; want 6", got)
	}
	if st, _ := sess.State(); st != session.ShowingLeaderboard {
		t.Errorf("state = %v", st)
	}
}

func TestConsoleErrorsKeepGoing(t *testing.T) {
	input := strings.Join([]string{
		"players Ann",
		"players Ann, Ann",
		"players Ann, Bob",
		"pars 4 7",
		"default 30",
		"default 2",
		"scores 4",
		"scores 4 x",
		"bogus",
		"card Zed",
		"scores 4 4",
	}, "\n")

	sess, out := runConsole(t, input, nil)

	for _, want := range []string{
		"too few players",
		"duplicate player name",
		"Number of holes must be 1-18",
		"Unknown command \"bogus\"",
		"Unknown player \"Zed\"",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "Error:") < 4 {
		t.Errorf("expected at least 4 errors:\n%s", out)
	}

	r := sess.Snapshot()
	if r.Course.Len() != 2 {
		t.Errorf("course has %v holes; want 2", r.Course.Len())
	}
	if got := r.Scores.Get("Bob", 1); got != scorecard.Strokes(4) {
		t.Errorf("Bob hole 1 = %v; want 4", got)
	}
}

func TestConsoleImportCourse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<table><tr><td>Hole</td><td>1</td><td>2</td></tr>`+
			`<tr><td>Par</td><td>3</td><td>5</td></tr></table>`)
	}))
	defer srv.Close()

	client := internal.NewCachedHttpClient(httpcache.NewMemoryCache(),
		internal.ScorecardMaxAge)
	input := "players Ann, Bob\nurl " + srv.URL + "\n"
	sess, out := runConsole(t, input, client)

	if !strings.Contains(out, "Course: 2 holes, par 8: 3 5") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if st, hole := sess.State(); st != session.EnteringScore || hole != 1 {
		t.Errorf("state = %v/%v", st, hole)
	}
}

func TestUrlList(t *testing.T) {
	var u urlList
	u.Set("a")
	u.Set("b")
	if u.String() != "a,b" {
		t.Errorf("urlList = %q", u.String())
	}
	if got := joinPars([]int{4, 3, 5}); got != "4,3,5" {
		t.Errorf("joinPars = %q", got)
	}
}
