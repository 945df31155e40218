/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/mikeb26/golfscore/scorecard"
	"github.com/mikeb26/golfscore/session"
)

type opt = discordgo.ApplicationCommandInteractionDataOption

// countingTransport fails every request and counts them.
type countingTransport struct {
	requests int
}

func (c *countingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	c.requests++
	return nil, errors.New("offline")
}

func strOpt(name, value string) *opt {
	return &opt{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

func intOpt(name string, value int) *opt {
	return &opt{Name: name, Type: discordgo.ApplicationCommandOptionInteger,
		Value: float64(value)}
}

func golfInteraction(channelID string, sub GolfSubCommand,
	opts ...*opt) *discordgo.Interaction {

	return &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: channelID,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: string(GolfCmd),
			Options: []*opt{
				{
					Name:    string(sub),
					Type:    discordgo.ApplicationCommandOptionSubCommand,
					Options: opts,
				},
			},
		},
	}
}

func TestGolfRound(t *testing.T) {
	ctx := context.Background()
	transport := &countingTransport{}
	b := newBot(&http.Client{Transport: transport})

	steps := []struct {
		sub       GolfSubCommand
		opts      []*opt
		want      string
		broadcast bool
	}{
		{sub: GolfNewCmd, opts: []*opt{strOpt("players", "Ann, Bob")}, want: "New round for Ann, Bob"},
		{sub: GolfCourseCmd, opts: []*opt{strOpt("pars", "4 4 4")}, want: "Enter hole 1 (par 4) scores for Ann, Bob"},
		{sub: GolfScoreCmd, opts: []*opt{strOpt("scores", "4 5")}, want: "Hole 1 recorded.", broadcast: true},
		{sub: GolfScoreCmd, opts: []*opt{strOpt("scores", "3 3")}, want: "Hole 2 recorded.", broadcast: true},
		{sub: GolfNextCmd, want: "Enter hole 3 (par 4) scores"},
		{sub: GolfScoreCmd, opts: []*opt{strOpt("scores", "5 4")}, want: "Pos  Player", broadcast: true},
		{sub: GolfEditCmd, opts: []*opt{intOpt("hole", 1)}, want: "Hole 1 currently: Ann 4, Bob 5"},
		{sub: GolfScoreCmd, opts: []*opt{strOpt("scores", "3 5")}, want: "Hole 1 recorded.", broadcast: true},
		{sub: GolfEditCmd, opts: []*opt{intOpt("hole", 2), strOpt("scores", "4 4")}, want: "Hole 2 recorded.", broadcast: true},
		{sub: GolfNextCmd, want: "Every hole is scored."},
		{sub: GolfLeaderboardCmd, opts: nil, want: "Skins", broadcast: true},
		{sub: GolfCardCmd, opts: []*opt{strOpt("player", "bob")}, want: "Bob's Scorecard", broadcast: true},
		{sub: GolfDateCmd, opts: []*opt{strOpt("when", "2026-10-18")}, want: "Round date: Sun Oct 18 2026"},
		{sub: GolfHelpCmd, want: "/golf new"},
	}
	for _, step := range steps {
		resp := b.golfCmdHandler(ctx, golfInteraction("chan1", step.sub, step.opts...))
		if resp == nil || resp.Data == nil {
			t.Fatalf("%v: nil response", step.sub)
		}
		if resp.Type != discordgo.InteractionResponseChannelMessageWithSource {
			t.Errorf("%v: response type %v", step.sub, resp.Type)
		}
		if !strings.Contains(resp.Data.Content, step.want) {
			t.Errorf("%v: content %q does not contain %q", step.sub,
				resp.Data.Content, step.want)
		}
		if broadcast := resp.Data.Flags == 0; broadcast != step.broadcast {
			t.Errorf("%v: broadcast = %v; want %v", step.sub, broadcast,
				step.broadcast)
		}
	}

	if transport.requests != 0 {
		t.Errorf("scoring a round made %v HTTP requests", transport.requests)
	}

	r := b.round("chan1").Snapshot()
	if got := r.Scores.Get("Ann", 1); got != scorecard.Strokes(3) {
		t.Errorf("Ann hole 1 = %v; want 3", got)
	}
	if got := r.Scores.Get("Bob", 2); got != scorecard.Strokes(4) {
		t.Errorf("Bob hole 2 = %v; want 4", got)
	}
}

func TestScoreRefusedWhenComplete(t *testing.T) {
	ctx := context.Background()
	b := newBot(nil)

	b.golfCmdHandler(ctx, golfInteraction("c", GolfNewCmd, strOpt("players", "Ann,Bob")))
	b.golfCmdHandler(ctx, golfInteraction("c", GolfCourseCmd, strOpt("pars", "4 3")))
	b.golfCmdHandler(ctx, golfInteraction("c", GolfScoreCmd, strOpt("scores", "4 5")))
	resp := b.golfCmdHandler(ctx, golfInteraction("c", GolfScoreCmd, strOpt("scores", "3 6")))
	if !strings.Contains(resp.Data.Content, "Hole 2 recorded.") {
		t.Fatalf("unexpected content %q", resp.Data.Content)
	}

	resp = b.golfCmdHandler(ctx, golfInteraction("c", GolfScoreCmd, strOpt("scores", "9 9")))
	if !strings.Contains(resp.Data.Content, "Every hole is scored") ||
		!strings.Contains(resp.Data.Content, "/golf edit") {
		t.Errorf("unexpected content %q", resp.Data.Content)
	}
	if resp.Data.Flags != discordgo.MessageFlagsEphemeral {
		t.Errorf("refusal should be ephemeral")
	}

	r := b.round("c").Snapshot()
	if got := r.Scores.Get("Ann", 2); got != scorecard.Strokes(3) {
		t.Errorf("Ann hole 2 = %v; want 3", got)
	}
	if got := r.Scores.Get("Bob", 2); got != scorecard.Strokes(6) {
		t.Errorf("Bob hole 2 = %v; want 6", got)
	}
	if st, _ := b.round("c").State(); st != session.ShowingLeaderboard {
		t.Errorf("state = %v", st)
	}
}

func TestGolfErrors(t *testing.T) {
	ctx := context.Background()
	b := newBot(nil)

	resp := b.golfCmdHandler(ctx, golfInteraction("c", GolfScoreCmd, strOpt("scores", "4 4")))
	if !strings.Contains(resp.Data.Content, "no round in this channel") {
		t.Errorf("unexpected content %q", resp.Data.Content)
	}

	resp = b.golfCmdHandler(ctx, golfInteraction("c", GolfNewCmd, strOpt("players", "Ann")))
	if !strings.Contains(resp.Data.Content, "too few players") {
		t.Errorf("unexpected content %q", resp.Data.Content)
	}
	if b.round("c") != nil {
		t.Errorf("failed new must not create a round")
	}

	b.golfCmdHandler(ctx, golfInteraction("c", GolfNewCmd, strOpt("players", "Ann,Bob")))
	cases := []struct {
		sub  GolfSubCommand
		opts []*opt
		want string
	}{
		{GolfScoreCmd, []*opt{strOpt("scores", "4 4")}, "Set the course"},
		{GolfCourseCmd, nil, "please provide pars"},
		{GolfCourseCmd, []*opt{strOpt("pars", "4 9")}, "par out of range"},
		{GolfCourseCmd, []*opt{intOpt("holes", 19)}, "number of holes must be 1-18"},
		{GolfLeaderboardCmd, nil, "no course yet"},
		{GolfCourseCmd, []*opt{intOpt("holes", 2)}, "2 holes, par 8"},
		{GolfScoreCmd, []*opt{strOpt("scores", "4")}, "wrong number of scores"},
		{GolfEditCmd, []*opt{intOpt("hole", 1)}, "not allowed in current state"},
		{GolfScoreCmd, []*opt{strOpt("scores", "4 4")}, "Hole 1 recorded."},
		{GolfEditCmd, []*opt{intOpt("hole", 5)}, "hole out of range"},
		{GolfCardCmd, []*opt{strOpt("player", "Zed")}, "unknown player"},
		{GolfDateCmd, []*opt{strOpt("when", "someday")}, "unable to parse round date"},
	}
	for _, c := range cases {
		resp := b.golfCmdHandler(ctx, golfInteraction("c", c.sub, c.opts...))
		if !strings.Contains(resp.Data.Content, c.want) {
			t.Errorf("%v %v: content %q does not contain %q", c.sub, len(c.opts),
				resp.Data.Content, c.want)
		}
	}

	if st, _ := b.round("c").State(); st != session.ShowingLeaderboard {
		t.Errorf("state = %v", st)
	}
}

func TestRoundsPerChannel(t *testing.T) {
	ctx := context.Background()
	b := newBot(nil)

	b.golfCmdHandler(ctx, golfInteraction("a", GolfNewCmd, strOpt("players", "Ann,Bob")))
	b.golfCmdHandler(ctx, golfInteraction("b", GolfNewCmd, strOpt("players", "Cy,Dee")))

	if got := b.round("a").Players(); got[0] != "Ann" {
		t.Errorf("channel a players = %v", got)
	}
	if got := b.round("b").Players(); got[0] != "Cy" {
		t.Errorf("channel b players = %v", got)
	}

	first := b.round("a")
	b.golfCmdHandler(ctx, golfInteraction("a", GolfNewCmd, strOpt("players", "Eve,Fay")))
	if b.round("a") == first {
		t.Errorf("new should replace the channel's round")
	}
}

func TestGolfCommandDefinition(t *testing.T) {
	cmd := golfCommand()
	if cmd.Name != string(GolfCmd) {
		t.Errorf("name = %v", cmd.Name)
	}
	defined := make(map[string]bool)
	for _, o := range cmd.Options {
		defined[o.Name] = true
	}
	for sub := range golfSubCmdHdlrs {
		if !defined[string(sub)] {
			t.Errorf("subcommand %v has a handler but no definition", sub)
		}
	}
	if len(cmd.Options) != len(golfSubCmdHdlrs) {
		t.Errorf("%v definitions for %v handlers", len(cmd.Options),
			len(golfSubCmdHdlrs))
	}
	if cmdHash(cmd) != cmdHash(golfCommand()) {
		t.Errorf("command hash is not stable")
	}
}

func TestTruncateContent(t *testing.T) {
	long := strings.Repeat("é", 3000)
	got := truncateContent(long)
	if n := utf8.RuneCountInString(got); n != 1988 {
		t.Errorf("truncated length = %v", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("missing ellipsis")
	}
	if truncateContent("short") != "short" {
		t.Errorf("short content changed")
	}
}

func TestTableResponseFitsOneMessage(t *testing.T) {
	header := "Hole 18 recorded.\n"
	table := strings.Repeat("Pos  Player  Score\n", 200)

	resp := tableResponse(header, table)
	content := resp.Data.Content
	if n := utf8.RuneCountInString(content); n > msgLimit {
		t.Errorf("content is %v runes; limit %v", n, msgLimit)
	}
	if !strings.HasPrefix(content, header+"```\n") || !strings.HasSuffix(content, "...```") {
		t.Errorf("content not fenced after truncation: %q...", content[:40])
	}

	short := tableResponse(header, "A 1\n")
	if short.Data.Content != header+"```\nA 1\n```" {
		t.Errorf("short content = %q", short.Data.Content)
	}
}
