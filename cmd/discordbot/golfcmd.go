/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/mikeb26/golfscore/course"
	"github.com/mikeb26/golfscore/internal"
	"github.com/mikeb26/golfscore/leaderboard"
	"github.com/mikeb26/golfscore/scorecard"
	"github.com/mikeb26/golfscore/session"
	log "github.com/sirupsen/logrus"
)

type GolfSubCommand string

const (
	GolfHelpCmd        GolfSubCommand = "help"
	GolfNewCmd         GolfSubCommand = "new"
	GolfCourseCmd      GolfSubCommand = "course"
	GolfScoreCmd       GolfSubCommand = "score"
	GolfEditCmd        GolfSubCommand = "edit"
	GolfNextCmd        GolfSubCommand = "next"
	GolfLeaderboardCmd GolfSubCommand = "leaderboard"
	GolfCardCmd        GolfSubCommand = "card"
	GolfDateCmd        GolfSubCommand = "date"
)

//go:embed help.md
var helpText string

type subCmdHandler func(b *bot, ctx context.Context, channelID string,
	opts options) *discordgo.InteractionResponse

var golfSubCmdHdlrs = map[GolfSubCommand]subCmdHandler{
	GolfHelpCmd:        (*bot).helpCmdHandler,
	GolfNewCmd:         (*bot).newCmdHandler,
	GolfCourseCmd:      (*bot).courseCmdHandler,
	GolfScoreCmd:       (*bot).scoreCmdHandler,
	GolfEditCmd:        (*bot).editCmdHandler,
	GolfNextCmd:        (*bot).nextCmdHandler,
	GolfLeaderboardCmd: (*bot).leaderboardCmdHandler,
	GolfCardCmd:        (*bot).cardCmdHandler,
	GolfDateCmd:        (*bot).dateCmdHandler,
}

// bot holds one round per channel.
type bot struct {
	mu     sync.Mutex
	rounds map[string]*session.Session
	engine *leaderboard.Engine
	client *http.Client
}

// newBot returns a bot that imports courses through client. Leaderboards
// are memoized in process memory.
func newBot(client *http.Client) *bot {
	return &bot{
		rounds: make(map[string]*session.Session),
		engine: leaderboard.NewEngine(nil),
		client: client,
	}
}

func (b *bot) round(channelID string) *session.Session {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.rounds[channelID]
}

func (b *bot) setRound(channelID string, sess *session.Session) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rounds[channelID] = sess
}

// options indexes a subcommand's options by name.
type options map[string]*discordgo.ApplicationCommandInteractionDataOption

func (o options) str(name string) string {
	if opt, ok := o[name]; ok && opt.Type == discordgo.ApplicationCommandOptionString {
		return strings.TrimSpace(opt.StringValue())
	}
	return ""
}

func (o options) integer(name string) (int, bool) {
	if opt, ok := o[name]; ok && opt.Type == discordgo.ApplicationCommandOptionInteger {
		return int(opt.IntValue()), true
	}
	return 0, false
}

func (b *bot) golfCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := (*bot).helpCmdHandler
	opts := make(options)
	if len(data.Options) > 0 {
		if h, ok := golfSubCmdHdlrs[GolfSubCommand(data.Options[0].Name)]; ok {
			hdlr = h
		}
		for _, opt := range data.Options[0].Options {
			opts[opt.Name] = opt
		}
	}
	return hdlr(b, ctx, inter.ChannelID, opts)
}

func newResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

func textResponse(format string, args ...any) *discordgo.InteractionResponse {
	resp := newResponse()
	resp.Data.Content = truncateContent(fmt.Sprintf(format, args...))
	return resp
}

// tableResponse posts monospace output to the whole channel. The table is
// cut so that header, fences and table together fit in one message.
func tableResponse(header string, table string) *discordgo.InteractionResponse {
	const fences = "```\n```"
	room := msgLimit - utf8.RuneCountInString(header) - len(fences)

	resp := newResponse()
	resp.Data.Content = fmt.Sprintf("%v```\n%s```", header, truncateRunes(table, room))
	resp.Data.Flags = 0
	return resp
}

func errorResponse(op string, sess *session.Session,
	err error) *discordgo.InteractionResponse {

	log.Debugf("discordbot.%v: %v", op, err)
	if sess == nil {
		return textResponse("Error: %v", err)
	}
	return textResponse("Error: %v\n%v", err, nextStep(sess))
}

// nextStep tells the user what the round is waiting for.
func nextStep(sess *session.Session) string {
	st, hole := sess.State()
	switch st {
	case session.CollectingPlayers:
		return "Add players with `/golf new`."
	case session.CollectingCourse:
		return "Set the course with `/golf course`."
	case session.EnteringScore:
		h, _ := sess.CurrentHole()
		return fmt.Sprintf("Enter hole %v (par %v) scores for %v with `/golf score`.",
			hole, h.Par, strings.Join(sess.Players(), ", "))
	case session.EditingScore:
		h, _ := sess.CurrentHole()
		return fmt.Sprintf("Enter the new hole %v (par %v) scores for %v with `/golf score`.",
			hole, h.Par, strings.Join(sess.Players(), ", "))
	default:
		return "Enter the next hole with `/golf score` or fix one with `/golf edit`."
	}
}

var errNoRound = errors.New("no round in this channel; start one with `/golf new`")

func (b *bot) helpCmdHandler(ctx context.Context, channelID string,
	opts options) *discordgo.InteractionResponse {

	return textResponse("%v", helpText)
}

func (b *bot) newCmdHandler(ctx context.Context, channelID string,
	opts options) *discordgo.InteractionResponse {

	sess := session.New(session.WithEngine(b.engine))
	if err := sess.SubmitPlayers(strings.Split(opts.str("players"), ",")); err != nil {
		return errorResponse("new", nil, err)
	}
	b.setRound(channelID, sess)
	log.WithField("round", sess.ID()).Infof("discordbot.new: channel:%v players:%v",
		channelID, sess.Players())

	return textResponse("New round for %v.\n%v",
		strings.Join(sess.Players(), ", "), nextStep(sess))
}

func (b *bot) courseCmdHandler(ctx context.Context, channelID string,
	opts options) *discordgo.InteractionResponse {

	sess := b.round(channelID)
	if sess == nil {
		return errorResponse("course", nil, errNoRound)
	}

	var crs course.Course
	var err error
	holes, haveHoles := opts.integer("holes")
	switch {
	case opts.str("pars") != "":
		crs, err = parsCourse(opts.str("pars"))
	case opts.str("url") != "":
		crs, err = course.FetchScorecard(ctx, b.client, strings.Fields(opts.str("url"))...)
		if err == nil {
			err = course.ValidatePars(crs.Pars())
		}
	case haveHoles:
		if holes < internal.MinHoles || holes > internal.MaxHoles {
			err = fmt.Errorf("number of holes must be %v-%v", internal.MinHoles,
				internal.MaxHoles)
		}
		crs = course.Default(holes)
	default:
		err = fmt.Errorf("please provide pars, holes or a scorecard url")
	}
	if err == nil {
		err = sess.SubmitCourse(crs)
	}
	if err != nil {
		return errorResponse("course", sess, err)
	}

	return textResponse("Course: %v\n%v", crs, nextStep(sess))
}

func parsCourse(text string) (course.Course, error) {
	pars, err := course.Parse(text)
	if err != nil {
		return nil, err
	}
	if err := course.ValidatePars(pars); err != nil {
		return nil, err
	}
	return course.New(pars)
}

func (b *bot) scoreCmdHandler(ctx context.Context, channelID string,
	opts options) *discordgo.InteractionResponse {

	sess := b.round(channelID)
	if sess == nil {
		return errorResponse("score", nil, errNoRound)
	}

	st, _ := sess.State()
	if st == session.ShowingLeaderboard {
		if sess.IsComplete() {
			return textResponse("Every hole is scored; use `/golf edit hole:N scores:...` to change one.")
		}
		if _, err := sess.EnterNextScores(); err != nil {
			return errorResponse("score", sess, err)
		}
	}
	return b.submit(sess, opts.str("scores"))
}

// submit records the hole being entered or edited and posts the leaderboard.
func (b *bot) submit(sess *session.Session,
	text string) *discordgo.InteractionResponse {

	st, _ := sess.State()
	var hole int
	scores, err := scorecard.ParseHoleScores(sess.Players(), text)
	if err == nil {
		switch st {
		case session.EnteringScore:
			hole, err = sess.SubmitScores(scores)
		case session.EditingScore:
			hole, err = sess.SubmitEdit(scores)
		default:
			err = fmt.Errorf("%w: %v", session.ErrWrongState, st)
		}
	}
	if err != nil {
		return errorResponse("score", sess, err)
	}

	lb, err := sess.Leaderboard()
	if err != nil {
		return errorResponse("score", sess, err)
	}
	return tableResponse(fmt.Sprintf("Hole %v recorded.\n", hole),
		leaderboard.BuildLeaderboardOutput(lb))
}

func (b *bot) editCmdHandler(ctx context.Context, channelID string,
	opts options) *discordgo.InteractionResponse {

	sess := b.round(channelID)
	if sess == nil {
		return errorResponse("edit", nil, errNoRound)
	}
	hole, ok := opts.integer("hole")
	if !ok {
		return errorResponse("edit", sess, fmt.Errorf("please provide a hole"))
	}

	current, err := sess.EditHole(hole)
	if err != nil {
		return errorResponse("edit", sess, err)
	}
	if text := opts.str("scores"); text != "" {
		return b.submit(sess, text)
	}

	var parts []string
	for _, p := range sess.Players() {
		if s, ok := current[p]; ok {
			parts = append(parts, fmt.Sprintf("%v %v", p, s))
		}
	}
	if len(parts) == 0 {
		return textResponse("Hole %v has no scores yet.\n%v", hole, nextStep(sess))
	}
	return textResponse("Hole %v currently: %v\n%v", hole,
		strings.Join(parts, ", "), nextStep(sess))
}

func (b *bot) nextCmdHandler(ctx context.Context, channelID string,
	opts options) *discordgo.InteractionResponse {

	sess := b.round(channelID)
	if sess == nil {
		return errorResponse("next", nil, errNoRound)
	}
	if st, _ := sess.State(); st == session.ShowingLeaderboard {
		if _, err := sess.EnterNextScores(); err != nil {
			return errorResponse("next", sess, err)
		}
	}
	if sess.IsComplete() {
		return textResponse("Every hole is scored.\n%v", nextStep(sess))
	}
	return textResponse("%v", nextStep(sess))
}

func (b *bot) leaderboardCmdHandler(ctx context.Context, channelID string,
	opts options) *discordgo.InteractionResponse {

	sess := b.round(channelID)
	if sess == nil {
		return errorResponse("leaderboard", nil, errNoRound)
	}
	lb, err := sess.Leaderboard()
	if err != nil {
		return errorResponse("leaderboard", sess, err)
	}

	header := ""
	if when := sess.Snapshot().PlayedOn; !when.IsZero() {
		header = fmt.Sprintf("**%v**\n", when.Format("Mon Jan 2 2006"))
	}
	return tableResponse(header, leaderboard.BuildLeaderboardOutput(lb))
}

func (b *bot) cardCmdHandler(ctx context.Context, channelID string,
	opts options) *discordgo.InteractionResponse {

	sess := b.round(channelID)
	if sess == nil {
		return errorResponse("card", nil, errNoRound)
	}
	r := sess.Snapshot()
	if r.Scores == nil {
		return errorResponse("card", sess, fmt.Errorf("no course yet"))
	}

	name := opts.str("player")
	for _, p := range r.Players {
		if strings.EqualFold(p, name) {
			return tableResponse("", leaderboard.BuildScorecardOutput(p, r.Scores,
				r.Course, r.Leaderboard()))
		}
	}
	return errorResponse("card", sess, fmt.Errorf("%w %q", scorecard.ErrUnknownPlayer,
		name))
}

func (b *bot) dateCmdHandler(ctx context.Context, channelID string,
	opts options) *discordgo.InteractionResponse {

	sess := b.round(channelID)
	if sess == nil {
		return errorResponse("date", nil, errNoRound)
	}
	if err := sess.SetPlayedOn(opts.str("when")); err != nil {
		return errorResponse("date", sess, err)
	}
	when := sess.Snapshot().PlayedOn
	if when.IsZero() {
		return textResponse("Round date cleared.")
	}
	return textResponse("Round date: %v", when.Format("Mon Jan 2 2006"))
}

func golfCommand() *discordgo.ApplicationCommand {
	stringOpt := func(name, desc string, required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        name,
			Description: desc,
			Required:    required,
		}
	}
	intOpt := func(name, desc string, required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        name,
			Description: desc,
			Required:    required,
		}
	}
	subCmd := func(name GolfSubCommand, desc string,
		opts ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {

		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        string(name),
			Description: desc,
			Options:     opts,
		}
	}

	return &discordgo.ApplicationCommand{
		Name:        string(GolfCmd),
		Description: "Golf round scoring; try /golf help to start",
		Options: []*discordgo.ApplicationCommandOption{
			subCmd(GolfHelpCmd, "Show usage for golf"),
			subCmd(GolfNewCmd, "Start a new round in this channel",
				stringOpt("players", "Comma separated player names", true)),
			subCmd(GolfCourseCmd, "Set the course for the round",
				stringOpt("pars", "Par of each hole, e.g. 4 4 3 5", false),
				intOpt("holes", "Number of par 4 holes", false),
				stringOpt("url", "Scorecard page(s) to import pars from", false)),
			subCmd(GolfScoreCmd, "Enter scores for the current hole",
				stringOpt("scores", "One score per player in player order", true)),
			subCmd(GolfEditCmd, "Change the scores of a hole",
				intOpt("hole", "Hole number", true),
				stringOpt("scores", "New scores in player order", false)),
			subCmd(GolfNextCmd, "Show which hole is up next"),
			subCmd(GolfLeaderboardCmd, "Post the leaderboard"),
			subCmd(GolfCardCmd, "Post a player's scorecard",
				stringOpt("player", "Player name", true)),
			subCmd(GolfDateCmd, "Set the date of the round",
				stringOpt("when", "Date the round was played", true)),
		},
	}
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
const msgLimit = 2000

func truncateContent(s string) string {
	return truncateRunes(s, msgLimit-12) // keep space for newlines and markdown
}

// truncateRunes cuts s so that it, plus a trailing "...", is at most limit
// runes long.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	keep := limit - len("...")
	if keep < 0 {
		keep = 0
	}
	return fmt.Sprintf("%v...", string(runes[:keep]))
}
