/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mikeb26/golfscore/course"
	"github.com/mikeb26/golfscore/internal"
	"github.com/mikeb26/golfscore/leaderboard"
	"github.com/mikeb26/golfscore/session"
	log "github.com/sirupsen/logrus"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":   handleHelp,
	"play":   handlePlay,
	"course": handleCourse,
}

// urlList collects a repeatable --url flag.
type urlList []string

func (u *urlList) String() string { return strings.Join(*u, ",") }

func (u *urlList) Set(v string) error {
	*u = append(*u, v)
	return nil
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

func handleCourse(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("course", flag.ExitOnError)
	var urls urlList
	fs.Var(&urls, "url", "Scorecard page URL (repeatable, in hole order)")
	bucket := fs.String("cache-bucket", "", "S3 bucket for caching scorecard pages")
	logLevel := fs.String("log-level", "info", "Log level")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	internal.SetupLogging(*logLevel)
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "Please provide at least one --url.")
		fs.Usage()
		os.Exit(1)
	}

	client := internal.NewCachedHttpClient(internal.NewCache(ctx, *bucket),
		internal.ScorecardMaxAge)
	c, err := course.FetchScorecard(ctx, client, urls...)
	if err != nil {
		log.Fatalf("Error importing course: %v", err)
	}
	if err := course.ValidatePars(c.Pars()); err != nil {
		log.Warnf("golfscore.course: %v", err)
	}

	fmt.Printf("%v\n", c)
	fmt.Printf("\nRun '%s play --pars \"%s\"' to play it\n", os.Args[0],
		joinPars(c.Pars()))
}

func handlePlay(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	players := fs.String("players", "", "Comma separated player names")
	pars := fs.String("pars", "", "Course pars, e.g. \"4,4,3,5\"")
	holes := fs.Int("holes", 0, "Play a course of par 4 holes")
	var urls urlList
	fs.Var(&urls, "url", "Scorecard page URL (repeatable, in hole order)")
	date := fs.String("date", "", "Date of the round")
	bucket := fs.String("cache-bucket", "", "S3 bucket for caching scorecard pages")
	logLevel := fs.String("log-level", "warn", "Log level")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	internal.SetupLogging(*logLevel)

	cache := internal.NewCache(ctx, *bucket)
	con := newConsole(ctx, os.Stdin, os.Stdout,
		session.New(session.WithEngine(leaderboard.NewEngine(nil))),
		internal.NewCachedHttpClient(cache, internal.ScorecardMaxAge))

	var setup []string
	if *date != "" {
		setup = append(setup, "date "+*date)
	}
	if *players != "" {
		setup = append(setup, "players "+*players)
	}
	switch {
	case *pars != "":
		setup = append(setup, "pars "+*pars)
	case *holes > 0:
		setup = append(setup, fmt.Sprintf("default %v", *holes))
	case len(urls) > 0:
		setup = append(setup, "url "+strings.Join(urls, " "))
	}
	for _, line := range setup {
		con.exec(line)
	}

	if err := con.run(); err != nil {
		log.Fatalf("golfscore.play: %v", err)
	}
}

func joinPars(pars []int) string {
	var sb strings.Builder
	for i, p := range pars {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, "%v", p)
	}
	return sb.String()
}
