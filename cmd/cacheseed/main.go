/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mikeb26/golfscore/course"
	"github.com/mikeb26/golfscore/internal"
	log "github.com/sirupsen/logrus"
)

// this program exists just to seed the http cache with course scorecards

func main() {
	bucket := flag.String("cache-bucket", internal.CacheBucket, "S3 bucket to seed")
	delay := flag.Duration("delay", 2*time.Second, "Pause between courses")
	flag.Parse()
	internal.SetupLogging("info")

	ctx := context.Background()
	in := io.Reader(os.Stdin)
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatalf("cacheseed.main: %v", err)
		}
		defer f.Close()
		in = f
	}
	courses, err := readCourseList(in)
	if err != nil {
		log.Fatalf("cacheseed.main: %v", err)
	}

	client := internal.NewCachedHttpClient(internal.NewCache(ctx, *bucket),
		internal.ScorecardMaxAge)
	for i, urls := range courses {
		if i > 0 {
			time.Sleep(*delay) // avoid pegging course sites
		}
		c, err := course.FetchScorecard(ctx, client, urls...)
		if err != nil {
			// best effort
			log.Warnf("cacheseed.main: %v: %v", urls, err)
			continue
		}

		fmt.Printf("seeded %v (%v)\n", urls[0], c)
	}
}

// readCourseList reads one course per line: its scorecard page URLs in hole
// order, separated by whitespace. Blank lines and # comments are skipped.
func readCourseList(r io.Reader) ([][]string, error) {
	var courses [][]string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line, _, _ := strings.Cut(scanner.Text(), "#")
		if urls := strings.Fields(line); len(urls) > 0 {
			courses = append(courses, urls)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read course list: %w", err)
	}
	return courses, nil
}
