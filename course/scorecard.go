/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package course

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/golfscore/internal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrNoParRow = errors.New("no par row found in scorecard")

// ParseScorecard extracts pars from an HTML scorecard. It uses the first
// table with a row whose leading cell reads "Par". When the table also has a
// "Hole" row, only the columns headed by a hole number are used, so Out/In/
// Total columns are skipped; otherwise every numeric cell of the par row is
// taken.
func ParseScorecard(r io.Reader) ([]int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse scorecard: %w", err)
	}

	var pars []int
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		var holeCols map[int]bool
		var parCells []string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := rowCells(tr)
			if len(cells) == 0 {
				return
			}
			switch strings.ToLower(cells[0]) {
			case "hole", "holes", "#":
				holeCols = make(map[int]bool)
				for idx, cell := range cells[1:] {
					if _, err := strconv.Atoi(cell); err == nil {
						holeCols[idx+1] = true
					}
				}
			case "par":
				if parCells == nil {
					parCells = cells
				}
			}
		})
		if parCells == nil {
			return true
		}

		for idx, cell := range parCells[1:] {
			if holeCols != nil && !holeCols[idx+1] {
				continue
			}
			par, err := strconv.Atoi(cell)
			if err != nil {
				continue
			}
			pars = append(pars, par)
		}
		return len(pars) == 0
	})

	if len(pars) == 0 {
		return nil, ErrNoParRow
	}
	return pars, nil
}

func rowCells(tr *goquery.Selection) []string {
	var cells []string
	tr.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}

// FetchScorecard downloads the scorecard pages at urls concurrently and
// builds a course from their par rows, concatenated in argument order. This
// allows a course published as separate front and back nine pages.
func FetchScorecard(ctx context.Context, client *http.Client,
	urls ...string) (Course, error) {

	if len(urls) == 0 {
		return nil, ErrNoHoles
	}
	if client == nil {
		client = http.DefaultClient
	}

	results := make([][]int, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			pars, err := fetchPars(gctx, client, url)
			if err != nil {
				return err
			}
			results[i] = pars
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pars []int
	for _, r := range results {
		pars = append(pars, r...)
	}
	log.Debugf("course.fetch: %v holes from %v page(s)", len(pars), len(urls))

	return New(pars)
}

func fetchPars(ctx context.Context, client *http.Client, url string) ([]int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch scorecard (new): %w", err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch scorecard (do): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
	}

	pars, err := ParseScorecard(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return pars, nil
}
