/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package leaderboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mikeb26/golfscore/course"
	"github.com/mikeb26/golfscore/scorecard"
)

const streakMarker = "*"

// BuildLeaderboardOutput formats standings into an aligned text table.
func BuildLeaderboardOutput(lb Leaderboard) string {
	if len(lb.Standings) == 0 {
		return "No players in this round\n"
	}

	type row struct{ pos, player, score, toPar, thru, skins string }
	rows := []row{{"Pos", "Player", "Score", "To Par", "Thru", "Skins"}}
	anyStreak := false
	for _, st := range lb.Standings {
		player := st.Player
		if st.StreakBonus {
			player += " " + streakMarker
			anyStreak = true
		}
		rows = append(rows, row{
			pos:    fmt.Sprintf("%v.", st.Rank),
			player: player,
			score:  strconv.Itoa(st.Total),
			toPar:  FormatToPar(st.ToPar),
			thru:   strconv.Itoa(st.HolesPlayed),
			skins:  strconv.Itoa(st.Skins),
		})
	}

	// Compute column widths
	var w [6]int
	for _, r := range rows {
		for i, cell := range []string{r.pos, r.player, r.score, r.toPar, r.thru, r.skins} {
			if l := len(cell); l > w[i] {
				w[i] = l
			}
		}
	}

	var sb strings.Builder
	for _, r := range rows {
		// names left aligned, numbers right aligned
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %*s  %*s  %*s  %*s\n",
			w[0], r.pos, w[1], r.player, w[2], r.score, w[3], r.toPar,
			w[4], r.thru, w[5], r.skins))
	}
	if anyStreak {
		sb.WriteString(fmt.Sprintf("\n%v eagle and two birdies within three holes\n",
			streakMarker))
	}
	if lb.CarryOver > 0 {
		sb.WriteString(fmt.Sprintf("\n%v skin(s) carried over\n", lb.CarryOver))
	}

	return sb.String()
}

// BuildScorecardOutput formats one player's hole-by-hole card: par, strokes
// and any skins won on each hole.
func BuildScorecardOutput(player string, scores *scorecard.Table,
	c course.Course, lb Leaderboard) string {

	labels := []string{"Hole", "Par", "Score", "Skins"}
	cols := make([][]string, 0, c.Len()+1)
	cols = append(cols, labels)

	for _, h := range c {
		s := scores.Get(player, h.Number)
		skins := ""
		if skin, ok := lb.SkinOn(h.Number); ok && skin.Player == player {
			skins = strconv.Itoa(skin.Value)
		}
		cols = append(cols, []string{
			strconv.Itoa(h.Number),
			strconv.Itoa(h.Par),
			s.String(),
			skins,
		})
	}

	var total string
	if st, ok := lb.Standing(player); ok {
		total = fmt.Sprintf("%v (%v) thru %v", st.Total, FormatToPar(st.ToPar),
			st.HolesPlayed)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s's Scorecard\n", player))
	for r := range labels {
		sb.WriteString(fmt.Sprintf("%-*s", len("Skins"), cols[0][r]))
		for _, col := range cols[1:] {
			sb.WriteString(fmt.Sprintf(" %2s", col[r]))
		}
		sb.WriteString("\n")
	}
	if total != "" {
		sb.WriteString(fmt.Sprintf("Total: %s\n", total))
	}

	return sb.String()
}
