/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package leaderboard derives standings, skins and streak bonuses from a
// round's scores. Every function here is pure: the full leaderboard is
// recomputed from its inputs on each call.
package leaderboard

import (
	"sort"

	"github.com/mikeb26/golfscore/course"
	"github.com/mikeb26/golfscore/scorecard"
)

// Standing is one player's row of the leaderboard.
type Standing struct {
	Rank        int    `json:"rank"`
	Player      string `json:"player"`
	Total       int    `json:"total"`
	ParPlayed   int    `json:"parPlayed"`
	HolesPlayed int    `json:"holesPlayed"`
	ToPar       int    `json:"toPar"`
	Skins       int    `json:"skins"`
	StreakBonus bool   `json:"streakBonus"`
}

// Skin is a hole won outright. Value includes holes carried into it.
type Skin struct {
	Hole   int    `json:"hole"`
	Player string `json:"player"`
	Value  int    `json:"value"`
}

type Leaderboard struct {
	Standings []Standing `json:"standings"`
	Skins     []Skin     `json:"skins"`

	// CarryOver counts the trailing holes with no outright winner. These
	// are not credited to anyone.
	CarryOver int `json:"carryOver"`
}

// Compute builds the leaderboard for players, in their given order, from
// scores over course c. Players are ranked by total strokes, lowest first;
// equal totals keep their relative input order.
func Compute(players []string, scores *scorecard.Table,
	c course.Course) Leaderboard {

	skins, carry := ComputeSkins(players, scores, c)
	won := make(map[string]int)
	for _, s := range skins {
		won[s.Player] += s.Value
	}

	standings := make([]Standing, 0, len(players))
	for _, p := range players {
		row := scores.Row(p)
		st := Totals(row, c)
		st.Player = p
		st.Skins = won[p]
		st.StreakBonus = HasStreakBonus(row, c)
		standings = append(standings, st)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Total < standings[j].Total
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}

	return Leaderboard{
		Standings: standings,
		Skins:     skins,
		CarryOver: carry,
	}
}

// Totals sums the recorded scores in row. ParPlayed is the par of the first
// HolesPlayed holes of c by position, not of the holes actually scored, so
// ToPar is only exact when holes are scored in order.
func Totals(row []scorecard.Score, c course.Course) Standing {
	var st Standing
	for _, s := range row {
		if !s.Recorded {
			continue
		}
		st.Total += s.Strokes
		st.HolesPlayed++
	}
	st.ParPlayed = c.ParThrough(st.HolesPlayed)
	st.ToPar = st.Total - st.ParPlayed

	return st
}

// ComputeSkins walks the holes of c in order. A hole is won by the single
// player with the strictly lowest recorded score and is worth 1 plus the
// number of undecided holes immediately before it. Unscored entries never
// win. The returned carry is the undecided run left at the end of the
// course, which nobody collects.
func ComputeSkins(players []string, scores *scorecard.Table,
	c course.Course) (skins []Skin, carry int) {

	for i := 0; i < c.Len(); i++ {
		hole := i + 1
		best := scorecard.Unscored
		var leaders []string
		for _, p := range players {
			s := scores.Get(p, hole)
			switch order := scorecard.Compare(s, best); {
			case len(leaders) == 0 || order < 0:
				best = s
				leaders = []string{p}
			case order == 0:
				leaders = append(leaders, p)
			}
		}

		if len(leaders) == 1 && best.Recorded {
			skins = append(skins, Skin{
				Hole:   hole,
				Player: leaders[0],
				Value:  carry + 1,
			})
			carry = 0
		} else {
			carry++
		}
	}

	return skins, carry
}

// SkinOn returns the skin won on the 1-based hole, if any.
func (lb Leaderboard) SkinOn(hole int) (Skin, bool) {
	for _, s := range lb.Skins {
		if s.Hole == hole {
			return s, true
		}
	}
	return Skin{}, false
}

// Standing returns the named player's standing.
func (lb Leaderboard) Standing(player string) (Standing, bool) {
	for _, st := range lb.Standings {
		if st.Player == player {
			return st, true
		}
	}
	return Standing{}, false
}
