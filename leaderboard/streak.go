/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package leaderboard

import (
	"fmt"

	"github.com/mikeb26/golfscore/course"
	"github.com/mikeb26/golfscore/scorecard"
)

const streakWindow = 3

// ScoreClass describes a score relative to par.
type ScoreClass int

const (
	ClassUnscored ScoreClass = iota
	ClassEagleOrBetter
	ClassBirdie
	ClassPar
	ClassBogey
	ClassDoubleBogeyOrWorse
)

func (sc ScoreClass) String() string {
	switch sc {
	case ClassEagleOrBetter:
		return "eagle"
	case ClassBirdie:
		return "birdie"
	case ClassPar:
		return "par"
	case ClassBogey:
		return "bogey"
	case ClassDoubleBogeyOrWorse:
		return "double+"
	default:
		return "-"
	}
}

// Classify compares a score with the hole's par.
func Classify(s scorecard.Score, par int) ScoreClass {
	if !s.Recorded {
		return ClassUnscored
	}
	switch diff := s.Strokes - par; {
	case diff <= -2:
		return ClassEagleOrBetter
	case diff == -1:
		return ClassBirdie
	case diff == 0:
		return ClassPar
	case diff == 1:
		return ClassBogey
	}
	return ClassDoubleBogeyOrWorse
}

// HasStreakBonus reports whether any three consecutive holes of c contain at
// least one eagle-or-better and at least two birdies in row. Unscored holes
// count as neither.
func HasStreakBonus(row []scorecard.Score, c course.Course) bool {
	for start := 0; start+streakWindow <= c.Len(); start++ {
		eagles, birdies := 0, 0
		for i := start; i < start+streakWindow; i++ {
			s := scorecard.Unscored
			if i < len(row) {
				s = row[i]
			}
			switch Classify(s, c[i].Par) {
			case ClassEagleOrBetter:
				eagles++
			case ClassBirdie:
				birdies++
			}
		}
		if eagles >= 1 && birdies >= 2 {
			return true
		}
	}
	return false
}

// FormatToPar renders a to-par delta the way golfers read it: "E", "+3", "-2".
func FormatToPar(n int) string {
	switch {
	case n == 0:
		return "E"
	case n > 0:
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
