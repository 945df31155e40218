/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package scorecard

import "strconv"

// Score is an optional stroke count for one player on one hole. The zero
// value is an unscored hole.
type Score struct {
	Strokes  int
	Recorded bool
}

// Unscored is the Score of a hole that has not been played.
var Unscored Score

// Strokes returns a recorded Score.
func Strokes(n int) Score {
	return Score{Strokes: n, Recorded: true}
}

func (s Score) String() string {
	if !s.Recorded {
		return "-"
	}
	return strconv.Itoa(s.Strokes)
}

// Compare orders scores by strokes with unscored entries sorting after every
// recorded one. Two unscored entries compare equal.
func Compare(a, b Score) int {
	switch {
	case !a.Recorded && !b.Recorded:
		return 0
	case !a.Recorded:
		return 1
	case !b.Recorded:
		return -1
	case a.Strokes < b.Strokes:
		return -1
	case a.Strokes > b.Strokes:
		return 1
	}
	return 0
}
