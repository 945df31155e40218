/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package course models the ordered holes of a golf course and their pars.
package course

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mikeb26/golfscore/internal"
)

var (
	ErrNoHoles      = errors.New("course has no holes")
	ErrTooManyHoles = errors.New("course has too many holes")
	ErrParRange     = errors.New("par out of range")
)

// Hole is a single hole. Number is 1-based.
type Hole struct {
	Number int `json:"number"`
	Par    int `json:"par"`
}

// Course is the ordered sequence of holes being played.
type Course []Hole

// New builds a course whose holes are numbered 1..len(pars). Par values are
// not range checked here; see ValidatePars.
func New(pars []int) (Course, error) {
	if len(pars) == 0 {
		return nil, ErrNoHoles
	}
	c := make(Course, len(pars))
	for i, par := range pars {
		c[i] = Hole{Number: i + 1, Par: par}
	}

	return c, nil
}

// Default returns holes holes of par 4.
func Default(holes int) Course {
	c := make(Course, 0, holes)
	for i := 0; i < holes; i++ {
		c = append(c, Hole{Number: i + 1, Par: 4})
	}
	return c
}

func (c Course) Len() int { return len(c) }

// Hole returns the hole with the given 1-based number.
func (c Course) Hole(number int) (Hole, bool) {
	if number < 1 || number > len(c) {
		return Hole{}, false
	}
	return c[number-1], true
}

func (c Course) Pars() []int {
	pars := make([]int, len(c))
	for i, h := range c {
		pars[i] = h.Par
	}
	return pars
}

func (c Course) TotalPar() int {
	return c.ParThrough(len(c))
}

// ParThrough returns the par of the first n holes by position. n is clamped
// to [0, Len()].
func (c Course) ParThrough(n int) int {
	if n > len(c) {
		n = len(c)
	}
	total := 0
	for i := 0; i < n; i++ {
		total += c[i].Par
	}
	return total
}

func (c Course) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%v holes, par %v:", len(c), c.TotalPar()))
	for _, h := range c {
		sb.WriteString(fmt.Sprintf(" %v", h.Par))
	}
	return sb.String()
}

// ValidatePars applies the input policy used by the front ends: between
// internal.MinHoles and internal.MaxHoles holes, each par in
// [internal.MinPar, internal.MaxPar].
func ValidatePars(pars []int) error {
	if len(pars) < internal.MinHoles {
		return ErrNoHoles
	}
	if len(pars) > internal.MaxHoles {
		return fmt.Errorf("%w: %v > %v", ErrTooManyHoles, len(pars),
			internal.MaxHoles)
	}
	for i, par := range pars {
		if par < internal.MinPar || par > internal.MaxPar {
			return fmt.Errorf("%w: hole %v par %v (want %v-%v)", ErrParRange,
				i+1, par, internal.MinPar, internal.MaxPar)
		}
	}
	return nil
}

// Parse reads a list of pars separated by commas and/or whitespace, e.g.
// "4,4,3,5" or "4 4 3 5".
func Parse(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, ErrNoHoles
	}
	pars := make([]int, 0, len(fields))
	for _, f := range fields {
		par, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid par %q: %w", f, err)
		}
		pars = append(pars, par)
	}
	return pars, nil
}
