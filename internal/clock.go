package internal

import (
	"math"
	"strings"
)

const (
	clockRadius = 5
	clockRows   = 2*clockRadius + 1
	clockCols   = 4*clockRadius + 1

	minuteHand = '#'
	secondHand = '+'
)

// renderClock draws a clock face with both hands at the given angles,
// measured clockwise from 12 in degrees. Terminal cells are about twice as
// tall as wide, so columns are stretched by two.
func renderClock(minuteAngle, secondAngle int) string {
	grid := make([][]rune, clockRows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", clockCols))
	}

	for i := 0; i < 12; i++ {
		mark := '·'
		if i%3 == 0 {
			mark = '•'
		}
		plot(grid, float64(i*30), clockRadius, mark)
	}

	drawHand(grid, float64(minuteAngle), 3, minuteHand)
	drawHand(grid, float64(secondAngle), 4, secondHand)
	grid[clockRadius][2*clockRadius] = 'o'

	lines := make([]string, clockRows)
	for i, row := range grid {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}

func drawHand(grid [][]rune, angle, length float64, r rune) {
	for d := 0.5; d <= length; d += 0.5 {
		plot(grid, angle, d, r)
	}
}

func plot(grid [][]rune, angle, distance float64, r rune) {
	rad := angle * math.Pi / 180
	x := 2*clockRadius + int(math.Round(2*distance*math.Sin(rad)))
	y := clockRadius - int(math.Round(distance*math.Cos(rad)))
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return
	}
	grid[y][x] = r
}
