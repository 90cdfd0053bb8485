package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/jwebster45206/amix-engine/pkg/pet"
)

// The ground spans [-groundHalf, groundHalf] on both axes. Each world unit
// is two columns wide and one row tall so the grid looks roughly square.
const (
	groundHalf  = 10.0
	colsPerUnit = 2
	groundCols  = int(2*groundHalf)*colsPerUnit + 1
	groundRows  = int(2*groundHalf) + 1

	// hitRadius is how close, in world units, a click must land to count
	// as a click on the pet.
	hitRadius = 1.5
)

var (
	groundStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	petStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	leafStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	waypointStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// worldToCell maps a ground position to a grid cell, clamped to the grid.
func worldToCell(pos mgl64.Vec2) (col, row int) {
	col = int(math.Round((pos.X() + groundHalf) * colsPerUnit))
	row = int(math.Round(pos.Y() + groundHalf))
	return clamp(col, 0, groundCols-1), clamp(row, 0, groundRows-1)
}

// cellToWorld is the inverse of worldToCell.
func cellToWorld(col, row int) mgl64.Vec2 {
	return mgl64.Vec2{
		float64(col)/colsPerUnit - groundHalf,
		float64(row) - groundHalf,
	}
}

// hitsPet reports whether a click on screen cell (x, y) lands on the pet.
// The ground is drawn at the origin inside a one-cell border.
func hitsPet(x, y int, petPos mgl64.Vec2) bool {
	col, row := x-1, y-1
	if col < 0 || row < 0 || col >= groundCols || row >= groundRows {
		return false
	}
	return cellToWorld(col, row).Sub(petPos).Len() <= hitRadius
}

func petGlyph(v pet.View) string {
	switch v.Animation {
	case pet.AnimationDance:
		return "♪"
	case pet.AnimationRun:
		if v.Patrol.Target == nil {
			return "@"
		}
		dir := v.Patrol.Target.Sub(v.Patrol.Position)
		if math.Abs(dir.X()) >= math.Abs(dir.Y()) {
			if dir.X() < 0 {
				return "◀"
			}
			return "▶"
		}
		if dir.Y() < 0 {
			return "▲"
		}
		return "▼"
	default:
		return "@"
	}
}

// renderGround draws waypoints, the item and the pet, in that order, so
// the pet is always visible.
func renderGround(v pet.View) string {
	grid := make([][]string, groundRows)
	for r := range grid {
		grid[r] = make([]string, groundCols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	for _, wp := range v.Patrol.Waypoints {
		c, r := worldToCell(wp)
		grid[r][c] = waypointStyle.Render("+")
	}
	if v.Item != nil {
		c, r := worldToCell(v.Item.Position)
		grid[r][c] = leafStyle.Render("❦")
	}
	c, r := worldToCell(v.Patrol.Position)
	grid[r][c] = petStyle.Render(petGlyph(v))

	lines := make([]string, groundRows)
	for r, row := range grid {
		lines[r] = strings.Join(row, "")
	}
	return groundStyle.Render(strings.Join(lines, "\n"))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
