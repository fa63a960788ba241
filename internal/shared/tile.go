package shared

import "fmt"

const (
	MaxPip     = 6  // highest pip value on a side
	TileCount  = 28 // size of a double-six set
	NumPlayers = 4
	HandSize   = 7
)

// Tile represents a single domino piece. Canonical form keeps
// Left <= Right; a tile placed on the board may be flipped.
type Tile struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// DoubleSix opens the first round of every game.
var DoubleSix = Tile{Left: 6, Right: 6}

// Flipped returns the tile with its pip values reversed.
func (t Tile) Flipped() Tile {
	return Tile{Left: t.Right, Right: t.Left}
}

// Points returns the pip total of the tile.
func (t Tile) Points() int {
	return t.Left + t.Right
}

// IsDouble reports whether both sides carry the same pip value.
func (t Tile) IsDouble() bool {
	return t.Left == t.Right
}

func (t Tile) String() string {
	return fmt.Sprintf("[%d|%d]", t.Left, t.Right)
}

// AllTiles returns the 28 unique tiles of a double-six set in
// canonical order.
func AllTiles() []Tile {
	tiles := make([]Tile, 0, TileCount)
	for a := 0; a <= MaxPip; a++ {
		for b := a; b <= MaxPip; b++ {
			tiles = append(tiles, Tile{Left: a, Right: b})
		}
	}
	return tiles
}
