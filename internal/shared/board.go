package shared

import (
	"log"
	"strings"
)

// Board is the ordered chain of placed, oriented tiles. For every
// adjacent pair the right value of the earlier tile equals the left
// value of the following tile.
type Board struct {
	Tiles []Tile
}

// NewBoard creates an empty board for a new round.
func NewBoard() *Board {
	return &Board{Tiles: []Tile{}}
}

// Empty reports whether no tile has been placed yet.
func (b *Board) Empty() bool {
	return len(b.Tiles) == 0
}

// Len returns the number of placed tiles.
func (b *Board) Len() int {
	return len(b.Tiles)
}

// Head returns the open pip value at the front of the chain.
func (b *Board) Head() int {
	if b.Empty() {
		log.Panicf("Error: Head called on an empty board.")
	}
	return b.Tiles[0].Left
}

// Tail returns the open pip value at the back of the chain.
func (b *Board) Tail() int {
	if b.Empty() {
		log.Panicf("Error: Tail called on an empty board.")
	}
	return b.Tiles[len(b.Tiles)-1].Right
}

// Append places an oriented tile after the last tile. A chain
// discontinuity indicates an internal defect.
func (b *Board) Append(t Tile) {
	if !b.Empty() && t.Left != b.Tail() {
		log.Panicf("Error: Appending %s breaks the chain (tail is %d).", t, b.Tail())
	}
	b.Tiles = append(b.Tiles, t)
}

// Prepend places an oriented tile before the first tile.
func (b *Board) Prepend(t Tile) {
	if !b.Empty() && t.Right != b.Head() {
		log.Panicf("Error: Prepending %s breaks the chain (head is %d).", t, b.Head())
	}
	b.Tiles = append([]Tile{t}, b.Tiles...)
}

// Locked reports whether the round can never progress: both open ends
// converge on the same pip value and all 8 sides carrying that value
// are already on the board.
func (b *Board) Locked() bool {
	if b.Empty() {
		return false
	}
	head := b.Head()
	if head != b.Tail() {
		return false
	}

	count := 0
	for _, t := range b.Tiles {
		if t.Left == head {
			count++
		}
		if t.Right == head {
			count++
		}
	}
	return count == 8
}

// Snapshot returns a copy of the placed tiles.
func (b *Board) Snapshot() []Tile {
	tiles := make([]Tile, len(b.Tiles))
	copy(tiles, b.Tiles)
	return tiles
}

func (b *Board) String() string {
	parts := make([]string, len(b.Tiles))
	for i, t := range b.Tiles {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
