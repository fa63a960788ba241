package shared

import "fmt"

// End selects which side of the board chain a tile attaches to.
type End string

const (
	TailEnd End = "tail" // append after the last placed tile
	HeadEnd End = "head" // prepend before the first placed tile
)

// Action is a candidate or chosen move: the tile as held in hand
// (canonical orientation), whether it is flipped when placed, and
// which end of the board it attaches to.
type Action struct {
	Tile Tile `json:"tile"`
	Flip bool `json:"flip"`
	End  End  `json:"end"`
}

// Placed returns the tile in the orientation it lands on the board.
func (a Action) Placed() Tile {
	if a.Flip {
		return a.Tile.Flipped()
	}
	return a.Tile
}

func (a Action) String() string {
	return fmt.Sprintf("%s at %s", a.Placed(), a.End)
}

// TurnRecord is an append-only log entry for one turn attempt.
// Tile holds the oriented tile as placed and is meaningful only
// when Played is true.
type TurnRecord struct {
	Seat   int  `json:"seat"`
	Played bool `json:"played"`
	Tile   Tile `json:"tile"`
}
