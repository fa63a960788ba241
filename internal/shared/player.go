package shared

// Player represents a seated player. Seats 0 and 2 form one team,
// seats 1 and 3 the other.
type Player struct {
	ID          string // Unique identifier for the player
	Name        string // Player's chosen name
	Seat        int    // Ordinal seat position (0-3)
	Hand        []Tile // Tiles currently held by the player
	DesiredTeam TeamEnum
}

// NewPlayer creates a new player with the given ID and name.
func NewPlayer(id string, name string, desiredTeam TeamEnum) *Player {
	return &Player{
		ID:          id,
		Name:        name,
		Hand:        []Tile{},
		DesiredTeam: desiredTeam,
	}
}

// GiveTiles replaces the player's hand at deal time.
func (p *Player) GiveTiles(tiles []Tile) {
	p.Hand = tiles
}

// RemoveTile removes exactly one tile from the player's hand.
func (p *Player) RemoveTile(tile Tile) bool {
	for i, t := range p.Hand {
		if t == tile {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// HasTile reports whether the canonical tile is in hand.
func (p *Player) HasTile(tile Tile) bool {
	for _, t := range p.Hand {
		if t == tile {
			return true
		}
	}
	return false
}

// HandEmpty reports whether the player has played out.
func (p *Player) HandEmpty() bool {
	return len(p.Hand) == 0
}

// HandPoints returns the pip total remaining in hand.
func (p *Player) HandPoints() int {
	points := 0
	for _, t := range p.Hand {
		points += t.Points()
	}
	return points
}

// LegalMoves enumerates every way a tile in hand can attach to the
// board. On an empty board any tile may open, unflipped at the tail.
// Otherwise a tile yields one action per end it can match in either
// orientation; a double matching both ends yields up to four. Nothing
// is deduplicated, so a chooser may have preferences among placements
// that leave the board equivalent. An empty result means the player
// must pass.
func (p *Player) LegalMoves(board *Board) []Action {
	if board.Empty() {
		actions := make([]Action, 0, len(p.Hand))
		for _, t := range p.Hand {
			actions = append(actions, Action{Tile: t, Flip: false, End: TailEnd})
		}
		return actions
	}

	head := board.Head()
	tail := board.Tail()
	var actions []Action
	for _, t := range p.Hand {
		if t.Left == tail {
			actions = append(actions, Action{Tile: t, Flip: false, End: TailEnd})
		}
		if t.Right == tail {
			actions = append(actions, Action{Tile: t, Flip: true, End: TailEnd})
		}
		if t.Left == head {
			actions = append(actions, Action{Tile: t, Flip: true, End: HeadEnd})
		}
		if t.Right == head {
			actions = append(actions, Action{Tile: t, Flip: false, End: HeadEnd})
		}
	}
	return actions
}
