package game

import (
	"fmt"
	"io"

	"domino-game/internal/shared"
)

// PlayerSnapshot is one player's view data for observers. Score is the
// player's team score.
type PlayerSnapshot struct {
	Name  string
	Hand  []shared.Tile
	Score int
}

// GameSnapshot is a passive copy of the game state handed to a Display
// once per completed turn and once more after a round settles.
type GameSnapshot struct {
	Board     []shared.Tile
	Players   []PlayerSnapshot
	TurnIndex int
}

// Display renders game state to an observer. Implementations must not
// mutate the snapshot.
type Display interface {
	DisplayGame(snapshot GameSnapshot)
}

// NoOpDisplay discards every snapshot.
type NoOpDisplay struct{}

func (NoOpDisplay) DisplayGame(GameSnapshot) {}

// TerminalDisplay prints the board, team scores and each hand, marking
// the player to move with '>'.
type TerminalDisplay struct {
	Out io.Writer
}

func (d TerminalDisplay) DisplayGame(s GameSnapshot) {
	if len(s.Players) != shared.NumPlayers {
		return
	}
	fmt.Fprintf(d.Out, "\n%s, %s: %d | %s, %s: %d\n",
		s.Players[0].Name, s.Players[2].Name, s.Players[0].Score,
		s.Players[1].Name, s.Players[3].Name, s.Players[1].Score)
	fmt.Fprintf(d.Out, "in play: %v\n", s.Board)
	for i, p := range s.Players {
		indicator := " "
		if i == s.TurnIndex {
			indicator = ">"
		}
		fmt.Fprintf(d.Out, "%s%s: %v\n", indicator, p.Name, p.Hand)
	}
}
