package game

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"domino-game/internal/shared"
)

// TurnData is the information offered to an ActionChooser: the board
// as currently laid out and the legal actions to pick from.
type TurnData struct {
	Board      []shared.Tile
	LegalMoves []shared.Action
}

// ActionChooser selects one action from the offered legal set. The
// engine blocks until it returns; implementations may await external
// input. Returning an action outside the legal set is a protocol
// violation and aborts the turn.
type ActionChooser interface {
	ChooseAction(data TurnData) (shared.Action, error)
}

// RandomChooser picks uniformly among the legal actions.
type RandomChooser struct{}

func (RandomChooser) ChooseAction(data TurnData) (shared.Action, error) {
	if len(data.LegalMoves) == 0 {
		return shared.Action{}, fmt.Errorf("no legal moves offered")
	}
	return data.LegalMoves[rand.IntN(len(data.LegalMoves))], nil
}

// TerminalChooser prompts a human for a 1-based index into the legal
// move list.
type TerminalChooser struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalChooser creates a chooser reading selections from in and
// printing prompts to out.
func NewTerminalChooser(in io.Reader, out io.Writer) *TerminalChooser {
	return &TerminalChooser{in: bufio.NewReader(in), out: out}
}

func (c *TerminalChooser) ChooseAction(data TurnData) (shared.Action, error) {
	if len(data.LegalMoves) == 0 {
		return shared.Action{}, fmt.Errorf("no legal moves offered")
	}

	for i, move := range data.LegalMoves {
		fmt.Fprintf(c.out, "%d: %s\n", i+1, move)
	}
	for {
		fmt.Fprintf(c.out, "choose move[1-%d]: ", len(data.LegalMoves))
		line, err := c.in.ReadString('\n')
		if err != nil {
			return shared.Action{}, fmt.Errorf("reading move selection: %w", err)
		}
		var index int
		if _, err := fmt.Sscanf(strings.TrimSpace(line), "%d", &index); err != nil || index < 1 || index > len(data.LegalMoves) {
			fmt.Fprintln(c.out, "invalid selection")
			continue
		}
		return data.LegalMoves[index-1], nil
	}
}
