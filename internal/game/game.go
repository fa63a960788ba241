package game

import (
	"errors"
	"fmt"
	"log"

	"domino-game/internal/shared"

	"github.com/google/uuid"
)

const (
	// BonusPoints is awarded for each bonus pattern occurrence.
	BonusPoints = 25
	// DefaultTargetScore ends the game when a team reaches it.
	DefaultTargetScore = 200
)

// Bonus reasons reported in round results.
const (
	ReasonOpeningPasses = "opening_passes" // the first two turns of a round both passed
	ReasonPassCycle     = "pass_cycle"     // a play followed by a full cycle of passes
	ReasonCapicu        = "capicu"         // the closing tile emptied a hand and fit both ends
)

// ErrIllegalAction signals a chooser returning an action outside the
// offered legal set.
var ErrIllegalAction = errors.New("action is not in the legal move set")

// BonusAward records one 25-point bonus given during a round.
type BonusAward struct {
	Seat       int    `json:"seat"`
	TeamNumber int    `json:"team_number"`
	Points     int    `json:"points"`
	Reason     string `json:"reason"`
}

// RoundResult summarizes a settled round.
type RoundResult struct {
	WinnerSeat int          `json:"winner_seat"`
	WinnerTeam int          `json:"winner_team"`
	Points     int          `json:"points"` // pip settlement credited to the winner's team
	Bonuses    []BonusAward `json:"bonuses,omitempty"`
	Turns      int          `json:"turns"`
}

// GameResult summarizes a finished game.
type GameResult struct {
	WinnerTeam int `json:"winner_team"`
	Team1Score int `json:"team1_score"`
	Team2Score int `json:"team2_score"`
	Rounds     int `json:"rounds"`
}

// Game drives a partnership domino game: turn sequencing, bonus
// scoring and the round/game lifecycle. It is single-actor
// synchronous; choosers are the only suspension points.
type Game struct {
	ID          string
	Players     [shared.NumPlayers]*shared.Player
	Teams       [2]*shared.Team
	Board       *shared.Board
	History     []shared.TurnRecord
	TurnIndex   int
	RoundNum    int
	TargetScore int

	choosers     [shared.NumPlayers]ActionChooser
	display      Display
	winnerSeat   int
	firstRound   bool
	openingMove  bool
	roundBonuses []BonusAward
}

// NewGame seats 4 players, zeroes scores and arms the double-six
// opening rule for the first round. Degenerate setups are rejected
// here, not discovered mid-round.
func NewGame(players [shared.NumPlayers]*shared.Player, choosers [shared.NumPlayers]ActionChooser, targetScore int, display Display) (*Game, error) {
	for i, p := range players {
		if p == nil {
			return nil, fmt.Errorf("player at seat %d is nil", i)
		}
		if choosers[i] == nil {
			return nil, fmt.Errorf("chooser at seat %d is nil", i)
		}
		p.Seat = i
	}
	if targetScore <= 0 {
		targetScore = DefaultTargetScore
	}
	if display == nil {
		display = NoOpDisplay{}
	}

	teams := [2]*shared.Team{
		shared.NewTeam(1, players[0], players[2]),
		shared.NewTeam(2, players[1], players[3]),
	}

	return &Game{
		ID:          uuid.NewString(),
		Players:     players,
		Teams:       teams,
		Board:       shared.NewBoard(),
		TargetScore: targetScore,
		choosers:    choosers,
		display:     display,
		winnerSeat:  0,
		firstRound:  true,
	}, nil
}

// NewRound clears the board and history and re-deals every hand. In
// the first round of a game the double-six holder moves first and must
// open with it; afterwards the previous round winner leads.
func (g *Game) NewRound() error {
	g.Board = shared.NewBoard()
	g.History = nil
	g.roundBonuses = nil

	pool := shared.NewPool()
	pool.Shuffle()
	hands, err := pool.Deal(shared.NumPlayers, shared.HandSize)
	if err != nil {
		return err
	}
	for i, hand := range hands {
		g.Players[i].GiveTiles(hand)
	}

	if g.firstRound {
		for _, p := range g.Players {
			if p.HasTile(shared.DoubleSix) {
				g.winnerSeat = p.Seat
				break
			}
		}
		g.openingMove = true
		g.firstRound = false
	}
	g.TurnIndex = g.winnerSeat
	g.RoundNum++
	log.Printf("Game %s: Round %d started. Player %d (%s) leads.", g.ID, g.RoundNum, g.TurnIndex, g.Players[g.TurnIndex].Name)
	return nil
}

// Step executes one turn for the seated player: the forced double-six
// opening, a pass when no move is legal, or a chooser-selected play.
// It returns false when the round ended (hand emptied or board
// locked).
func (g *Game) Step() (bool, error) {
	player := g.Players[g.TurnIndex]
	var record shared.TurnRecord

	if g.openingMove {
		// The double-six opens unconditionally; it is not a
		// pass-or-play decision and bypasses legal-move generation.
		if !player.RemoveTile(shared.DoubleSix) {
			log.Panicf("Game %s: opening player %s does not hold %s.", g.ID, player.Name, shared.DoubleSix)
		}
		g.Board.Append(shared.DoubleSix)
		record = shared.TurnRecord{Seat: player.Seat, Played: true, Tile: shared.DoubleSix}
		g.openingMove = false
	} else {
		moves := player.LegalMoves(g.Board)
		if len(moves) == 0 {
			record = shared.TurnRecord{Seat: player.Seat}
		} else {
			action, err := g.choosers[g.TurnIndex].ChooseAction(TurnData{Board: g.Board.Snapshot(), LegalMoves: moves})
			if err != nil {
				return false, fmt.Errorf("seat %d chooser: %w", g.TurnIndex, err)
			}
			if !containsAction(moves, action) {
				return false, fmt.Errorf("%w: seat %d chose %s", ErrIllegalAction, g.TurnIndex, action)
			}

			placed := action.Placed()
			if action.End == shared.TailEnd {
				g.Board.Append(placed)
			} else {
				g.Board.Prepend(placed)
			}
			if !player.RemoveTile(action.Tile) {
				log.Panicf("Game %s: failed to remove %s from player %s's hand.", g.ID, action.Tile, player.Name)
			}
			record = shared.TurnRecord{Seat: player.Seat, Played: true, Tile: placed}
		}
	}

	g.History = append(g.History, record)
	g.checkBonus()

	if player.HandEmpty() {
		g.winnerSeat = player.Seat
		log.Printf("Game %s: Player %d (%s) played out. Round over.", g.ID, player.Seat, player.Name)
		return false, nil
	}
	if g.Board.Locked() {
		next := g.Players[(g.TurnIndex+1)%shared.NumPlayers]
		if player.HandPoints() <= next.HandPoints() {
			g.winnerSeat = player.Seat
		} else {
			g.winnerSeat = next.Seat
		}
		log.Printf("Game %s: Board locked. Player %d (%s) takes the round.", g.ID, g.winnerSeat, g.Players[g.winnerSeat].Name)
		return false, nil
	}

	g.TurnIndex = (g.TurnIndex + 1) % shared.NumPlayers
	return true, nil
}

// checkBonus inspects the round history after every recorded turn.
// The opening-passes check short-circuits the cycle check, which in
// turn precedes the capicú check; the first two only apply to passes,
// capicú only to a hand-emptying play.
func (g *Game) checkBonus() {
	n := len(g.History)
	if n < 2 {
		return
	}
	last := g.History[n-1]

	if n == 2 {
		if !g.History[0].Played && !last.Played {
			g.awardBonus(last.Seat, ReasonOpeningPasses)
		}
		return
	}

	if !last.Played {
		if n < 4 {
			return
		}
		four := g.History[n-4:]
		if four[0].Played && !four[1].Played && !four[2].Played && !four[3].Played {
			g.awardBonus(four[0].Seat, ReasonPassCycle)
		}
		return
	}

	// Capicú: the tile just placed emptied the hand and the board
	// without it already exposed both of the tile's values.
	if !g.Players[last.Seat].HandEmpty() || g.Board.Len() < 2 {
		return
	}
	tiles := g.Board.Tiles
	if tiles[len(tiles)-1] == last.Tile && closesEnds(last.Tile, tiles[:len(tiles)-1]) {
		g.awardBonus(last.Seat, ReasonCapicu)
		return
	}
	if tiles[0] == last.Tile && closesEnds(last.Tile, tiles[1:]) {
		g.awardBonus(last.Seat, ReasonCapicu)
	}
}

// closesEnds reports whether the tile's values match the remaining
// chain's head and tail in either order.
func closesEnds(t shared.Tile, rest []shared.Tile) bool {
	head := rest[0].Left
	tail := rest[len(rest)-1].Right
	return (t.Left == head && t.Right == tail) || (t.Right == head && t.Left == tail)
}

func (g *Game) awardBonus(seat int, reason string) {
	team := g.teamFor(seat)
	team.AddScore(BonusPoints)
	award := BonusAward{Seat: seat, TeamNumber: team.TeamNumber, Points: BonusPoints, Reason: reason}
	g.roundBonuses = append(g.roundBonuses, award)
	log.Printf("Game %s: Bonus %s (%d points) to team %d via player %d.", g.ID, reason, BonusPoints, team.TeamNumber, seat)
}

// RoundBonuses returns the bonuses awarded so far in the running
// round, oldest first.
func (g *Game) RoundBonuses() []BonusAward {
	return g.roundBonuses
}

// SettleRound credits the pip total of every remaining hand to the
// round winner's team. Bonuses already awarded stay in place; the two
// are independently additive.
func (g *Game) SettleRound() RoundResult {
	total := 0
	for _, p := range g.Players {
		total += p.HandPoints()
	}
	team := g.teamFor(g.winnerSeat)
	team.AddScore(total)
	log.Printf("Game %s: Round %d settled. Team %d +%d points (scores %d / %d).",
		g.ID, g.RoundNum, team.TeamNumber, total, g.Teams[0].Score, g.Teams[1].Score)

	return RoundResult{
		WinnerSeat: g.winnerSeat,
		WinnerTeam: team.TeamNumber,
		Points:     total,
		Bonuses:    g.roundBonuses,
		Turns:      len(g.History),
	}
}

// PlayRound deals a fresh round and runs turns until a terminal
// condition, then settles. The display sees a snapshot after every
// turn and once more after settlement.
func (g *Game) PlayRound() (RoundResult, error) {
	if err := g.NewRound(); err != nil {
		return RoundResult{}, err
	}
	for {
		cont, err := g.Step()
		if err != nil {
			return RoundResult{}, err
		}
		g.display.DisplayGame(g.Snapshot())
		if !cont {
			break
		}
	}
	result := g.SettleRound()
	g.display.DisplayGame(g.Snapshot())
	return result, nil
}

// PlayGame repeats rounds until a team reaches the target score.
func (g *Game) PlayGame() (GameResult, error) {
	for g.LeadingTeam() == nil {
		if _, err := g.PlayRound(); err != nil {
			return GameResult{}, err
		}
	}
	winner := g.LeadingTeam()
	log.Printf("Game %s: Game over. Team %d wins %d / %d after %d rounds.",
		g.ID, winner.TeamNumber, g.Teams[0].Score, g.Teams[1].Score, g.RoundNum)
	return GameResult{
		WinnerTeam: winner.TeamNumber,
		Team1Score: g.Teams[0].Score,
		Team2Score: g.Teams[1].Score,
		Rounds:     g.RoundNum,
	}, nil
}

// LeadingTeam returns the team that has reached the target score, or
// nil while the game is still running.
func (g *Game) LeadingTeam() *shared.Team {
	for _, team := range g.Teams {
		if team.Score >= g.TargetScore {
			return team
		}
	}
	return nil
}

// Snapshot copies the observable game state. Each player's Score field
// carries their team's score.
func (g *Game) Snapshot() GameSnapshot {
	players := make([]PlayerSnapshot, shared.NumPlayers)
	for i, p := range g.Players {
		hand := make([]shared.Tile, len(p.Hand))
		copy(hand, p.Hand)
		players[i] = PlayerSnapshot{Name: p.Name, Hand: hand, Score: g.teamFor(i).Score}
	}
	return GameSnapshot{
		Board:     g.Board.Snapshot(),
		Players:   players,
		TurnIndex: g.TurnIndex,
	}
}

// teamFor maps a seat to its team: seats 0&2 to team 1, seats 1&3 to
// team 2.
func (g *Game) teamFor(seat int) *shared.Team {
	return g.Teams[seat%2]
}

func containsAction(moves []shared.Action, action shared.Action) bool {
	for _, m := range moves {
		if m == action {
			return true
		}
	}
	return false
}
