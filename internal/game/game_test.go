package game

import (
	"errors"
	"testing"

	"domino-game/internal/shared"
)

// firstChooser always takes the first legal move.
type firstChooser struct{}

func (firstChooser) ChooseAction(data TurnData) (shared.Action, error) {
	return data.LegalMoves[0], nil
}

// fixedChooser returns the same action regardless of what is offered.
type fixedChooser struct {
	action shared.Action
}

func (c fixedChooser) ChooseAction(TurnData) (shared.Action, error) {
	return c.action, nil
}

func newTestGame(t *testing.T, choosers [shared.NumPlayers]ActionChooser) *Game {
	t.Helper()
	var players [shared.NumPlayers]*shared.Player
	names := [shared.NumPlayers]string{"P1", "P2", "P3", "P4"}
	for i := range players {
		players[i] = shared.NewPlayer(names[i], names[i], 0)
	}
	g, err := NewGame(players, choosers, DefaultTargetScore, NoOpDisplay{})
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	return g
}

func allFirst() [shared.NumPlayers]ActionChooser {
	return [shared.NumPlayers]ActionChooser{firstChooser{}, firstChooser{}, firstChooser{}, firstChooser{}}
}

func allRandom() [shared.NumPlayers]ActionChooser {
	return [shared.NumPlayers]ActionChooser{RandomChooser{}, RandomChooser{}, RandomChooser{}, RandomChooser{}}
}

func TestNewGameRejectsBadSetup(t *testing.T) {
	var players [shared.NumPlayers]*shared.Player
	for i := 0; i < 3; i++ {
		players[i] = shared.NewPlayer("p", "p", 0)
	}
	if _, err := NewGame(players, allFirst(), 100, NoOpDisplay{}); err == nil {
		t.Fatalf("NewGame accepted a nil player")
	}
}

func TestDoubleSixOpensFirstRound(t *testing.T) {
	g := newTestGame(t, allFirst())
	if err := g.NewRound(); err != nil {
		t.Fatalf("NewRound() failed: %v", err)
	}

	holder := -1
	for i, p := range g.Players {
		if p.HasTile(shared.DoubleSix) {
			holder = i
			break
		}
	}
	if holder == -1 {
		t.Fatalf("no player holds the double six after a full deal")
	}
	if g.TurnIndex != holder {
		t.Fatalf("first mover is seat %d, want double-six holder %d", g.TurnIndex, holder)
	}

	cont, err := g.Step()
	if err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	if !cont {
		t.Fatalf("round ended on the opening move")
	}
	if got := g.Board.Snapshot(); len(got) != 1 || got[0] != shared.DoubleSix {
		t.Fatalf("board after opening = %v, want just %s", got, shared.DoubleSix)
	}
	if rec := g.History[0]; !rec.Played || rec.Tile != shared.DoubleSix || rec.Seat != holder {
		t.Fatalf("opening record = %+v", rec)
	}
}

func TestOpeningPassesBonus(t *testing.T) {
	g := newTestGame(t, allFirst())
	g.History = []shared.TurnRecord{
		{Seat: 0, Played: false},
		{Seat: 1, Played: false},
	}
	g.checkBonus()

	bonuses := g.RoundBonuses()
	if len(bonuses) != 1 {
		t.Fatalf("got %d bonuses, want 1", len(bonuses))
	}
	if b := bonuses[0]; b.Seat != 1 || b.Reason != ReasonOpeningPasses || b.Points != BonusPoints {
		t.Fatalf("bonus = %+v", b)
	}
	// Seat 1 is on team 2; the second passer's team scores.
	if g.Teams[1].Score != BonusPoints {
		t.Fatalf("team 2 score = %d, want %d", g.Teams[1].Score, BonusPoints)
	}
	if g.Teams[0].Score != 0 {
		t.Fatalf("team 1 score = %d, want 0", g.Teams[0].Score)
	}
}

func TestNoOpeningBonusAfterPlay(t *testing.T) {
	g := newTestGame(t, allFirst())
	g.History = []shared.TurnRecord{
		{Seat: 0, Played: true, Tile: shared.Tile{Left: 1, Right: 2}},
		{Seat: 1, Played: false},
	}
	g.checkBonus()
	if len(g.RoundBonuses()) != 0 {
		t.Fatalf("bonus awarded when the round opened with a play")
	}
}

func TestPassCycleBonus(t *testing.T) {
	g := newTestGame(t, allFirst())
	g.History = []shared.TurnRecord{
		{Seat: 0, Played: true, Tile: shared.Tile{Left: 1, Right: 2}},
		{Seat: 1, Played: false},
		{Seat: 2, Played: false},
		{Seat: 3, Played: false},
	}
	g.checkBonus()

	bonuses := g.RoundBonuses()
	if len(bonuses) != 1 {
		t.Fatalf("got %d bonuses, want exactly 1", len(bonuses))
	}
	if b := bonuses[0]; b.Seat != 0 || b.Reason != ReasonPassCycle {
		t.Fatalf("bonus = %+v", b)
	}
	if g.Teams[0].Score != BonusPoints {
		t.Fatalf("team 1 score = %d, want %d", g.Teams[0].Score, BonusPoints)
	}
}

func TestCapicuBonus(t *testing.T) {
	g := newTestGame(t, allFirst())
	// Seat 2 just appended [4|3], emptying their hand; the board
	// without it runs 3 ... 4, so the tile closed both ends.
	g.Board = &shared.Board{Tiles: []shared.Tile{{Left: 3, Right: 5}, {Left: 5, Right: 4}, {Left: 4, Right: 3}}}
	g.Players[2].GiveTiles(nil)
	g.History = []shared.TurnRecord{
		{Seat: 0, Played: true, Tile: shared.Tile{Left: 3, Right: 5}},
		{Seat: 1, Played: true, Tile: shared.Tile{Left: 5, Right: 4}},
		{Seat: 2, Played: true, Tile: shared.Tile{Left: 4, Right: 3}},
	}
	g.checkBonus()

	bonuses := g.RoundBonuses()
	if len(bonuses) != 1 {
		t.Fatalf("got %d bonuses, want 1", len(bonuses))
	}
	if b := bonuses[0]; b.Seat != 2 || b.Reason != ReasonCapicu {
		t.Fatalf("bonus = %+v", b)
	}
	if g.Teams[0].Score != BonusPoints {
		t.Fatalf("team 1 score = %d, want %d", g.Teams[0].Score, BonusPoints)
	}
}

func TestNoCapicuWhenHandNotEmpty(t *testing.T) {
	g := newTestGame(t, allFirst())
	g.Board = &shared.Board{Tiles: []shared.Tile{{Left: 3, Right: 5}, {Left: 5, Right: 4}, {Left: 4, Right: 3}}}
	g.Players[2].GiveTiles([]shared.Tile{{Left: 0, Right: 0}})
	g.History = []shared.TurnRecord{
		{Seat: 0, Played: true, Tile: shared.Tile{Left: 3, Right: 5}},
		{Seat: 1, Played: true, Tile: shared.Tile{Left: 5, Right: 4}},
		{Seat: 2, Played: true, Tile: shared.Tile{Left: 4, Right: 3}},
	}
	g.checkBonus()
	if len(g.RoundBonuses()) != 0 {
		t.Fatalf("capicú awarded while tiles remain in hand")
	}
}

func TestNoCapicuWhenTileDoesNotClose(t *testing.T) {
	g := newTestGame(t, allFirst())
	// Closing tile [4|6]: remaining board runs 3 ... 4, no fit.
	g.Board = &shared.Board{Tiles: []shared.Tile{{Left: 3, Right: 5}, {Left: 5, Right: 4}, {Left: 4, Right: 6}}}
	g.Players[2].GiveTiles(nil)
	g.History = []shared.TurnRecord{
		{Seat: 0, Played: true, Tile: shared.Tile{Left: 3, Right: 5}},
		{Seat: 1, Played: true, Tile: shared.Tile{Left: 5, Right: 4}},
		{Seat: 2, Played: true, Tile: shared.Tile{Left: 4, Right: 6}},
	}
	g.checkBonus()
	if len(g.RoundBonuses()) != 0 {
		t.Fatalf("capicú awarded for a tile that does not close the chain")
	}
}

func TestRoundEndsWhenHandEmpties(t *testing.T) {
	g := newTestGame(t, allFirst())
	g.Board = &shared.Board{Tiles: []shared.Tile{{Left: 1, Right: 2}}}
	g.Players[0].GiveTiles([]shared.Tile{{Left: 2, Right: 3}})
	g.Players[1].GiveTiles([]shared.Tile{{Left: 6, Right: 6}})
	g.Players[2].GiveTiles([]shared.Tile{{Left: 5, Right: 5}})
	g.Players[3].GiveTiles([]shared.Tile{{Left: 4, Right: 4}})
	g.TurnIndex = 0

	cont, err := g.Step()
	if err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	if cont {
		t.Fatalf("round continued after a hand emptied")
	}

	result := g.SettleRound()
	if result.WinnerSeat != 0 || result.WinnerTeam != 1 {
		t.Fatalf("winner = seat %d team %d, want seat 0 team 1", result.WinnerSeat, result.WinnerTeam)
	}
	// 12 + 10 + 8 remaining, winner contributes 0.
	if result.Points != 30 {
		t.Fatalf("settlement = %d, want 30", result.Points)
	}
	if g.Teams[0].Score != 30 {
		t.Fatalf("team 1 score = %d, want 30", g.Teams[0].Score)
	}
}

func TestLockedRoundWinner(t *testing.T) {
	tests := []struct {
		name       string
		nextHand   []shared.Tile // seat 1's hand after seat 0 locks the board
		wantWinner int
	}{
		{name: "next player holds fewer points", nextHand: []shared.Tile{{Left: 1, Right: 1}}, wantWinner: 1},
		{name: "tie favors the acting player", nextHand: []shared.Tile{{Left: 4, Right: 6}, {Left: 0, Right: 1}}, wantWinner: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			append03 := shared.Action{Tile: shared.Tile{Left: 0, Right: 3}, Flip: true, End: shared.TailEnd}
			choosers := [shared.NumPlayers]ActionChooser{
				fixedChooser{action: append03}, firstChooser{}, firstChooser{}, firstChooser{},
			}
			g := newTestGame(t, choosers)
			// Seven of the eight zero sides are down; appending [3|0]
			// locks the board on 0.
			g.Board = &shared.Board{Tiles: []shared.Tile{{Left: 0, Right: 1}, {Left: 1, Right: 0}, {Left: 0, Right: 0}, {Left: 0, Right: 2}, {Left: 2, Right: 0}, {Left: 0, Right: 3}}}
			g.Players[0].GiveTiles([]shared.Tile{{Left: 0, Right: 3}, {Left: 5, Right: 6}})
			g.Players[1].GiveTiles(tt.nextHand)
			g.Players[2].GiveTiles([]shared.Tile{{Left: 2, Right: 2}})
			g.Players[3].GiveTiles([]shared.Tile{{Left: 3, Right: 3}})
			g.TurnIndex = 0

			cont, err := g.Step()
			if err != nil {
				t.Fatalf("Step() failed: %v", err)
			}
			if cont {
				t.Fatalf("round continued on a locked board")
			}
			if !g.Board.Locked() {
				t.Fatalf("board not locked after the closing play")
			}
			if result := g.SettleRound(); result.WinnerSeat != tt.wantWinner {
				t.Fatalf("winner seat = %d, want %d", result.WinnerSeat, tt.wantWinner)
			}
		})
	}
}

func TestIllegalActionRejected(t *testing.T) {
	bogus := shared.Action{Tile: shared.Tile{Left: 6, Right: 6}, Flip: false, End: shared.TailEnd}
	choosers := [shared.NumPlayers]ActionChooser{
		fixedChooser{action: bogus}, firstChooser{}, firstChooser{}, firstChooser{},
	}
	g := newTestGame(t, choosers)
	g.Board = &shared.Board{Tiles: []shared.Tile{{Left: 1, Right: 2}}}
	g.Players[0].GiveTiles([]shared.Tile{{Left: 2, Right: 3}})
	g.Players[1].GiveTiles([]shared.Tile{{Left: 4, Right: 4}})
	g.Players[2].GiveTiles([]shared.Tile{{Left: 5, Right: 5}})
	g.Players[3].GiveTiles([]shared.Tile{{Left: 3, Right: 3}})
	g.TurnIndex = 0

	_, err := g.Step()
	if !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("Step() error = %v, want ErrIllegalAction", err)
	}
	if got := g.Board.Len(); got != 1 {
		t.Fatalf("board mutated by a rejected action: %d tiles", got)
	}
}

func TestPlayRoundLeaderRotation(t *testing.T) {
	g := newTestGame(t, allRandom())
	result, err := g.PlayRound()
	if err != nil {
		t.Fatalf("PlayRound() failed: %v", err)
	}

	// The next round must be led by the previous winner.
	if err := g.NewRound(); err != nil {
		t.Fatalf("NewRound() failed: %v", err)
	}
	if g.TurnIndex != result.WinnerSeat {
		t.Fatalf("round 2 leader = seat %d, want previous winner %d", g.TurnIndex, result.WinnerSeat)
	}
	if g.Board.Len() != 0 || len(g.History) != 0 {
		t.Fatalf("board/history not reset between rounds")
	}
}

func TestPlayGameReachesTarget(t *testing.T) {
	var players [shared.NumPlayers]*shared.Player
	names := [shared.NumPlayers]string{"P1", "P2", "P3", "P4"}
	for i := range players {
		players[i] = shared.NewPlayer(names[i], names[i], 0)
	}
	g, err := NewGame(players, allRandom(), 50, NoOpDisplay{})
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}

	result, err := g.PlayGame()
	if err != nil {
		t.Fatalf("PlayGame() failed: %v", err)
	}
	if result.WinnerTeam != 1 && result.WinnerTeam != 2 {
		t.Fatalf("winner team = %d", result.WinnerTeam)
	}
	winning := result.Team1Score
	if result.WinnerTeam == 2 {
		winning = result.Team2Score
	}
	if winning < 50 {
		t.Fatalf("winning score %d below target", winning)
	}
	if result.Rounds < 1 {
		t.Fatalf("game finished without a round")
	}
}
