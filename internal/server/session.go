package server

import (
	"fmt"
	"log"
	"sync"
	"time"

	"domino-game/internal/database"
	"domino-game/internal/game"
	"domino-game/internal/protocol"
	"domino-game/internal/shared"
)

// session wires one running game to its four connected clients. The
// engine stays synchronous; each remote player is an ActionChooser
// that blocks until the client's play_action arrives. Only the run
// goroutine touches the engine; concurrent entry points
// (HandleAction, HandleDisconnect) communicate through the choosers
// and the done channel instead of reaching into game state.
type session struct {
	code string
	hub  *Hub
	game *game.Game
	db   *database.Service

	players  [shared.NumPlayers]*shared.Player
	choosers [shared.NumPlayers]*remoteChooser

	mu          sync.Mutex
	over        bool
	forfeitSeat int // seat that disconnected mid-game, -1 otherwise
	done        chan struct{}
}

// remoteChooser forwards the legal moves to a client and waits for the
// chosen action.
type remoteChooser struct {
	s    *session
	seat int

	mu      sync.Mutex
	offered []shared.Action
	actions chan shared.Action
}

func (c *remoteChooser) ChooseAction(data game.TurnData) (shared.Action, error) {
	c.mu.Lock()
	c.offered = data.LegalMoves
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.offered = nil
		c.mu.Unlock()
	}()

	player := c.s.players[c.seat]
	payload := protocol.YourTurnPayload{
		PlayerID:   player.ID,
		Board:      data.Board,
		LegalMoves: data.LegalMoves,
	}
	msg, _ := protocol.NewMessage("your_turn", payload)
	c.s.hub.sendMessageToClient(player.ID, msg)

	select {
	case action := <-c.actions:
		return action, nil
	case <-c.s.done:
		return shared.Action{}, fmt.Errorf("game %s ended before seat %d moved", c.s.code, c.seat)
	}
}

// offer hands a client-chosen action to a waiting chooser. The offered
// set is validated and cleared in one critical section, so only one
// action per turn can win the handoff; a repeated send sees nil and is
// rejected without ever parking the caller on the channel. An illegal
// action leaves the offer open for a retry.
func (c *remoteChooser) offer(action shared.Action) error {
	c.mu.Lock()
	if c.offered == nil {
		c.mu.Unlock()
		return fmt.Errorf("not your turn")
	}
	legal := false
	for _, m := range c.offered {
		if m == action {
			legal = true
			break
		}
	}
	if !legal {
		c.mu.Unlock()
		return fmt.Errorf("invalid move")
	}
	c.offered = nil
	c.mu.Unlock()

	// Winning the clear above means ChooseAction is committed to its
	// receive, so this send cannot stall the caller.
	select {
	case c.actions <- action:
		return nil
	case <-c.s.done:
		return fmt.Errorf("game is over")
	}
}

// newSession seats the four clients and builds the engine with remote
// choosers. The session broadcasts state itself after every turn.
func newSession(code string, hub *Hub, db *database.Service, seated [shared.NumPlayers]*Client, targetScore int) (*session, error) {
	s := &session{
		code:        code,
		hub:         hub,
		db:          db,
		forfeitSeat: -1,
		done:        make(chan struct{}),
	}

	var players [shared.NumPlayers]*shared.Player
	var choosers [shared.NumPlayers]game.ActionChooser
	for i, c := range seated {
		if c == nil {
			return nil, fmt.Errorf("seat %d is empty", i)
		}
		players[i] = shared.NewPlayer(c.ID, c.Name, c.DesiredTeam)
		remote := &remoteChooser{s: s, seat: i, actions: make(chan shared.Action)}
		s.choosers[i] = remote
		choosers[i] = remote
	}

	g, err := game.NewGame(players, choosers, targetScore, game.NoOpDisplay{})
	if err != nil {
		return nil, err
	}
	s.game = g
	s.players = players
	return s, nil
}

// run drives the whole game. It is started in its own goroutine by the
// hub once the lobby fills, and it alone reads or writes the engine.
func (s *session) run() {
	s.broadcastGameStart()

	for {
		if s.forfeited() {
			s.endByForfeit()
			return
		}
		if err := s.game.NewRound(); err != nil {
			log.Printf("Game %s: failed to start round: %v", s.code, err)
			s.broadcastError("Internal server error during dealing.")
			s.abort()
			return
		}
		s.sendHands()
		s.broadcastState()

		bonusesSeen := 0
		for {
			cont, err := s.game.Step()
			if s.forfeited() {
				s.endByForfeit()
				return
			}
			if err != nil {
				log.Printf("Game %s: turn failed: %v", s.code, err)
				s.broadcastError("Game aborted: " + err.Error())
				s.abort()
				return
			}

			s.broadcastTurnResult()
			bonusesSeen = s.broadcastNewBonuses(bonusesSeen)
			s.broadcastState()
			if !cont {
				break
			}
		}

		result := s.game.SettleRound()
		if s.forfeited() {
			s.endByForfeit()
			return
		}
		s.broadcastRoundEnd(result)

		if winner := s.game.LeadingTeam(); winner != nil {
			s.finish(winner)
			return
		}
	}
}

// HandleAction routes a client's chosen action to the chooser waiting
// on it.
func (s *session) HandleAction(clientID string, action shared.Action) error {
	for i, p := range s.players {
		if p.ID == clientID {
			return s.choosers[i].offer(action)
		}
	}
	return fmt.Errorf("unknown player")
}

// HandleDisconnect records the forfeiting seat and wakes the run
// goroutine, which performs the game_over broadcast and persistence.
// No game state is touched here.
func (s *session) HandleDisconnect(clientID string) {
	seat := -1
	for i, p := range s.players {
		if p.ID == clientID {
			seat = i
			break
		}
	}
	if seat == -1 {
		return
	}

	s.mu.Lock()
	if s.over {
		s.mu.Unlock()
		return
	}
	s.over = true
	s.forfeitSeat = seat
	close(s.done)
	s.mu.Unlock()

	log.Printf("Game %s: Player %s disconnected. Forfeit.", s.code, clientID)
	leftMsg, _ := protocol.NewMessage("player_left", protocol.PlayerLeftPayload{PlayerID: clientID})
	s.broadcast(leftMsg)
}

func (s *session) forfeited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forfeitSeat >= 0
}

// end marks the session over and closes done. The first caller wins;
// a false return means a forfeit got there first.
func (s *session) end() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over {
		return false
	}
	s.over = true
	close(s.done)
	return true
}

// endByForfeit concludes a forfeited game from the run goroutine: the
// opposing team wins with the scores as they stand.
func (s *session) endByForfeit() {
	s.mu.Lock()
	seat := s.forfeitSeat
	s.mu.Unlock()

	winner := s.game.Teams[(seat+1)%2]
	s.broadcastGameOver(winner)
	s.saveResult(winner)
	s.hub.removeGame(s.code)
}

// finish concludes a normally completed game.
func (s *session) finish(winner *shared.Team) {
	if !s.end() {
		// A disconnect raced the final settlement; forfeit wins.
		s.endByForfeit()
		return
	}
	s.broadcastGameOver(winner)
	s.saveResult(winner)
	s.hub.removeGame(s.code)
}

// abort closes a session that failed internally; nothing is persisted.
func (s *session) abort() {
	if !s.end() {
		s.endByForfeit()
		return
	}
	s.hub.removeGame(s.code)
}

func (s *session) saveResult(winner *shared.Team) {
	if s.db == nil {
		return
	}
	record := database.GameRecord{
		ID:          s.game.ID,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Player1:     s.players[0].Name,
		Player2:     s.players[1].Name,
		Player3:     s.players[2].Name,
		Player4:     s.players[3].Name,
		Team1Score:  s.game.Teams[0].Score,
		Team2Score:  s.game.Teams[1].Score,
		WinningTeam: winner.TeamNumber,
		Rounds:      s.game.RoundNum,
	}
	if err := s.db.Insert(record); err != nil {
		log.Printf("Game %s: failed to save result: %v", s.code, err)
	}
}

// --- Broadcast helpers ---

func (s *session) broadcast(message []byte) {
	for _, p := range s.players {
		s.hub.sendMessageToClient(p.ID, message)
	}
}

func (s *session) broadcastError(errorMsg string) {
	msg, _ := protocol.NewMessage("error", protocol.ErrorPayload{Message: errorMsg})
	s.broadcast(msg)
}

func (s *session) broadcastGameStart() {
	playerInfos := make([]protocol.PlayerInfo, shared.NumPlayers)
	for i, p := range s.players {
		playerInfos[i] = protocol.PlayerInfo{ID: p.ID, Name: p.Name, Seat: p.Seat}
	}
	teamInfos := make([]protocol.TeamInfo, 2)
	for i, t := range s.game.Teams {
		teamInfos[i] = protocol.TeamInfo{
			ID: t.ID,
			Players: []protocol.PlayerInfo{
				{ID: t.Players[0].ID, Name: t.Players[0].Name, Seat: t.Players[0].Seat},
				{ID: t.Players[1].ID, Name: t.Players[1].Name, Seat: t.Players[1].Seat},
			},
			Score:      t.Score,
			TeamNumber: t.TeamNumber,
		}
	}
	payload := protocol.GameStartPayload{
		GameID:     s.game.ID,
		Players:    playerInfos,
		Teams:      teamInfos,
		PointsGoal: s.game.TargetScore,
	}
	msg, _ := protocol.NewMessage("game_start", payload)
	s.broadcast(msg)
}

func (s *session) broadcastGameOver(winner *shared.Team) {
	payload := protocol.GameOverPayload{
		WinningTeamID: winner.ID,
		WinningTeam:   winner.TeamNumber,
		FinalScoreT1:  s.game.Teams[0].Score,
		FinalScoreT2:  s.game.Teams[1].Score,
	}
	msg, _ := protocol.NewMessage("game_over", payload)
	s.broadcast(msg)
}

func (s *session) sendHands() {
	for _, p := range s.players {
		payload := protocol.DealHandPayload{Hand: p.Hand}
		msg, _ := protocol.NewMessage("deal_hand", payload)
		s.hub.sendMessageToClient(p.ID, msg)
	}
}

func (s *session) broadcastState() {
	counts := make([]int, shared.NumPlayers)
	for i, p := range s.players {
		counts[i] = len(p.Hand)
	}
	payload := protocol.GameStatePayload{
		CurrentPlayerID: s.players[s.game.TurnIndex].ID,
		Board:           s.game.Board.Snapshot(),
		TileCounts:      counts,
		Team1Score:      s.game.Teams[0].Score,
		Team2Score:      s.game.Teams[1].Score,
	}
	msg, _ := protocol.NewMessage("game_state_update", payload)
	s.broadcast(msg)
}

func (s *session) broadcastTurnResult() {
	if len(s.game.History) == 0 {
		return
	}
	record := s.game.History[len(s.game.History)-1]
	payload := protocol.TurnResultPayload{
		PlayerID: s.players[record.Seat].ID,
		Played:   record.Played,
	}
	if record.Played {
		tile := record.Tile
		payload.Tile = &tile
	}
	msg, _ := protocol.NewMessage("turn_result", payload)
	s.broadcast(msg)
}

// broadcastNewBonuses sends any bonuses awarded since the previous
// call and returns the new seen count.
func (s *session) broadcastNewBonuses(seen int) int {
	bonuses := s.game.RoundBonuses()
	for _, b := range bonuses[seen:] {
		payload := protocol.BonusAwardedPayload{
			PlayerID:   s.players[b.Seat].ID,
			TeamNumber: b.TeamNumber,
			Points:     b.Points,
			Reason:     b.Reason,
		}
		msg, _ := protocol.NewMessage("bonus_awarded", payload)
		s.broadcast(msg)
	}
	return len(bonuses)
}

func (s *session) broadcastRoundEnd(result game.RoundResult) {
	payload := protocol.RoundEndPayload{
		WinnerID:        s.players[result.WinnerSeat].ID,
		WinnerTeam:      result.WinnerTeam,
		Points:          result.Points,
		Bonuses:         result.Bonuses,
		Team1TotalScore: s.game.Teams[0].Score,
		Team2TotalScore: s.game.Teams[1].Score,
	}
	msg, _ := protocol.NewMessage("round_end", payload)
	s.broadcast(msg)
}
