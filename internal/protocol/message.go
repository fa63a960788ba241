package protocol

import (
	"encoding/json"

	"domino-game/internal/game"
	"domino-game/internal/shared"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // Type of the message (e.g., "join_game", "play_action")
	Payload json.RawMessage `json:"payload,omitempty"` // Raw JSON payload, allows flexible structures
}

// --- Client -> Server Payload Structs ---

type CreateGamePayload struct {
	Name        string          `json:"name"`
	DesiredTeam shared.TeamEnum `json:"desired_team"`
	PointsGoal  int             `json:"points_goal"`
}

type JoinGamePayload struct {
	Name        string          `json:"name"`
	GameCode    string          `json:"game_code"`
	DesiredTeam shared.TeamEnum `json:"desired_team"`
}

type PlayActionPayload struct {
	Action shared.Action `json:"action"`
}

// --- Server -> Client Payload Structs ---

type GameCreatedPayload struct {
	GameCode string `json:"game_code"`
}

type LobbyUpdatePayload struct {
	Players []PlayerInfo `json:"players"`
}

type JoinErrorPayload struct {
	Message string `json:"message"`
}

type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seat int    `json:"seat"`
}

type TeamInfo struct {
	ID         string       `json:"id"`
	Players    []PlayerInfo `json:"players"`
	Score      int          `json:"score"`
	TeamNumber int          `json:"team_number"`
}

type GameStartPayload struct {
	GameID     string       `json:"game_id"`
	Players    []PlayerInfo `json:"players"`
	Teams      []TeamInfo   `json:"teams"`
	PointsGoal int          `json:"points_goal"`
}

type DealHandPayload struct {
	Hand []shared.Tile `json:"hand"`
}

type YourTurnPayload struct {
	PlayerID   string          `json:"player_id"`
	Board      []shared.Tile   `json:"board"`
	LegalMoves []shared.Action `json:"legal_moves"`
}

type TurnResultPayload struct {
	PlayerID string       `json:"player_id"`
	Played   bool         `json:"played"`
	Tile     *shared.Tile `json:"tile,omitempty"` // oriented as placed; nil on a pass
}

type GameStatePayload struct {
	CurrentPlayerID string        `json:"current_player_id"`
	Board           []shared.Tile `json:"board"`
	TileCounts      []int         `json:"tile_counts"` // remaining hand sizes by seat
	Team1Score      int           `json:"team1_score"`
	Team2Score      int           `json:"team2_score"`
}

type BonusAwardedPayload struct {
	PlayerID   string `json:"player_id"`
	TeamNumber int    `json:"team_number"`
	Points     int    `json:"points"`
	Reason     string `json:"reason"`
}

type RoundEndPayload struct {
	WinnerID        string            `json:"winner_id"`
	WinnerTeam      int               `json:"winner_team"`
	Points          int               `json:"points"`
	Bonuses         []game.BonusAward `json:"bonuses,omitempty"`
	Team1TotalScore int               `json:"team1_total_score"`
	Team2TotalScore int               `json:"team2_total_score"`
}

type GameOverPayload struct {
	WinningTeamID string `json:"winning_team_id"`
	WinningTeam   int    `json:"winning_team"`
	FinalScoreT1  int    `json:"final_score_t1"`
	FinalScoreT2  int    `json:"final_score_t2"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
}

// Helper function to create a JSON message
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	if payload == nil {
		msg := Message{
			Type:    msgType,
			Payload: nil,
		}
		return json.Marshal(msg)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
	return json.Marshal(msg)
}
