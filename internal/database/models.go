package database

// GameRecord is one finished game's persisted result.
type GameRecord struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"created_at"`
	Player1     string `json:"player1"`
	Player2     string `json:"player2"`
	Player3     string `json:"player3"`
	Player4     string `json:"player4"`
	Team1Score  int    `json:"team1_score"`
	Team2Score  int    `json:"team2_score"`
	WinningTeam int    `json:"winning_team"`
	Rounds      int    `json:"rounds"`
}
