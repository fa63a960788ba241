package database

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/mattn/go-sqlite3"
)

// Service stores finished game results. The driver is chosen via the
// DB_DRIVER env var ("sqlite3" by default, or "pgx" with DB_DSN set);
// queries are written with ? placeholders and rebound for postgres.
type Service struct {
	db        *sql.DB
	m         *sync.Mutex
	tableName string
	driver    string
}

var (
	tableName  = "domino_games"
	dbInstance *Service
)

func New() Service {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite3"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "./domino.db"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		panic(err)
	}

	sqlStmt := `
	create table if not exists ` + tableName + ` (
		id text not null primary key,
		created_at text,
		player1 text,
		player2 text,
		player3 text,
		player4 text,
		team1_score integer,
		team2_score integer,
		winning_team integer,
		rounds integer
	);
	`
	_, err = db.Exec(sqlStmt)
	if err != nil {
		panic(err)
	}

	dbInstance = &Service{
		db:        db,
		tableName: tableName,
		m:         &sync.Mutex{},
		driver:    driver,
	}

	return *dbInstance
}

func (s *Service) Close() error {
	return s.db.Close()
}

func (s *Service) TableName() string {
	return s.tableName
}

// rebind converts ? placeholders to $n when running against postgres.
func (s *Service) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&sb, "$%d", n)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (s *Service) scanRecords(rows *sql.Rows) ([]GameRecord, error) {
	var results []GameRecord
	for rows.Next() {
		var result GameRecord
		if err := rows.Scan(
			&result.ID,
			&result.CreatedAt,
			&result.Player1,
			&result.Player2,
			&result.Player3,
			&result.Player4,
			&result.Team1Score,
			&result.Team2Score,
			&result.WinningTeam,
			&result.Rounds); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func (s *Service) GetAll() ([]GameRecord, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query("SELECT * FROM " + s.tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.scanRecords(rows)
}

func (s *Service) GetByID(id string) (GameRecord, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var result GameRecord
	err := s.db.QueryRow(s.rebind("SELECT * FROM "+s.tableName+" WHERE id = ?"), id).Scan(
		&result.ID,
		&result.CreatedAt,
		&result.Player1,
		&result.Player2,
		&result.Player3,
		&result.Player4,
		&result.Team1Score,
		&result.Team2Score,
		&result.WinningTeam,
		&result.Rounds)
	if err != nil {
		return GameRecord{}, err
	}
	return result, nil
}

func (s *Service) Insert(result GameRecord) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec(s.rebind("INSERT INTO "+s.tableName+
		" (id, created_at, player1, player2, player3, player4, team1_score, team2_score, winning_team, rounds) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		result.ID,
		result.CreatedAt,
		result.Player1,
		result.Player2,
		result.Player3,
		result.Player4,
		result.Team1Score,
		result.Team2Score,
		result.WinningTeam,
		result.Rounds)

	return err
}

func (s *Service) GetByPlayer(playerName string) ([]GameRecord, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query(s.rebind("SELECT * FROM "+s.tableName+
		" WHERE player1 = ? OR player2 = ? OR player3 = ? OR player4 = ?"),
		playerName,
		playerName,
		playerName,
		playerName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results, err := s.scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, sql.ErrNoRows // No results found
	}

	return results, nil
}
