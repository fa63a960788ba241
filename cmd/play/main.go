package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"domino-game/internal/game"
	"domino-game/internal/shared"

	"github.com/google/uuid"
)

func main() {
	target := flag.Int("target", game.DefaultTargetScore, "score a team must reach to win")
	human := flag.String("human", "", "play seat 0 interactively under this name")
	shuffle := flag.Bool("shuffle", false, "shuffle seating before the game starts")
	quiet := flag.Bool("quiet", false, "suppress per-turn board output")
	flag.Parse()

	names := [shared.NumPlayers]string{"P1", "P2", "P3", "P4"}
	var players [shared.NumPlayers]*shared.Player
	var choosers [shared.NumPlayers]game.ActionChooser
	for i := range players {
		name := names[i]
		choosers[i] = game.RandomChooser{}
		if i == 0 && *human != "" {
			name = *human
			choosers[i] = game.NewTerminalChooser(os.Stdin, os.Stdout)
		}
		players[i] = shared.NewPlayer(uuid.NewString(), name, 0)
	}
	if *shuffle {
		rand.Shuffle(len(players), func(i, j int) {
			players[i], players[j] = players[j], players[i]
			choosers[i], choosers[j] = choosers[j], choosers[i]
		})
	}

	var display game.Display = game.TerminalDisplay{Out: os.Stdout}
	if *quiet {
		display = game.NoOpDisplay{}
	}

	g, err := game.NewGame(players, choosers, *target, display)
	if err != nil {
		log.Fatalf("failed to set up game: %v", err)
	}

	result, err := g.PlayGame()
	if err != nil {
		log.Fatalf("game aborted: %v", err)
	}

	fmt.Printf("\nteam %d wins after %d rounds\n", result.WinnerTeam, result.Rounds)
	fmt.Printf("%s, %s: %d\n", players[0].Name, players[2].Name, result.Team1Score)
	fmt.Printf("%s, %s: %d\n", players[1].Name, players[3].Name, result.Team2Score)
}
