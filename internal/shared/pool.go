package shared

import (
	"fmt"
	"log"
	"math/rand/v2"
)

// Pool represents the face-down tile pool a round is dealt from.
type Pool struct {
	Tiles []Tile
}

// NewPool creates a full double-six pool in canonical order.
func NewPool() *Pool {
	return &Pool{Tiles: AllTiles()}
}

// Shuffle randomizes the order of tiles in the pool.
func (p *Pool) Shuffle() {
	rand.Shuffle(len(p.Tiles), func(i, j int) {
		p.Tiles[i], p.Tiles[j] = p.Tiles[j], p.Tiles[i]
	})
}

// Deal partitions the pool round-robin: tile i goes to seat i mod
// numPlayers, so seat assignment follows shuffle order. The pool must
// split exactly; partial deals are a setup error.
func (p *Pool) Deal(numPlayers, tilesPerPlayer int) ([][]Tile, error) {
	if numPlayers <= 0 || tilesPerPlayer <= 0 {
		return nil, fmt.Errorf("invalid deal configuration: %d players, %d tiles each", numPlayers, tilesPerPlayer)
	}
	if numPlayers*tilesPerPlayer != len(p.Tiles) {
		return nil, fmt.Errorf("cannot deal %d tiles to %d players from a pool of %d", tilesPerPlayer, numPlayers, len(p.Tiles))
	}

	hands := make([][]Tile, numPlayers)
	for i := range hands {
		hands[i] = make([]Tile, 0, tilesPerPlayer)
	}
	for i, t := range p.Tiles {
		hands[i%numPlayers] = append(hands[i%numPlayers], t)
	}

	p.Tiles = []Tile{}
	log.Printf("Dealt %d tiles to %d players.", tilesPerPlayer, numPlayers)
	return hands, nil
}
