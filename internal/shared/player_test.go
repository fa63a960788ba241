package shared

import (
	"reflect"
	"testing"
)

func TestLegalMovesEmptyBoard(t *testing.T) {
	p := NewPlayer("p1", "P1", TeamRed)
	p.GiveTiles([]Tile{{1, 2}, {3, 3}, {0, 6}})

	moves := p.LegalMoves(NewBoard())
	if len(moves) != len(p.Hand) {
		t.Fatalf("got %d moves, want one per tile (%d)", len(moves), len(p.Hand))
	}
	for i, m := range moves {
		if m.Flip || m.End != TailEnd {
			t.Errorf("move %d = %+v, want unflipped tail placement", i, m)
		}
		if m.Tile != p.Hand[i] {
			t.Errorf("move %d tile = %s, want %s", i, m.Tile, p.Hand[i])
		}
	}
}

func TestLegalMovesEnumeration(t *testing.T) {
	// Board [2|5]: head 2, tail 5.
	board := NewBoard()
	board.Append(Tile{Left: 2, Right: 5})

	tests := []struct {
		name string
		hand []Tile
		want []Action
	}{
		{
			name: "matches tail only",
			hand: []Tile{{5, 6}},
			want: []Action{
				{Tile: Tile{5, 6}, Flip: false, End: TailEnd},
			},
		},
		{
			name: "matches head only via flip",
			hand: []Tile{{2, 6}},
			want: []Action{
				{Tile: Tile{2, 6}, Flip: true, End: HeadEnd},
			},
		},
		{
			name: "matches both ends",
			hand: []Tile{{2, 5}},
			want: []Action{
				{Tile: Tile{2, 5}, Flip: true, End: TailEnd},
				{Tile: Tile{2, 5}, Flip: true, End: HeadEnd},
			},
		},
		{
			name: "double matches one end twice",
			hand: []Tile{{5, 5}},
			want: []Action{
				{Tile: Tile{5, 5}, Flip: false, End: TailEnd},
				{Tile: Tile{5, 5}, Flip: true, End: TailEnd},
			},
		},
		{
			name: "no match forces a pass",
			hand: []Tile{{1, 3}, {4, 6}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer("p1", "P1", TeamRed)
			p.GiveTiles(tt.hand)
			got := p.LegalMoves(board)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("LegalMoves() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLegalMovesDoubleMatchingBothEnds(t *testing.T) {
	// Board [5|2] [2|5]: head and tail are both 5, so the double five
	// attaches four ways and none are deduplicated.
	board := NewBoard()
	board.Append(Tile{Left: 5, Right: 2})
	board.Append(Tile{Left: 2, Right: 5})

	p := NewPlayer("p1", "P1", TeamRed)
	p.GiveTiles([]Tile{{5, 5}})

	want := []Action{
		{Tile: Tile{5, 5}, Flip: false, End: TailEnd},
		{Tile: Tile{5, 5}, Flip: true, End: TailEnd},
		{Tile: Tile{5, 5}, Flip: true, End: HeadEnd},
		{Tile: Tile{5, 5}, Flip: false, End: HeadEnd},
	}
	got := p.LegalMoves(board)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("LegalMoves() = %v, want %v", got, want)
	}
}

func TestRemoveTile(t *testing.T) {
	p := NewPlayer("p1", "P1", TeamRed)
	p.GiveTiles([]Tile{{1, 2}, {3, 4}})

	if !p.RemoveTile(Tile{1, 2}) {
		t.Fatalf("RemoveTile failed for a held tile")
	}
	if p.HasTile(Tile{1, 2}) {
		t.Fatalf("tile still in hand after removal")
	}
	if p.RemoveTile(Tile{1, 2}) {
		t.Fatalf("RemoveTile succeeded for a tile no longer held")
	}
	if got, want := p.HandPoints(), 7; got != want {
		t.Fatalf("HandPoints() = %d, want %d", got, want)
	}
}
