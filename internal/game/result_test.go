package game

import (
	"math/rand"
	"reflect"
	"testing"
)

// TestDirectCapture: a 5 on top beats the 1 facing it from above.
func TestDirectCapture(t *testing.T) {
	var b Board
	above := put(&b, card("Above", 1, 1, 1, 1), Opponent, 1)

	placed := card("Placed", 5, 3, 7, 2)
	placed.Owner = Player
	res := Resolve(placed, 4, &b, nil, DefaultRules())

	if !res.HasCapture() {
		t.Fatal("Expected a direct capture")
	}
	if got := res.Captured(); len(got) != 1 || got[0] != above {
		t.Errorf("Expected [Above] captured, got %v", names(got))
	}
	if res.CapturedCount() != 1 {
		t.Errorf("Expected capturedCount 1, got %d", res.CapturedCount())
	}
	if res.IsSame() || res.IsPlus() || res.HasCombo() {
		t.Error("Expected no Same, Plus or Combo")
	}
	if res.Card() != placed {
		t.Error("Expected Card() to return the placed card")
	}
}

// TestNoCaptureOfOwnCard: a stronger rank never takes a card the placer owns.
func TestNoCaptureOfOwnCard(t *testing.T) {
	var b Board
	put(&b, card("Mine", 1, 1, 1, 1), Player, 1)

	placed := card("Placed", 9, 9, 9, 9)
	placed.Owner = Player
	res := Resolve(placed, 4, &b, nil, DefaultRules())

	if res.HasCapture() || res.CapturedCount() != 0 {
		t.Errorf("Expected no capture, got %v (count %d)", names(res.Captured()), res.CapturedCount())
	}
}

// TestResolveDoesNotMutate: simulations leave the board and all cards alone.
func TestResolveDoesNotMutate(t *testing.T) {
	var b Board
	a := put(&b, card("A", 1, 1, 1, 4), Opponent, 1)
	c := put(&b, card("C", 1, 1, 6, 1), Opponent, 3)
	before := b

	placed := card("Placed", 4, 6, 1, 1)
	placed.Owner = Player
	res := Resolve(placed, 4, &b, nil, DefaultRules())
	if !res.IsSame() {
		t.Fatal("Expected Same to fire")
	}

	if b != before {
		t.Error("Board changed during Resolve")
	}
	if a.Owner != Opponent || c.Owner != Opponent {
		t.Error("Card owners changed during Resolve")
	}
	if placed.Position != -1 {
		t.Errorf("Placed card position changed to %d", placed.Position)
	}
}

// TestSameTwoTensCorner: two rank-10 neighbors flank an empty corner. Placing a
// card with 10s facing both fires Same with a list of two, even without Same Wall.
func TestSameTwoTensCorner(t *testing.T) {
	var b Board
	right := put(&b, card("Right", 1, 10, 1, 1), Opponent, 1)
	below := put(&b, card("Below", 10, 1, 1, 1), Opponent, 3)

	rules := DefaultRules()
	rules.SameWall = false

	placed := card("Placed", 1, 1, 10, 10)
	placed.Owner = Player
	res := Resolve(placed, 0, &b, nil, rules)

	if !res.IsSame() {
		t.Fatal("Expected Same to fire")
	}
	if want := []*Card{right, below}; !reflect.DeepEqual(res.Same(), want) {
		t.Errorf("Expected Same list [Right Below], got %v", names(res.Same()))
	}
	if res.IsPlus() {
		t.Error("Plus must be discarded when Same fires")
	}
	if res.CapturedCount() != 2 {
		t.Errorf("Expected capturedCount 2, got %d", res.CapturedCount())
	}
}

// TestSameNeedsForeignCard: a Same list made only of the placer's cards does
// not fire.
func TestSameNeedsForeignCard(t *testing.T) {
	var b Board
	put(&b, card("Right", 1, 4, 1, 1), Player, 1)
	put(&b, card("Below", 4, 1, 1, 1), Player, 3)

	placed := card("Placed", 1, 1, 4, 4)
	placed.Owner = Player
	res := Resolve(placed, 0, &b, nil, DefaultRules())

	if res.IsSame() {
		t.Error("Same must not fire without a foreign card")
	}
	if res.CapturedCount() != 0 {
		t.Errorf("Expected capturedCount 0, got %d", res.CapturedCount())
	}
}

// TestSameWall: a 10 facing the top edge lowers the Same minimum to one.
func TestSameWall(t *testing.T) {
	tests := []struct {
		name     string
		sameWall bool
		wantSame bool
	}{
		{"SameWallOn", true, true},
		{"SameWallOff", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Board
			put(&b, card("Right", 1, 4, 1, 1), Opponent, 1)

			rules := DefaultRules()
			rules.SameWall = tt.sameWall

			placed := card("Placed", 10, 1, 4, 1)
			placed.Owner = Player
			res := Resolve(placed, 0, &b, nil, rules)

			if res.IsSame() != tt.wantSame {
				t.Fatalf("IsSame = %v, want %v", res.IsSame(), tt.wantSame)
			}
			want := 0
			if tt.wantSame {
				want = 1
			}
			if res.CapturedCount() != want {
				t.Errorf("Expected capturedCount %d, got %d", want, res.CapturedCount())
			}
		})
	}
}

// TestSameWallEveryEdge: each of the four board edges can trigger Same Wall.
func TestSameWallEveryEdge(t *testing.T) {
	tests := []struct {
		name     string
		pos      int
		neighbor int
		ranks    [4]int // placed card: 10 faces the edge, 4 faces the neighbor
		facing   [4]int // neighbor card: 4 faces the placed card
	}{
		{"Left", 3, 4, [4]int{1, 10, 4, 1}, [4]int{1, 4, 1, 1}},
		{"Right", 5, 4, [4]int{1, 4, 10, 1}, [4]int{1, 1, 4, 1}},
		{"Top", 1, 4, [4]int{10, 1, 1, 4}, [4]int{4, 1, 1, 1}},
		{"Bottom", 7, 4, [4]int{4, 1, 1, 10}, [4]int{1, 1, 1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Board
			n := NewCard(0, "Neighbor", tt.facing, Neutral, 1)
			put(&b, n, Opponent, tt.neighbor)

			placed := NewCard(0, "Placed", tt.ranks, Neutral, 1)
			placed.Owner = Player
			res := Resolve(placed, tt.pos, &b, nil, DefaultRules())

			if !res.IsSame() {
				t.Fatal("Expected Same Wall to fire")
			}
			if got := res.Same(); len(got) != 1 || got[0] != n {
				t.Errorf("Expected Same list [Neighbor], got %v", names(got))
			}
		})
	}
}

// TestPlus: two neighbors whose facing sums match are both captured.
func TestPlus(t *testing.T) {
	var b Board
	above := put(&b, card("Above", 1, 1, 1, 7), Opponent, 1)
	left := put(&b, card("Left", 1, 1, 5, 1), Opponent, 3)

	placed := card("Placed", 3, 5, 2, 1)
	placed.Owner = Player
	res := Resolve(placed, 4, &b, nil, DefaultRules())

	if res.IsSame() {
		t.Fatal("A single Same match away from the wall must not fire")
	}
	if !res.IsPlus() {
		t.Fatal("Expected Plus to fire")
	}
	// Left is evaluated before top.
	if want := []*Card{left, above}; !reflect.DeepEqual(res.Plus(), want) {
		t.Errorf("Expected Plus list [Left Above], got %v", names(res.Plus()))
	}
	if res.CapturedCount() != 2 {
		t.Errorf("Expected capturedCount 2, got %d", res.CapturedCount())
	}
}

// TestPlusOnlyFirstGroup: when the first sum shared by two neighbors holds
// only the placer's cards, later sums are not considered.
func TestPlusOnlyFirstGroup(t *testing.T) {
	var b Board
	put(&b, card("OwnAbove", 1, 1, 1, 5), Player, 1)
	put(&b, card("OwnLeft", 1, 1, 5, 1), Player, 3)
	right := put(&b, card("Right", 1, 1, 1, 1), Opponent, 5)
	below := put(&b, card("Below", 1, 1, 1, 1), Opponent, 7)

	placed := card("Placed", 5, 5, 2, 2)
	placed.Owner = Player
	res := Resolve(placed, 4, &b, nil, DefaultRules())

	if res.IsPlus() {
		t.Error("Plus must not fire from a later sum group")
	}
	// Right and Below are still taken directly: 2 > 1 on both sides.
	if want := []*Card{right, below}; !reflect.DeepEqual(res.Captured(), want) {
		t.Errorf("Expected direct captures [Right Below], got %v", names(res.Captured()))
	}
	if res.CapturedCount() != 2 {
		t.Errorf("Expected capturedCount 2, got %d", res.CapturedCount())
	}
}

// TestSameDedupsDirectCaptures: a card both in the Same list and captured
// directly is counted once.
func TestSameDedupsDirectCaptures(t *testing.T) {
	var b Board
	rules := DefaultRules()
	eb := &ElementBoard{}
	eb[4] = Fire

	// Same on raw ranks, but the fire bonus also wins the comparison.
	left := put(&b, card("Left", 1, 1, 3, 1), Opponent, 3)
	above := put(&b, card("Above", 1, 1, 1, 3), Opponent, 1)
	right := put(&b, card("Right", 1, 1, 1, 1), Opponent, 5)

	placed := elemCard("Placed", Fire, 3, 3, 2, 1)
	placed.Owner = Player
	res := Resolve(placed, 4, &b, eb, rules)

	if !res.IsSame() {
		t.Fatal("Expected Same to fire")
	}
	if want := []*Card{left, above}; !reflect.DeepEqual(res.Same(), want) {
		t.Errorf("Expected Same list [Left Above], got %v", names(res.Same()))
	}
	// 2+1 > 1 against Right, which is not in the Same list.
	if want := []*Card{right}; !reflect.DeepEqual(res.Captured(), want) {
		t.Errorf("Expected direct captures [Right], got %v", names(res.Captured()))
	}
	if res.CapturedCount() != 3 {
		t.Errorf("Expected capturedCount 3, got %d", res.CapturedCount())
	}
}

// comboBoard lays out a board where a Same at the center chains two Combo waves.
//
//	C0 | C1 | .
//	C3 | ** | .
//	C6 | C7 | .
func comboBoard(b *Board) (c0, c1, c3, c6, c7 *Card) {
	c0 = put(b, card("C0", 1, 1, 2, 1), Opponent, 0)
	c1 = put(b, card("C1", 1, 9, 1, 4), Opponent, 1)
	c3 = put(b, card("C3", 1, 1, 6, 9), Opponent, 3)
	c6 = put(b, card("C6", 1, 1, 8, 1), Opponent, 6)
	c7 = put(b, card("C7", 3, 2, 1, 1), Opponent, 7)
	return
}

func TestCombo(t *testing.T) {
	var b Board
	c0, c1, c3, c6, c7 := comboBoard(&b)

	placed := card("Placed", 4, 6, 1, 2)
	placed.Owner = Player
	res := Resolve(placed, 4, &b, nil, DefaultRules())

	if !res.IsSame() {
		t.Fatal("Expected Same to fire")
	}
	if want := []*Card{c3, c1}; !reflect.DeepEqual(res.Same(), want) {
		t.Errorf("Expected Same list [C3 C1], got %v", names(res.Same()))
	}
	if res.HasCapture() {
		t.Errorf("Expected no direct captures, got %v", names(res.Captured()))
	}

	waves := res.Waves()
	if len(waves) != 2 {
		t.Fatalf("Expected 2 combo waves, got %d", len(waves))
	}
	if want := []*Card{c0, c6}; !reflect.DeepEqual(res.NextCombo(), want) {
		t.Errorf("Expected first wave [C0 C6], got %v", names(waves[0]))
	}
	if want := []*Card{c7}; !reflect.DeepEqual(res.NextCombo(), want) {
		t.Errorf("Expected second wave [C7], got %v", names(waves[1]))
	}
	if res.HasCombo() || res.NextCombo() != nil {
		t.Error("Expected combo queue to be drained")
	}
	if res.CapturedCount() != 5 {
		t.Errorf("Expected capturedCount 5, got %d", res.CapturedCount())
	}
}

func TestComboRuleOff(t *testing.T) {
	var b Board
	comboBoard(&b)

	rules := DefaultRules()
	rules.Combo = false

	placed := card("Placed", 4, 6, 1, 2)
	placed.Owner = Player
	res := Resolve(placed, 4, &b, nil, rules)

	if !res.IsSame() {
		t.Fatal("Expected Same to fire")
	}
	if res.HasCombo() {
		t.Error("Expected no combo waves with the rule off")
	}
	if res.CapturedCount() != 2 {
		t.Errorf("Expected capturedCount 2, got %d", res.CapturedCount())
	}
}

// TestElementalAdjustment covers the matching bonus, the mismatch penalty,
// and the rule being off.
func TestElementalAdjustment(t *testing.T) {
	tests := []struct {
		name      string
		elemental bool
		slot0     Element
		slot1     Element
		want      bool
	}{
		{"NoElements", true, Neutral, Neutral, false},
		{"MatchingBonus", true, Fire, Neutral, true},
		{"NeighborPenalty", true, Neutral, Water, true},
		{"PlacedPenalty", true, Water, Neutral, false},
		{"RuleOff", false, Fire, Water, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Board
			put(&b, elemCard("Neighbor", Fire, 1, 5, 1, 1), Opponent, 1)

			eb := &ElementBoard{}
			eb[0] = tt.slot0
			eb[1] = tt.slot1

			rules := noRules()
			rules.Elemental = tt.elemental

			placed := elemCard("Placed", Fire, 1, 1, 5, 1)
			placed.Owner = Player
			res := Resolve(placed, 0, &b, eb, rules)
			if res.HasCapture() != tt.want {
				t.Errorf("HasCapture = %v, want %v", res.HasCapture(), tt.want)
			}
		})
	}
}

// TestCapturedCountMatchesFlips plays random matches and checks after every
// placement that the result's count equals the cards that changed owner,
// that scores sum to ten, and that combos stay within eight waves.
func TestCapturedCountMatchesFlips(t *testing.T) {
	cat, err := DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	for seed := int64(1); seed <= 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		m, err := NewMatch(MatchConfig{Rules: DefaultRules(), Catalog: cat, Seed: seed}, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		m.Start()
		gs := m.State
		for !gs.Over && gs.Round == 1 {
			hand := gs.Hands[gs.Turn]
			spaces := gs.Board.EmptySpaces()
			mv := Move{HandIndex: rng.Intn(len(hand)), Position: spaces[rng.Intn(len(spaces))]}

			preview := Resolve(hand[mv.HandIndex], mv.Position, &gs.Board, gs.Elements, gs.Rules)
			if n := len(preview.Waves()); n > 8 {
				t.Fatalf("seed %d: %d combo waves", seed, n)
			}

			var before [2][]Owner
			for p, side := range gs.dealt {
				for _, c := range side {
					before[p] = append(before[p], c.Owner)
				}
			}

			res, err := m.Play(mv)
			if err != nil {
				t.Fatalf("seed %d: Play(%v): %v", seed, mv, err)
			}

			flips := 0
			for p, side := range gs.dealt {
				for i, c := range side {
					if c.Owner != before[p][i] {
						flips++
					}
				}
			}
			if flips != res.CapturedCount() {
				t.Fatalf("seed %d: %s at %d flipped %d cards, capturedCount %d",
					seed, res.Card().Name, mv.Position, flips, res.CapturedCount())
			}
			if preview.CapturedCount() != res.CapturedCount() {
				t.Fatalf("seed %d: preview count %d != played count %d", seed, preview.CapturedCount(), res.CapturedCount())
			}
			if sum := gs.Scores[Player] + gs.Scores[Opponent]; sum != 10 {
				t.Fatalf("seed %d: scores sum to %d", seed, sum)
			}
			if gs.Scores[Player] != gs.Owned(Player) {
				t.Fatalf("seed %d: score %d but owns %d", seed, gs.Scores[Player], gs.Owned(Player))
			}
		}
	}
}
