package game

// Result describes everything a single placement captures, including
// Same/Plus and every Combo wave. It is computed eagerly by Resolve and
// consumed by the match one list at a time.
type Result struct {
	card          *Card
	captured      []*Card
	same          []*Card
	plus          []*Card
	combo         [][]*Card
	capturedCount int
}

// resolver holds the scratch state of one Resolve call.
type resolver struct {
	res      *Result
	board    *Board
	elements *ElementBoard
	rules    RuleConfig

	// owners is the combo snapshot: board owners as they will be once the
	// waves computed so far are applied. Never aliased with live cards.
	owners [BoardSize]Owner

	// Plus candidates grouped by rank sum, in first-seen order.
	sums     []int
	sumCards map[int][]*Card
}

// Resolve computes the outcome of placing card at pos. It never modifies
// the board, the card or any other card, so it can simulate moves.
// board[pos] must be empty; elements is nil when the Elemental rule is off.
func Resolve(card *Card, pos int, board *Board, elements *ElementBoard, rules RuleConfig) *Result {
	if !rules.Elemental {
		elements = nil
	}
	r := &resolver{
		res:      &Result{card: card},
		board:    board,
		elements: elements,
		rules:    rules,
	}
	for i, c := range board {
		if c != nil {
			r.owners[i] = c.Owner
		}
	}
	r.owners[pos] = card.Owner

	var same []*Card
	sameWall := false
	for _, side := range scanOrder {
		target, ok := Neighbor(pos, side)
		if !ok {
			if card.Rank(side) == MaxRank {
				sameWall = true
			}
			continue
		}
		if r.compare(card, pos, side, target) {
			same = append(same, board[target])
		}
	}

	res := r.res
	plusOpen := rules.Plus

	if rules.Same {
		minSize := 2
		if sameWall && rules.SameWall {
			minSize = 1
		}
		if len(same) >= minSize && r.countForeign(same) > 0 {
			res.same = same
			plusOpen = false
			r.filterCaptured(same)
			r.chain(same)
		}
	}

	if plusOpen {
		// Only the first sum shared by two or more neighbors is considered.
		for _, sum := range r.sums {
			group := r.sumCards[sum]
			if len(group) < 2 {
				continue
			}
			if r.countForeign(group) > 0 {
				res.plus = group
				r.filterCaptured(group)
				r.chain(group)
			} else {
				res.capturedCount = 0
			}
			break
		}
	}

	res.capturedCount += len(res.captured)
	return res
}

// compare evaluates one side of the placed card against the card at
// target: it records Plus sums and direct captures and reports whether
// the facing ranks are a Same match.
func (r *resolver) compare(card *Card, pos int, side Side, target int) bool {
	other := r.board[target]
	if other == nil {
		return false
	}
	rank := card.Rank(side)
	otherRank := other.Rank(side.Opposite())

	if r.rules.Plus {
		sum := rank + otherRank
		if r.sumCards == nil {
			r.sumCards = make(map[int][]*Card)
		}
		if _, seen := r.sumCards[sum]; !seen {
			r.sums = append(r.sums, sum)
		}
		r.sumCards[sum] = append(r.sumCards[sum], other)
	}

	if r.captures(card, pos, side, card.Owner, target, other.Owner) {
		r.res.captured = append(r.res.captured, other)
	}

	return r.rules.Same && rank == otherRank
}

// captures reports whether src at srcPos takes the card at dstPos across
// side, given the owners to compare. Elemental bonuses apply to both.
func (r *resolver) captures(src *Card, srcPos int, side Side, srcOwner Owner, dstPos int, dstOwner Owner) bool {
	dst := r.board[dstPos]
	if dst == nil || srcOwner == dstOwner {
		return false
	}
	srcRank := src.Rank(side) + r.elements.Bonus(src, srcPos)
	dstRank := dst.Rank(side.Opposite()) + r.elements.Bonus(dst, dstPos)
	return srcRank > dstRank
}

// countForeign counts the cards in list not owned by the placer and adds
// them to the captured total.
func (r *resolver) countForeign(list []*Card) int {
	n := 0
	for _, c := range list {
		if c.Owner != r.res.card.Owner {
			n++
		}
	}
	r.res.capturedCount += n
	return n
}

// filterCaptured drops direct captures already covered by list. The rest
// stay direct captures but count as flipped for the combo snapshot.
func (r *resolver) filterCaptured(list []*Card) {
	kept := r.res.captured[:0]
	for _, c := range r.res.captured {
		if contains(list, c) {
			continue
		}
		r.owners[c.Position] = r.res.card.Owner
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		kept = nil
	}
	r.res.captured = kept
}

// chain computes Combo waves seeded by wave, recursing until a wave
// captures nothing.
func (r *resolver) chain(wave []*Card) {
	if !r.rules.Combo {
		return
	}

	placer := r.res.card.Owner
	for _, c := range wave {
		r.owners[c.Position] = placer
	}

	var hit [BoardSize]bool
	for _, c := range wave {
		if c.Owner == placer {
			continue
		}
		pos := c.Position
		for _, side := range scanOrder {
			target, ok := Neighbor(pos, side)
			if ok && r.captures(c, pos, side, r.owners[pos], target, r.owners[target]) {
				hit[target] = true
			}
		}
	}

	var next []*Card
	for pos, h := range hit {
		if h {
			next = append(next, r.board[pos])
			r.res.capturedCount++
		}
	}
	if len(next) == 0 {
		return
	}
	r.res.combo = append(r.res.combo, next)
	r.chain(next)
}

func contains(list []*Card, c *Card) bool {
	for _, x := range list {
		if x == c {
			return true
		}
	}
	return false
}

// --- Accessors ---

// Card returns the placed card.
func (r *Result) Card() *Card { return r.card }

// HasCapture reports whether the placement directly captured any card.
func (r *Result) HasCapture() bool { return len(r.captured) > 0 }

// IsSame reports whether the Same rule fired.
func (r *Result) IsSame() bool { return r.same != nil }

// IsPlus reports whether the Plus rule fired.
func (r *Result) IsPlus() bool { return r.plus != nil }

// HasCombo reports whether any Combo waves remain to be taken.
func (r *Result) HasCombo() bool { return len(r.combo) > 0 }

// NextCombo removes and returns the next Combo wave, or nil if none remain.
func (r *Result) NextCombo() []*Card {
	if !r.HasCombo() {
		return nil
	}
	wave := r.combo[0]
	r.combo = r.combo[1:]
	return wave
}

// Waves returns the remaining Combo waves without consuming them.
func (r *Result) Waves() [][]*Card {
	waves := make([][]*Card, len(r.combo))
	copy(waves, r.combo)
	return waves
}

// Captured returns the direct captures, or nil.
func (r *Result) Captured() []*Card { return r.captured }

// Same returns the Same list when the rule fired, or nil.
func (r *Result) Same() []*Card { return r.same }

// Plus returns the Plus list when the rule fired, or nil.
func (r *Result) Plus() []*Card { return r.plus }

// CapturedCount returns the number of cards this placement flips across
// all rules and combos.
func (r *Result) CapturedCount() int { return r.capturedCount }
