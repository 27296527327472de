package ai

import (
	"math/rand"

	"github.com/peterkuimelis/triad/internal/game"
)

// randomAI plays a random card on a random empty slot.
type randomAI struct {
	base
	rng *rand.Rand
}

func (a *randomAI) Decide(thisScore, thatScore int) game.Move {
	spaces := a.board.EmptySpaces()
	return game.Move{
		HandIndex: a.rng.Intn(len(*a.hand)),
		Position:  spaces[a.rng.Intn(len(spaces))],
	}
}

// offensiveAI captures as many cards as possible with the weakest card that
// can do it.
type offensiveAI struct {
	base
}

func (a *offensiveAI) Decide(thisScore, thatScore int) game.Move {
	spaces := a.board.EmptySpaces()
	hand := *a.hand
	lowest := useLowestLevel(len(spaces), len(hand))

	var next game.Move
	maxCapture := -1
	nextLevel := -1
	for _, space := range spaces {
		for index, c := range hand {
			captured := a.captureCount(c, space)
			if captured > maxCapture || (captured == maxCapture && levelWins(c.Level, nextLevel, lowest)) {
				maxCapture = captured
				nextLevel = c.Level
				next = game.Move{HandIndex: index, Position: space}
			}
		}
	}

	if maxCapture == 0 {
		return a.minRankDiff(spaces)
	}
	return next
}

// defensiveAI always takes the safest placement.
type defensiveAI struct {
	base
}

func (a *defensiveAI) Decide(thisScore, thatScore int) game.Move {
	return a.minRankDiff(a.board.EmptySpaces())
}

// balancedAI weighs captures against how exposed the placed card is.
type balancedAI struct {
	base
}

func (a *balancedAI) Decide(thisScore, thatScore int) game.Move {
	spaces := a.board.EmptySpaces()
	hand := *a.hand
	lowest := useLowestLevel(len(spaces), len(hand))

	// Losing loosens the placement restrictions.
	losing := thisScore < thatScore

	var next game.Move
	maxCapture := -1
	nextRankDiff := 41
	nextLevel := -1
	for _, space := range spaces {
		for index, c := range hand {
			captured := a.captureCount(c, space)
			rankDiff := a.rankDiff(c, space)

			take := false
			switch {
			case maxCapture == -1:
				take = true
			case captured > maxCapture:
				take = captured > 2 || nextRankDiff-rankDiff > -5 || losing
			case captured == maxCapture:
				take = rankDiff < nextRankDiff ||
					(rankDiff == nextRankDiff && levelWins(c.Level, nextLevel, lowest))
			case captured == maxCapture-1 && !losing:
				// A slightly smaller capture for a much safer slot.
				take = nextRankDiff-rankDiff > 5
			}

			if take {
				maxCapture = captured
				nextRankDiff = rankDiff
				nextLevel = c.Level
				next = game.Move{HandIndex: index, Position: space}
			}
		}
	}

	if maxCapture == 0 && len(spaces) != game.BoardSize {
		return a.minRankDiff(spaces)
	}
	return next
}
