// Package poker scores Texas Hold'em hands. Evaluate takes the cards
// available to a player (two hole cards plus up to five community
// cards) and produces a Score that orders any two hands totally.
package poker

import (
	"sort"

	"github.com/cardroom/holdemd/internal/deck"
)

// Category enumerates hand categories in ascending strength order.
type Category int

const (
	HighCard Category = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable category description.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Score is the strength of a hand. Category dominates; Kickers break
// ties within a category, compared element-wise in descending order.
// Scores within a category always carry the same number of kickers.
type Score struct {
	Category Category
	Kickers  []int
}

// Compare returns 1 if s beats other, -1 if other beats s, 0 on a tie.
func (s Score) Compare(other Score) int {
	if s.Category != other.Category {
		if s.Category > other.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < len(s.Kickers) && i < len(other.Kickers); i++ {
		if s.Kickers[i] != other.Kickers[i] {
			if s.Kickers[i] > other.Kickers[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Evaluate scores a set of 2-7 cards. The function is pure and does
// not depend on input order.
func Evaluate(cards []deck.Card) Score {
	rankCounts := make(map[int]int, len(cards))
	suitCounts := make(map[deck.Suit]int, 4)
	for _, c := range cards {
		rankCounts[c.Value()]++
		suitCounts[c.Suit]++
	}

	// Distinct ranks, descending.
	ranks := make([]int, 0, len(rankCounts))
	for r := range rankCounts {
		ranks = append(ranks, r)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))

	flushSuit, hasFlush := flushOf(suitCounts)
	straightHigh, hasStraight := straightOf(ranks)

	if hasFlush && hasStraight {
		return Score{Category: StraightFlush, Kickers: straightRun(straightHigh)}
	}

	quad, trips, pairs := groupRanks(rankCounts)

	if quad != 0 {
		return Score{Category: FourOfAKind, Kickers: append([]int{quad}, topRanks(ranks, 1, quad)...)}
	}
	if len(trips) > 0 && (len(pairs) > 0 || len(trips) > 1) {
		// With two triples the higher forms the triple and the lower
		// serves as the pair.
		pair := 0
		if len(trips) > 1 {
			pair = trips[1]
		}
		if len(pairs) > 0 && pairs[0] > pair {
			pair = pairs[0]
		}
		return Score{Category: FullHouse, Kickers: []int{trips[0], pair}}
	}
	if hasFlush {
		return Score{Category: Flush, Kickers: flushRanks(cards, flushSuit)}
	}
	if hasStraight {
		return Score{Category: Straight, Kickers: straightRun(straightHigh)}
	}
	if len(trips) > 0 {
		return Score{Category: ThreeOfAKind, Kickers: append([]int{trips[0]}, topRanks(ranks, 2, trips[0])...)}
	}
	if len(pairs) > 1 {
		return Score{Category: TwoPair, Kickers: append([]int{pairs[0], pairs[1]}, topRanks(ranks, 1, pairs[0], pairs[1])...)}
	}
	if len(pairs) == 1 {
		return Score{Category: Pair, Kickers: append([]int{pairs[0]}, topRanks(ranks, 3, pairs[0])...)}
	}
	return Score{Category: HighCard, Kickers: topRanks(ranks, 5)}
}

// flushOf reports the suit holding five or more cards, if any.
func flushOf(suitCounts map[deck.Suit]int) (deck.Suit, bool) {
	for suit, count := range suitCounts {
		if count >= 5 {
			return suit, true
		}
	}
	return 0, false
}

// straightOf finds the highest run of five consecutive distinct ranks.
// ranks must be distinct and sorted descending. The wheel A-2-3-4-5
// counts as a 5-high straight with the Ace demoted to 1.
func straightOf(ranks []int) (high int, ok bool) {
	for i := 0; i+4 < len(ranks); i++ {
		if ranks[i]-ranks[i+4] == 4 {
			return ranks[i], true
		}
	}
	if hasWheel(ranks) {
		return 5, true
	}
	return 0, false
}

func hasWheel(ranks []int) bool {
	need := map[int]bool{14: true, 5: true, 4: true, 3: true, 2: true}
	for _, r := range ranks {
		delete(need, r)
	}
	return len(need) == 0
}

// straightRun expands a straight's high card into its five run values.
// A 5-high run ends with the low Ace.
func straightRun(high int) []int {
	run := make([]int, 5)
	for i := range run {
		run[i] = high - i
	}
	if high == 5 {
		run[4] = deck.LowAceValue
	}
	return run
}

// groupRanks splits the histogram into the quad rank (0 when absent)
// and descending lists of triple and pair ranks.
func groupRanks(rankCounts map[int]int) (quad int, trips, pairs []int) {
	for r, count := range rankCounts {
		switch count {
		case 4:
			quad = r
		case 3:
			trips = append(trips, r)
		case 2:
			pairs = append(pairs, r)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(trips)))
	sort.Sort(sort.Reverse(sort.IntSlice(pairs)))
	return quad, trips, pairs
}

// topRanks returns the n highest ranks not in exclude. ranks must be
// sorted descending.
func topRanks(ranks []int, n int, exclude ...int) []int {
	out := make([]int, 0, n)
	for _, r := range ranks {
		if len(out) == n {
			break
		}
		skip := false
		for _, ex := range exclude {
			if r == ex {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, r)
		}
	}
	return out
}

// flushRanks returns the five highest ranks of the flush suit.
func flushRanks(cards []deck.Card, suit deck.Suit) []int {
	vals := make([]int, 0, len(cards))
	for _, c := range cards {
		if c.Suit == suit {
			vals = append(vals, c.Value())
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(vals)))
	if len(vals) > 5 {
		vals = vals[:5]
	}
	return vals
}
