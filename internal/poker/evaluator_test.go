package poker

import (
	rand "math/rand/v2"
	"testing"

	"github.com/cardroom/holdemd/internal/deck"
)

func card(rank deck.Rank, suit deck.Suit) deck.Card {
	return deck.NewCard(rank, suit)
}

func kickersEqual(got, want []int) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestFourOfAKindAces(t *testing.T) {
	t.Parallel()
	score := Evaluate([]deck.Card{
		card(deck.Ace, deck.Clubs),
		card(deck.Ace, deck.Diamonds),
		card(deck.Ace, deck.Hearts),
		card(deck.Ace, deck.Spades),
		card(deck.Two, deck.Clubs),
	})
	if score.Category != FourOfAKind {
		t.Fatalf("category = %v, want FourOfAKind", score.Category)
	}
	if score.Kickers[0] != 14 {
		t.Errorf("lead kicker = %d, want 14", score.Kickers[0])
	}
}

func TestRoyalStraightFlush(t *testing.T) {
	t.Parallel()
	score := Evaluate([]deck.Card{
		card(deck.Ten, deck.Spades),
		card(deck.Jack, deck.Spades),
		card(deck.Queen, deck.Spades),
		card(deck.King, deck.Spades),
		card(deck.Ace, deck.Spades),
	})
	if score.Category != StraightFlush {
		t.Fatalf("category = %v, want StraightFlush", score.Category)
	}
	if !kickersEqual(score.Kickers, []int{14, 13, 12, 11, 10}) {
		t.Errorf("kickers = %v", score.Kickers)
	}
}

func TestWheelStraightUsesLowAce(t *testing.T) {
	t.Parallel()
	score := Evaluate([]deck.Card{
		card(deck.Ace, deck.Spades),
		card(deck.Two, deck.Diamonds),
		card(deck.Three, deck.Clubs),
		card(deck.Four, deck.Hearts),
		card(deck.Five, deck.Spades),
	})
	if score.Category != Straight {
		t.Fatalf("category = %v, want Straight", score.Category)
	}
	if !kickersEqual(score.Kickers, []int{5, 4, 3, 2, 1}) {
		t.Errorf("kickers = %v, want [5 4 3 2 1]", score.Kickers)
	}

	// The wheel is the weakest straight.
	sixHigh := Evaluate([]deck.Card{
		card(deck.Two, deck.Spades),
		card(deck.Three, deck.Diamonds),
		card(deck.Four, deck.Clubs),
		card(deck.Five, deck.Hearts),
		card(deck.Six, deck.Spades),
	})
	if sixHigh.Compare(score) != 1 {
		t.Error("6-high straight should beat the wheel")
	}
}

func TestFullHouseFromTwoTriples(t *testing.T) {
	t.Parallel()
	score := Evaluate([]deck.Card{
		card(deck.Queen, deck.Spades),
		card(deck.Queen, deck.Diamonds),
		card(deck.Queen, deck.Clubs),
		card(deck.King, deck.Hearts),
		card(deck.King, deck.Spades),
		card(deck.King, deck.Diamonds),
		card(deck.Two, deck.Clubs),
	})
	if score.Category != FullHouse {
		t.Fatalf("category = %v, want FullHouse", score.Category)
	}
	// Higher triple leads, lower triple serves as the pair.
	if !kickersEqual(score.Kickers, []int{13, 12}) {
		t.Errorf("kickers = %v, want [13 12]", score.Kickers)
	}
}

func TestFlushKickersComeFromFlushSuit(t *testing.T) {
	t.Parallel()
	score := Evaluate([]deck.Card{
		card(deck.Two, deck.Hearts),
		card(deck.Five, deck.Hearts),
		card(deck.Seven, deck.Hearts),
		card(deck.Nine, deck.Hearts),
		card(deck.Jack, deck.Hearts),
		card(deck.Ace, deck.Clubs),
		card(deck.King, deck.Clubs),
	})
	if score.Category != Flush {
		t.Fatalf("category = %v, want Flush", score.Category)
	}
	if !kickersEqual(score.Kickers, []int{11, 9, 7, 5, 2}) {
		t.Errorf("kickers = %v, want flush-suit ranks [11 9 7 5 2]", score.Kickers)
	}
}

func TestTwoPairAndPairKickers(t *testing.T) {
	t.Parallel()
	twoPair := Evaluate([]deck.Card{
		card(deck.Nine, deck.Spades),
		card(deck.Nine, deck.Diamonds),
		card(deck.Four, deck.Clubs),
		card(deck.Four, deck.Hearts),
		card(deck.Ace, deck.Spades),
	})
	if twoPair.Category != TwoPair {
		t.Fatalf("category = %v, want TwoPair", twoPair.Category)
	}
	if !kickersEqual(twoPair.Kickers, []int{9, 4, 14}) {
		t.Errorf("kickers = %v, want [9 4 14]", twoPair.Kickers)
	}

	pair := Evaluate([]deck.Card{
		card(deck.Nine, deck.Spades),
		card(deck.Nine, deck.Diamonds),
		card(deck.Four, deck.Clubs),
		card(deck.Seven, deck.Hearts),
		card(deck.Ace, deck.Spades),
	})
	if pair.Category != Pair {
		t.Fatalf("category = %v, want Pair", pair.Category)
	}
	if !kickersEqual(pair.Kickers, []int{9, 14, 7, 4}) {
		t.Errorf("kickers = %v, want [9 14 7 4]", pair.Kickers)
	}
}

func TestCategoryPrecedence(t *testing.T) {
	t.Parallel()
	// Trips plus a straight on the same seven cards: straight wins.
	score := Evaluate([]deck.Card{
		card(deck.Seven, deck.Spades),
		card(deck.Seven, deck.Diamonds),
		card(deck.Seven, deck.Clubs),
		card(deck.Eight, deck.Hearts),
		card(deck.Nine, deck.Spades),
		card(deck.Ten, deck.Diamonds),
		card(deck.Jack, deck.Clubs),
	})
	if score.Category != Straight {
		t.Errorf("category = %v, want Straight over ThreeOfAKind", score.Category)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()
	flush := Score{Category: Flush, Kickers: []int{10, 8, 6, 4, 2}}
	straight := Score{Category: Straight, Kickers: []int{14, 13, 12, 11, 10}}
	if flush.Compare(straight) != 1 {
		t.Error("flush should beat straight regardless of kickers")
	}

	a := Score{Category: Pair, Kickers: []int{9, 14, 7, 4}}
	b := Score{Category: Pair, Kickers: []int{9, 14, 7, 3}}
	if a.Compare(b) != 1 {
		t.Error("higher final kicker should win")
	}
	if b.Compare(a) != -1 {
		t.Error("comparison should be antisymmetric")
	}
	if a.Compare(a) != 0 {
		t.Error("identical scores should tie")
	}
}

func TestEvaluateIsOrderIndependent(t *testing.T) {
	t.Parallel()
	cards := []deck.Card{
		card(deck.Two, deck.Hearts),
		card(deck.Two, deck.Spades),
		card(deck.Seven, deck.Hearts),
		card(deck.Nine, deck.Hearts),
		card(deck.Jack, deck.Hearts),
		card(deck.Ace, deck.Hearts),
		card(deck.King, deck.Clubs),
	}
	want := Evaluate(cards)

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		shuffled := append([]deck.Card{}, cards...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		got := Evaluate(shuffled)
		if got.Compare(want) != 0 || got.Category != want.Category {
			t.Fatalf("order changed the score: %v vs %v", got, want)
		}
	}
}

func TestTwoCardInput(t *testing.T) {
	t.Parallel()
	pair := Evaluate([]deck.Card{
		card(deck.Ace, deck.Spades),
		card(deck.Ace, deck.Hearts),
	})
	if pair.Category != Pair {
		t.Errorf("category = %v, want Pair", pair.Category)
	}

	high := Evaluate([]deck.Card{
		card(deck.Ace, deck.Spades),
		card(deck.King, deck.Hearts),
	})
	if high.Category != HighCard {
		t.Errorf("category = %v, want HighCard", high.Category)
	}
	if pair.Compare(high) != 1 {
		t.Error("a pair should beat a high card")
	}
}
