package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrEmptyDeck is returned when a draw asks for more cards than remain.
// Table size limits keep this unreachable during normal play (two hole
// cards per player plus five community cards never exceeds 52).
var ErrEmptyDeck = errors.New("deck: not enough cards remaining")

// Deck is a standard 52-card deck. Cards are drawn from the front.
type Deck struct {
	cards []Card
}

// NewShuffled builds a full 52-card deck and shuffles it with rng.
// A fresh deck is built for every hand.
func NewShuffled(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	return d
}

// Draw removes and returns the top n cards. It is atomic: when fewer
// than n cards remain it returns ErrEmptyDeck and removes nothing.
func (d *Deck) Draw(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrEmptyDeck
	}
	cards := d.cards[:n:n]
	d.cards = d.cards[n:]
	return cards, nil
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}
