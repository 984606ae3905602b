package deck

import (
	"errors"
	"testing"

	"github.com/cardroom/holdemd/internal/randutil"
)

func TestNewShuffledHas52UniqueCards(t *testing.T) {
	t.Parallel()
	d := NewShuffled(randutil.New(1))

	if d.Remaining() != 52 {
		t.Fatalf("expected 52 cards, got %d", d.Remaining())
	}

	seen := make(map[Card]bool)
	cards, err := d.Draw(52)
	if err != nil {
		t.Fatalf("drawing full deck: %v", err)
	}
	for _, c := range cards {
		if seen[c] {
			t.Errorf("duplicate card %s", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Errorf("expected 52 unique cards, got %d", len(seen))
	}
}

func TestDrawIsAtomic(t *testing.T) {
	t.Parallel()
	d := NewShuffled(randutil.New(7))

	if _, err := d.Draw(50); err != nil {
		t.Fatalf("drawing 50: %v", err)
	}

	// Asking for more than remains must fail without removing cards.
	if _, err := d.Draw(3); !errors.Is(err, ErrEmptyDeck) {
		t.Errorf("expected ErrEmptyDeck, got %v", err)
	}
	if d.Remaining() != 2 {
		t.Errorf("failed draw should not consume cards, %d remain", d.Remaining())
	}

	cards, err := d.Draw(2)
	if err != nil {
		t.Fatalf("drawing final cards: %v", err)
	}
	if len(cards) != 2 {
		t.Errorf("expected 2 cards, got %d", len(cards))
	}
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	t.Parallel()
	a, _ := NewShuffled(randutil.New(42)).Draw(52)
	b, _ := NewShuffled(randutil.New(42)).Draw(52)
	c, _ := NewShuffled(randutil.New(43)).Draw(52)

	same := true
	differs := false
	for i := range a {
		if a[i] != b[i] {
			same = false
		}
		if a[i] != c[i] {
			differs = true
		}
	}
	if !same {
		t.Error("same seed should produce the same order")
	}
	if !differs {
		t.Error("different seeds should produce different orders")
	}
}

func TestCardString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		card Card
		want string
	}{
		{NewCard(Ace, Spades), "A♠"},
		{NewCard(Ten, Hearts), "T♥"},
		{NewCard(Two, Clubs), "2♣"},
		{NewCard(Queen, Diamonds), "Q♦"},
	}
	for _, tt := range tests {
		if got := tt.card.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCardValue(t *testing.T) {
	t.Parallel()
	if v := NewCard(Ace, Spades).Value(); v != 14 {
		t.Errorf("Ace value = %d, want 14", v)
	}
	if v := NewCard(Two, Hearts).Value(); v != 2 {
		t.Errorf("Two value = %d, want 2", v)
	}
	if LowAceValue != 1 {
		t.Errorf("LowAceValue = %d, want 1", LowAceValue)
	}
}
