package game

import "github.com/cardroom/holdemd/internal/deck"

// Player represents a seated player. Chips persist across hands; the
// remaining fields are reset when a hand starts.
type Player struct {
	Name     string
	Chips    int
	Hole     []deck.Card
	Active   bool // false once folded
	Bet      int  // chips committed this betting round
	TotalBet int  // chips committed this whole hand
}

// NewPlayer creates a player with a starting stack.
func NewPlayer(name string, chips int) *Player {
	return &Player{Name: name, Chips: chips}
}

// CanAct reports whether the player may be asked to act: still in the
// hand and not all-in.
func (p *Player) CanAct() bool {
	return p.Active && p.Chips > 0
}

// resetForHand clears the per-hand state.
func (p *Player) resetForHand() {
	p.Hole = nil
	p.Active = true
	p.Bet = 0
	p.TotalBet = 0
}
