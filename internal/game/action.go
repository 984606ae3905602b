package game

// ActionKind tags the two things a player can do when it is their
// turn.
type ActionKind int

const (
	Fold ActionKind = iota
	Bet
)

func (k ActionKind) String() string {
	switch k {
	case Fold:
		return "fold"
	case Bet:
		return "bet"
	}
	return "unknown"
}

// Action is one player decision. Amount is meaningful only for Bet.
type Action struct {
	Kind   ActionKind
	Amount int
}

// FoldAction gives up the hand.
func FoldAction() Action {
	return Action{Kind: Fold}
}

// BetAction puts amount chips in on top of the player's current bet.
// A zero amount is a check when nothing is owed.
func BetAction(amount int) Action {
	return Action{Kind: Bet, Amount: amount}
}
