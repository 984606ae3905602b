package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cardroom/holdemd/internal/deck"
)

// Hand drives a single hand of Texas Hold'em for one table: blinds,
// betting rounds, community-card reveals, and showdown settlement.
// A Hand is created when a table becomes eligible and discarded once
// it reaches Showdown. It is not safe for concurrent use; the owning
// table serializes access.
type Hand struct {
	ID         string
	Players    []*Player // seating order, fixed for the hand
	Dealer     int
	Phase      Phase
	Community  []deck.Card
	CurrentBet int // target every active player must match this round
	Turn       int
	Pot        int
	Results    []PotResult // populated once Phase reaches Showdown

	deck   *deck.Deck
	logger *log.Logger
}

// NewHand starts a hand: fresh shuffled deck, per-hand player state
// reset, two hole cards each, blinds posted, and the first player to
// act selected. Heads-up the dealer posts the small blind and acts
// first pre-flop; otherwise the blinds sit left of the dealer and
// action opens three seats past the button.
func NewHand(rng *rand.Rand, players []*Player, dealer, smallBlind, bigBlind int, logger *log.Logger) (*Hand, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("hand requires at least 2 players, got %d", len(players))
	}

	h := &Hand{
		ID:      uuid.NewString(),
		Players: players,
		Dealer:  dealer,
		Phase:   PreFlop,
		deck:    deck.NewShuffled(rng),
	}
	h.logger = logger.With("hand", shortID(h.ID))

	for _, p := range players {
		p.resetForHand()
		hole, err := h.deck.Draw(2)
		if err != nil {
			return nil, fmt.Errorf("dealing hole cards: %w", err)
		}
		p.Hole = hole
	}

	n := len(players)
	var sb, bb, first int
	if n == 2 {
		sb = dealer
		bb = (dealer + 1) % n
		first = dealer
	} else {
		sb = (dealer + 1) % n
		bb = (dealer + 2) % n
		first = (dealer + 3) % n
	}
	h.postBlind(players[sb], smallBlind)
	h.postBlind(players[bb], bigBlind)
	h.CurrentBet = bigBlind
	h.Turn = h.nextActor(first)

	h.logger.Info("hand started",
		"players", n, "dealer", dealer,
		"smallBlind", smallBlind, "bigBlind", bigBlind)

	return h, nil
}

// postBlind commits a forced bet, capped at the player's stack.
func (h *Hand) postBlind(p *Player, blind int) {
	amount := min(blind, p.Chips)
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	h.Pot += amount
}

// TakeAction validates and applies one player action. Rejected
// actions return a reason and leave the hand unchanged; any other
// error is an internal fault and the hand should be aborted.
func (h *Hand) TakeAction(name string, action Action) error {
	if h.Phase == Showdown {
		return fmt.Errorf("%w: hand is complete", ErrInvalidAction)
	}
	idx := h.indexOf(name)
	if idx < 0 || idx != h.Turn {
		return ErrNotYourTurn
	}
	p := h.Players[idx]

	switch action.Kind {
	case Fold:
		p.Active = false
	case Bet:
		required := h.CurrentBet - p.Bet
		if action.Amount > p.Chips {
			return ErrInsufficientChips
		}
		// A bet below the call amount is only legal when it puts the
		// player all-in.
		if action.Amount < required && action.Amount != p.Chips {
			return ErrBelowMinimumBet
		}
		p.Chips -= action.Amount
		p.Bet += action.Amount
		p.TotalBet += action.Amount
		h.Pot += action.Amount
		if p.Bet > h.CurrentBet {
			h.CurrentBet = p.Bet
		}
	default:
		return fmt.Errorf("%w: unknown action kind %d", ErrInvalidAction, action.Kind)
	}

	h.logger.Debug("action accepted",
		"player", name, "action", action.Kind, "amount", action.Amount,
		"pot", h.Pot, "target", h.CurrentBet)

	return h.afterAction()
}

// ForceFold folds a player immediately, regardless of turn order.
// Used when a connection drops mid-hand but the table can continue.
func (h *Hand) ForceFold(name string) error {
	if h.Phase == Showdown {
		return nil
	}
	idx := h.indexOf(name)
	if idx < 0 || !h.Players[idx].Active {
		return nil
	}
	h.Players[idx].Active = false
	h.logger.Info("player force-folded", "player", name)

	if last := h.lastActive(); last != nil {
		h.settleLastStanding(last)
		return nil
	}
	if idx == h.Turn {
		h.Turn = h.nextActor(h.Turn + 1)
	}
	if h.isBettingRoundComplete() {
		return h.advancePhase()
	}
	return nil
}

// afterAction advances the hand following any accepted state change:
// settle immediately when one player remains, otherwise move the turn
// along and advance the phase once the betting round is complete.
func (h *Hand) afterAction() error {
	if last := h.lastActive(); last != nil {
		h.settleLastStanding(last)
		return nil
	}
	h.Turn = h.nextActor(h.Turn + 1)
	if h.isBettingRoundComplete() {
		return h.advancePhase()
	}
	return nil
}

// isBettingRoundComplete reports whether every player still able to
// act has matched the betting target. All-in players cannot be asked
// for more chips and do not hold the round open.
func (h *Hand) isBettingRoundComplete() bool {
	for _, p := range h.Players {
		if p.CanAct() && p.Bet != h.CurrentBet {
			return false
		}
	}
	return true
}

// advancePhase deals the next community cards and resets the betting
// round. When no further betting is possible (all but one player
// all-in) it keeps advancing until showdown.
func (h *Hand) advancePhase() error {
	for {
		switch h.Phase {
		case PreFlop:
			if err := h.dealCommunity(3); err != nil {
				return err
			}
			h.Phase = Flop
		case Flop:
			if err := h.dealCommunity(1); err != nil {
				return err
			}
			h.Phase = Turn
		case Turn:
			if err := h.dealCommunity(1); err != nil {
				return err
			}
			h.Phase = River
		case River:
			h.Phase = Showdown
			h.settle()
			return nil
		case Showdown:
			return nil
		}

		for _, p := range h.Players {
			p.Bet = 0
		}
		h.CurrentBet = 0
		h.Turn = h.nextActor(h.Dealer + 1)

		h.logger.Debug("phase advanced", "phase", h.Phase, "board", h.Community)

		if h.canActCount() >= 2 {
			return nil
		}
	}
}

func (h *Hand) dealCommunity(n int) error {
	cards, err := h.deck.Draw(n)
	if err != nil {
		return fmt.Errorf("dealing community cards: %w", err)
	}
	h.Community = append(h.Community, cards...)
	return nil
}

// settle runs side-pot settlement at showdown. The phase machine
// guarantees five community cards are on the board by now.
func (h *Hand) settle() {
	h.Results = settlePots(h.Players, h.Community, h.Dealer, h.logger)
	h.Pot = 0
	h.Turn = -1
	for _, r := range h.Results {
		h.logger.Info("pot awarded", "amount", r.Amount, "winners", r.Winners)
	}
}

// settleLastStanding awards everything to the only player left and
// skips any remaining betting rounds.
func (h *Hand) settleLastStanding(winner *Player) {
	winner.Chips += h.Pot
	h.Results = []PotResult{{
		Amount:   h.Pot,
		Eligible: []string{winner.Name},
		Winners:  []string{winner.Name},
	}}
	h.logger.Info("pot awarded uncontested", "amount", h.Pot, "winner", winner.Name)
	h.Pot = 0
	h.Phase = Showdown
	h.Turn = -1
}

// Abort unwinds an unfinished hand by refunding every player's
// contribution. Used when the table drops below minimum seating or an
// internal fault makes the hand unplayable.
func (h *Hand) Abort() {
	for _, p := range h.Players {
		p.Chips += p.TotalBet
		p.TotalBet = 0
		p.Bet = 0
	}
	h.Pot = 0
	h.Phase = Showdown
	h.Turn = -1
	h.logger.Warn("hand aborted, contributions refunded")
}

// IsComplete reports whether the hand has reached showdown.
func (h *Hand) IsComplete() bool {
	return h.Phase == Showdown
}

// CurrentTurn returns the name of the player due to act, or "" when
// no one is.
func (h *Hand) CurrentTurn() string {
	if h.Turn < 0 || h.Turn >= len(h.Players) {
		return ""
	}
	return h.Players[h.Turn].Name
}

// lastActive returns the sole remaining active player, or nil when
// more than one (or none) remain.
func (h *Hand) lastActive() *Player {
	var last *Player
	for _, p := range h.Players {
		if p.Active {
			if last != nil {
				return nil
			}
			last = p
		}
	}
	return last
}

// nextActor scans circularly from seat for the next player able to
// act, skipping folded and all-in players. Returns -1 when none can.
func (h *Hand) nextActor(from int) int {
	n := len(h.Players)
	for i := 0; i < n; i++ {
		pos := ((from + i) % n + n) % n
		if h.Players[pos].CanAct() {
			return pos
		}
	}
	return -1
}

func (h *Hand) canActCount() int {
	count := 0
	for _, p := range h.Players {
		if p.CanAct() {
			count++
		}
	}
	return count
}

func (h *Hand) indexOf(name string) int {
	for i, p := range h.Players {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
