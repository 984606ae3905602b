// Package table contains the per-table orchestrator: seating and
// waiting lists, debounced hand starts, routing of player actions
// into the betting engine, and broadcast fan-out to connections.
package table

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/holdemd/internal/deck"
	"github.com/cardroom/holdemd/internal/game"
	"github.com/cardroom/holdemd/internal/protocol"
)

// ErrTableFull is returned when a join would exceed the seat limit.
var ErrTableFull = errors.New("table is full")

// errNoHand rejects actions sent while no hand is in progress.
var errNoHand = errors.New("no hand in progress")

// Conn is the send side of a player connection. Send must not block:
// implementations buffer outbound messages and fail fast when the
// buffer is full or the peer is gone.
type Conn interface {
	Send(msg *protocol.Message) error
}

// Config is the per-table rule set.
type Config struct {
	MinPlayers int
	MaxPlayers int
	SmallBlind int
	BigBlind   int
	BuyIn      int           // starting stack for a newly seated player
	StartDelay time.Duration // debounce between reaching MinPlayers and dealing
}

// Table orchestrates one poker table. All mutations - joins,
// disconnects, timer firings, and actions - are serialized by the
// table mutex, while distinct tables progress independently. The
// table owns at most one betting engine and at most one pending
// start timer at a time.
type Table struct {
	id     string
	cfg    Config
	clock  quartz.Clock
	rng    *rand.Rand
	logger *log.Logger

	mu           sync.Mutex
	seated       []*game.Player
	waiting      []*game.Player
	conns        map[string]Conn
	dealer       int
	hand         *game.Hand
	startTimer   *quartz.Timer
	startPending bool
}

// New creates an empty table.
func New(id string, cfg Config, clock quartz.Clock, rng *rand.Rand, logger *log.Logger) *Table {
	return &Table{
		id:     id,
		cfg:    cfg,
		clock:  clock,
		rng:    rng,
		logger: logger.WithPrefix("table").With("id", id),
		conns:  make(map[string]Conn),
		dealer: -1,
	}
}

// ID returns the table identifier.
func (t *Table) ID() string {
	return t.id
}

// Join seats a player, or adds them to the waiting list when a hand
// is in progress. Joining is idempotent: a player already present
// only has their connection handle refreshed. Every join is followed
// by a seating snapshot broadcast, and the deferred start is armed
// once enough players are seated.
func (t *Table) Join(name string, conn Conn) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	present := t.findSeated(name) >= 0 || t.findWaiting(name) >= 0
	if !present && len(t.seated)+len(t.waiting) >= t.cfg.MaxPlayers {
		return ErrTableFull
	}

	t.conns[name] = conn
	if !present {
		p := game.NewPlayer(name, t.cfg.BuyIn)
		if t.hand != nil {
			t.waiting = append(t.waiting, p)
			t.logger.Info("player waiting for next hand", "player", name)
		} else {
			t.seated = append(t.seated, p)
			t.logger.Info("player seated", "player", name, "seated", len(t.seated))
		}
	}

	t.sendTo(name, protocol.TypeTableAssigned, protocol.TableAssignedData{TableID: t.id})
	t.broadcastSeating()
	t.maybeScheduleStart()
	return nil
}

// HandleAction routes an inbound action from a player into the
// betting engine. Rejections are reported only to the acting
// connection; internal faults abort the hand.
func (t *Table) HandleAction(name string, data protocol.ActionData) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hand == nil {
		t.sendError(name, errNoHand)
		return
	}

	var action game.Action
	switch data.Action {
	case "fold":
		action = game.FoldAction()
	case "bet":
		action = game.BetAction(data.Amount)
	default:
		t.sendError(name, fmt.Errorf("%w: %q", game.ErrInvalidAction, data.Action))
		return
	}

	if err := t.hand.TakeAction(name, action); err != nil {
		if game.IsRejection(err) {
			t.sendError(name, err)
			return
		}
		t.abortHand(err)
		return
	}

	t.broadcastUpdate("")
	if t.hand.IsComplete() {
		t.finishHand()
	}
}

// Disconnect removes a player's connection and unseats them. A
// pending start is cancelled when seating drops below the minimum;
// an active hand is aborted below the minimum, or continues with the
// player folded out.
func (t *Table) Disconnect(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.conns, name)
	if i := t.findWaiting(name); i >= 0 {
		t.waiting = append(t.waiting[:i], t.waiting[i+1:]...)
	}
	inHand := t.hand != nil && t.findSeated(name) >= 0
	if i := t.findSeated(name); i >= 0 {
		t.seated = append(t.seated[:i], t.seated[i+1:]...)
		if t.dealer >= len(t.seated) {
			t.dealer = len(t.seated) - 1
		}
	}
	t.logger.Info("player disconnected", "player", name, "seated", len(t.seated))
	t.broadcastSeating()

	if t.startPending && len(t.seated) < t.cfg.MinPlayers {
		t.cancelPendingStart("not enough players")
		return
	}

	if t.hand == nil {
		return
	}
	if len(t.seated) < t.cfg.MinPlayers {
		t.abortHand(fmt.Errorf("table below minimum seating"))
		return
	}
	if inHand {
		if err := t.hand.ForceFold(name); err != nil {
			t.abortHand(err)
			return
		}
		t.broadcastUpdate(fmt.Sprintf("%s folded (disconnected)", name))
		if t.hand.IsComplete() {
			t.finishHand()
		}
	}
}

// maybeScheduleStart arms the single debounce timer once the table is
// eligible: enough players seated, no hand running, no start already
// pending. The delay lets further joins coalesce into the same hand.
func (t *Table) maybeScheduleStart() {
	if t.hand != nil || t.startPending || len(t.seated) < t.cfg.MinPlayers {
		return
	}
	t.startPending = true
	t.startTimer = t.clock.AfterFunc(t.cfg.StartDelay, t.onStartTimer)
	t.logger.Info("hand start scheduled", "delay", t.cfg.StartDelay)
}

// onStartTimer fires after the debounce delay. Eligibility is
// re-checked under the lock, making hand creation single-flight with
// respect to concurrent joins, disconnects, and other start attempts.
func (t *Table) onStartTimer() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.startPending {
		return // cancelled after firing was already committed
	}
	t.startPending = false
	if t.hand != nil || len(t.seated) < t.cfg.MinPlayers {
		return
	}
	t.startHand()
}

// cancelPendingStart disarms the debounce timer and tells the table.
func (t *Table) cancelPendingStart(reason string) {
	if !t.startPending {
		return
	}
	t.startPending = false
	if t.startTimer != nil {
		t.startTimer.Stop()
		t.startTimer = nil
	}
	t.logger.Info("hand start cancelled", "reason", reason)
	t.broadcast(protocol.TypeGameCancelled, protocol.GameCancelledData{
		Message: "game cancelled: " + reason,
	})
}

// startHand rotates the dealer and creates the betting engine. Each
// player's hole cards go only to their own connection.
func (t *Table) startHand() {
	t.dealer = (t.dealer + 1) % len(t.seated)

	// The hand gets its own slice: seat removals while the hand runs
	// must not shift its player list.
	players := append([]*game.Player(nil), t.seated...)
	hand, err := game.NewHand(t.rng, players, t.dealer, t.cfg.SmallBlind, t.cfg.BigBlind, t.logger)
	if err != nil {
		t.logger.Error("failed to start hand", "error", err)
		t.broadcast(protocol.TypeError, protocol.ErrorData{Message: "failed to start hand"})
		return
	}
	t.hand = hand

	t.broadcast(protocol.TypeStart, protocol.StartData{Message: "hand started"})
	for _, p := range t.seated {
		t.sendTo(p.Name, protocol.TypeHand, protocol.HandData{Cards: cardStrings(p.Hole)})
	}
	t.broadcastUpdate("hand started")
}

// finishHand broadcasts settlement, discards the engine, merges the
// waiting list into the seats, and starts the next hand immediately
// when the table is still eligible.
func (t *Table) finishHand() {
	results := make([]protocol.PotResultData, 0, len(t.hand.Results))
	for _, r := range t.hand.Results {
		results = append(results, protocol.PotResultData{Amount: r.Amount, Winners: r.Winners})
	}
	t.broadcast(protocol.TypeHandResult, protocol.HandResultData{HandID: t.hand.ID, Pots: results})
	t.broadcastUpdate("hand complete")
	t.hand = nil

	for _, p := range t.waiting {
		if t.findSeated(p.Name) < 0 {
			t.seated = append(t.seated, p)
		}
	}
	t.waiting = nil
	t.broadcastSeating()

	if len(t.seated) >= t.cfg.MinPlayers {
		t.startHand()
	}
}

// abortHand unwinds the active hand after an internal fault or loss
// of quorum. Contributions are refunded and the table returns to
// idle; the fault stays diagnosable in the log.
func (t *Table) abortHand(cause error) {
	t.logger.Error("aborting hand", "hand", t.hand.ID, "error", cause)
	t.hand.Abort()
	t.hand = nil
	t.broadcast(protocol.TypeError, protocol.ErrorData{Message: "hand aborted: " + cause.Error()})
	t.broadcastSeating()
	t.maybeScheduleStart()
}

// broadcastUpdate sends the public hand snapshot to every connection.
// Hole cards never appear in it.
func (t *Table) broadcastUpdate(message string) {
	if t.hand == nil {
		return
	}
	players := make([]protocol.PlayerView, 0, len(t.hand.Players))
	for _, p := range t.hand.Players {
		players = append(players, protocol.PlayerView{
			Name:       p.Name,
			Chips:      p.Chips,
			CurrentBet: p.Bet,
			Active:     p.Active,
		})
	}
	t.broadcast(protocol.TypeUpdate, protocol.UpdateData{
		Message:        message,
		Players:        players,
		Pot:            t.hand.Pot,
		Phase:          t.hand.Phase.String(),
		CurrentTurn:    t.hand.CurrentTurn(),
		CommunityCards: cardStrings(t.hand.Community),
	})
}

func (t *Table) broadcastSeating() {
	t.broadcast(protocol.TypeTableUpdate, protocol.TableUpdateData{
		Seated:  playerNames(t.seated),
		Waiting: playerNames(t.waiting),
	})
}

// broadcast fans a message out to every connection. A failed send
// prunes that connection only; delivery to the rest continues and no
// game state changes.
func (t *Table) broadcast(messageType protocol.MessageType, data interface{}) {
	msg, err := protocol.NewMessage(messageType, data)
	if err != nil {
		t.logger.Error("failed to encode broadcast", "type", messageType, "error", err)
		return
	}
	for name, conn := range t.conns {
		if err := conn.Send(msg); err != nil {
			t.logger.Warn("pruning unreachable connection", "player", name, "error", err)
			delete(t.conns, name)
		}
	}
}

// sendTo delivers a message to a single player's connection.
func (t *Table) sendTo(name string, messageType protocol.MessageType, data interface{}) {
	conn, ok := t.conns[name]
	if !ok {
		return
	}
	msg, err := protocol.NewMessage(messageType, data)
	if err != nil {
		t.logger.Error("failed to encode message", "type", messageType, "error", err)
		return
	}
	if err := conn.Send(msg); err != nil {
		t.logger.Warn("pruning unreachable connection", "player", name, "error", err)
		delete(t.conns, name)
	}
}

// sendError reports a failure only to the offending connection.
func (t *Table) sendError(name string, err error) {
	t.sendTo(name, protocol.TypeError, protocol.ErrorData{Message: err.Error()})
}

func (t *Table) findSeated(name string) int {
	for i, p := range t.seated {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (t *Table) findWaiting(name string) int {
	for i, p := range t.waiting {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Seated returns the seated player names in order.
func (t *Table) Seated() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return playerNames(t.seated)
}

// Waiting returns the waiting player names in order.
func (t *Table) Waiting() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return playerNames(t.waiting)
}

// HandActive reports whether a hand is in progress.
func (t *Table) HandActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hand != nil
}

func playerNames(players []*game.Player) []string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return names
}

func cardStrings(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
