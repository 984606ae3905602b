// Package protocol defines the boundary messages exchanged with
// clients. Messages travel as a JSON envelope carrying a type tag and
// a type-specific payload.
package protocol

import "encoding/json"

// MessageType identifies the type of message
type MessageType string

const (
	// Client -> Server
	TypeAction MessageType = "action"

	// Server -> Client
	TypeTableAssigned MessageType = "table_assigned"
	TypeTableUpdate   MessageType = "table_update"
	TypeStart         MessageType = "start"
	TypeGameCancelled MessageType = "game_cancelled"
	TypeUpdate        MessageType = "update"
	TypeHand          MessageType = "hand"
	TypeHandResult    MessageType = "hand_result"
	TypeError         MessageType = "error"
)

// Message is the wire envelope for all messages.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// NewMessage wraps a payload in an envelope.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{Type: messageType, Data: raw}, nil
}

// Client -> Server Messages

// ActionData is a player's move in the hand in progress.
type ActionData struct {
	Action string `json:"action"` // "bet" or "fold"
	Amount int    `json:"amount,omitempty"`
}

// Server -> Client Messages

// TableAssignedData tells a connection which table it sits at.
type TableAssignedData struct {
	TableID string `json:"table_id"`
}

// TableUpdateData is a seating snapshot.
type TableUpdateData struct {
	Seated  []string `json:"seated"`
	Waiting []string `json:"waiting"`
}

// StartData announces a hand start.
type StartData struct {
	Message string `json:"message"`
}

// GameCancelledData announces that a pending start was called off.
type GameCancelledData struct {
	Message string `json:"message"`
}

// PlayerView is the public view of a player. Hole cards are private
// and never appear here.
type PlayerView struct {
	Name       string `json:"name"`
	Chips      int    `json:"chips"`
	CurrentBet int    `json:"current_bet"`
	Active     bool   `json:"active"`
}

// UpdateData is a broadcast snapshot of the hand in progress.
type UpdateData struct {
	Message        string       `json:"message,omitempty"`
	Players        []PlayerView `json:"players"`
	Pot            int          `json:"pot"`
	Phase          string       `json:"phase"`
	CurrentTurn    string       `json:"current_turn,omitempty"`
	CommunityCards []string     `json:"community_cards"`
}

// HandData carries a player's private hole cards. Sent only to the
// owning connection.
type HandData struct {
	Cards []string `json:"cards"`
}

// PotResultData reports the outcome of one pot layer.
type PotResultData struct {
	Amount  int      `json:"amount"`
	Winners []string `json:"winners"`
}

// HandResultData reports showdown settlement.
type HandResultData struct {
	HandID string          `json:"hand_id"`
	Pots   []PotResultData `json:"pots"`
}

// ErrorData reports a failure to the offending connection only.
type ErrorData struct {
	Message string `json:"message"`
}
