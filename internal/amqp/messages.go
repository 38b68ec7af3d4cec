package amqp

import (
	"encoding/json"
	"time"

	"bilancio/internal/core"
)

// StatusTransitionMessage announces that a stored transaction's effective
// status differs from its persisted status. The worker consumes these and
// batches the write-back; readers never update storage themselves.
type StatusTransitionMessage struct {
	TransactionID string      `json:"transaction_id"`
	From          core.Status `json:"from"`
	To            core.Status `json:"to"`
	Observed      time.Time   `json:"observed"`
}

// NewStatusTransitionMessage creates a transition message stamped now.
func NewStatusTransitionMessage(id string, from, to core.Status) *StatusTransitionMessage {
	return &StatusTransitionMessage{
		TransactionID: id,
		From:          from,
		To:            to,
		Observed:      time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *StatusTransitionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// StatusTransitionMessageFromJSON creates a message from JSON bytes
func StatusTransitionMessageFromJSON(data []byte) (*StatusTransitionMessage, error) {
	var msg StatusTransitionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
