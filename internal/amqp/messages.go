package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"ghginventory/internal/core"
)

// SummaryComputedMessage announces a freshly computed inventory summary.
// It carries the whole summary so consumers never need the source file.
type SummaryComputedMessage struct {
	ID        string       `json:"id"`
	Source    string       `json:"source"`
	Records   int          `json:"records"`
	Timestamp time.Time    `json:"timestamp"`
	Summary   core.Summary `json:"summary"`
}

// NewSummaryComputedMessage builds the event for a snapshot.
func NewSummaryComputedMessage(snap core.Snapshot) *SummaryComputedMessage {
	return &SummaryComputedMessage{
		ID:        snap.ID,
		Source:    snap.Source,
		Records:   snap.Records,
		Timestamp: time.Now(),
		Summary:   snap.Summary,
	}
}

// Snapshot converts the message back into a snapshot without a preview.
func (m *SummaryComputedMessage) Snapshot() core.Snapshot {
	return core.Snapshot{
		ID:        m.ID,
		Source:    m.Source,
		CreatedAt: m.Timestamp,
		Records:   m.Records,
		Summary:   m.Summary,
	}
}

// ToJSON converts the message to JSON bytes
func (m *SummaryComputedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SummaryComputedMessageFromJSON decodes and validates a message.
func SummaryComputedMessageFromJSON(data []byte) (*SummaryComputedMessage, error) {
	var msg SummaryComputedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, errors.New("summary message without id")
	}
	return &msg, nil
}
