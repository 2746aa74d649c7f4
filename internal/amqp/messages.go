package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"budget/internal/core"
)

var ErrInvalidMessage = errors.New("invalid entry recorded message")

// EntryRecordedMessage announces one entry appended to a category ledger.
// It carries the whole entry so consumers never query the producer.
type EntryRecordedMessage struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Seq         int       `json:"seq"`
	AmountCents int64     `json:"amount_cents"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewEntryRecordedMessage builds a message from a recorded entry. A zero
// RecordedAt is stamped with the current time.
func NewEntryRecordedMessage(r core.Record) *EntryRecordedMessage {
	ts := r.RecordedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return &EntryRecordedMessage{
		ID:          r.ID,
		Category:    r.Category,
		Seq:         r.Seq,
		AmountCents: r.Amount.Cents,
		Description: r.Description,
		Timestamp:   ts,
	}
}

// Record converts the message back into a core.Record.
func (m *EntryRecordedMessage) Record() core.Record {
	return core.Record{
		ID:          m.ID,
		Category:    m.Category,
		Seq:         m.Seq,
		Amount:      core.Cents(m.AmountCents),
		Description: m.Description,
		RecordedAt:  m.Timestamp,
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryRecordedMessageFromJSON decodes and checks a message body.
func EntryRecordedMessageFromJSON(data []byte) (*EntryRecordedMessage, error) {
	var msg EntryRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" || msg.Category == "" || msg.Seq < 1 {
		return nil, fmt.Errorf("%w: id=%q category=%q seq=%d", ErrInvalidMessage, msg.ID, msg.Category, msg.Seq)
	}
	return &msg, nil
}
