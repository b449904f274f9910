package amqp

import (
	"encoding/json"
	"time"
)

// EntityKind names the record type an event refers to.
type EntityKind string

const (
	KindCashAccount       EntityKind = "cash_account"
	KindRecurringItem     EntityKind = "recurring_item"
	KindPlannedItem       EntityKind = "planned_item"
	KindInvestmentAccount EntityKind = "investment_account"
	KindContribution      EntityKind = "investment_contribution"
	KindReceivable        EntityKind = "receivable"
	KindRepayment         EntityKind = "receivable_repayment"
	KindDebt              EntityKind = "debt"
	KindReferenceRate     EntityKind = "debt_reference_rate"
	KindExtraPayment      EntityKind = "debt_extra_payment"
)

// ChangeAction is the mutation that triggered an event.
type ChangeAction string

const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
	ActionDeleted ChangeAction = "deleted"
)

// EntityChangeMessage is a lightweight notification that an entity record
// changed. Consumers fetch the full record from storage when they need it.
type EntityChangeMessage struct {
	Kind      EntityKind   `json:"kind"`
	ID        int64        `json:"id"`
	Action    ChangeAction `json:"action"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewEntityChangeMessage creates a change notification for one record.
func NewEntityChangeMessage(kind EntityKind, id int64, action ChangeAction) *EntityChangeMessage {
	return &EntityChangeMessage{
		Kind:      kind,
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *EntityChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntityChangeMessageFromJSON parses a message from JSON bytes.
func EntityChangeMessageFromJSON(data []byte) (*EntityChangeMessage, error) {
	var msg EntityChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
