package domain

// EventLog is the append-only outcome sequence of a batch. It doubles as the
// duplicate transaction id detector: every id that produced an event, approved or
// declined, is taken.
type EventLog struct {
	events []Event
	seen   map[string]struct{}
}

// NewEventLog creates an empty log.
func NewEventLog() *EventLog {
	return &EventLog{seen: make(map[string]struct{})}
}

// Contains reports whether an event was already recorded for transactionID.
func (l *EventLog) Contains(transactionID string) bool {
	_, ok := l.seen[transactionID]
	return ok
}

// Approve appends an APPROVED event.
func (l *EventLog) Approve(transactionID string) {
	l.append(Event{TransactionID: transactionID, Status: EventStatusApproved, Message: ApprovedMessage})
}

// Decline appends a DECLINED event with the given reason.
func (l *EventLog) Decline(transactionID, reason string) {
	l.append(Event{TransactionID: transactionID, Status: EventStatusDeclined, Message: reason})
}

func (l *EventLog) append(e Event) {
	l.events = append(l.events, e)
	l.seen[e.TransactionID] = struct{}{}
}

// Events returns the events in processing order.
func (l *EventLog) Events() []Event {
	return l.events
}

// Len returns the number of recorded events.
func (l *EventLog) Len() int {
	return len(l.events)
}
