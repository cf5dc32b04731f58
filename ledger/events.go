package ledger

const (
	EventTaskCreated   = "TaskCreated"
	EventTaskResponded = "TaskResponded"
)

// MaxEventWindow caps how many positions one Events query may span, so a
// watcher that fell far behind catches up across multiple polls instead of
// issuing one unbounded scan.
const MaxEventWindow = 1000

// Event is one append-only notification record stamped with the position
// it seals with.
type Event struct {
	Position uint64            `json:"position"`
	Type     string            `json:"type"`
	Attrs    map[string]string `json:"attrs"`
}

// appendEventLocked publishes into the next position to close, the way a
// transaction submitted at head H lands in block H+1. Events never serves
// the open head, so a notification becomes visible exactly once its
// position is sealed — a watcher that has drained up to the head cannot
// miss a mutation racing with its scan.
func (l *Ledger) appendEventLocked(evtType string, attrs map[string]string) {
	l.events = append(l.events, Event{
		Position: l.height + 1,
		Type:     evtType,
		Attrs:    attrs,
	})
}

// Events returns events in the half-open position range (from, to], clamped
// to the last sealed position. Ranges wider than MaxEventWindow are
// truncated at from+MaxEventWindow; callers advance their cursor to the end
// of the window actually served.
func (l *Ledger) Events(from, to uint64) ([]Event, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if to > l.height {
		to = l.height
	}
	if to <= from {
		return nil, from
	}
	if to-from > MaxEventWindow {
		to = from + MaxEventWindow
	}

	var out []Event
	for _, evt := range l.events {
		if evt.Position > from && evt.Position <= to {
			out = append(out, evt)
		}
	}
	return out, to
}
