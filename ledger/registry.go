package ledger

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Operator membership is policy owned by the staking/registration side; the
// state machine only consults it as a predicate. Nothing here stops an
// operator from requesting a task about itself and then responding to it:
// the single-operator trust model leaves that to the key holder.

// IsOperator reports whether addr is currently authorized to respond.
func (l *Ledger) IsOperator(addr common.Address) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.operators[addr]
}

// RegisterOperator authorizes addr to submit responses. Owner only.
func (l *Ledger) RegisterOperator(caller, addr common.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return ErrNotOwner
	}
	l.operators[addr] = true
	return nil
}

// DeregisterOperator deactivates addr. The entry is kept so results already
// verified by it stay attributable.
func (l *Ledger) DeregisterOperator(caller, addr common.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return ErrNotOwner
	}
	if _, ok := l.operators[addr]; ok {
		l.operators[addr] = false
	}
	return nil
}

// AddRequester authorizes addr to open project tasks. While the requester
// set is empty, project task creation is open to anyone.
func (l *Ledger) AddRequester(caller, addr common.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return ErrNotOwner
	}
	l.requesters[addr] = true
	return nil
}

// RemoveRequester removes addr from the authorized requester set.
func (l *Ledger) RemoveRequester(caller, addr common.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return ErrNotOwner
	}
	delete(l.requesters, addr)
	return nil
}

// SetExpiryThreshold sets the response window in blocks. Owner only.
func (l *Ledger) SetExpiryThreshold(caller common.Address, blocks uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return ErrNotOwner
	}
	l.expiryThreshold = blocks
	return nil
}

// SetResultTTL sets how long a committed identity result stays valid.
func (l *Ledger) SetResultTTL(caller common.Address, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return ErrNotOwner
	}
	l.resultTTL = ttl
	return nil
}
