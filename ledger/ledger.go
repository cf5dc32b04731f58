package ledger

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// DefaultExpiryThreshold is the task response window in blocks.
	DefaultExpiryThreshold = 7200
	// DefaultResultTTL is how long an identity verification stays valid.
	DefaultResultTTL = 365 * 24 * time.Hour
)

// Ledger is the authoritative task/result state. It stands in for the
// on-chain contract: every mutating call is one transaction, applied
// atomically under a single writer lock, and history is append-only.
type Ledger struct {
	mu sync.Mutex

	id    common.Address
	owner common.Address

	height          uint64
	expiryThreshold uint64
	resultTTL       time.Duration
	now             func() time.Time

	seq   map[TaskKind]uint64
	tasks map[TaskKind]map[uint64]*Task

	identityResults map[common.Address]*Result
	projectResults  map[uint64]*Result

	// operators holds every address ever registered; the bool marks
	// whether it is currently active. Deregistered operators stay in the
	// map so historical VerifiedBy values remain resolvable.
	operators  map[common.Address]bool
	requesters map[common.Address]bool

	events []Event
}

// New returns an empty ledger owned by owner. id scopes every signature to
// this deployment instance (a response signed for one ledger never verifies
// against another).
func New(id, owner common.Address) *Ledger {
	return &Ledger{
		id:              id,
		owner:           owner,
		expiryThreshold: DefaultExpiryThreshold,
		resultTTL:       DefaultResultTTL,
		now:             time.Now,
		seq:             map[TaskKind]uint64{},
		tasks: map[TaskKind]map[uint64]*Task{
			KindIdentity: {},
			KindProject:  {},
		},
		identityResults: map[common.Address]*Result{},
		projectResults:  map[uint64]*Result{},
		operators:       map[common.Address]bool{},
		requesters:      map[common.Address]bool{},
	}
}

// ID returns the ledger instance identity bound into canonical messages.
func (l *Ledger) ID() common.Address {
	return l.id
}

// CurrentHeight returns the ledger position used for expiry arithmetic.
func (l *Ledger) CurrentHeight() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.height
}

// AdvanceHeight moves the chain forward by n blocks.
func (l *Ledger) AdvanceHeight(n uint64) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.height += n
	return l.height
}
