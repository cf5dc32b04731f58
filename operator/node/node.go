package node

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/carbonx-fi/avs/ledger"
)

// LedgerClient is what the node consumes from the external ledger: its
// position, creation events over a range, task records, and a way to submit
// a signed response whose outcome is observable.
type LedgerClient interface {
	LedgerID(ctx context.Context) (common.Address, error)
	Height(ctx context.Context) (uint64, error)
	Events(ctx context.Context, from, to uint64) ([]ledger.Event, uint64, error)
	GetTask(ctx context.Context, kind ledger.TaskKind, taskID uint64) (ledger.Task, error)
	Respond(ctx context.Context, kind ledger.TaskKind, taskID uint64, operator common.Address, payload ledger.ResponsePayload, sig []byte) error
}

// Node watches the ledger for new verification tasks and turns them into
// signed responses. Each task kind is scanned by its own goroutine with its
// own cursor and processed-set; the kinds never share mutable state.
type Node struct {
	client   LedgerClient
	key      *ecdsa.PrivateKey
	address  common.Address
	ledgerID common.Address

	deciders map[ledger.TaskKind]Decider
	proofs   ProofStore

	poll          time.Duration
	submitTimeout time.Duration

	log      *zap.SugaredLogger
	registry *prometheus.Registry
	metrics  *metrics
}

// NewNode builds a node from a hex-encoded operator key. The mock deciders
// and the content-addressed proof store are wired by default; both are
// external collaborators in the protocol.
func NewNode(cli LedgerClient, keyHex string, poll, submitTimeout time.Duration, log *zap.SugaredLogger) (*Node, error) {
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("parse operator key: %w", err)
	}
	reg := prometheus.NewRegistry()
	return &Node{
		client:  cli,
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		deciders: map[ledger.TaskKind]Decider{
			ledger.KindIdentity: IdentityDecider{},
			ledger.KindProject:  ProjectDecider{},
		},
		proofs:        ContentStore{},
		poll:          poll,
		submitTimeout: submitTimeout,
		log:           log,
		registry:      reg,
		metrics:       newMetrics(reg),
	}, nil
}

// MetricsHandler serves the node's counters for scraping.
func (n *Node) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(n.registry, promhttp.HandlerOpts{})
}

// Address returns the operator identity responses are submitted under.
func (n *Node) Address() common.Address {
	return n.address
}

// Run starts one watcher per task kind and blocks until ctx is cancelled
// and every watcher has drained, so an in-flight submission's outcome is
// always logged before exit.
func (n *Node) Run(ctx context.Context) error {
	id, err := n.client.LedgerID(ctx)
	if err != nil {
		return fmt.Errorf("fetch ledger identity: %w", err)
	}
	n.ledgerID = id
	n.log.Infow("operator node starting", "operator", n.address.Hex(), "ledger", id.Hex())

	var wg sync.WaitGroup
	for _, kind := range []ledger.TaskKind{ledger.KindIdentity, ledger.KindProject} {
		wg.Add(1)
		go func(kind ledger.TaskKind) {
			defer wg.Done()
			n.watch(ctx, kind)
		}(kind)
	}
	wg.Wait()
	return nil
}
