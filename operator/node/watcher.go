package node

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/carbonx-fi/avs/ledger"
	"github.com/carbonx-fi/avs/signer"
)

// watcher is the per-kind scan state. It is owned by exactly one goroutine;
// ticks are processed inside that goroutine, so two scans of the same kind
// can never overlap.
type watcher struct {
	kind ledger.TaskKind

	// cursor is the last ledger position already scanned. Tasks created
	// before the node started are not retroactively processed.
	cursor uint64

	// processed remembers task ids this instance has already handled. It
	// is a liveness cache only: correctness against double submission
	// comes from the ledger's own TaskNotPending check.
	processed map[uint64]struct{}
}

func (n *Node) watch(ctx context.Context, kind ledger.TaskKind) {
	w := &watcher{kind: kind, processed: map[uint64]struct{}{}}

	for {
		height, err := n.client.Height(ctx)
		if err == nil {
			w.cursor = height
			break
		}
		n.log.Errorw("initial height query failed", "kind", kind, "err", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(n.poll):
		}
	}
	n.log.Infow("watching for tasks", "kind", kind, "from", w.cursor)

	ticker := time.NewTicker(n.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			n.log.Infow("watcher stopped", "kind", kind, "cursor", w.cursor)
			return
		case <-ticker.C:
			n.scanOnce(ctx, w)
		}
	}
}

// scanOnce polls one event window. On a failed query the cursor stays put
// and the same range is retried next tick; no range is ever skipped.
func (n *Node) scanOnce(ctx context.Context, w *watcher) {
	height, err := n.client.Height(ctx)
	if err != nil {
		n.log.Errorw("height query failed", "kind", w.kind, "err", err)
		return
	}
	if height <= w.cursor {
		return
	}

	evts, served, err := n.client.Events(ctx, w.cursor, height)
	if err != nil {
		n.log.Errorw("event query failed", "kind", w.kind, "from", w.cursor, "to", height, "err", err)
		return
	}

	for _, evt := range evts {
		if evt.Type != ledger.EventTaskCreated || evt.Attrs["kind"] != string(w.kind) {
			continue
		}
		taskID, err := strconv.ParseUint(evt.Attrs["taskId"], 10, 64)
		if err != nil {
			n.log.Errorw("bad taskId attribute", "kind", w.kind, "attr", evt.Attrs["taskId"])
			continue
		}
		if _, done := w.processed[taskID]; done {
			continue
		}
		// Mark before submitting so an overlapping discovery of the same
		// id can never double-submit, and a permanently rejected task is
		// never spun on.
		w.processed[taskID] = struct{}{}
		n.metrics.observed.WithLabelValues(string(w.kind)).Inc()
		n.handleTask(ctx, w.kind, taskID)
	}
	w.cursor = served
}

// handleTask runs decide/prove/sign/submit for one task. Every failure path
// is terminal for the attempt: logged, counted, never retried.
func (n *Node) handleTask(ctx context.Context, kind ledger.TaskKind, taskID uint64) {
	cctx, cancel := context.WithTimeout(ctx, n.submitTimeout)
	defer cancel()

	task, err := n.client.GetTask(cctx, kind, taskID)
	if err != nil {
		n.log.Errorw("task fetch failed", "kind", kind, "taskId", taskID, "err", err)
		n.metrics.failed.WithLabelValues(string(kind)).Inc()
		return
	}
	if task.Status != ledger.StatusPending {
		n.log.Debugw("task no longer pending, skipping", "kind", kind, "taskId", taskID, "status", task.Status)
		return
	}

	payload, evidence, err := n.deciders[kind].Decide(task)
	if errors.Is(err, ErrVerificationDeclined) {
		n.log.Infow("verification declined", "kind", kind, "taskId", taskID)
		n.metrics.declined.WithLabelValues(string(kind)).Inc()
		return
	}
	if err != nil {
		n.log.Errorw("decision failed", "kind", kind, "taskId", taskID, "err", err)
		n.metrics.failed.WithLabelValues(string(kind)).Inc()
		return
	}

	uri, err := n.proofs.Put(evidence)
	if err != nil {
		n.log.Errorw("proof upload failed", "kind", kind, "taskId", taskID, "err", err)
		n.metrics.failed.WithLabelValues(string(kind)).Inc()
		return
	}
	payload.ProofURI = uri

	msg := signer.TaskMessage(string(kind), taskID, task.Subject,
		uint8(payload.Level), payload.Score, payload.Amount, payload.ProofURI, n.ledgerID)
	sig, err := signer.Sign(n.key, msg)
	if err != nil {
		n.log.Errorw("signing failed", "kind", kind, "taskId", taskID, "err", err)
		n.metrics.failed.WithLabelValues(string(kind)).Inc()
		return
	}

	if err := n.client.Respond(cctx, kind, taskID, n.address, payload, sig); err != nil {
		n.log.Errorw("submission failed", "kind", kind, "taskId", taskID, "err", err)
		n.metrics.failed.WithLabelValues(string(kind)).Inc()
		return
	}
	n.log.Infow("response submitted", "kind", kind, "taskId", taskID,
		"level", payload.Level, "amount", payload.Amount, "proof", payload.ProofURI)
	n.metrics.submitted.WithLabelValues(string(kind)).Inc()
}
