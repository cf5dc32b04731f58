// Package svc tails the committed-response queue and keeps per-operator
// attestation tallies, feeding whatever reward accounting runs downstream.
package svc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/carbonx-fi/avs/gateway/core"
)

type Relay struct {
	rdb *redis.Client
	log *zap.SugaredLogger
}

func NewRelay(rdb *redis.Client, log *zap.SugaredLogger) *Relay {
	return &Relay{rdb: rdb, log: log}
}

// Run blocks on the response queue until ctx is cancelled. Malformed or
// duplicate records are dropped with a log line; the loop itself never
// terminates on an error.
func (r *Relay) Run(ctx context.Context) {
	r.log.Info("relay: tailing response queue")
	for {
		results, err := r.rdb.BLPop(ctx, 0, core.PkResponseQueue).Result()
		if err != nil {
			if ctx.Err() != nil {
				r.log.Info("relay: stopped")
				return
			}
			r.log.Errorw("relay: failed to read response queue", "err", err)
			continue
		}

		var record core.ResponseRecord
		if err := json.Unmarshal([]byte(results[1]), &record); err != nil {
			r.log.Errorw("relay: failed to parse response record", "err", err)
			continue
		}
		r.tally(ctx, record)
	}
}

func (r *Relay) tally(ctx context.Context, record core.ResponseRecord) {
	seenKey := fmt.Sprintf("%s:%d", record.Kind, record.TaskId)
	added, err := r.rdb.SAdd(ctx, core.PkSeenTask, seenKey).Result()
	if err != nil {
		r.log.Errorw("relay: dedup check failed", "task", seenKey, "err", err)
		return
	}
	if added == 0 {
		r.log.Debugw("relay: task already tallied", "task", seenKey)
		return
	}

	tallyKey := core.PkOperatorTally + record.Operator
	count, err := r.rdb.Incr(ctx, tallyKey).Result()
	if err != nil {
		r.log.Errorw("relay: tally update failed", "operator", record.Operator, "err", err)
		return
	}
	r.log.Infow("relay: attestation recorded",
		"kind", record.Kind, "taskId", record.TaskId,
		"operator", record.Operator, "total", count)
}
