package main

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"

	"github.com/carbonx-fi/avs/gateway/api"
	"github.com/carbonx-fi/avs/gateway/core"
	"github.com/carbonx-fi/avs/gateway/svc"
	"github.com/carbonx-fi/avs/ledger"
)

// main wires the ledger, the block ticker, the relay, and the HTTP surface.
func main() {
	core.Load("env.toml")
	core.InitStore(&core.C.Database)

	ldg := newLedger()
	ctx := context.Background()
	go startBlocks(ctx, ldg)
	go startRelay(ctx)
	startHttp(ldg)
}

// newLedger builds the ledger instance from config: identity, expiry
// policy, and the operator/requester registries.
func newLedger() *ledger.Ledger {
	owner := common.HexToAddress(core.C.Chain.Owner)

	id := common.HexToAddress(core.C.Chain.LedgerId)
	if (id == common.Address{}) {
		key, err := crypto.GenerateKey()
		if err != nil {
			panic(err)
		}
		id = crypto.PubkeyToAddress(key.PublicKey)
	}

	ldg := ledger.New(id, owner)
	if core.C.Chain.ExpiryThreshold > 0 {
		if err := ldg.SetExpiryThreshold(owner, core.C.Chain.ExpiryThreshold); err != nil {
			panic(err)
		}
	}
	if core.C.Chain.ResultTTLDays > 0 {
		ttl := time.Duration(core.C.Chain.ResultTTLDays) * 24 * time.Hour
		if err := ldg.SetResultTTL(owner, ttl); err != nil {
			panic(err)
		}
	}
	for _, addr := range core.C.Chain.Operators {
		if err := ldg.RegisterOperator(owner, common.HexToAddress(addr)); err != nil {
			panic(err)
		}
	}
	for _, addr := range core.C.Chain.Requesters {
		if err := ldg.AddRequester(owner, common.HexToAddress(addr)); err != nil {
			panic(err)
		}
	}
	core.L.Infow("ledger initialized", "id", id.Hex(), "owner", owner.Hex(),
		"operators", len(core.C.Chain.Operators))
	return ldg
}

// startBlocks advances the ledger position on a fixed interval.
func startBlocks(ctx context.Context, ldg *ledger.Ledger) {
	ticker := time.NewTicker(time.Duration(core.C.Chain.BlockInterval) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ldg.AdvanceHeight(1)
		}
	}
}

// startRelay tails the committed-response queue.
func startRelay(ctx context.Context) {
	svc.NewRelay(core.S.RedisConn, core.L).Run(ctx)
}

// startHttp starts the gateway API server at the configured host.
func startHttp(ldg *ledger.Ledger) {
	if core.C.App.Env == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	srv := &api.Server{
		Ledger:  ldg,
		Redis:   core.S.RedisConn,
		Log:     core.L,
		Metrics: api.NewMetrics(),
	}
	srv.SetupRoutes(router)
	core.L.Infof("Start server at {%s}", core.C.App.Host)
	if err := router.Run(core.C.App.Host); err != nil {
		core.L.Errorf("Failed to start server due to {%s}", err)
	}
}
