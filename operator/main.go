package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/carbonx-fi/avs/client"
	"github.com/carbonx-fi/avs/operator/core"
	"github.com/carbonx-fi/avs/operator/node"
)

// main runs the operator watcher until interrupted. In-flight submissions
// finish (or report) before exit.
func main() {
	core.Load("env.toml")

	cli := client.New(core.C.Gateway.Url)
	n, err := node.NewNode(cli, core.C.Operator.PrivateKey,
		time.Duration(core.C.Operator.PollInterval)*time.Second,
		time.Duration(core.C.Operator.SubmitTimeout)*time.Second,
		core.L)
	if err != nil {
		core.L.Fatalw("failed to build node", "err", err)
	}

	if host := core.C.Operator.MetricsHost; host != "" {
		go func() {
			core.L.Infof("Serving metrics at {%s}", host)
			mux := http.NewServeMux()
			mux.Handle("/metrics", n.MetricsHandler())
			if err := http.ListenAndServe(host, mux); err != nil {
				core.L.Errorw("metrics listener stopped", "err", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := n.Run(ctx); err != nil {
		core.L.Fatalw("node exited", "err", err)
	}
}
