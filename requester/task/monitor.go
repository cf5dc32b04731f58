package task

import (
	"context"
	"fmt"
	"time"

	"github.com/carbonx-fi/avs/client"
	"github.com/carbonx-fi/avs/ledger"
	"github.com/carbonx-fi/avs/requester/core"
)

type Monitor struct {
	cli *client.Client
}

// RunMonitor tails the ledger event stream and prints task lifecycle
// notifications, starting from the current position.
func RunMonitor() {
	core.Load("env.toml")
	m := &Monitor{cli: client.New(core.C.Gateway.Url)}
	m.Run()
}

func (m *Monitor) Run() {
	ctx := context.Background()
	cursor, err := m.cli.Height(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Println("latestBlock: ", cursor)

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		height, err := m.cli.Height(ctx)
		if err != nil {
			fmt.Println("height query failed: ", err)
			continue
		}
		if height <= cursor {
			continue
		}
		evts, served, err := m.cli.Events(ctx, cursor, height)
		if err != nil {
			fmt.Println("event query failed: ", err)
			continue
		}
		for _, evt := range evts {
			switch evt.Type {
			case ledger.EventTaskCreated:
				fmt.Printf("[TaskCreated] position: %d, kind: %s, taskId: %s, subject: %s\n",
					evt.Position, evt.Attrs["kind"], evt.Attrs["taskId"], evt.Attrs["subject"])
			case ledger.EventTaskResponded:
				fmt.Printf("[TaskResponded] position: %d, kind: %s, taskId: %s, operator: %s, level: %s, amount: %s\n",
					evt.Position, evt.Attrs["kind"], evt.Attrs["taskId"], evt.Attrs["operator"], evt.Attrs["level"], evt.Attrs["amount"])
			default:
				fmt.Printf("Unknown event type. evt: %+v\n", evt)
			}
		}
		cursor = served
	}
}
