package task

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/carbonx-fi/avs/client"
	"github.com/carbonx-fi/avs/ledger"
	"github.com/carbonx-fi/avs/requester/core"
)

type Caller struct {
	cli *client.Client
}

// RunCaller loads the config and opens one verification task per interval.
func RunCaller() {
	core.Load("env.toml")
	c := &Caller{cli: client.New(core.C.Gateway.Url)}
	c.Run()
}

// Run loops forever, creating a task for the configured subject every
// interval. Creation failures are printed and the loop continues.
func (c *Caller) Run() {
	subject := common.HexToAddress(core.C.Request.Subject)
	requester := common.HexToAddress(core.C.Request.Requester)
	interval := time.Duration(core.C.Request.Interval) * time.Second

	for i := 0; ; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		requestID := fmt.Sprintf("req-%d-%d", time.Now().Unix(), i)

		var taskID uint64
		var err error
		switch core.C.Request.Kind {
		case string(ledger.KindProject):
			taskID, err = c.cli.CreateProjectTask(ctx, requester, subject,
				core.C.Request.Category, core.C.Request.Metadata, requestID)
		default:
			taskID, err = c.cli.CreateIdentityTask(ctx, subject,
				ledger.Level(core.C.Request.Level), requestID)
		}
		cancel()

		if err != nil {
			fmt.Printf("Error creating task for subject %s: %v\n", subject.Hex(), err)
		} else {
			fmt.Printf("Created %s task %d for subject %s\n", core.C.Request.Kind, taskID, subject.Hex())
		}
		time.Sleep(interval)
	}
}
