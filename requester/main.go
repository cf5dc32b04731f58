package main

import (
	"fmt"
	"os"

	"github.com/carbonx-fi/avs/requester/task"
)

// main runs the requester demo: "caller" opens verification tasks on an
// interval, "monitor" tails and prints ledger events.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("please provide a parameter: caller or monitor")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "caller":
		task.RunCaller()
	case "monitor":
		task.RunMonitor()
	default:
		fmt.Println("please input param: caller or monitor")
		os.Exit(1)
	}
}
