package core

const (
	PkResponseQueue = "response_queue"
	PkSeenTask      = "seen_task"
	PkOperatorTally = "operator_tally:"
)
